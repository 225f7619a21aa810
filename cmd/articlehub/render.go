package main

import (
	"fmt"
	"io"
	"strconv"

	"articlehub/internal/model"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const dateLayout = "2006-01-02 15:04"

func statusLabel(s model.Status, useColor bool) string {
	var c *color.Color
	switch s {
	case model.StatusPublished:
		c = color.New(color.FgGreen)
	case model.StatusDraft:
		c = color.New(color.FgYellow)
	default:
		return string(s)
	}
	if useColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(string(s))
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func articleRow(a model.Article, useColor bool) []string {
	created := "-"
	if !a.CreatedAt.IsZero() {
		created = a.CreatedAt.Format(dateLayout)
	}
	return []string{strconv.Itoa(a.ID), a.Title, a.Author, statusLabel(a.Status, useColor), created}
}

var articleHeader = []string{"ID", "Title", "Author", "Status", "Created"}

func renderPage(w io.Writer, page *model.ArticlePage, useColor bool) {
	if len(page.Articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
	} else {
		rows := make([][]string, 0, len(page.Articles))
		for _, a := range page.Articles {
			rows = append(rows, articleRow(a, useColor))
		}
		table := newTable(w)
		table.Header(articleHeader)
		table.Bulk(rows)
		table.Render()
	}

	pages := 1
	if page.Limit > 0 && page.Total > 0 {
		pages = (page.Total + page.Limit - 1) / page.Limit
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d articles)\n", page.Page, pages, page.Total)
}

func renderArticle(w io.Writer, verb string, a *model.Article, useColor bool) {
	fmt.Fprintf(w, "%s article %d\n", verb, a.ID)
	table := newTable(w)
	table.Header(articleHeader)
	table.Bulk([][]string{articleRow(*a, useColor)})
	table.Render()
}
