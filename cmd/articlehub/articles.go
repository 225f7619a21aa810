package main

import (
	"fmt"
	"os"
	"strconv"

	"articlehub/internal/model"

	"github.com/spf13/cobra"
)

var (
	listPage   int
	listLimit  int
	listSearch string
	listStatus string

	inTitle  string
	inAuthor string
	inStatus string

	updateStatus string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := newClient().List(cmd.Context(), model.Filter{
			Page:   listPage,
			Limit:  listLimit,
			Search: listSearch,
			Status: model.Status(listStatus),
		})
		if err != nil {
			return err
		}
		renderPage(os.Stdout, page, !noColor)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an article",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		article, err := newClient().Create(cmd.Context(), input(inStatus))
		if err != nil {
			return err
		}
		renderArticle(os.Stdout, "Created", article, !noColor)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace an article's title, author and status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		article, err := newClient().Update(cmd.Context(), id, input(updateStatus))
		if err != nil {
			return err
		}
		renderArticle(os.Stdout, "Updated", article, !noColor)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		if err := newClient().Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted article %d\n", id)
		return nil
	},
}

func input(status string) model.ArticleInput {
	return model.ArticleInput{
		Title:  inTitle,
		Author: inAuthor,
		Status: model.Status(status),
	}
}

func parseIDArg(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid article id %q", raw)
	}
	return id, nil
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", model.DefaultPage, "Page number")
	listCmd.Flags().IntVar(&listLimit, "limit", model.DefaultLimit, "Articles per page")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Case-insensitive title search")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Published, Draft or All")

	for _, cmd := range []*cobra.Command{addCmd, updateCmd} {
		cmd.Flags().StringVar(&inTitle, "title", "", "Article title")
		cmd.Flags().StringVar(&inAuthor, "author", "", "Article author")
		_ = cmd.MarkFlagRequired("title")
		_ = cmd.MarkFlagRequired("author")
	}
	addCmd.Flags().StringVar(&inStatus, "status", string(model.StatusDraft), "Published or Draft")
	// Update replaces every field, so status has no default there.
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "Published or Draft")
	_ = updateCmd.MarkFlagRequired("status")
}
