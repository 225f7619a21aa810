package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"articlehub/internal/airtable"
	"articlehub/internal/model"

	"go.uber.org/zap"
)

// fakeAirtable is an in-memory stand-in for one Airtable table. It returns
// records in insertion order and pages them with its own page size so that
// offset cursors get exercised.
type fakeAirtable struct {
	mu       sync.Mutex
	records  []airtable.Record
	seq      int
	pageSize int
	formulas []string

	listCalls atomic.Int32
	failList  atomic.Bool
}

func newFakeAirtable(t *testing.T, pageSize int) (*fakeAirtable, *airtable.Client) {
	t.Helper()
	fa := &fakeAirtable{pageSize: pageSize}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v0/app/tbl", fa.list)
	mux.HandleFunc("POST /v0/app/tbl", fa.create)
	mux.HandleFunc("PATCH /v0/app/tbl/{id}", fa.update)
	mux.HandleFunc("DELETE /v0/app/tbl/{id}", fa.delete)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := airtable.NewClient(airtable.Config{
		BaseURI: srv.URL + "/v0",
		BaseID:  "app",
		TableID: "tbl",
		APIKey:  "key",
		Timeout: 5 * time.Second,
	}, zap.NewNop(), nil)
	return fa, client
}

func (fa *fakeAirtable) add(title, author string, status model.Status, createdAt time.Time) string {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	fa.seq++
	id := fmt.Sprintf("rec%011d", fa.seq)
	fa.records = append(fa.records, airtable.Record{
		ID: id,
		Fields: airtable.Fields{
			Title:     title,
			Author:    author,
			Status:    string(status),
			CreatedAt: createdAt.UTC().Format(time.RFC3339),
		},
	})
	return id
}

func (fa *fakeAirtable) len() int {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	return len(fa.records)
}

func (fa *fakeAirtable) list(w http.ResponseWriter, r *http.Request) {
	fa.listCalls.Add(1)
	if fa.failList.Load() {
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	fa.mu.Lock()
	defer fa.mu.Unlock()

	q := r.URL.Query()
	if q.Get("offset") == "" {
		fa.formulas = append(fa.formulas, q.Get("filterByFormula"))
	}

	start, _ := strconv.Atoi(q.Get("offset"))
	end := start + fa.pageSize
	resp := struct {
		Records []airtable.Record `json:"records"`
		Offset  string            `json:"offset,omitempty"`
	}{}
	if end < len(fa.records) {
		resp.Offset = strconv.Itoa(end)
	} else {
		end = len(fa.records)
	}
	resp.Records = append([]airtable.Record{}, fa.records[start:end]...)
	json.NewEncoder(w).Encode(resp)
}

func (fa *fakeAirtable) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Fields airtable.Fields `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	f := body.Fields
	fa.add(f.Title, f.Author, model.Status(f.Status), time.Now())

	fa.mu.Lock()
	rec := fa.records[len(fa.records)-1]
	fa.mu.Unlock()
	json.NewEncoder(w).Encode(rec)
}

func (fa *fakeAirtable) update(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Fields airtable.Fields `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	fa.mu.Lock()
	defer fa.mu.Unlock()
	for i := range fa.records {
		if fa.records[i].ID == r.PathValue("id") {
			createdAt := fa.records[i].Fields.CreatedAt
			fa.records[i].Fields = body.Fields
			fa.records[i].Fields.CreatedAt = createdAt
			json.NewEncoder(w).Encode(fa.records[i])
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (fa *fakeAirtable) delete(w http.ResponseWriter, r *http.Request) {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	for i := range fa.records {
		if fa.records[i].ID == r.PathValue("id") {
			fa.records = append(fa.records[:i], fa.records[i+1:]...)
			fmt.Fprintf(w, `{"deleted":true,"id":%q}`, r.PathValue("id"))
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}
