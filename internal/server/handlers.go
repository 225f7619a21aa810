package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"articlehub/internal/apperr"
	"articlehub/internal/model"
	"articlehub/internal/sanitize"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// fail logs a backend error and reports it as a 500 carrying the error's
// own message. NotFound is not special-cased.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, fallback string, fields ...zap.Field) {
	fields = append(fields,
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.String("kind", string(apperr.KindOf(err))),
		zap.Error(err))
	s.logger.Error(fallback, fields...)
	writeError(w, http.StatusInternalServerError, apperr.MessageOf(err, fallback))
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parseID(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return 0, apperr.Validation("Missing article id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("Invalid article id: " + raw)
	}
	return id, nil
}

// decodeInput reads and validates an ArticleInput body, then escapes its
// free-text fields.
func decodeInput(w http.ResponseWriter, r *http.Request) (model.ArticleInput, error) {
	var in model.ArticleInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		return in, apperr.Validation("Invalid JSON body")
	}
	if !in.Status.Valid() {
		return in, apperr.Validation("Invalid status: " + string(in.Status))
	}
	return sanitize.Input(in), nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.Filter{
		Page:   positiveInt(q.Get("page"), model.DefaultPage),
		Limit:  positiveInt(q.Get("limit"), model.DefaultLimit),
		Search: q.Get("search"),
		Status: model.Status(q.Get("status")),
	}
	if f.Status != "" && f.Status != model.StatusAll && !f.Status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status: "+string(f.Status))
		return
	}

	page, err := s.svc.List(r.Context(), f)
	if err != nil {
		s.fail(w, r, err, apperr.MsgFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, apperr.MessageOf(err, "Invalid request"))
		return
	}

	article, err := s.svc.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err, apperr.MsgCreateFailed)
		return
	}
	writeJSON(w, http.StatusCreated, article)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, apperr.MessageOf(err, "Invalid request"))
		return
	}
	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, apperr.MessageOf(err, "Invalid request"))
		return
	}

	article, err := s.svc.Update(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err, apperr.MsgUpdateFailed, zap.Int("id", id))
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, apperr.MessageOf(err, "Invalid request"))
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, apperr.MsgDeleteFailed, zap.Int("id", id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": string(s.mode)})
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
