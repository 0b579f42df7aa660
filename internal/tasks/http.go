package tasks

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

type errResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

func RegisterRoutes(r chi.Router, svc *Service) {
	h := &handler{svc: svc, logger: svc.logger}

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.createTask)
		r.Get("/", h.listTasks)
		r.Get("/stats/summary", h.stats)
		r.Get("/{id}", h.getTask)
		r.Put("/{id}", h.updateTask)
		r.Delete("/{id}", h.deleteTask)
	})
}

type handler struct {
	svc    *Service
	logger *slog.Logger
}

func (h *handler) createTask(w http.ResponseWriter, r *http.Request) {
	var in NewTask
	if !h.decode(w, r, &in) {
		return
	}

	t, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *handler) listTasks(w http.ResponseWriter, r *http.Request) {
	q, fieldErrs := parseListQuery(r)
	if len(fieldErrs) > 0 {
		h.writeError(w, &ValidationError{Fields: fieldErrs})
		return
	}

	list, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var p Patch
	if !h.decode(w, r, &p) {
		return
	}

	t, err := h.svc.Update(r.Context(), id, p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(v)
	if err == nil && dec.Decode(&struct{}{}) != io.EOF {
		err = errors.New("unexpected data after JSON object")
	}
	if err != nil {
		h.writeError(w, &ValidationError{Fields: []FieldError{
			{Field: "body", Message: "invalid JSON: " + err.Error()},
		}})
		return false
	}
	return true
}

// pathID returns the canonical form of the {id} URL parameter.
func (h *handler) pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, &ValidationError{Fields: []FieldError{
			{Field: "task_id", Message: "task id must be a valid UUID"},
		}})
		return "", false
	}
	return id.String(), true
}

func parseListQuery(r *http.Request) (ListQuery, []FieldError) {
	q := ListQuery{Limit: DefaultLimit}
	var errs []FieldError

	values := r.URL.Query()
	if values.Has("status") {
		// an empty value is not "no filter"; it must name a status
		if s := values.Get("status"); s != "" {
			q.Status = Status(s)
		} else {
			errs = append(errs, validateStatus("")...)
		}
	}
	if s := values.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, FieldError{Field: "limit", Message: "limit must be an integer"})
		}
		q.Limit = n
	}
	if s := values.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, FieldError{Field: "offset", Message: "offset must be an integer"})
		}
		q.Offset = n
	}
	return q, errs
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	var (
		vErr  *ValidationError
		nfErr *NotFoundError
	)
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, errResponse{
			Error:   "validation_error",
			Details: vErr.Fields,
		})
	case errors.As(err, &nfErr):
		writeJSON(w, http.StatusNotFound, errResponse{
			Error:   "not_found",
			Message: nfErr.Error(),
		})
	default:
		h.logger.Error("unexpected_error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
