package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/newsroom/internal/core"
	"github.com/JonMunkholm/newsroom/internal/lookup"
	"github.com/go-chi/chi/v5"
)

// ListResponse is the body of a table list call.
type ListResponse struct {
	Table string        `json:"table"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
	Items []core.Record `json:"items"`
}

// handleHealth reports whether the store answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Health(r.Context()); err != nil {
		respondError(w, r, &core.OpError{Op: "health", Kind: core.ErrInternal, Err: err})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListTables returns every registered table with its columns.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ListTables())
}

// resource resolves the {table} path parameter.
func (s *Server) resource(r *http.Request) (core.Resource, error) {
	return s.service.Resource(chi.URLParam(r, "table"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := s.resource(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	info := res.Info()

	req, err := s.parseListRequest(r, info)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sess, err := s.service.Session(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	items, err := res.List(ctx, sess, req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Table: info.Name,
		Skip:  req.Skip,
		Limit: req.Limit,
		Items: items,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := s.resource(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := parseID(r, res.Info().Name)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sess, err := s.service.Session(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	rec, err := res.Get(ctx, sess, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := s.resource(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	payload, err := s.decodePayload(w, r, res.Info())
	if err != nil {
		respondError(w, r, err)
		return
	}

	sess, err := s.service.Session(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	rec, err := res.Create(ctx, sess, payload)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if id, ok := rec["id"]; ok {
		w.Header().Set("Location", fmt.Sprintf("%s/%v", r.URL.Path, id))
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := s.resource(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	info := res.Info()
	id, err := parseID(r, info.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	payload, err := s.decodePayload(w, r, info)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sess, err := s.service.Session(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	rec, err := res.Update(ctx, sess, id, payload)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := s.resource(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := parseID(r, res.Info().Name)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sess, err := s.service.Session(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := res.Delete(ctx, sess, id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleListPress returns the publisher directory ordered by pid.
func (s *Server) handleListPress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.press.All())
}

// handleGetPress resolves one publisher id to its name.
func (s *Server) handleGetPress(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "pid")
	pid, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, r, &core.OpError{Op: "press", Column: "pid", Kind: core.ErrUnprocessable,
			Msg: fmt.Sprintf("invalid value type: pid %q is not an integer", raw)})
		return
	}

	name, err := s.press.Name(pid)
	if err != nil {
		kind := core.ErrInternal
		if errors.Is(err, lookup.ErrUnknownPress) {
			kind = core.ErrNotFound
		}
		respondError(w, r, &core.OpError{Op: "press", Kind: kind, Err: err})
		return
	}
	writeJSON(w, http.StatusOK, lookup.Press{PID: pid, Name: name})
}
