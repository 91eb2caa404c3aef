package ranking

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/kilianp07/induction/core/logger"
	"github.com/kilianp07/induction/core/model"
	coreranking "github.com/kilianp07/induction/core/ranking"
	"github.com/kilianp07/induction/core/snapshot"
	"github.com/kilianp07/induction/core/source"
)

type handler struct {
	planner   Planner
	maxUpload int64
	limit     int
	log       logger.Logger
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// RunResponse is returned by the run endpoints.
type RunResponse struct {
	CycleID      string            `json:"cycle_id"`
	PlanningTime time.Time         `json:"planning_time"`
	Count        int               `json:"count"`
	Results      []model.RankedRow `json:"results"`
}

// RankedResponse is returned by the retrieval endpoints.
type RankedResponse struct {
	Count int               `json:"count"`
	Data  []model.RankedRow `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: msg, Details: details}})
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *source.ValidationError
	switch {
	case errors.As(err, &verr):
		missing := make([]string, len(verr.Missing))
		for i, m := range verr.Missing {
			missing[i] = string(m)
		}
		writeError(w, http.StatusBadRequest, "missing_sources", err.Error(), map[string]any{"missing": missing})
	case errors.Is(err, coreranking.ErrNoTrainsFound):
		writeError(w, http.StatusUnprocessableEntity, "no_trains", err.Error(), nil)
	default:
		h.log.Errorf("request %s: %v", middleware.GetReqID(r.Context()), err)
		writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func planningTime(r *http.Request) (time.Time, error) {
	raw := r.FormValue("planning_time")
	if raw == "" {
		return time.Time{}, nil
	}
	t := source.ParseTime(raw)
	if t == nil {
		return time.Time{}, fmt.Errorf("invalid planning_time %q", raw)
	}
	return *t, nil
}

// readUpload loads every multipart file whose field name (or, failing that,
// file name) names a source. Other parts are ignored.
func (h *handler) readUpload(r *http.Request) (*source.Tables, error) {
	t := source.NewTables()
	if r.MultipartForm == nil {
		return t, nil
	}
	for _, field := range slices.Sorted(maps.Keys(r.MultipartForm.File)) {
		files := r.MultipartForm.File[field]
		if len(files) == 0 {
			continue
		}
		fh := files[0]
		name, ok := source.ParseSourceName(field)
		if !ok {
			name, ok = source.ParseSourceName(fh.Filename)
		}
		if !ok {
			h.log.Debugf("ignoring upload field %q", field)
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", field, err)
		}
		err = t.Load(name, f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (h *handler) runUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	at, err := planningTime(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	t, err := h.readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	snap, err := h.planner.RunCycle(r.Context(), t, at, true)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRunResponse(snap))
}

func (h *handler) runLocal(w http.ResponseWriter, r *http.Request) {
	at, err := planningTime(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	snap, err := h.planner.RunLocal(r.Context(), at)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRunResponse(snap))
}

func newRunResponse(s snapshot.Snapshot) RunResponse {
	rows := s.Rows
	if rows == nil {
		rows = []model.RankedRow{}
	}
	return RunResponse{CycleID: s.CycleID, PlanningTime: s.PlanningTime, Count: len(rows), Results: rows}
}

func (h *handler) ranked(w http.ResponseWriter, r *http.Request) {
	limit := h.limit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("limit must be a positive integer, got %q", raw), nil)
			return
		}
		limit = n
	}
	rows, err := h.planner.Top(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if rows == nil {
		rows = []model.RankedRow{}
	}
	writeJSON(w, http.StatusOK, RankedResponse{Count: len(rows), Data: rows})
}
