package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ivcap-works/pairwise-align/internal/align"
	"github.com/ivcap-works/pairwise-align/internal/config"
	"github.com/ivcap-works/pairwise-align/internal/httputil"
	"github.com/ivcap-works/pairwise-align/internal/metrics"
)

// RetryLaterHeader tells callers of /delayed how long to wait before
// collecting the result from the Location route.
const RetryLaterHeader = "Retry-Later"

func (s *Service) handleAlign(w http.ResponseWriter, r *http.Request) {
	params, ok := s.decodeParams(w, r)
	if !ok {
		return
	}
	s.respondAligned(r.Context(), w, params)
}

// handleLong simulates a long running calculation before answering.
func (s *Service) handleLong(w http.ResponseWriter, r *http.Request) {
	params, ok := s.decodeParams(w, r)
	if !ok {
		return
	}

	select {
	case <-time.After(s.delay):
	case <-r.Context().Done():
		return
	}
	s.respondAligned(r.Context(), w, params)
}

// handleDelayed stores the request and points the caller at the jobs route.
func (s *Service) handleDelayed(w http.ResponseWriter, r *http.Request) {
	params, ok := s.decodeParams(w, r)
	if !ok {
		return
	}

	id := s.jobs.put(params)
	s.log.WithField("job_id", id).Info("delayed alignment queued")

	w.Header().Set("Location", "/jobs/"+id)
	w.Header().Set(RetryLaterHeader, strconv.Itoa(int(s.delay/time.Second)))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	params, ok := s.jobs.get(id)
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, fmt.Errorf("unknown job %s", id))
		return
	}
	s.respondAligned(r.Context(), w, params)
}

// handleHealtz lets the platform check whether everything is OK. The version
// is read from the environment on every call.
func (s *Service) handleHealtz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"version": config.Version()})
}

// decodeParams decodes and validates an alignment request, writing the error
// response itself when validation fails.
func (s *Service) decodeParams(w http.ResponseWriter, r *http.Request) (alignParams, bool) {
	var req AlignRequest
	if err := httputil.DecodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err)
		return alignParams{}, false
	}
	params, err := req.validate()
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err)
		return alignParams{}, false
	}
	return params, true
}

// respondAligned runs the aligner and writes the response.
func (s *Service) respondAligned(ctx context.Context, w http.ResponseWriter, params alignParams) {
	aligner := align.New(params.mode, params.scoring)
	aligner.MaxAlignments = s.maxAlignments

	start := time.Now()
	result, err := aligner.Align(ctx, params.target, params.query)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordAlignment(string(params.mode), status, time.Since(start), len(params.target), len(params.query))

	if err != nil {
		switch {
		case errors.Is(err, align.ErrInvalidScoring):
			httputil.WriteError(w, http.StatusBadRequest, err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Client is gone; nothing sensible to write.
		default:
			s.log.WithError(err).Error("alignment failed")
			httputil.InternalError(w, "alignment failed")
		}
		return
	}

	resp := AlignResponse{
		Schema:     ResponseSchemaURN,
		Target:     params.target,
		Query:      params.query,
		Alignments: make([][2][][2]int, 0, len(result.Alignments)),
		Score:      result.Score,
	}
	for _, al := range result.Alignments {
		resp.Alignments = append(resp.Alignments, [2][][2]int{al.Target, al.Query})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
