// Package httpapi exposes a parking.Engine over HTTP. It is a second,
// non-UI consumer of the façade: every handler is a thin JSON translation
// layer with no allocation logic of its own.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/parking"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Server adapts an *parking.Engine to gorilla/mux routes.
type Server struct {
	engine  *parking.Engine
	router  *mux.Router
	version string
}

// NewServer builds the route table around engine. version is stamped onto
// every request's log line alongside its correlation id, so a report
// against a running server can be matched back to the build that produced
// it.
func NewServer(engine *parking.Engine, version string) *Server {
	s := &Server{engine: engine, router: mux.NewRouter(), version: version}

	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/zones", s.handleZones).Methods(http.MethodGet)
	s.router.HandleFunc("/vehicles", s.handleVehicles).Methods(http.MethodGet)
	s.router.HandleFunc("/requests", s.handleCreateRequest).Methods(http.MethodPost)
	s.router.HandleFunc("/requests", s.handleListRequests).Methods(http.MethodGet)
	s.router.HandleFunc("/requests/{id}/allocate", s.handleAllocate).Methods(http.MethodPost)
	s.router.HandleFunc("/requests/{id}/occupy", s.handleOccupy).Methods(http.MethodPost)
	s.router.HandleFunc("/requests/{id}/release", s.handleRelease).Methods(http.MethodPost)
	s.router.HandleFunc("/requests/{id}/cancel", s.handleCancel).Methods(http.MethodPost)
	s.router.HandleFunc("/rollback", s.handleRollback).Methods(http.MethodPost)
	s.router.HandleFunc("/analytics", s.handleAnalytics).Methods(http.MethodGet)
	s.router.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)

	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// loggingMiddleware stamps every request with a correlation id so a single
// request's log lines can be grepped out of a busy server's output, and
// tags the line with the running build's version so a report can be
// matched back to the code that produced it.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)
		log.Trace().Str("request_id", requestID).Str("version", s.version).Str("method", r.Method).Str("path", r.URL.Path).Msg("handling request")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

// writeError classifies a façade error into the matching HTTP status,
// mirroring how this codebase's scheduler classifies errors before
// deciding whether to fail a request outright.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, parking.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, parking.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, parking.ErrNoAvailableSlots):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, parking.ErrMalformedInput):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleZones(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Zones())
}

func (s *Server) handleVehicles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Vehicles())
}

func (s *Server) handleListRequests(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Requests())
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.History())
}

func (s *Server) handleAnalytics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Analytics())
}

type createRequestBody struct {
	VehicleID       string `json:"vehicleId"`
	RequestedZoneID string `json:"requestedZoneId"`
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, parking.ErrMalformedInput)
		return
	}

	req, err := s.engine.CreateRequest(body.VehicleID, body.RequestedZoneID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Allocate(mux.Vars(r)["id"])
	s.writeResult(w, result, err)
}

func (s *Server) handleOccupy(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Occupy(mux.Vars(r)["id"])
	s.writeResult(w, result, err)
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Release(mux.Vars(r)["id"])
	s.writeResult(w, result, err)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Cancel(mux.Vars(r)["id"])
	s.writeResult(w, result, err)
}

func (s *Server) writeResult(w http.ResponseWriter, result any, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	k, err := strconv.Atoi(r.URL.Query().Get("k"))
	if err != nil || k < 0 {
		writeError(w, parking.ErrMalformedInput)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Rollback(k))
}
