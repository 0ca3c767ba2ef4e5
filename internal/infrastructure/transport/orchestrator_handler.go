package transport

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"infragen/app/usecase"
	"infragen/internal/domain/entity"
	"infragen/internal/infrastructure/metrics"
)

type OrchestratorHandler struct {
	generation        usecase.GenerationUsecase
	jobService        usecase.JobUsecase
	configFileService usecase.ConfigFilesUseCase
	logger            *slog.Logger
	upgrader          websocket.Upgrader
}

func NewOrchestratorHandler(
	generation usecase.GenerationUsecase,
	jobService usecase.JobUsecase,
	configFileService usecase.ConfigFilesUseCase,
	logger *slog.Logger,
) *OrchestratorHandler {
	return &OrchestratorHandler{
		generation:        generation,
		jobService:        jobService,
		configFileService: configFileService,
		logger:            logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *OrchestratorHandler) withMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		status := strconv.Itoa(rw.status)
		metrics.ObserveHTTPRequest(r.Method, path, status, time.Since(start))
		if rw.status >= 400 {
			metrics.IncHTTPError(r.Method, path, status)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (h *OrchestratorHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/generate", h.withMetrics(h.handleGenerate)).Methods(http.MethodPost)
	r.HandleFunc("/health", h.withMetrics(h.handleHealth)).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/generate", h.withMetrics(h.handleGenerate)).Methods(http.MethodPost)
	api.HandleFunc("/generate/ws", h.withMetrics(h.handleGenerateWS)).Methods(http.MethodGet)
	api.HandleFunc("/jobs", h.withMetrics(h.handleCreateJob)).Methods(http.MethodPost)
	api.HandleFunc("/jobs", h.withMetrics(h.handleListJobs)).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", h.withMetrics(h.handleGetJob)).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", h.withMetrics(h.handleDeleteJob)).Methods(http.MethodDelete)
	api.HandleFunc("/jobs/{id}/files", h.withMetrics(h.handleGetFiles)).Methods(http.MethodGet)
	api.HandleFunc("/files", h.withMetrics(h.handleListFileJobs)).Methods(http.MethodGet)
	api.HandleFunc("/health", h.withMetrics(h.handleHealth)).Methods(http.MethodGet)

	// Prometheus
	r.Handle("/metrics", promhttp.Handler())
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors to HTTP codes, anything unknown is a server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrEmptyDescription):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrTooManyResources):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeDescription(r *http.Request) (string, error) {
	var req entity.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", fmt.Errorf("bad request body: %w", err)
	}
	if req.Description == "" {
		return "", entity.ErrEmptyDescription
	}
	return req.Description, nil
}

// POST /generate
func (h *OrchestratorHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	description, err := decodeDescription(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.generation.Generate(r.Context(), description)
	if err != nil {
		h.logger.Error("generate failed", "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, entity.NewGenerateResponse(res))
}

// GET /api/v1/generate/ws
// Every text message is a description, every reply a generate response or {"error": ...}.
func (h *OrchestratorHandler) handleGenerateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed", "err", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var reply interface{}
		res, err := h.generation.Generate(r.Context(), string(msg))
		if err != nil {
			h.logger.Error("websocket generate failed", "err", err)
			reply = map[string]string{"error": err.Error()}
		} else {
			reply = entity.NewGenerateResponse(res)
		}
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warn("websocket write failed", "err", err)
			return
		}
	}
}

// POST /api/v1/jobs
func (h *OrchestratorHandler) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	description, err := decodeDescription(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	job, err := h.jobService.CreateJob(r.Context(), description)
	if err != nil {
		h.logger.Error("create job failed", "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

// GET /api/v1/jobs
func (h *OrchestratorHandler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobService.ListJobs(r.Context())
	if err != nil {
		h.logger.Error("list jobs failed", "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// GET /api/v1/jobs/{id}
func (h *OrchestratorHandler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, err := h.jobService.GetJob(r.Context(), id)
	if err != nil {
		if !errors.Is(err, entity.ErrJobNotFound) {
			h.logger.Error("get job failed", "id", id, "err", err)
		}
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// DELETE /api/v1/jobs/{id}
func (h *OrchestratorHandler) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.jobService.DeleteJob(r.Context(), id); err != nil {
		if !errors.Is(err, entity.ErrJobNotFound) {
			h.logger.Error("delete job failed", "id", id, "err", err)
		}
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/jobs/{id}/files
func (h *OrchestratorHandler) handleGetFiles(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.jobService.GetJob(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	files, err := h.configFileService.GetFilesByJobID(r.Context(), id)
	if err != nil {
		h.logger.Error("get files failed", "job_id", id, "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// GET /api/v1/files
// Lists the ids of jobs that have stored files.
func (h *OrchestratorHandler) handleListFileJobs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.configFileService.ListJobIDs(r.Context())
	if err != nil {
		h.logger.Error("list file jobs failed", "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// GET /health
func (h *OrchestratorHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
