package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fitmotion/form-analyzer/internal/service"
	"github.com/fitmotion/form-analyzer/pkg/requestid"
)

// ServiceHandler is the HTTP shell over the job service.
type ServiceHandler struct {
	jobSrv   *service.JobService
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

func NewServiceHandler(jobSrv *service.JobService) *ServiceHandler {
	return &ServiceHandler{
		jobSrv:   jobSrv,
		validate: validator.New(),
		logger:   zap.S().Named("handlers"),
	}
}

// Routes mounts the API surface on the router.
func (h *ServiceHandler) Routes(router chi.Router) {
	router.Route("/api/v1/jobs", func(r chi.Router) {
		r.Post("/", h.SubmitJob)
		r.Get("/", h.ListJobs)
		r.Get("/{id}", h.GetJob)
	})
	router.Get("/health", h.Health)
}

func (h *ServiceHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var req SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	status, err := h.jobSrv.Submit(r.Context(), service.SubmitRequest{
		JobID:          req.JobID,
		VideoReference: req.VideoReference,
		SampleEveryN:   req.SampleEveryN,
		MaxFrames:      req.MaxFrames,
		Sync:           req.Mode == "sync",
	})
	if err != nil {
		h.logger.Errorw("job submission failed", "error", err)
		switch err.(type) {
		case *service.ErrVideoNotFound:
			h.renderError(w, r, http.StatusNotFound, err.Error())
		case *service.ErrJobInFlight:
			h.renderError(w, r, http.StatusConflict, err.Error())
		case *service.ErrQueueFull:
			h.renderError(w, r, http.StatusServiceUnavailable, err.Error())
		case *service.ErrPersistence:
			h.renderError(w, r, http.StatusInternalServerError, err.Error())
		default:
			h.renderError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to submit job: %v", err))
		}
		return
	}

	code := http.StatusAccepted
	if req.Mode == "sync" {
		code = http.StatusOK
	}
	render.Status(r, code)
	render.JSON(w, r, JobStatusResponse{JobID: status.JobID, Status: status.Status})
}

func (h *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	result, err := h.jobSrv.GetReport(r.Context(), jobID)
	if err != nil {
		switch err.(type) {
		case *service.ErrJobNotFound:
			h.renderError(w, r, http.StatusNotFound, err.Error())
		default:
			h.logger.Errorw("failed to fetch report", "job_id", jobID, "error", err)
			h.renderError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to fetch report: %v", err))
		}
		return
	}

	render.JSON(w, r, reportToAPI(result))
}

func (h *ServiceHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.renderError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	results, err := h.jobSrv.ListReports(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("failed to list reports", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to list reports: %v", err))
		return
	}

	reports := make([]ReportResponse, 0, len(results))
	for i := range results {
		reports = append(reports, reportToAPI(&results[i]))
	}
	render.JSON(w, r, reports)
}

func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (h *ServiceHandler) renderError(w http.ResponseWriter, r *http.Request, code int, message string) {
	render.Status(r, code)
	render.JSON(w, r, ErrorResponse{Message: message, RequestID: requestid.FromContext(r.Context())})
}
