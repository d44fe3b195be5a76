package handlers

import (
	"encoding/json"
	"time"

	"github.com/fitmotion/form-analyzer/internal/store/model"
)

// SubmitJobRequest is the intake payload.
type SubmitJobRequest struct {
	JobID          string `json:"job_id,omitempty" validate:"omitempty,max=64"`
	VideoReference string `json:"video_reference" validate:"required"`
	SampleEveryN   int    `json:"sample_every_n,omitempty" validate:"omitempty,gte=1"`
	MaxFrames      int    `json:"max_frames,omitempty" validate:"omitempty,gte=1"`
	Mode           string `json:"mode,omitempty" validate:"omitempty,oneof=sync async"`
}

// JobStatusResponse acknowledges an accepted job.
type JobStatusResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// ReportResponse is the persisted record exposed to consumers.
type ReportResponse struct {
	JobID          string          `json:"job_id"`
	VideoReference string          `json:"video_reference"`
	Status         string          `json:"status"`
	Activity       string          `json:"activity"`
	IsCorrect      bool            `json:"is_correct"`
	Error          string          `json:"error,omitempty"`
	Report         json.RawMessage `json:"report"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ErrorResponse carries a message and the request id for correlation.
type ErrorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func reportToAPI(result *model.Result) ReportResponse {
	return ReportResponse{
		JobID:          result.JobID,
		VideoReference: result.VideoReference,
		Status:         result.Status,
		Activity:       result.Activity,
		IsCorrect:      result.IsCorrect,
		Error:          result.Error,
		Report:         json.RawMessage(result.Report),
		CreatedAt:      result.CreatedAt,
		UpdatedAt:      result.UpdatedAt,
	}
}
