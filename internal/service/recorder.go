package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/fitmotion/form-analyzer/internal/pipeline"
	"github.com/fitmotion/form-analyzer/internal/store"
	"github.com/fitmotion/form-analyzer/internal/store/model"
	"github.com/fitmotion/form-analyzer/pkg/metrics"
)

// Recorder persists terminal pipeline reports keyed by job id. Success and
// failure reports land under the same key, so every accepted job resolves
// to exactly one record.
type Recorder struct {
	store  store.Store
	logger *zap.SugaredLogger
}

func NewRecorder(s store.Store) *Recorder {
	return &Recorder{store: s, logger: zap.S().Named("recorder")}
}

func (r *Recorder) Record(ctx context.Context, report *pipeline.Report) (*model.Result, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, NewErrPersistence(report.JobID, err)
	}

	status := model.ResultStatusCompleted
	outcome := metrics.JobOutcomeCompleted
	if report.Error != "" {
		status = model.ResultStatusFailed
		outcome = metrics.JobOutcomeFailed
	}

	result, err := r.store.Result().Upsert(ctx, model.Result{
		JobID:          report.JobID,
		VideoReference: report.VideoReference,
		Status:         status,
		Activity:       report.Summary.Classification.Activity,
		IsCorrect:      report.Summary.Assessment.IsCorrect,
		Error:          report.Error,
		Report:         payload,
	})
	if err != nil {
		r.logger.Errorw("failed to persist report", "job_id", report.JobID, "error", err)
		return nil, NewErrPersistence(report.JobID, err)
	}

	metrics.IncreaseJobsTotalMetric(outcome)
	return result, nil
}
