package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fitmotion/form-analyzer/internal/pipeline"
	"github.com/fitmotion/form-analyzer/internal/store"
	"github.com/fitmotion/form-analyzer/internal/store/model"
	"github.com/fitmotion/form-analyzer/internal/video"
)

// SubmitRequest is the intake contract: a resolvable video reference plus
// sampling knobs. Zero-valued knobs fall back to the configured defaults.
type SubmitRequest struct {
	JobID          string
	VideoReference string
	SampleEveryN   int
	MaxFrames      int
	Sync           bool
}

// JobStatus is the acknowledgment for an accepted job.
type JobStatus struct {
	JobID  string
	Status string
}

// Job statuses reported to the intake shell.
const (
	JobStatusQueued    = "queued"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// JobService accepts analysis jobs, schedules them on the dispatcher, and
// exposes persisted reports. At most one run per job id is in flight at a
// time; a duplicate submission is rejected rather than racing the first
// run's write.
type JobService struct {
	pipeline   *pipeline.Pipeline
	recorder   *Recorder
	dispatcher *Dispatcher
	opener     video.Opener
	store      store.Store
	defaults   pipeline.Options

	mu       sync.Mutex
	inFlight map[string]struct{}

	logger *zap.SugaredLogger
}

func NewJobService(
	p *pipeline.Pipeline,
	recorder *Recorder,
	dispatcher *Dispatcher,
	opener video.Opener,
	s store.Store,
	defaults pipeline.Options,
) *JobService {
	return &JobService{
		pipeline:   p,
		recorder:   recorder,
		dispatcher: dispatcher,
		opener:     opener,
		store:      s,
		defaults:   defaults,
		inFlight:   make(map[string]struct{}),
		logger:     zap.S().Named("job_service"),
	}
}

// Submit accepts a job. In sync mode the call blocks until the report is
// persisted; in async mode it returns once the job is queued.
func (s *JobService) Submit(ctx context.Context, req SubmitRequest) (*JobStatus, error) {
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}
	if err := s.opener.Resolve(req.VideoReference); err != nil {
		return nil, NewErrVideoNotFound(req.VideoReference)
	}

	opts := s.defaults
	if req.SampleEveryN > 0 {
		opts.SampleEveryN = req.SampleEveryN
	}
	if req.MaxFrames > 0 {
		opts.MaxFrames = req.MaxFrames
	}

	if !s.acquire(req.JobID) {
		return nil, NewErrJobInFlight(req.JobID)
	}

	if req.Sync {
		defer s.release(req.JobID)
		result, err := s.runAndPersist(ctx, req.JobID, req.VideoReference, opts)
		if err != nil {
			return nil, err
		}
		status := JobStatusCompleted
		if result.Status == model.ResultStatusFailed {
			status = JobStatusFailed
		}
		return &JobStatus{JobID: req.JobID, Status: status}, nil
	}

	err := s.dispatcher.TryEnqueue(req.JobID, func(workerCtx context.Context) {
		defer s.release(req.JobID)
		if _, err := s.runAndPersist(workerCtx, req.JobID, req.VideoReference, opts); err != nil {
			s.logger.Errorw("background run failed", "job_id", req.JobID, "error", err)
		}
	})
	if err != nil {
		s.release(req.JobID)
		return nil, err
	}

	return &JobStatus{JobID: req.JobID, Status: JobStatusQueued}, nil
}

// GetReport returns the persisted record for a job id.
func (s *JobService) GetReport(ctx context.Context, jobID string) (*model.Result, error) {
	result, err := s.store.Result().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(jobID)
		}
		return nil, err
	}
	return result, nil
}

// ListReports returns recent records, newest first.
func (s *JobService) ListReports(ctx context.Context, limit int) (model.ResultList, error) {
	return s.store.Result().List(ctx, limit)
}

func (s *JobService) runAndPersist(ctx context.Context, jobID, reference string, opts pipeline.Options) (*model.Result, error) {
	report := s.pipeline.Run(ctx, jobID, reference, opts)
	// The write must survive a run cancelled at shutdown: every accepted
	// job id resolves to exactly one record, success or error.
	return s.recorder.Record(context.WithoutCancel(ctx), report)
}

func (s *JobService) acquire(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[jobID]; busy {
		return false
	}
	s.inFlight[jobID] = struct{}{}
	return true
}

func (s *JobService) release(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, jobID)
}
