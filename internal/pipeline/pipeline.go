package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/fitmotion/form-analyzer/internal/video"
	"github.com/fitmotion/form-analyzer/pkg/metrics"
)

// Options are the per-run sampling knobs.
type Options struct {
	SampleEveryN int
	MaxFrames    int
	// KeepFrames retains per-frame observations in the report for
	// diagnostics. Disable to persist summaries only.
	KeepFrames bool
}

// Pipeline wires the stages of one clip analysis. It is safe to invoke
// concurrently; every Run owns its own video source and buffers, and the
// classifier is read-only after construction.
type Pipeline struct {
	opener     video.Opener
	adapter    *Adapter
	classifier Classifier
	evaluator  *Evaluator
	logger     *zap.SugaredLogger
}

func New(opener video.Opener, adapter *Adapter, classifier Classifier, evaluator *Evaluator) *Pipeline {
	return &Pipeline{
		opener:     opener,
		adapter:    adapter,
		classifier: classifier,
		evaluator:  evaluator,
		logger:     zap.S().Named("pipeline"),
	}
}

// Run analyzes one clip and always returns a terminal report: clip-level
// failures are converted into an error record with a degraded summary,
// never propagated to the caller.
func (p *Pipeline) Run(ctx context.Context, jobID, reference string, opts Options) *Report {
	start := time.Now()
	defer func() {
		metrics.ObservePipelineDurationMetric(time.Since(start).Seconds())
	}()

	p.logger.Infow("starting analysis", "job_id", jobID, "video", reference)

	if err := p.opener.Resolve(reference); err != nil {
		p.logger.Warnw("video reference does not resolve", "job_id", jobID, "error", err)
		return p.failure(jobID, reference, nil, ErrVideoNotFound)
	}

	source, err := p.opener.Open(ctx, reference)
	if err != nil {
		p.logger.Warnw("cannot open video", "job_id", jobID, "error", err)
		return p.failure(jobID, reference, nil, ErrVideoOpenFailure)
	}
	defer source.Close()

	frames, err := p.collect(ctx, source, opts)
	if err != nil {
		return p.failure(jobID, reference, frames, err)
	}

	if len(frames) == 0 {
		return p.failure(jobID, reference, nil, ErrNoPoseDetected)
	}
	metrics.AddFramesProcessedMetric(len(frames))

	features := Aggregate(frames)

	classification, err := p.classifier.Classify(ctx, features)
	if err != nil {
		p.logger.Errorw("classification failed", "job_id", jobID, "error", err)
		report := p.failure(jobID, reference, frames, err)
		report.Summary.Features = features
		return report
	}
	metrics.IncreaseClassificationsTotalMetric(classification.Activity, string(classification.Source))

	assessment := p.evaluator.Evaluate(classification.Activity, features)

	p.logger.Infow("analysis complete",
		"job_id", jobID,
		"frames_processed", len(frames),
		"activity", classification.Activity,
		"is_correct", assessment.IsCorrect,
	)

	report := &Report{
		JobID:          jobID,
		VideoReference: reference,
		Summary: Summary{
			FramesProcessed: len(frames),
			Features:        features,
			Classification:  classification,
			Assessment:      assessment,
		},
	}
	if opts.KeepFrames {
		report.Frames = frames
	}
	return report
}

// collect drives the sampler over the decode stream. Cancellation is
// honored at the frame boundary.
func (p *Pipeline) collect(ctx context.Context, source video.Source, opts Options) ([]FrameObservation, error) {
	sampler := NewSampler(opts.SampleEveryN, opts.MaxFrames)
	var frames []FrameObservation

	for !sampler.Exhausted() {
		if err := ctx.Err(); err != nil {
			return frames, err
		}

		frame, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return frames, err
			}
			p.logger.Warnw("decode failed mid-stream", "error", err)
			return frames, ErrVideoOpenFailure
		}

		index, analyze := sampler.Take()
		if !analyze {
			continue
		}

		observation, err := p.adapter.Observe(ctx, frame)
		if err != nil {
			// An engine hiccup on one frame is an absent observation, not a
			// clip failure.
			p.logger.Warnw("pose detection failed", "frame_index", index, "error", err)
			continue
		}
		if observation == nil {
			continue
		}

		frames = append(frames, *observation)
		sampler.RecordDetection()
	}

	return frames, nil
}

// failure builds the terminal error record: the job still resolves to
// exactly one report, with a degraded summary instead of none.
func (p *Pipeline) failure(jobID, reference string, frames []FrameObservation, cause error) *Report {
	feedback := cause.Error()
	if errors.Is(cause, ErrNoPoseDetected) {
		feedback = "No pose detected"
	}

	return &Report{
		JobID:          jobID,
		VideoReference: reference,
		Error:          cause.Error(),
		Summary: Summary{
			FramesProcessed: len(frames),
			Features:        Aggregate(frames),
			Classification:  Classification{Activity: ActivityUnknown, Source: SourceRule},
			Assessment: FormAssessment{
				IsCorrect: false,
				Feedback:  []string{feedback},
			},
		},
	}
}
