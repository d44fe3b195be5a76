package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fitmotion/form-analyzer/internal/pose"
	"github.com/fitmotion/form-analyzer/internal/video"
)

// SelectionPolicy decides which detection is kept when the engine reports
// more than one person. The policy is explicit configuration, never a
// hidden default.
type SelectionPolicy string

const (
	// SelectHighestConfidence keeps the detection with the highest score,
	// falling back to mean landmark visibility when scores are absent.
	SelectHighestConfidence SelectionPolicy = "highest-confidence"
	// SelectFirst keeps the engine's first detection.
	SelectFirst SelectionPolicy = "first"
)

func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	switch SelectionPolicy(s) {
	case SelectHighestConfidence, SelectFirst:
		return SelectionPolicy(s), nil
	default:
		return "", errors.Errorf("unknown person selection policy %q", s)
	}
}

// Adapter translates raw pose-engine output into the closed landmark
// vocabulary with pixel coordinates. Landmark names outside the vocabulary
// are rejected at this boundary and never enter an observation.
type Adapter struct {
	engine pose.Estimator
	policy SelectionPolicy
}

func NewAdapter(engine pose.Estimator, policy SelectionPolicy) *Adapter {
	return &Adapter{engine: engine, policy: policy}
}

// Observe runs the engine on one frame. A nil observation with a nil error
// means no person was detected; the caller skips the frame.
func (a *Adapter) Observe(ctx context.Context, frame *video.Frame) (*FrameObservation, error) {
	detections, err := a.engine.Detect(ctx, frame)
	if err != nil {
		return nil, errors.Wrapf(err, "detecting pose on frame %d", frame.Index)
	}
	if len(detections) == 0 {
		return nil, nil
	}

	detection := a.selectDetection(detections)

	landmarks := make(map[LandmarkName]Landmark, len(KnownLandmarks))
	for rawName, kp := range detection.Landmarks {
		name := LandmarkName(rawName)
		if !knownLandmark(name) {
			continue
		}
		// Low-visibility landmarks are kept with their score; thresholding
		// is the form evaluator's concern, not the adapter's.
		landmarks[name] = Landmark{
			X:          kp.X * float64(frame.Width),
			Y:          kp.Y * float64(frame.Height),
			Visibility: kp.Visibility,
		}
	}
	if len(landmarks) == 0 {
		return nil, nil
	}

	return &FrameObservation{
		FrameIndex: frame.Index,
		Landmarks:  landmarks,
		Angles:     ComputeAngles(landmarks),
	}, nil
}

func (a *Adapter) selectDetection(detections []pose.Detection) pose.Detection {
	if a.policy == SelectFirst || len(detections) == 1 {
		return detections[0]
	}

	best := detections[0]
	bestScore := detectionScore(best)
	for _, d := range detections[1:] {
		if score := detectionScore(d); score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

func detectionScore(d pose.Detection) float64 {
	if d.Score > 0 {
		return d.Score
	}
	if len(d.Landmarks) == 0 {
		return 0
	}
	sum := 0.0
	for _, kp := range d.Landmarks {
		sum += kp.Visibility
	}
	return sum / float64(len(d.Landmarks))
}

func knownLandmark(name LandmarkName) bool {
	for _, known := range KnownLandmarks {
		if name == known {
			return true
		}
	}
	return false
}
