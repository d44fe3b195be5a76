// Package pose defines the contract with the external pose-estimation
// engine and its HTTP client implementation. The engine receives a single
// raster frame and answers with zero or more detected persons, each a map
// of named anatomical landmarks in normalized image coordinates.
package pose

import (
	"context"

	"github.com/fitmotion/form-analyzer/internal/video"
)

// Keypoint is one named landmark as reported by the engine: x and y are
// normalized to [0,1] relative to the frame, visibility to [0,1].
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// Detection is one detected person.
type Detection struct {
	Score     float64             `json:"score"`
	Landmarks map[string]Keypoint `json:"landmarks"`
}

// Estimator is the pose-estimation engine contract. Implementations must
// be safe for concurrent use by multiple pipeline runs.
type Estimator interface {
	Detect(ctx context.Context, frame *video.Frame) ([]Detection, error)
}
