package pipeline

import "errors"

// Clip-level failure taxonomy. These never escape the pipeline entry
// point; Run converts them into a terminal Report carrying an error field
// and a degraded summary.
var (
	// ErrVideoNotFound means the reference does not resolve to readable data.
	ErrVideoNotFound = errors.New("video not found")
	// ErrVideoOpenFailure means the reference resolves but cannot be decoded.
	ErrVideoOpenFailure = errors.New("video open failure")
	// ErrNoPoseDetected means every sampled frame yielded zero persons.
	ErrNoPoseDetected = errors.New("no pose detected")
	// ErrFeatureShapeMismatch means the aggregated feature set does not
	// match the classifier's expected input.
	ErrFeatureShapeMismatch = errors.New("feature shape mismatch")
)
