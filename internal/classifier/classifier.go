// Package classifier wraps the offline-trained activity model. Only the
// prediction contract lives here: a fixed-length ordered feature vector in,
// a label out. The model itself is served by an external process and must
// be reachable at startup; a service that cannot classify must not accept
// jobs.
package classifier

import (
	"context"

	"github.com/pkg/errors"
)

// ErrUnavailable signals that the model could not be loaded or probed.
// It is fatal at process startup when the model strategy is configured.
var ErrUnavailable = errors.New("classifier unavailable")

// Predictor is the offline-trained model contract.
type Predictor interface {
	// Predict maps an ordered feature vector to an activity label.
	Predict(ctx context.Context, features []float64) (string, error)
	// ExpectedFeatures is the arity of the vector the model was trained on.
	ExpectedFeatures() int
}
