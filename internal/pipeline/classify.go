package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fitmotion/form-analyzer/internal/classifier"
)

// Classifier maps aggregated features to an activity label. The rule and
// model strategies are interchangeable; selection is explicit
// configuration, never a silent fallback.
type Classifier interface {
	Classify(ctx context.Context, features AggregatedFeatures) (Classification, error)
}

// decisionRule is one entry of the ordered decision list.
type decisionRule struct {
	name     string
	match    func(features AggregatedFeatures) bool
	activity string
}

// RuleClassifier is an ordered decision list evaluated top to bottom,
// first match wins. The ordering is a contract: changing it changes the
// label of borderline feature vectors.
type RuleClassifier struct {
	rules []decisionRule
}

var _ Classifier = (*RuleClassifier)(nil)

// NewRuleClassifier builds the canonical threshold cascade.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{
		rules: []decisionRule{
			{
				name:     "deep-knee-bend",
				activity: ActivitySquat,
				match: func(f AggregatedFeatures) bool {
					knee, ok := bilateral(f, AngleLeftKnee, AngleRightKnee)
					return ok && knee < 110
				},
			},
			{
				name:     "deep-elbow-bend",
				activity: ActivityPushup,
				match: func(f AggregatedFeatures) bool {
					elbow, ok := bilateral(f, AngleLeftElbow, AngleRightElbow)
					return ok && elbow < 100
				},
			},
			{
				name:     "extended-arm-straight-leg",
				activity: ActivityThrow,
				match: func(f AggregatedFeatures) bool {
					elbow, okE := bilateral(f, AngleLeftElbow, AngleRightElbow)
					knee, okK := bilateral(f, AngleLeftKnee, AngleRightKnee)
					return okE && okK && elbow >= 100 && elbow <= 150 && knee > 120
				},
			},
		},
	}
}

func (c *RuleClassifier) Classify(_ context.Context, features AggregatedFeatures) (Classification, error) {
	for _, rule := range c.rules {
		if rule.match(features) {
			return Classification{Activity: rule.activity, Source: SourceRule}, nil
		}
	}
	return Classification{Activity: ActivityUnknown, Source: SourceRule}, nil
}

// bilateral returns the mean of a joint pair, skipping zero-sentinel
// entries so an unobserved side cannot fire a threshold. The second return
// value is false when neither side was observed.
func bilateral(f AggregatedFeatures, left, right JointAngleName) (float64, bool) {
	sum, count := 0.0, 0
	for _, name := range []JointAngleName{left, right} {
		if v := f[name]; v > 0 {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// ModelClassifier delegates to the offline-trained model with the feature
// vector built in FeatureOrder.
type ModelClassifier struct {
	predictor classifier.Predictor
}

var _ Classifier = (*ModelClassifier)(nil)

// NewModelClassifier validates the external invariant up front: the
// configured joint set must exactly match the arity the model was trained
// on, otherwise every prediction would be silently wrong.
func NewModelClassifier(predictor classifier.Predictor) (*ModelClassifier, error) {
	if expected := predictor.ExpectedFeatures(); expected != len(FeatureOrder) {
		return nil, errors.Wrapf(ErrFeatureShapeMismatch,
			"model expects %d features, pipeline produces %d", expected, len(FeatureOrder))
	}
	return &ModelClassifier{predictor: predictor}, nil
}

func (c *ModelClassifier) Classify(ctx context.Context, features AggregatedFeatures) (Classification, error) {
	vector := features.FeatureVector()
	if expected := c.predictor.ExpectedFeatures(); expected != len(vector) {
		return Classification{}, errors.Wrapf(ErrFeatureShapeMismatch,
			"model expects %d features, got %d", expected, len(vector))
	}

	label, err := c.predictor.Predict(ctx, vector)
	if err != nil {
		return Classification{}, errors.Wrap(err, "predicting activity")
	}
	if label == "" {
		label = ActivityUnknown
	}
	return Classification{Activity: label, Source: SourceModel}, nil
}
