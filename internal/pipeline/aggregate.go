package pipeline

import "gonum.org/v1/gonum/stat"

// Aggregate reduces a clip's frame observations into one feature record:
// for each joint angle, the arithmetic mean of the frames where it was
// observed. Absent observations are excluded from the mean, not treated as
// zero, so a single occluded joint does not drag a clip's features down.
// A joint absent in every frame maps to the zero sentinel, keeping the
// record at fixed arity for classification.
func Aggregate(frames []FrameObservation) AggregatedFeatures {
	features := make(AggregatedFeatures, len(FeatureOrder))
	for _, name := range FeatureOrder {
		var values []float64
		for _, frame := range frames {
			if v, ok := frame.Angles[name]; ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			features[name] = 0
			continue
		}
		features[name] = stat.Mean(values, nil)
	}
	return features
}

// FeatureVector flattens aggregated features into the fixed model order.
func (f AggregatedFeatures) FeatureVector() []float64 {
	vector := make([]float64, 0, len(FeatureOrder))
	for _, name := range FeatureOrder {
		vector = append(vector, f[name])
	}
	return vector
}
