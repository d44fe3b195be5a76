package pipeline

import "fmt"

// FormRule is one correctness check for an activity: Bad reports whether
// the named angles describe a form fault, and Message is the user-facing
// feedback when it does. Rules are evaluated independently, not
// first-match, so every applicable issue is reported.
type FormRule struct {
	Joints  []JointAngleName
	Bad     func(angles map[JointAngleName]float64) bool
	Message string
}

// Evaluator holds the per-activity rule tables.
type Evaluator struct {
	tables map[string][]FormRule
}

// NewEvaluator builds the canonical rule tables for the activities the
// rule classifier can emit.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		tables: map[string][]FormRule{
			ActivityPushup: {
				{
					Joints:  []JointAngleName{AngleLeftElbow, AngleRightElbow},
					Bad:     func(a map[JointAngleName]float64) bool { return meanOf(a, AngleLeftElbow, AngleRightElbow) > 110 },
					Message: "Bend your elbows more during the push-up",
				},
				{
					Joints:  []JointAngleName{AngleLeftHip, AngleRightHip},
					Bad:     func(a map[JointAngleName]float64) bool { return meanOf(a, AngleLeftHip, AngleRightHip) < 140 },
					Message: "Keep your hips in line with your shoulders",
				},
			},
			ActivitySquat: {
				{
					Joints:  []JointAngleName{AngleLeftKnee, AngleRightKnee},
					Bad:     func(a map[JointAngleName]float64) bool { return meanOf(a, AngleLeftKnee, AngleRightKnee) > 120 },
					Message: "Squat deeper: bend your knees below parallel",
				},
				{
					Joints:  []JointAngleName{AngleLeftHip, AngleRightHip},
					Bad:     func(a map[JointAngleName]float64) bool { return meanOf(a, AngleLeftHip, AngleRightHip) > 130 },
					Message: "Sit back into your hips during the squat",
				},
			},
			ActivityThrow: {
				{
					Joints:  []JointAngleName{AngleLeftKnee, AngleRightKnee},
					Bad:     func(a map[JointAngleName]float64) bool { return meanOf(a, AngleLeftKnee, AngleRightKnee) < 120 },
					Message: "Drive through straighter legs on the throw",
				},
			},
		},
	}
}

// Evaluate checks the aggregated angles against the activity's rule table.
// A rule whose required angle was never observed reports the missing joint
// and marks the clip incorrect; missing data is a reportable condition,
// not a pass. An activity with no table yields a single explanatory entry
// with is_correct=false, since unverifiable form cannot be called correct.
func (e *Evaluator) Evaluate(activity string, features AggregatedFeatures) FormAssessment {
	table, ok := e.tables[activity]
	if !ok {
		return FormAssessment{
			IsCorrect: false,
			Feedback:  []string{fmt.Sprintf("No form rules for activity %q", activity)},
		}
	}

	assessment := FormAssessment{IsCorrect: true}
	for _, rule := range table {
		if missing, ok := missingJoint(features, rule.Joints); !ok {
			assessment.IsCorrect = false
			assessment.Feedback = append(assessment.Feedback, fmt.Sprintf("Cannot detect %s", missing))
			continue
		}
		if rule.Bad(features) {
			assessment.IsCorrect = false
			assessment.Feedback = append(assessment.Feedback, rule.Message)
		}
	}

	if len(assessment.Feedback) == 0 {
		assessment.Feedback = []string{fmt.Sprintf("Good %s form!", activity)}
	}
	return assessment
}

// missingJoint reports the first required joint carrying the zero sentinel.
// A rule over a bilateral pair needs at least one observed side.
func missingJoint(features AggregatedFeatures, joints []JointAngleName) (JointAngleName, bool) {
	observed := false
	var missing JointAngleName
	for _, joint := range joints {
		if features[joint] > 0 {
			observed = true
		} else if missing == "" {
			missing = joint
		}
	}
	if observed {
		return "", true
	}
	return missing, false
}

// meanOf averages the observed (non-sentinel) entries of the named joints.
// Callers guard with missingJoint, so at least one entry is observed.
func meanOf(angles map[JointAngleName]float64, joints ...JointAngleName) float64 {
	sum, count := 0.0, 0
	for _, joint := range joints {
		if v := angles[joint]; v > 0 {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
