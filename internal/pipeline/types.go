// Package pipeline implements the motion-analysis core: frame sampling,
// joint-angle geometry, cross-frame aggregation, activity classification,
// and per-activity form evaluation. One Run analyzes one clip; the package
// holds no state across runs.
package pipeline

// LandmarkName is the closed vocabulary of anatomical points the pipeline
// understands. Engine output is translated into these names at the adapter
// boundary; arbitrary strings never become landmark keys.
type LandmarkName string

const (
	LeftShoulder  LandmarkName = "left_shoulder"
	RightShoulder LandmarkName = "right_shoulder"
	LeftElbow     LandmarkName = "left_elbow"
	RightElbow    LandmarkName = "right_elbow"
	LeftWrist     LandmarkName = "left_wrist"
	RightWrist    LandmarkName = "right_wrist"
	LeftHip       LandmarkName = "left_hip"
	RightHip      LandmarkName = "right_hip"
	LeftKnee      LandmarkName = "left_knee"
	RightKnee     LandmarkName = "right_knee"
	LeftAnkle     LandmarkName = "left_ankle"
	RightAnkle    LandmarkName = "right_ankle"
)

// KnownLandmarks lists the closed vocabulary in a stable order.
var KnownLandmarks = []LandmarkName{
	LeftShoulder, RightShoulder,
	LeftElbow, RightElbow,
	LeftWrist, RightWrist,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
}

// Landmark is a named anatomical point in pixel space with an optional
// depth and a visibility score in [0,1]. Immutable once created.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z,omitempty"`
	Visibility float64 `json:"visibility"`
}

// JointAngleName is the closed set of joint angles the pipeline computes.
type JointAngleName string

const (
	AngleLeftElbow  JointAngleName = "left_elbow"
	AngleRightElbow JointAngleName = "right_elbow"
	AngleLeftKnee   JointAngleName = "left_knee"
	AngleRightKnee  JointAngleName = "right_knee"
	AngleLeftHip    JointAngleName = "left_hip"
	AngleRightHip   JointAngleName = "right_hip"
)

// FeatureOrder is the fixed joint-angle order of the model feature vector.
// This is the contract with the offline-trained classifier: reordering it
// silently breaks predictions.
var FeatureOrder = []JointAngleName{
	AngleLeftElbow, AngleRightElbow,
	AngleLeftKnee, AngleRightKnee,
	AngleLeftHip, AngleRightHip,
}

// angleDef names the three landmarks an angle is computed from: the vertex
// joint and the two ray endpoints.
type angleDef struct {
	vertex LandmarkName
	a      LandmarkName
	b      LandmarkName
}

var angleDefs = map[JointAngleName]angleDef{
	AngleLeftElbow:  {vertex: LeftElbow, a: LeftShoulder, b: LeftWrist},
	AngleRightElbow: {vertex: RightElbow, a: RightShoulder, b: RightWrist},
	AngleLeftKnee:   {vertex: LeftKnee, a: LeftHip, b: LeftAnkle},
	AngleRightKnee:  {vertex: RightKnee, a: RightHip, b: RightAnkle},
	AngleLeftHip:    {vertex: LeftHip, a: LeftShoulder, b: LeftKnee},
	AngleRightHip:   {vertex: RightHip, a: RightShoulder, b: RightKnee},
}

// FrameObservation is one sampled frame with a detected pose. Angles holds
// only the angles that could be computed for this frame; an occluded joint
// is simply absent, never zero.
type FrameObservation struct {
	FrameIndex int                        `json:"frame_index"`
	Landmarks  map[LandmarkName]Landmark  `json:"landmarks,omitempty"`
	Angles     map[JointAngleName]float64 `json:"angles"`
}

// AggregatedFeatures is the per-clip mean of each joint angle. It always
// has one entry per JointAngleName; a joint absent in every frame carries
// the zero sentinel so the feature vector keeps fixed arity.
type AggregatedFeatures map[JointAngleName]float64

// ClassificationSource records which strategy produced a label.
type ClassificationSource string

const (
	SourceRule  ClassificationSource = "rule"
	SourceModel ClassificationSource = "model"
)

// Activity labels emitted by the rule-based classifier. The model may emit
// any label it was trained on.
const (
	ActivitySquat   = "squat"
	ActivityPushup  = "pushup"
	ActivityThrow   = "throw"
	ActivityUnknown = "unknown"
)

// Classification is the label assigned to a clip.
type Classification struct {
	Activity string               `json:"activity"`
	Source   ClassificationSource `json:"source"`
}

// FormAssessment is the correctness verdict for the assigned activity.
// Feedback is ordered first-detected-issue-first and is never empty.
type FormAssessment struct {
	IsCorrect bool     `json:"is_correct"`
	Feedback  []string `json:"feedback"`
}

// Summary is the per-clip aggregate handed to the recorder.
type Summary struct {
	FramesProcessed int                `json:"frames_processed"`
	Features        AggregatedFeatures `json:"aggregated_features"`
	Classification  Classification     `json:"classification"`
	Assessment      FormAssessment     `json:"form_assessment"`
}

// Report is the terminal record of one pipeline run. Error is empty on
// success; on failure it names the clip-level failure and Summary is
// degraded rather than absent.
type Report struct {
	JobID          string             `json:"job_id"`
	VideoReference string             `json:"video_reference"`
	Frames         []FrameObservation `json:"frames,omitempty"`
	Summary        Summary            `json:"summary"`
	Error          string             `json:"error,omitempty"`
}
