package pipeline

// Sampler decides which decoded frames are analyzed. Every n-th frame is
// sampled, and sampling halts once maxFrames frames with a detected pose
// have been processed. Sampled frames without a detection do not count
// toward the cap and do not halt sampling.
type Sampler struct {
	every     int
	maxFrames int
	index     int
	detected  int
}

func NewSampler(sampleEveryN, maxFrames int) *Sampler {
	if sampleEveryN < 1 {
		sampleEveryN = 1
	}
	if maxFrames < 1 {
		maxFrames = 1
	}
	return &Sampler{every: sampleEveryN, maxFrames: maxFrames}
}

// Take consumes the current decoded frame position and reports whether it
// should be analyzed. The returned index is the source-frame position, not
// the sampled-sequence position.
func (s *Sampler) Take() (index int, analyze bool) {
	index = s.index
	analyze = s.index%s.every == 0
	s.index++
	return index, analyze
}

// RecordDetection counts one analyzed frame that yielded a pose.
func (s *Sampler) RecordDetection() {
	s.detected++
}

// Exhausted reports whether the processed-and-detected cap is reached.
func (s *Sampler) Exhausted() bool {
	return s.detected >= s.maxFrames
}

// Detected returns the number of frames counted toward the cap.
func (s *Sampler) Detected() int {
	return s.detected
}
