package pipeline

import "testing"

func TestSampler_StrideAndCap(t *testing.T) {
	t.Parallel()
	s := NewSampler(2, 3)

	var analyzed []int
	for i := 0; i < 10; i++ {
		if s.Exhausted() {
			break
		}
		index, analyze := s.Take()
		if !analyze {
			continue
		}
		analyzed = append(analyzed, index)
		s.RecordDetection()
	}

	want := []int{0, 2, 4}
	if len(analyzed) != len(want) {
		t.Fatalf("expected %v, got %v", want, analyzed)
	}
	for i := range want {
		if analyzed[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, analyzed)
		}
	}
	if !s.Exhausted() {
		t.Error("expected sampler exhausted after 3 detections")
	}
}

func TestSampler_UndetectedFramesDoNotCount(t *testing.T) {
	t.Parallel()
	s := NewSampler(1, 2)

	// Five sampled frames, detections only on the last two.
	for i := 0; i < 5; i++ {
		if s.Exhausted() {
			t.Fatalf("exhausted too early at frame %d", i)
		}
		if _, analyze := s.Take(); !analyze {
			t.Fatalf("stride 1 must sample every frame")
		}
		if i >= 3 {
			s.RecordDetection()
		}
	}

	if !s.Exhausted() {
		t.Error("expected exhausted after 2 detections")
	}
	if s.Detected() != 2 {
		t.Errorf("expected 2 detections, got %d", s.Detected())
	}
}

func TestSampler_IndicesAreSourcePositions(t *testing.T) {
	t.Parallel()
	s := NewSampler(3, 10)

	var analyzed []int
	for i := 0; i < 9; i++ {
		index, analyze := s.Take()
		if index != i {
			t.Fatalf("expected source index %d, got %d", i, index)
		}
		if analyze {
			analyzed = append(analyzed, index)
		}
	}

	want := []int{0, 3, 6}
	if len(analyzed) != len(want) {
		t.Fatalf("expected %v, got %v", want, analyzed)
	}
	for i := range want {
		if analyzed[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, analyzed)
		}
	}
}

func TestSampler_DegenerateConfigClamped(t *testing.T) {
	t.Parallel()
	s := NewSampler(0, 0)
	if _, analyze := s.Take(); !analyze {
		t.Error("stride clamped to 1 must sample frame 0")
	}
	s.RecordDetection()
	if !s.Exhausted() {
		t.Error("cap clamped to 1 must exhaust after one detection")
	}
}
