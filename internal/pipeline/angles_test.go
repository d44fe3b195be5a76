package pipeline

import (
	"math"
	"testing"
)

func TestAngle_RightAngle(t *testing.T) {
	t.Parallel()
	deg, ok := Angle(Point{0, 0}, Point{1, 0}, Point{0, 1})
	if !ok {
		t.Fatal("expected an angle")
	}
	if math.Abs(deg-90) > 1e-9 {
		t.Errorf("expected 90, got %v", deg)
	}
}

func TestAngle_StraightLine(t *testing.T) {
	t.Parallel()
	deg, ok := Angle(Point{0, 0}, Point{1, 0}, Point{-1, 0})
	if !ok {
		t.Fatal("expected an angle")
	}
	if math.Abs(deg-180) > 1e-9 {
		t.Errorf("expected 180, got %v", deg)
	}
}

func TestAngle_CoincidentPointsAbsent(t *testing.T) {
	t.Parallel()
	if _, ok := Angle(Point{2, 3}, Point{2, 3}, Point{5, 5}); ok {
		t.Error("coincident vertex and a: expected absent")
	}
	if _, ok := Angle(Point{2, 3}, Point{5, 5}, Point{2, 3}); ok {
		t.Error("coincident vertex and b: expected absent")
	}
}

func TestAngle_SymmetricUnderRaySwap(t *testing.T) {
	t.Parallel()
	points := []Point{{1, 1}, {4, 0}, {-2, 3}, {0.5, -7}, {100, 100}}
	vertex := Point{0.3, 0.7}
	for _, a := range points {
		for _, b := range points {
			ab, okAB := Angle(vertex, a, b)
			ba, okBA := Angle(vertex, b, a)
			if okAB != okBA {
				t.Fatalf("asymmetric presence for a=%v b=%v", a, b)
			}
			if okAB && math.Abs(ab-ba) > 1e-9 {
				t.Errorf("angle(v,%v,%v)=%v != angle(v,%v,%v)=%v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestAngle_AlwaysInRange(t *testing.T) {
	t.Parallel()
	vertex := Point{0, 0}
	for x := -3.0; x <= 3; x++ {
		for y := -3.0; y <= 3; y++ {
			for u := -3.0; u <= 3; u++ {
				for v := -3.0; v <= 3; v++ {
					deg, ok := Angle(vertex, Point{x, y}, Point{u, v})
					if !ok {
						continue
					}
					if deg < 0 || deg > 180 {
						t.Fatalf("angle out of range: %v for a=(%v,%v) b=(%v,%v)", deg, x, y, u, v)
					}
				}
			}
		}
	}
}

func TestAngle_ClampsCosineOvershoot(t *testing.T) {
	t.Parallel()
	// Nearly collinear rays whose cosine can overshoot 1 in floating point.
	deg, ok := Angle(Point{0, 0}, Point{1e8, 1e-8}, Point{2e8, 2e-8})
	if !ok {
		t.Fatal("expected an angle")
	}
	if math.IsNaN(deg) {
		t.Fatal("cosine overshoot produced NaN")
	}
}

func TestComputeAngles_MissingLandmarkOmitsAngle(t *testing.T) {
	t.Parallel()
	landmarks := map[LandmarkName]Landmark{
		LeftShoulder: {X: 0, Y: 0, Visibility: 1},
		LeftElbow:    {X: 0, Y: 10, Visibility: 1},
		// left wrist missing
		LeftHip:   {X: 0, Y: 20, Visibility: 1},
		LeftKnee:  {X: 0, Y: 30, Visibility: 1},
		LeftAnkle: {X: 10, Y: 30, Visibility: 1},
	}

	angles := ComputeAngles(landmarks)

	if _, ok := angles[AngleLeftElbow]; ok {
		t.Error("left elbow angle should be absent without a wrist landmark")
	}
	if _, ok := angles[AngleLeftKnee]; !ok {
		t.Error("left knee angle should be present")
	}
	if _, ok := angles[AngleLeftHip]; !ok {
		t.Error("left hip angle should be present")
	}
	if _, ok := angles[AngleRightKnee]; ok {
		t.Error("right knee angle should be absent without right-side landmarks")
	}
}

func TestComputeAngles_CollinearLeg(t *testing.T) {
	t.Parallel()
	landmarks := map[LandmarkName]Landmark{
		LeftHip:   {X: 50, Y: 60},
		LeftKnee:  {X: 50, Y: 80},
		LeftAnkle: {X: 50, Y: 100},
	}

	angles := ComputeAngles(landmarks)

	knee, ok := angles[AngleLeftKnee]
	if !ok {
		t.Fatal("expected left knee angle")
	}
	if math.Abs(knee-180) > 1e-9 {
		t.Errorf("expected straight leg 180, got %v", knee)
	}
}
