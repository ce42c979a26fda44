package pitchtrack

import "testing"

// TestOutputSize tests the one time downscale policy
func TestOutputSize(t *testing.T) {

	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"1080p downscaled", 1920, 1080, 1280, 720},
		{"4k downscaled", 3840, 2160, 1280, 720},
		{"sd unchanged", 640, 480, 640, 480},
		{"exact limit unchanged", 1280, 720, 1280, 720},
		{"tall source limited by height", 1280, 1440, 640, 720},
		{"wide source limited by width", 2560, 720, 1280, 360},
	}

	for _, tt := range tests {

		gotW, gotH := outputSize(tt.width, tt.height)

		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("%s: expected %dx%d, got %dx%d", tt.name,
				tt.wantW, tt.wantH, gotW, gotH)
		}

		if gotW > maxOutputWidth || gotH > maxOutputHeight {
			t.Errorf("%s: output %dx%d exceeds limit", tt.name, gotW, gotH)
		}
	}
}

// TestInferFrame tests the detection stride gating, a stride of 3 over 7
// frames sends frames 3 and 6 to the detector
func TestInferFrame(t *testing.T) {

	var inferred []int

	for index := 1; index <= 7; index++ {
		if inferFrame(index, 3) {
			inferred = append(inferred, index)
		}
	}

	if len(inferred) != 2 || inferred[0] != 3 || inferred[1] != 6 {
		t.Errorf("stride 3: expected frames [3 6], got %v", inferred)
	}

	// stride 1 sends every frame
	for index := 1; index <= 5; index++ {
		if !inferFrame(index, 1) {
			t.Errorf("stride 1: expected frame %d inferred", index)
		}
	}

	// values below 1 behave as stride 1
	if !inferFrame(1, 0) {
		t.Error("stride 0: expected every frame inferred")
	}
}
