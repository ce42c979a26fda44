package tracker

import (
	"testing"
)

// detection represents simple detection input data for a test frame
type detection struct {
	x1, y1, x2, y2, score float32
}

// convertDetections takes the test detections and converts them into the
// tracker object format
func convertDetections(detections []detection, useLabel int) []Object {

	var objects []Object

	for _, det := range detections {
		objects = append(objects, Object{
			Rect:  NewRect(det.x1, det.y1, det.x2, det.y2),
			Label: useLabel,
			Score: det.score,
		})
	}

	return objects
}

// TestByteTrackerStableIDs tests that objects detected in roughly the same
// place keep their identity across frames
func TestByteTrackerStableIDs(t *testing.T) {

	bt, err := NewByteTracker(DefaultParams())

	if err != nil {
		t.Fatalf("error creating tracker: %v", err)
	}

	frames := [][]detection{
		{
			{10, 10, 50, 90, 0.90},
			{200, 200, 240, 280, 0.85},
		},
		{
			{12, 11, 52, 91, 0.88},
			{202, 201, 242, 281, 0.86},
		},
		{
			{14, 12, 54, 92, 0.91},
			{204, 202, 244, 282, 0.84},
		},
	}

	var prev []TrackBox

	for i, frame := range frames {

		boxes, err := bt.Update(convertDetections(frame, 0))

		if err != nil {
			t.Fatalf("frame %d: error updating tracker: %v", i, err)
		}

		if len(boxes) != 2 {
			t.Fatalf("frame %d: expected 2 active tracks, got %d", i, len(boxes))
		}

		if i > 0 {
			for _, box := range boxes {
				if !containsID(prev, box.ID) {
					t.Errorf("frame %d: track ID %d not carried over from previous frame",
						i, box.ID)
				}
			}
		}

		prev = boxes
	}
}

// containsID checks whether a track ID exists in a list of track boxes
func containsID(boxes []TrackBox, id int) bool {

	for _, box := range boxes {
		if box.ID == id {
			return true
		}
	}

	return false
}

// TestByteTrackerConfirmation tests that a track appearing after the first
// frame needs a second observation before it is reported
func TestByteTrackerConfirmation(t *testing.T) {

	bt, err := NewByteTracker(DefaultParams())

	if err != nil {
		t.Fatalf("error creating tracker: %v", err)
	}

	first := []detection{{10, 10, 50, 90, 0.9}}

	boxes, err := bt.Update(convertDetections(first, 0))

	if err != nil {
		t.Fatalf("frame 1: error updating tracker: %v", err)
	}

	// tracks starting on the very first frame are reported immediately
	if len(boxes) != 1 {
		t.Fatalf("frame 1: expected 1 active track, got %d", len(boxes))
	}

	// a new object appears on frame 2
	second := []detection{
		{10, 10, 50, 90, 0.9},
		{300, 300, 340, 380, 0.9},
	}

	boxes, err = bt.Update(convertDetections(second, 0))

	if err != nil {
		t.Fatalf("frame 2: error updating tracker: %v", err)
	}

	if len(boxes) != 1 {
		t.Errorf("frame 2: expected unconfirmed track to be withheld, got %d active", len(boxes))
	}

	// seen again on frame 3 the new track is confirmed
	boxes, err = bt.Update(convertDetections(second, 0))

	if err != nil {
		t.Fatalf("frame 3: error updating tracker: %v", err)
	}

	if len(boxes) != 2 {
		t.Errorf("frame 3: expected 2 active tracks after confirmation, got %d", len(boxes))
	}
}

// TestByteTrackerLowScoreContinuation tests that a dropped confidence
// detection still continues an existing track through the second
// association stage
func TestByteTrackerLowScoreContinuation(t *testing.T) {

	bt, err := NewByteTracker(DefaultParams())

	if err != nil {
		t.Fatalf("error creating tracker: %v", err)
	}

	boxes, err := bt.Update(convertDetections([]detection{{10, 10, 50, 90, 0.9}}, 0))

	if err != nil {
		t.Fatalf("frame 1: error updating tracker: %v", err)
	}

	if len(boxes) != 1 {
		t.Fatalf("frame 1: expected 1 active track, got %d", len(boxes))
	}

	id := boxes[0].ID

	// same object with confidence below the track threshold
	boxes, err = bt.Update(convertDetections([]detection{{11, 10, 51, 90, 0.2}}, 0))

	if err != nil {
		t.Fatalf("frame 2: error updating tracker: %v", err)
	}

	if len(boxes) != 1 || boxes[0].ID != id {
		t.Errorf("frame 2: expected low score detection to continue track %d, got %v", id, boxes)
	}
}

// TestByteTrackerLostTrack tests that an object disappearing stops being
// reported while the tracker retains it for reactivation
func TestByteTrackerLostTrack(t *testing.T) {

	bt, err := NewByteTracker(DefaultParams())

	if err != nil {
		t.Fatalf("error creating tracker: %v", err)
	}

	obj := []detection{{10, 10, 50, 90, 0.9}}

	boxes, err := bt.Update(convertDetections(obj, 0))

	if err != nil {
		t.Fatalf("frame 1: error updating tracker: %v", err)
	}

	id := boxes[0].ID

	// object disappears
	boxes, err = bt.Update(nil)

	if err != nil {
		t.Fatalf("frame 2: error updating tracker: %v", err)
	}

	if len(boxes) != 0 {
		t.Errorf("frame 2: expected no active tracks, got %d", len(boxes))
	}

	// object reappears nearby and recovers its identity
	boxes, err = bt.Update(convertDetections([]detection{{12, 10, 52, 90, 0.9}}, 0))

	if err != nil {
		t.Fatalf("frame 3: error updating tracker: %v", err)
	}

	if len(boxes) != 1 || boxes[0].ID != id {
		t.Errorf("frame 3: expected reactivated track %d, got %v", id, boxes)
	}

	// reactivation keeps the original start frame of the track
	if len(bt.trackedTracks) != 1 || bt.trackedTracks[0].StartFrameID() != 1 {
		t.Errorf("expected reactivated track to keep start frame 1, got %d",
			bt.trackedTracks[0].StartFrameID())
	}
}

// TestNewByteTrackerValidation tests rejection of unusable parameters
func TestNewByteTrackerValidation(t *testing.T) {

	bad := []Params{
		{FrameRate: 0, TrackBuffer: 30, TrackThresh: 0.25, HighThresh: 0.6, MatchThresh: 0.8},
		{FrameRate: 30, TrackBuffer: 0, TrackThresh: 0.25, HighThresh: 0.6, MatchThresh: 0.8},
		{FrameRate: 30, TrackBuffer: 30, TrackThresh: 1.5, HighThresh: 0.6, MatchThresh: 0.8},
		{FrameRate: 30, TrackBuffer: 30, TrackThresh: 0.25, HighThresh: 0.6, MatchThresh: 0},
	}

	for i, p := range bad {
		if _, err := NewByteTracker(p); err == nil {
			t.Errorf("params %d: expected error, got nil", i)
		}
	}

	if _, err := NewByteTracker(DefaultParams()); err != nil {
		t.Errorf("default params: unexpected error: %v", err)
	}
}
