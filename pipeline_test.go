package pitchtrack

import (
	"errors"
	"testing"

	"github.com/pitchtrack/pitchtrack/detect"
	"github.com/pitchtrack/pitchtrack/tracker"
	"gocv.io/x/gocv"
)

// fakeSource yields a fixed number of small frames
type fakeSource struct {
	frames int
	stride int
	index  int
}

func (s *fakeSource) Next(img *gocv.Mat) error {

	if s.index >= s.frames {
		return ErrSourceExhausted
	}

	s.index++

	m := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer m.Close()
	m.CopyTo(img)

	return nil
}

func (s *fakeSource) FrameIndex() int {
	return s.index
}

func (s *fakeSource) InferFrame() bool {
	return inferFrame(s.index, s.stride)
}

// fakeDetector returns a fixed detection list and counts invocations
type fakeDetector struct {
	dets  []detect.Detection
	calls []int
	src   *fakeSource
}

func (d *fakeDetector) Detect(img gocv.Mat) ([]detect.Detection, error) {
	d.calls = append(d.calls, d.src.index)
	out := make([]detect.Detection, len(d.dets))
	copy(out, d.dets)
	return out, nil
}

func (d *fakeDetector) Close() error {
	return nil
}

// fakeTracker returns fixed track boxes and counts invocations
type fakeTracker struct {
	boxes []tracker.TrackBox
	calls int
}

func (t *fakeTracker) Update(objects []tracker.Object) ([]tracker.TrackBox, error) {
	t.calls++
	return t.boxes, nil
}

// countingSink counts frames written
type countingSink struct {
	writes int
}

func (s *countingSink) Write(img gocv.Mat) error {
	s.writes++
	return nil
}

// TestPipelineStride tests that with a skip stride of 3 over 7 frames the
// detector runs on frames 3 and 6 only while every frame is counted and
// written
func TestPipelineStride(t *testing.T) {

	source := &fakeSource{frames: 7, stride: 3}
	detector := &fakeDetector{src: source}
	trk := &fakeTracker{}
	sink := &countingSink{}

	p := &Pipeline{
		Source:   source,
		Detector: detector,
		Tracker:  trk,
		Sink:     sink,
		Agg:      NewAggregator(),
	}

	total, err := p.Run()

	if err != nil {
		t.Fatalf("error running pipeline: %v", err)
	}

	if total != 7 {
		t.Errorf("expected 7 frames read, got %d", total)
	}

	if len(detector.calls) != 2 || detector.calls[0] != 3 || detector.calls[1] != 6 {
		t.Errorf("expected detector calls on frames [3 6], got %v", detector.calls)
	}

	if sink.writes != 7 {
		t.Errorf("expected all 7 frames written, got %d", sink.writes)
	}
}

// TestPipelineZeroDetections tests that a frame with no detections skips
// the tracker update entirely and appends no records
func TestPipelineZeroDetections(t *testing.T) {

	source := &fakeSource{frames: 4, stride: 1}
	detector := &fakeDetector{src: source}
	trk := &fakeTracker{}
	agg := NewAggregator()

	p := &Pipeline{
		Source:   source,
		Detector: detector,
		Tracker:  trk,
		Agg:      agg,
	}

	if _, err := p.Run(); err != nil {
		t.Fatalf("error running pipeline: %v", err)
	}

	if trk.calls != 0 {
		t.Errorf("expected tracker never updated, got %d calls", trk.calls)
	}

	if len(agg.Records()) != 0 {
		t.Errorf("expected no records, got %d", len(agg.Records()))
	}
}

// TestPipelineMaxFrames tests that the frame limit stops the run at the top
// of the iteration
func TestPipelineMaxFrames(t *testing.T) {

	source := &fakeSource{frames: 10, stride: 1}
	detector := &fakeDetector{src: source}

	p := &Pipeline{
		Source:    source,
		Detector:  detector,
		Tracker:   &fakeTracker{},
		Agg:       NewAggregator(),
		MaxFrames: 3,
	}

	total, err := p.Run()

	if err != nil {
		t.Fatalf("error running pipeline: %v", err)
	}

	if total != 3 {
		t.Errorf("expected 3 frames read, got %d", total)
	}
}

// TestPipelineAssignedRecords tests that assigned detections flow into the
// aggregator with the frame index
func TestPipelineAssignedRecords(t *testing.T) {

	source := &fakeSource{frames: 2, stride: 1}

	detector := &fakeDetector{
		src: source,
		dets: []detect.Detection{{
			Box:        detect.Box{X1: 10, Y1: 10, X2: 50, Y2: 50},
			Confidence: 0.9,
			Label:      "player",
		}},
	}

	trk := &fakeTracker{
		boxes: []tracker.TrackBox{{
			ID:   4,
			Rect: tracker.NewRect(10, 10, 50, 50),
		}},
	}

	agg := NewAggregator()

	p := &Pipeline{
		Source:   source,
		Detector: detector,
		Tracker:  trk,
		Agg:      agg,
	}

	if _, err := p.Run(); err != nil {
		t.Fatalf("error running pipeline: %v", err)
	}

	records := agg.Records()

	if len(records) != 2 {
		t.Fatalf("expected one record per frame, got %d", len(records))
	}

	for i, rec := range records {
		if rec.TrackID != 4 || rec.Frame != i+1 {
			t.Errorf("record %d: expected track 4 frame %d, got %+v", i, i+1, rec)
		}
	}
}

// TestPipelineUnassignedExcluded tests that detections without a track
// overlap never reach the result log
func TestPipelineUnassignedExcluded(t *testing.T) {

	source := &fakeSource{frames: 1, stride: 1}

	detector := &fakeDetector{
		src: source,
		dets: []detect.Detection{{
			Box:        detect.Box{X1: 100, Y1: 100, X2: 110, Y2: 110},
			Confidence: 0.9,
			Label:      "ball",
		}},
	}

	// the tracker box is nowhere near the detection
	trk := &fakeTracker{
		boxes: []tracker.TrackBox{{
			ID:   1,
			Rect: tracker.NewRect(0, 0, 10, 10),
		}},
	}

	agg := NewAggregator()

	p := &Pipeline{
		Source:   source,
		Detector: detector,
		Tracker:  trk,
		Agg:      agg,
	}

	if _, err := p.Run(); err != nil {
		t.Fatalf("error running pipeline: %v", err)
	}

	if len(agg.Records()) != 0 {
		t.Errorf("expected no records for unassigned detections, got %d",
			len(agg.Records()))
	}
}

// failingDetector always errors
type failingDetector struct{}

func (d *failingDetector) Detect(img gocv.Mat) ([]detect.Detection, error) {
	return nil, errors.New("inference failed")
}

func (d *failingDetector) Close() error {
	return nil
}

// TestPipelineDetectorFailure tests that a detector error produces a frame
// with no results instead of aborting the run
func TestPipelineDetectorFailure(t *testing.T) {

	source := &fakeSource{frames: 3, stride: 1}
	trk := &fakeTracker{}

	p := &Pipeline{
		Source:   source,
		Detector: &failingDetector{},
		Tracker:  trk,
		Agg:      NewAggregator(),
	}

	total, err := p.Run()

	if err != nil {
		t.Fatalf("expected detector failures to be contained, got %v", err)
	}

	if total != 3 {
		t.Errorf("expected all 3 frames read, got %d", total)
	}

	if trk.calls != 0 {
		t.Errorf("expected tracker never updated, got %d calls", trk.calls)
	}
}
