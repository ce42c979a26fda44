package pitchtrack

import (
	"errors"
	"log"

	"github.com/pitchtrack/pitchtrack/detect"
	"github.com/pitchtrack/pitchtrack/render"
	"github.com/pitchtrack/pitchtrack/tracker"
	"gocv.io/x/gocv"
)

// Source yields video frames in presentation order
type Source interface {
	// Next reads the next frame, returning ErrSourceExhausted at the end
	Next(img *gocv.Mat) error
	// FrameIndex is the 1-based index of the most recent frame
	FrameIndex() int
	// InferFrame reports whether the current frame is sent to the detector
	InferFrame() bool
}

// Sink receives every frame read from the source
type Sink interface {
	Write(img gocv.Mat) error
}

// Tracker is the multi object tracking collaborator.  Its internal state
// estimation is opaque to the pipeline.
type Tracker interface {
	Update(objects []tracker.Object) ([]tracker.TrackBox, error)
}

// Pipeline runs the sequential frame loop: read, detect, track, associate,
// annotate, aggregate, write.  One frame is fully completed before the next
// begins.
type Pipeline struct {
	Source   Source
	Detector detect.Detector
	Tracker  Tracker
	// Sink receives all frames when set, nil disables video output and
	// annotation
	Sink Sink
	Agg  *Aggregator
	// Font used for annotation labels
	Font render.Font
	// Trail enables drawing of track movement history when set
	Trail *tracker.Trail
	// MaxFrames limits the number of frames processed, 0 means no limit
	MaxFrames int
}

// Run processes frames until the source is exhausted or MaxFrames is
// reached.  It returns the total number of frames read.
func (p *Pipeline) Run() (int, error) {

	img := gocv.NewMat()
	defer img.Close()

	for {
		// frame limit is checked at the top of each iteration
		if p.MaxFrames > 0 && p.Source.FrameIndex() >= p.MaxFrames {
			break
		}

		err := p.Source.Next(&img)

		if errors.Is(err, ErrSourceExhausted) {
			break
		}

		if err != nil {
			return p.Source.FrameIndex(), err
		}

		if p.Source.InferFrame() {
			p.processFrame(&img)
		}

		if p.Sink != nil {
			if err := p.Sink.Write(img); err != nil {
				return p.Source.FrameIndex(), err
			}
		}
	}

	return p.Source.FrameIndex(), nil
}

// processFrame runs detection, tracking and association for the current
// frame.  Detector or tracker failures yield a frame with no results, they
// never abort the run.
func (p *Pipeline) processFrame(img *gocv.Mat) {

	frameIndex := p.Source.FrameIndex()

	dets, err := p.Detector.Detect(*img)

	if err != nil {
		log.Printf("detector error on frame %d: %v", frameIndex, err)
		return
	}

	if len(dets) == 0 {
		// nothing to track this frame
		return
	}

	tracks, err := p.Tracker.Update(tracker.DetectionsToObjects(dets))

	if err != nil {
		log.Printf("tracker error on frame %d: %v", frameIndex, err)
		return
	}

	if len(tracks) > 0 {
		AssignTrackIDs(tracks, dets)
	}

	for _, det := range dets {
		if det.Tracked {
			p.Agg.Add(frameIndex, det)
		}
	}

	// annotation is skipped entirely when no video output is requested
	if p.Sink == nil {
		return
	}

	if p.Trail != nil {
		for _, track := range tracks {
			p.Trail.Add(track)
		}
		render.Trails(img, tracks, p.Trail, render.DefaultTrailStyle())
	}

	render.TrackedBoxes(img, dets, p.Font, 2)
}
