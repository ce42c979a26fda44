package tracker

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TrackState represents the lifecycle state of a tracked object
type TrackState int

const (
	// Object is newly detected
	New TrackState = iota
	// Object is currently being tracked
	Tracked
	// Object has been lost
	Lost
	// Object has been removed
	Removed
)

// Track represents a single object hypothesis carrying a persistent identity
// across frames
type Track struct {
	// kalman filter shared by all tracks of the owning tracker
	kf *KalmanFilter
	// state mean vector (x, y, aspect, height, vx, vy, va, vh)
	mean *mat.VecDense
	// state covariance matrix
	cov *mat.Dense
	// bounding box of the tracked object
	rect Rect
	// current lifecycle state
	state TrackState
	// whether the track has been confirmed by a second observation
	activated bool
	// detection score of the most recent observation
	score float32
	// label is the object class from detection
	label int
	// unique ID for the track
	trackID int
	// frame ID of the most recent observation
	frameID int
	// frame ID when the track started
	startFrameID int
	// number of consecutive frames the track has been updated
	trackletLen int
}

// newTrack creates an unactivated track holding a detection observation
func newTrack(kf *KalmanFilter, rect Rect, score float32, label int) *Track {
	return &Track{
		kf:    kf,
		rect:  rect,
		score: score,
		label: label,
		state: New,
	}
}

// TrackID returns the unique persistent ID for the track
func (t *Track) TrackID() int {
	return t.trackID
}

// Rect returns the current bounding box estimate of the tracked object
func (t *Track) Rect() Rect {
	return t.rect
}

// Score returns the detection score of the most recent observation
func (t *Track) Score() float32 {
	return t.score
}

// Label returns the object class from detection
func (t *Track) Label() int {
	return t.label
}

// State returns the current lifecycle state of the track
func (t *Track) State() TrackState {
	return t.state
}

// IsActivated returns whether the track has been confirmed
func (t *Track) IsActivated() bool {
	return t.activated
}

// StartFrameID returns the frame ID when the track started
func (t *Track) StartFrameID() int {
	return t.startFrameID
}

// activate initializes the track filter state and assigns its identity.
// Tracks starting on the very first frame are confirmed immediately,
// later tracks need a second observation.
func (t *Track) activate(frameID, trackID int) {

	t.mean, t.cov = t.kf.Initiate(t.rect.Xyah())
	t.updateRect()

	t.state = Tracked
	t.activated = frameID == 1
	t.trackID = trackID
	t.frameID = frameID
	t.startFrameID = frameID
	t.trackletLen = 0
}

// reActivate revives a lost track with a new matching detection
func (t *Track) reActivate(det *Track, frameID int) error {

	err := t.kf.Update(t.mean, t.cov, det.rect.Xyah())

	if err != nil {
		return fmt.Errorf("error reactivating track: %w", err)
	}

	t.updateRect()

	t.state = Tracked
	t.activated = true
	t.score = det.score
	t.label = det.label
	t.frameID = frameID
	t.trackletLen = 0

	return nil
}

// predict advances the track state one frame using the motion model
func (t *Track) predict() {

	// a track not currently observed has no reliable height velocity
	if t.state != Tracked {
		t.mean.SetVec(7, 0)
	}

	t.kf.Predict(t.mean, t.cov)
	t.updateRect()
}

// update corrects the track state with a matching detection
func (t *Track) update(det *Track, frameID int) error {

	err := t.kf.Update(t.mean, t.cov, det.rect.Xyah())

	if err != nil {
		return fmt.Errorf("error updating track: %w", err)
	}

	t.updateRect()

	t.state = Tracked
	t.activated = true
	t.score = det.score
	t.label = det.label
	t.frameID = frameID
	t.trackletLen++

	return nil
}

// markLost marks the track as lost
func (t *Track) markLost() {
	t.state = Lost
}

// markRemoved marks the track as removed
func (t *Track) markRemoved() {
	t.state = Removed
}

// updateRect refreshes the bounding box from the filter state mean
func (t *Track) updateRect() {
	t.rect = RectFromXyah(t.mean.RawVector().Data[:4])
}
