package tracker

import (
	"fmt"
	"sort"
)

// Params holds the frozen tracker configuration, set once at startup
type Params struct {
	// FrameRate of the video being tracked
	FrameRate int
	// TrackBuffer is the number of frames a lost track is kept before removal
	TrackBuffer int
	// TrackThresh is the score split between high and low confidence
	// detections
	TrackThresh float32
	// HighThresh is the minimum score for starting a new track
	HighThresh float32
	// MatchThresh is the maximum IoU distance (1-IoU) accepted in the first
	// association stage
	MatchThresh float32
}

// DefaultParams returns the standard ByteTrack parameters
func DefaultParams() Params {
	return Params{
		FrameRate:   30,
		TrackBuffer: 30,
		TrackThresh: 0.25,
		HighThresh:  0.6,
		MatchThresh: 0.8,
	}
}

// ByteTracker associates per frame detections into persistent tracks using
// the BYTE two stage matching strategy
type ByteTracker struct {
	trackThresh float32
	highThresh  float32
	matchThresh float32
	maxTimeLost int
	// current frame ID
	frameID int
	// counter for assigning unique track IDs
	trackIDCount int
	// kalman filter shared by all tracks
	kf *KalmanFilter
	// currently tracked objects
	trackedTracks []*Track
	// lost objects kept for possible reactivation
	lostTracks []*Track
}

// NewByteTracker initializes and returns a new ByteTracker, it returns an
// error when the parameters cannot describe a usable tracker
func NewByteTracker(p Params) (*ByteTracker, error) {

	if p.FrameRate <= 0 || p.TrackBuffer <= 0 {
		return nil, fmt.Errorf("frame rate and track buffer must be positive, got %d and %d",
			p.FrameRate, p.TrackBuffer)
	}

	if p.TrackThresh < 0 || p.TrackThresh > 1 || p.HighThresh < 0 || p.HighThresh > 1 {
		return nil, fmt.Errorf("score thresholds must be in [0,1]")
	}

	if p.MatchThresh <= 0 {
		return nil, fmt.Errorf("match threshold must be positive")
	}

	return &ByteTracker{
		trackThresh: p.TrackThresh,
		highThresh:  p.HighThresh,
		matchThresh: p.MatchThresh,
		maxTimeLost: int(float32(p.FrameRate) / 30.0 * float32(p.TrackBuffer)),
		kf:          NewKalmanFilter(),
	}, nil
}

// Reset clears all tracked data and restarts the frame and ID counters
func (bt *ByteTracker) Reset() {
	bt.frameID = 0
	bt.trackIDCount = 0
	bt.trackedTracks = nil
	bt.lostTracks = nil
}

// Update advances the tracker with the detections of the current frame and
// returns the boxes of the currently active tracks
func (bt *ByteTracker) Update(objects []Object) ([]TrackBox, error) {

	bt.frameID++

	// split detections by confidence
	var detHigh, detLow []*Track

	for _, object := range objects {

		det := newTrack(bt.kf, object.Rect, object.Score, object.Label)

		if object.Score >= bt.trackThresh {
			detHigh = append(detHigh, det)
		} else {
			detLow = append(detLow, det)
		}
	}

	var activeTracks, unconfirmed []*Track

	for _, track := range bt.trackedTracks {
		if track.IsActivated() {
			activeTracks = append(activeTracks, track)
		} else {
			unconfirmed = append(unconfirmed, track)
		}
	}

	pool := joinTracks(activeTracks, bt.lostTracks)

	for _, track := range pool {
		track.predict()
	}

	// first association, high confidence detections against the track pool
	var current, refound, lost []*Track

	matches, unmatchedTracks, unmatchedDets := matchByIoU(pool, detHigh, bt.matchThresh)

	for _, m := range matches {

		track := pool[m[0]]
		det := detHigh[m[1]]

		if track.State() == Tracked {
			if err := track.update(det, bt.frameID); err != nil {
				return nil, fmt.Errorf("first association: %w", err)
			}
			current = append(current, track)
		} else {
			if err := track.reActivate(det, bt.frameID); err != nil {
				return nil, fmt.Errorf("first association: %w", err)
			}
			refound = append(refound, track)
		}
	}

	remainDets := pick(detHigh, unmatchedDets)

	// second association, low confidence detections recover tracks that
	// were observed last frame but missed by the high threshold
	var remainTracked []*Track

	for _, idx := range unmatchedTracks {
		if pool[idx].State() == Tracked {
			remainTracked = append(remainTracked, pool[idx])
		}
	}

	matches, unmatchedTracks, _ = matchByIoU(remainTracked, detLow, 0.5)

	for _, m := range matches {

		track := remainTracked[m[0]]
		det := detLow[m[1]]

		if err := track.update(det, bt.frameID); err != nil {
			return nil, fmt.Errorf("second association: %w", err)
		}
		current = append(current, track)
	}

	for _, idx := range unmatchedTracks {
		track := remainTracked[idx]
		track.markLost()
		lost = append(lost, track)
	}

	// unconfirmed tracks only survive if seen again this frame
	matches, unmatchedTracks, unmatchedDets = matchByIoU(unconfirmed, remainDets, 0.7)

	for _, m := range matches {

		track := unconfirmed[m[0]]

		if err := track.update(remainDets[m[1]], bt.frameID); err != nil {
			return nil, fmt.Errorf("unconfirmed association: %w", err)
		}
		current = append(current, track)
	}

	for _, idx := range unmatchedTracks {
		unconfirmed[idx].markRemoved()
	}

	// start new tracks from leftover high confidence detections
	for _, idx := range unmatchedDets {

		det := remainDets[idx]

		if det.Score() < bt.highThresh {
			continue
		}

		bt.trackIDCount++
		det.activate(bt.frameID, bt.trackIDCount)
		current = append(current, det)
	}

	// expire lost tracks that have been missing too long
	var stillLost []*Track

	for _, track := range bt.lostTracks {

		if track.State() != Lost {
			continue
		}

		if bt.frameID-track.frameID > bt.maxTimeLost {
			track.markRemoved()
		} else {
			stillLost = append(stillLost, track)
		}
	}

	bt.trackedTracks = joinTracks(current, refound)

	// keep unconfirmed tracks not matched this frame out of the lost list,
	// they were removed above
	bt.lostTracks = subTracks(joinTracks(stillLost, lost), bt.trackedTracks)

	var output []TrackBox

	for _, track := range bt.trackedTracks {
		if track.IsActivated() {
			output = append(output, TrackBox{
				ID:   track.TrackID(),
				Rect: track.Rect(),
			})
		}
	}

	return output, nil
}

// matchByIoU greedily pairs tracks with detections by lowest IoU distance
// (1-IoU).  Pairs with a distance above thresh are not matched.  Returns the
// matched index pairs plus the unmatched track and detection indexes.
func matchByIoU(tracks, dets []*Track, thresh float32) ([][2]int, []int, []int) {

	type pair struct {
		ti, di int
		dist   float32
	}

	var pairs []pair

	for ti, track := range tracks {
		for di, det := range dets {

			dist := 1 - track.Rect().IoU(det.Rect())

			if dist <= thresh {
				pairs = append(pairs, pair{ti: ti, di: di, dist: dist})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].dist < pairs[j].dist
	})

	usedTrack := make(map[int]bool)
	usedDet := make(map[int]bool)

	var matches [][2]int

	for _, p := range pairs {

		if usedTrack[p.ti] || usedDet[p.di] {
			continue
		}

		usedTrack[p.ti] = true
		usedDet[p.di] = true
		matches = append(matches, [2]int{p.ti, p.di})
	}

	var unmatchedTracks, unmatchedDets []int

	for ti := range tracks {
		if !usedTrack[ti] {
			unmatchedTracks = append(unmatchedTracks, ti)
		}
	}

	for di := range dets {
		if !usedDet[di] {
			unmatchedDets = append(unmatchedDets, di)
		}
	}

	return matches, unmatchedTracks, unmatchedDets
}

// joinTracks merges two track lists without duplicating entries
func joinTracks(a, b []*Track) []*Track {

	seen := make(map[*Track]bool)
	var res []*Track

	for _, track := range a {
		if !seen[track] {
			seen[track] = true
			res = append(res, track)
		}
	}

	for _, track := range b {
		if !seen[track] {
			seen[track] = true
			res = append(res, track)
		}
	}

	return res
}

// subTracks returns the tracks of a that are not present in b
func subTracks(a, b []*Track) []*Track {

	drop := make(map[*Track]bool)

	for _, track := range b {
		drop[track] = true
	}

	var res []*Track

	for _, track := range a {
		if !drop[track] {
			res = append(res, track)
		}
	}

	return res
}

// pick returns the elements of tracks at the given indexes
func pick(tracks []*Track, idxs []int) []*Track {

	res := make([]*Track, 0, len(idxs))

	for _, idx := range idxs {
		res = append(res, tracks[idx])
	}

	return res
}
