package pitchtrack

import (
	"github.com/pitchtrack/pitchtrack/detect"
	"github.com/pitchtrack/pitchtrack/tracker"
	"gonum.org/v1/gonum/mat"
)

// AssignTrackIDs links current frame detections to active tracks by spatial
// overlap.  For every track the detection with the maximal IoU is selected,
// ties choose the lowest index detection, and when the overlap is nonzero
// the track's identity is written onto that detection.
//
// Each track selects its detection independently rather than through a one
// to one bipartite assignment, so two tracks overlapping the same detection
// both write to it and the later track wins.  This matches the historical
// behaviour of the pipeline and is covered by tests, change it together
// with them.
func AssignTrackIDs(tracks []tracker.TrackBox, dets []detect.Detection) {

	if len(tracks) == 0 || len(dets) == 0 {
		return
	}

	iou := iouMatrix(tracks, dets)

	for ti := range tracks {

		di := argmaxRow(iou, ti, len(dets))

		if iou.At(ti, di) > 0 {
			dets[di].TrackID = tracks[ti].ID
			dets[di].Tracked = true
		}
	}
}

// iouMatrix builds the overlap matrix with one row per track and one column
// per detection, all values lie in [0,1]
func iouMatrix(tracks []tracker.TrackBox, dets []detect.Detection) *mat.Dense {

	m := mat.NewDense(len(tracks), len(dets), nil)

	for ti, track := range tracks {
		for di, det := range dets {

			r := tracker.NewRect(
				float32(det.Box.X1),
				float32(det.Box.Y1),
				float32(det.Box.X2),
				float32(det.Box.Y2),
			)

			m.Set(ti, di, float64(track.Rect.IoU(r)))
		}
	}

	return m
}

// argmaxRow returns the column of the first maximal value in a row
func argmaxRow(m *mat.Dense, row, cols int) int {

	best := 0

	for col := 1; col < cols; col++ {
		if m.At(row, col) > m.At(row, best) {
			best = col
		}
	}

	return best
}
