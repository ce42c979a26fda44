package tracker

// Point represents the x,y coordinates of the center of a tracked
// bounding box
type Point struct {
	X, Y int
}

// Trail keeps a bounded history of track center points used for drawing
// movement trails
type Trail struct {
	// size is the maximum number of most recent points to keep per track
	size int
	// history of tracked points keyed by track ID
	history map[int][]Point
}

// NewTrail returns a new trail history instance.  Size specifies the maximum
// length of trail to maintain per track
func NewTrail(size int) *Trail {
	return &Trail{
		size:    size,
		history: make(map[int][]Point),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.history = make(map[int][]Point)
}

// Add records the center point of the track's current bounding box
func (t *Trail) Add(box TrackBox) {

	p := Point{
		X: int(box.Rect.X1 + box.Rect.Width()/2),
		Y: int(box.Rect.Y1 + box.Rect.Height()/2),
	}

	points := append(t.history[box.ID], p)

	// drop oldest point once history is exceeded
	if len(points) > t.size {
		points = points[1:]
	}

	t.history[box.ID] = points
}

// GetPoints gets the point history for a specific track ID
func (t *Trail) GetPoints(id int) []Point {
	return t.history[id]
}
