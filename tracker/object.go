package tracker

// Object represents a single frame detection passed into the tracker
type Object struct {
	// Rect is the bounding box of the detected object
	Rect Rect
	// Label is the class label of the object detected
	Label int
	// Score is the confidence of the object detected
	Score float32
}

// NewObject is a constructor function for the Object struct
func NewObject(rect Rect, label int, score float32) Object {
	return Object{
		Rect:  rect,
		Label: label,
		Score: score,
	}
}

// TrackBox is the per frame output view of an active track, its persistent
// identity and current bounding box estimate
type TrackBox struct {
	// ID is the persistent track identity, stable for the life of the track
	ID int
	// Rect is the current bounding box estimate
	Rect Rect
}
