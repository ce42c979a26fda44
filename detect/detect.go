package detect

import "gocv.io/x/gocv"

// Box are the bounding box dimensions of an object location in pixel
// coordinates
type Box struct {
	X1, Y1, X2, Y2 int
}

// Detection defines the attributes of a single object detected in a frame
type Detection struct {
	// Box is the bounding box of the object location
	Box Box
	// Confidence is the score of the object detected
	Confidence float32
	// Class is the class index the model was trained on
	Class int
	// Label is the class name for Class
	Label string
	// TrackID is the persistent identity given by track association, it is
	// only meaningful when Tracked is true
	TrackID int
	// Tracked reports whether a track identity has been assigned
	Tracked bool
}

// Detector is the object detection collaborator, taking one frame and
// returning the candidate objects found in it
type Detector interface {
	Detect(img gocv.Mat) ([]Detection, error)
	Close() error
}
