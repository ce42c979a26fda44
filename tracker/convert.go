package tracker

import "github.com/pitchtrack/pitchtrack/detect"

// DetectionsToObjects takes detector output and converts it into the
// tracker object format
func DetectionsToObjects(dets []detect.Detection) []Object {

	var objs []Object

	for _, det := range dets {

		rect := NewRect(
			float32(det.Box.X1),
			float32(det.Box.Y1),
			float32(det.Box.X2),
			float32(det.Box.Y2),
		)

		objs = append(objs, NewObject(rect, det.Class, det.Confidence))
	}

	return objs
}
