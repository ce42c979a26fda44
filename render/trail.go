package render

import (
	"image"
	"image/color"

	"github.com/pitchtrack/pitchtrack/tracker"
	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering track trails
type TrailStyle struct {
	LineColor     color.RGBA
	LineThickness int
	CircleColor   color.RGBA
	CircleRadius  int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineColor:     Yellow,
		LineThickness: 1,
		CircleColor:   Pink,
		CircleRadius:  3,
	}
}

// Trails draws the recent movement history of each active track on the
// source image
func Trails(img *gocv.Mat, tracks []tracker.TrackBox, trail *tracker.Trail,
	style TrailStyle) {

	for _, track := range tracks {

		points := trail.GetPoints(track.ID)

		if len(points) < 3 {
			continue
		}

		for i := 1; i < len(points); i++ {
			gocv.Line(img,
				image.Pt(points[i-1].X, points[i-1].Y),
				image.Pt(points[i].X, points[i].Y),
				style.LineColor, style.LineThickness,
			)
		}

		// mark the current position with a filled circle
		last := points[len(points)-1]
		gocv.Circle(img, image.Pt(last.X, last.Y),
			style.CircleRadius, style.CircleColor, -1)
	}
}
