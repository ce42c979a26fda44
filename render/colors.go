package render

import (
	"image/color"
	"strings"
)

var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Pink   = color.RGBA{R: 255, G: 0, B: 255, A: 255}

	clrPlayer     = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	clrReferee    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	clrGoalkeeper = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	clrBall       = color.RGBA{R: 200, G: 200, B: 0, A: 255}
	clrDefault    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
)

// LabelColor returns the display color for a class label.  Matching is case
// insensitive and labels outside the fixed table use the default color.
func LabelColor(label string) color.RGBA {

	switch strings.ToLower(label) {
	case "player":
		return clrPlayer
	case "referee":
		return clrReferee
	case "goalkeeper":
		return clrGoalkeeper
	case "ball":
		return clrBall
	default:
		return clrDefault
	}
}
