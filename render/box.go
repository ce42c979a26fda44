package render

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/pitchtrack/pitchtrack/detect"
	"gocv.io/x/gocv"
	xfont "golang.org/x/image/font"
)

// boxLabel records the label rendering details for a bounding box so all
// labels can be drawn as the top most layer
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// TrackedBoxes renders bounding boxes and identity labels onto the image for
// detections that have been assigned a track identity.  Unassigned
// detections are not drawn.  The image pixels are mutated in place.
func TrackedBoxes(img *gocv.Mat, dets []detect.Detection, font Font,
	lineThickness int) {

	boxLabels := make([]boxLabel, 0)

	for _, det := range dets {

		if !det.Tracked {
			continue
		}

		useClr := LabelColor(det.Label)

		// draw rectangle around detected object
		rect := image.Rect(det.Box.X1, det.Box.Y1, det.Box.X2, det.Box.Y2)
		gocv.Rectangle(img, rect, useClr, lineThickness)

		text := fmt.Sprintf("%s %.1f%% ID:%d", det.Label,
			det.Confidence*100, det.TrackID)
		textSize := labelSize(text, font)

		labelPosition := image.Pt(det.Box.X1+font.LeftPad,
			det.Box.Y1-font.BottomPad)

		// box the text gets written on
		bRect := image.Rect(det.Box.X1,
			det.Box.Y1-textSize.Y-font.TopPad-font.BottomPad,
			det.Box.X1+textSize.X+font.LeftPad+font.RightPad, det.Box.Y1)

		boxLabels = append(boxLabels, boxLabel{
			rect:    bRect,
			clr:     useClr,
			text:    text,
			textPos: labelPosition,
		})
	}

	// draw all precalculated box labels so they sit above the box lines
	for _, box := range boxLabels {
		gocv.Rectangle(img, box.rect, box.clr, -1)

		if font.TTF != nil {
			err := PutTTFText(img, box.text, box.textPos.X, box.textPos.Y,
				font.TTF, font.Color)

			if err != nil {
				log.Printf("error drawing label text: %v", err)
			}
		} else {
			gocv.PutTextWithParams(img, box.text, box.textPos,
				font.Face, font.Scale, font.Color, font.Thickness,
				font.LineType, false)
		}
	}
}

// labelSize measures the rendered size of a label for the active face
func labelSize(text string, font Font) image.Point {

	if font.TTF != nil {
		w := xfont.MeasureString(font.TTF, text).Round()
		h := font.TTF.Metrics().Ascent.Round()
		return image.Pt(w, h)
	}

	return gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)
}
