package tracker

// Rect is an axis aligned bounding box in pixel coordinates, held as the
// top-left (X1,Y1) and bottom-right (X2,Y2) corners
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// NewRect creates a new Rect from corner coordinates
func NewRect(x1, y1, x2, y2 float32) Rect {
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the width of the rectangle
func (r Rect) Width() float32 {
	return r.X2 - r.X1
}

// Height returns the height of the rectangle
func (r Rect) Height() float32 {
	return r.Y2 - r.Y1
}

// Area returns the area of the rectangle, zero for degenerate boxes
func (r Rect) Area() float32 {

	w := r.Width()
	h := r.Height()

	if w <= 0 || h <= 0 {
		return 0
	}

	return w * h
}

// IoU calculates the Intersection over Union with another rectangle, the
// result lies in [0,1] and is 0 when the boxes do not overlap
func (r Rect) IoU(other Rect) float32 {

	iw := minf(r.X2, other.X2) - maxf(r.X1, other.X1)

	if iw <= 0 {
		return 0
	}

	ih := minf(r.Y2, other.Y2) - maxf(r.Y1, other.Y1)

	if ih <= 0 {
		return 0
	}

	inter := iw * ih
	union := r.Area() + other.Area() - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}

// Xyah converts the rectangle to (center x, center y, aspect ratio, height)
// format used by the kalman filter state
func (r Rect) Xyah() []float64 {

	w := float64(r.Width())
	h := float64(r.Height())

	return []float64{
		float64(r.X1) + w/2,
		float64(r.Y1) + h/2,
		w / h,
		h,
	}
}

// RectFromXyah creates a Rect from (center x, center y, aspect ratio, height)
// format
func RectFromXyah(xyah []float64) Rect {

	w := float32(xyah[2] * xyah[3])
	h := float32(xyah[3])
	x1 := float32(xyah[0]) - w/2
	y1 := float32(xyah[1]) - h/2

	return NewRect(x1, y1, x1+w, y1+h)
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
