package detect

import (
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"
)

// YOLOConfig holds the frozen detector configuration, set once at startup
type YOLOConfig struct {
	// Weights is the path to the ONNX model file
	Weights string
	// Labels are the class names the model was trained on
	Labels []string
	// ConfThreshold is the minimum confidence for a candidate detection
	ConfThreshold float32
	// NMSThreshold is the IoU threshold used by non maximum suppression
	NMSThreshold float32
	// InputSize is the square inference resolution of the model input tensor
	InputSize int
}

// YOLODetector performs object detection with a YOLOv8 ONNX model through
// the OpenCV DNN backend
type YOLODetector struct {
	net        gocv.Net
	labels     []string
	confThresh float32
	nmsThresh  float32
	inputSize  int
}

// NewYOLODetector loads the ONNX model and returns a detector ready for
// inference
func NewYOLODetector(cfg YOLOConfig) (*YOLODetector, error) {

	net := gocv.ReadNetFromONNX(cfg.Weights)

	if net.Empty() {
		return nil, fmt.Errorf("error loading model file %s", cfg.Weights)
	}

	if cfg.ConfThreshold <= 0 {
		cfg.ConfThreshold = 0.35
	}

	if cfg.NMSThreshold <= 0 {
		cfg.NMSThreshold = 0.45
	}

	if cfg.InputSize <= 0 {
		cfg.InputSize = 640
	}

	return &YOLODetector{
		net:        net,
		labels:     cfg.Labels,
		confThresh: cfg.ConfThreshold,
		nmsThresh:  cfg.NMSThreshold,
		inputSize:  cfg.InputSize,
	}, nil
}

// Detect runs inference on a single frame and returns the objects found
// in it
func (d *YOLODetector) Detect(img gocv.Mat) ([]Detection, error) {

	if img.Empty() {
		return nil, fmt.Errorf("error source Mat is empty")
	}

	blob := gocv.BlobFromImage(img, 1.0/255.0,
		image.Pt(d.inputSize, d.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	out := d.net.Forward("")
	defer out.Close()

	return d.decode(out, img.Cols(), img.Rows()), nil
}

// decode converts the raw model output tensor of shape [1, 4+classes, boxes]
// into detection records in frame pixel coordinates
func (d *YOLODetector) decode(out gocv.Mat, frameW, frameH int) []Detection {

	dims := out.Size()

	if len(dims) != 3 {
		return nil
	}

	channels := dims[1]
	count := dims[2]

	m := out.Reshape(1, channels)
	defer m.Close()

	// scale factors between the model input tensor and the frame
	scaleX := float32(frameW) / float32(d.inputSize)
	scaleY := float32(frameH) / float32(d.inputSize)

	var boxes []image.Rectangle
	var scores []float32
	var classes []int

	for i := 0; i < count; i++ {

		best := 0
		bestScore := float32(0)

		for c := 4; c < channels; c++ {

			score := m.GetFloatAt(c, i)

			if score > bestScore {
				bestScore = score
				best = c - 4
			}
		}

		if bestScore < d.confThresh {
			continue
		}

		box := mapBox(
			m.GetFloatAt(0, i), m.GetFloatAt(1, i),
			m.GetFloatAt(2, i), m.GetFloatAt(3, i),
			scaleX, scaleY, frameW, frameH,
		)

		boxes = append(boxes, image.Rect(box.X1, box.Y1, box.X2, box.Y2))
		scores = append(scores, bestScore)
		classes = append(classes, best)
	}

	if len(boxes) == 0 {
		return nil
	}

	indices := nmsPerClass(boxes, scores, classes, d.confThresh, d.nmsThresh)

	var dets []Detection

	for _, idx := range indices {

		box := boxes[idx]

		dets = append(dets, Detection{
			Box:        Box{X1: box.Min.X, Y1: box.Min.Y, X2: box.Max.X, Y2: box.Max.Y},
			Confidence: scores[idx],
			Class:      classes[idx],
			Label:      classLabel(d.labels, classes[idx]),
		})
	}

	return dets
}

// nmsPerClass runs non maximum suppression independently per class so
// overlapping objects of different classes never suppress each other.  The
// returned indexes refer to the input slices.
func nmsPerClass(boxes []image.Rectangle, scores []float32, classes []int,
	scoreThresh, nmsThresh float32) []int {

	byClass := make(map[int][]int)

	for i, class := range classes {
		byClass[class] = append(byClass[class], i)
	}

	classIDs := make([]int, 0, len(byClass))

	for class := range byClass {
		classIDs = append(classIDs, class)
	}

	sort.Ints(classIDs)

	var keep []int

	for _, class := range classIDs {

		idxs := byClass[class]

		classBoxes := make([]image.Rectangle, len(idxs))
		classScores := make([]float32, len(idxs))

		for i, idx := range idxs {
			classBoxes[i] = boxes[idx]
			classScores[i] = scores[idx]
		}

		for _, picked := range gocv.NMSBoxes(classBoxes, classScores,
			scoreThresh, nmsThresh) {
			keep = append(keep, idxs[picked])
		}
	}

	return keep
}

// mapBox converts a model space (center x, center y, width, height) box into
// frame pixel corner coordinates, clamped to the frame bounds
func mapBox(cx, cy, w, h, scaleX, scaleY float32, frameW, frameH int) Box {

	x1 := int((cx - w/2) * scaleX)
	y1 := int((cy - h/2) * scaleY)
	x2 := int((cx + w/2) * scaleX)
	y2 := int((cy + h/2) * scaleY)

	return Box{
		X1: clamp(x1, 0, frameW),
		Y1: clamp(y1, 0, frameH),
		X2: clamp(x2, 0, frameW),
		Y2: clamp(y2, 0, frameH),
	}
}

func clamp(v, lo, hi int) int {

	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// Close releases the loaded model
func (d *YOLODetector) Close() error {
	return d.net.Close()
}
