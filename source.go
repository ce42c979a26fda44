package pitchtrack

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// ErrSourceExhausted is returned by Next when the video has no more frames.
// It terminates the frame loop and is not a failure.
var ErrSourceExhausted = errors.New("frame source exhausted")

const (
	// maximum output dimensions, larger sources are downscaled
	maxOutputWidth  = 1280
	maxOutputHeight = 720
)

// FrameSource reads frames sequentially from a video file, applying a fixed
// downscale policy computed once at open time and a detection stride
type FrameSource struct {
	video *gocv.VideoCapture
	fps   float64
	// fixed output dimensions for the whole run
	outWidth  int
	outHeight int
	// stride is the interval at which frames are sent to the detector
	stride int
	// frameIndex is 1-based and advances on every read, skipped frames
	// included
	frameIndex int
}

// NewFrameSource opens the video file and establishes the fixed output
// resolution.  Stride of N sends only every Nth frame to the detector,
// values below 1 are treated as 1.
func NewFrameSource(vidFile string, stride int) (*FrameSource, error) {

	video, err := gocv.VideoCaptureFile(vidFile)

	if err != nil {
		return nil, fmt.Errorf("error opening video source: %w", err)
	}

	fps := video.Get(gocv.VideoCaptureFPS)

	if fps <= 0 {
		fps = 30
	}

	width := int(video.Get(gocv.VideoCaptureFrameWidth))
	height := int(video.Get(gocv.VideoCaptureFrameHeight))

	outWidth, outHeight := outputSize(width, height)

	if stride < 1 {
		stride = 1
	}

	return &FrameSource{
		video:     video,
		fps:       fps,
		outWidth:  outWidth,
		outHeight: outHeight,
		stride:    stride,
	}, nil
}

// outputSize applies the one time downscale policy, sources larger than
// 1280x720 are scaled down preserving aspect ratio
func outputSize(width, height int) (int, int) {

	if width <= maxOutputWidth && height <= maxOutputHeight {
		return width, height
	}

	scale := math.Min(
		float64(maxOutputWidth)/float64(width),
		float64(maxOutputHeight)/float64(height),
	)

	if scale > 1 {
		scale = 1
	}

	return int(float64(width) * scale), int(float64(height) * scale)
}

// Next reads the next frame into img, resized to the fixed output
// dimensions.  Returns ErrSourceExhausted when no frames remain.
func (s *FrameSource) Next(img *gocv.Mat) error {

	if ok := s.video.Read(img); !ok {
		return ErrSourceExhausted
	}

	s.frameIndex++

	if img.Cols() != s.outWidth || img.Rows() != s.outHeight {
		gocv.Resize(*img, img, image.Pt(s.outWidth, s.outHeight), 0, 0,
			gocv.InterpolationLinear)
	}

	return nil
}

// FrameIndex returns the 1-based index of the most recently read frame
func (s *FrameSource) FrameIndex() int {
	return s.frameIndex
}

// InferFrame reports whether the current frame falls on the detection
// stride
func (s *FrameSource) InferFrame() bool {
	return inferFrame(s.frameIndex, s.stride)
}

// inferFrame reports whether a 1-based frame index falls on the stride
func inferFrame(index, stride int) bool {

	if stride <= 1 {
		return true
	}

	return index%stride == 0
}

// FPS returns the frame rate reported by the source, defaulting to 30 when
// the container does not report one
func (s *FrameSource) FPS() float64 {
	return s.fps
}

// OutputSize returns the fixed frame dimensions for the run
func (s *FrameSource) OutputSize() (int, int) {
	return s.outWidth, s.outHeight
}

// Close releases the video capture handle
func (s *FrameSource) Close() error {
	return s.video.Close()
}
