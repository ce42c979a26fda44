package pitchtrack

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrSinkUnavailable is returned when no codec in the fallback list could
// open the output writer
var ErrSinkUnavailable = errors.New("no usable codec for video output")

// sinkCodecs are the fourcc codes tried in order when opening the output
// writer
var sinkCodecs = []string{"mp4v", "XVID", "MJPG"}

// VideoSink writes frames to an output video container
type VideoSink struct {
	writer *gocv.VideoWriter
	path   string
}

// NewVideoSink opens an output writer at path for frames of the given fixed
// dimensions, trying each codec in the fallback list until one opens
func NewVideoSink(path string, fps float64, width, height int) (*VideoSink, error) {

	for _, codec := range sinkCodecs {

		writer, err := gocv.VideoWriterFile(path, codec, fps, width, height, true)

		if err == nil && writer.IsOpened() {
			return &VideoSink{
				writer: writer,
				path:   path,
			}, nil
		}

		if writer != nil {
			writer.Close()
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrSinkUnavailable, path)
}

// Write writes one frame to the output container.  Empty frames are
// silently skipped so degenerate frames never reach the container.
func (v *VideoSink) Write(img gocv.Mat) error {

	if img.Empty() {
		return nil
	}

	return v.writer.Write(img)
}

// Path returns the output file path
func (v *VideoSink) Path() string {
	return v.path
}

// Close flushes and releases the output writer
func (v *VideoSink) Close() error {
	return v.writer.Close()
}
