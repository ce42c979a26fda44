package pitchtrack

import (
	"time"

	"github.com/pitchtrack/pitchtrack/detect"
)

// SampleLimit is the maximum number of records included in the run summary,
// keeping the final report bounded
const SampleLimit = 200

// FrameRecord is one tracked detection logged for a processed frame.
// Records are immutable once created.
type FrameRecord struct {
	Frame      int     `json:"frame"`
	TrackID    int     `json:"id"`
	Box        [4]int  `json:"bbox"`
	Label      string  `json:"class"`
	Confidence float32 `json:"confidence"`
}

// RunSummary is the final structured report of a run
type RunSummary struct {
	// OutputVideo is the path of the annotated video, nil when no video
	// output was requested
	OutputVideo *string `json:"output_video"`
	// TotalFrames is the number of frames read, skipped frames included
	TotalFrames int `json:"total_frames"`
	// TimeS is the elapsed wall time in seconds
	TimeS float64 `json:"time_s"`
	// ObjectsSample holds at most SampleLimit of the first records
	ObjectsSample []FrameRecord `json:"objects_sample"`
}

// Aggregator accumulates per frame detection records in the order they are
// produced.  Records are never reordered or deduplicated.
type Aggregator struct {
	records []FrameRecord
}

// NewAggregator returns an empty Aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		records: make([]FrameRecord, 0),
	}
}

// Add appends one record for a detection that has been assigned a track
// identity
func (a *Aggregator) Add(frameIndex int, det detect.Detection) {
	a.records = append(a.records, FrameRecord{
		Frame:      frameIndex,
		TrackID:    det.TrackID,
		Box:        [4]int{det.Box.X1, det.Box.Y1, det.Box.X2, det.Box.Y2},
		Label:      det.Label,
		Confidence: det.Confidence,
	})
}

// Records returns the full ordered log of the run
func (a *Aggregator) Records() []FrameRecord {
	return a.records
}

// Summary builds the final report.  An empty outputVideo means no video was
// written and is reported as null.
func (a *Aggregator) Summary(outputVideo string, totalFrames int,
	elapsed time.Duration) RunSummary {

	sample := a.records

	if len(sample) > SampleLimit {
		sample = sample[:SampleLimit]
	}

	s := RunSummary{
		TotalFrames:   totalFrames,
		TimeS:         elapsed.Seconds(),
		ObjectsSample: sample,
	}

	if outputVideo != "" {
		s.OutputVideo = &outputVideo
	}

	return s
}
