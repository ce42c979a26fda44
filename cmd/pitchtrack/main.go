package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pitchtrack/pitchtrack"
	"github.com/pitchtrack/pitchtrack/detect"
	"github.com/pitchtrack/pitchtrack/render"
	"github.com/pitchtrack/pitchtrack/tracker"
)

const (
	// exit code when the tracker collaborator is unavailable at startup
	exitTrackerUnavailable = 2
	// exit code when no output codec could be opened
	exitSinkUnavailable = 1
	// size of TTF font when label rendering with a TTF face is requested
	ttfFontSize = 14
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	vidFile := flag.String("v", "", "Video file to run object detection and tracking on")
	modelFile := flag.String("m", "best.onnx", "ONNX compiled YOLO model file")
	labelFile := flag.String("l", "labels.txt", "Text file containing model class labels")
	outDir := flag.String("o", "outputs", "Directory to write the output video to")
	confThresh := flag.Float64("c", 0.35, "Detection confidence threshold")
	imgSize := flag.Int("i", 640, "Inference size the model input tensor expects")
	skip := flag.Int("k", 1, "Send every Nth frame to the detector")
	maxFrames := flag.Int("n", 0, "Maximum number of frames to process, 0 for all")
	saveVideo := flag.Bool("s", false, "Write the annotated output video")
	trails := flag.Bool("r", false, "Draw track movement trails on the output video")
	ttfFont := flag.String("t", "", "Optional TTF font file used to render labels")

	flag.Parse()

	if *vidFile == "" {
		log.Fatal("video file is required, use -v")
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Error creating output directory: %v", err)
	}

	// the tracker must be available before anything else is opened
	bt, err := tracker.NewByteTracker(tracker.DefaultParams())

	if err != nil {
		log.Printf("[ERROR] tracker unavailable: %v", err)
		os.Exit(exitTrackerUnavailable)
	}

	labels, err := detect.LoadLabels(*labelFile)

	if err != nil {
		log.Fatalf("Error loading model labels: %v", err)
	}

	detector, err := detect.NewYOLODetector(detect.YOLOConfig{
		Weights:       *modelFile,
		Labels:        labels,
		ConfThreshold: float32(*confThresh),
		InputSize:     *imgSize,
	})

	if err != nil {
		log.Fatalf("Error creating detector: %v", err)
	}

	defer detector.Close()

	source, err := pitchtrack.NewFrameSource(*vidFile, *skip)

	if err != nil {
		log.Fatalf("Error opening video: %v", err)
	}

	defer source.Close()

	font := render.DefaultFont()

	if *ttfFont != "" {
		face, err := render.LoadFontFace(*ttfFont, ttfFontSize)

		if err != nil {
			log.Fatalf("Error loading TTF font: %v", err)
		}

		font.TTF = face
	}

	agg := pitchtrack.NewAggregator()

	pipeline := &pitchtrack.Pipeline{
		Source:    source,
		Detector:  detector,
		Tracker:   bt,
		Agg:       agg,
		Font:      font,
		MaxFrames: *maxFrames,
	}

	if *trails {
		pipeline.Trail = tracker.NewTrail(90)
	}

	outPath := ""

	if *saveVideo {

		path := filepath.Join(*outDir, "processed_output.mp4")
		width, height := source.OutputSize()

		sink, err := pitchtrack.NewVideoSink(path, source.FPS(), width, height)

		if err != nil {
			log.Printf("[ERROR] %v", err)
			os.Exit(exitSinkUnavailable)
		}

		defer sink.Close()

		pipeline.Sink = sink
		outPath = path
	}

	start := time.Now()

	total, err := pipeline.Run()

	if err != nil {
		log.Printf("Error processing video: %v", err)
	}

	summary := agg.Summary(outPath, total, time.Since(start))

	enc := json.NewEncoder(os.Stdout)

	if err := enc.Encode(summary); err != nil {
		log.Fatalf("Error encoding summary: %v", err)
	}
}
