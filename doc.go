/*
pitchtrack runs per frame object detection and multi object tracking over a
video file.  Frames are read sequentially, objects are detected with a YOLO
model, persistent identities are carried across frames with a ByteTrack style
tracker, and the run produces an annotated output video plus a structured log
of tracked detections.

See the cmd/pitchtrack directory for the command line tool built on this
library.
*/
package pitchtrack
