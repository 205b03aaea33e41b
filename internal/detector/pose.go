package detector

// Body pose landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose             = 0
	LeftShoulder     = 11
	RightShoulder    = 12
	LeftHip          = 23
	RightHip         = 24
	NumPoseLandmarks = 33
)

// PoseLandmarks represents the 33 body landmarks for a detected person.
type PoseLandmarks struct {
	Points [NumPoseLandmarks]Point3D `json:"points"`
	Score  float64                   `json:"score"`
}
