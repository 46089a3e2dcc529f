package domain

// GenerationStatus is the terminal state of a generation run.
type GenerationStatus string

const (
	StatusCompleted GenerationStatus = "COMPLETED"
	StatusFailed    GenerationStatus = "FAILED"
)

// GenerationResult is returned once per run and never mutated afterwards.
type GenerationResult struct {
	ImageURL string           `json:"imageUrl"`
	Status   GenerationStatus `json:"status"`
}

// ProductAsset holds the caller-supplied SKU image. The bytes are handed to
// the asset gateway once and are not retained after upload.
type ProductAsset struct {
	Data      []byte
	MIMEType  string
	SizeBytes int64
}
