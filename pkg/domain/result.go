package domain

// BoundingBox is an axis-aligned box around the finished solid, used by
// frontends to frame the preview camera.
type BoundingBox struct {
	Min        [3]float64 `json:"min"`
	Max        [3]float64 `json:"max"`
	Center     [3]float64 `json:"center"`
	Dimensions [3]float64 `json:"dimensions"`
}

// NewBoundingBox builds a box from its min/max corners, deriving center and
// per-axis extents.
func NewBoundingBox(min, max [3]float64) BoundingBox {
	box := BoundingBox{Min: min, Max: max}
	for i := 0; i < 3; i++ {
		box.Center[i] = (min[i] + max[i]) / 2
		box.Dimensions[i] = max[i] - min[i]
	}
	return box
}

// ZeroBox is the substitute used when bounding-box computation fails; the
// request still succeeds, the preview just has no extent.
func ZeroBox() BoundingBox {
	return BoundingBox{}
}

// FileSet records the exported file per format. A nil entry means the
// export for that format failed; the other formats are unaffected.
type FileSet struct {
	Step *string `json:"step"`
	Stl  *string `json:"stl"`
	Brep *string `json:"brep"`
}

// Preview carries the data a frontend needs before loading any file.
type Preview struct {
	BoundingBox BoundingBox `json:"boundingBox"`
}

// GenerationResult is the structured response for one generation request.
// It is created once per request and never mutated after packaging.
//
// Parameters echoes the fully resolved parameter set, not the raw request
// map: fields the caller omitted carry their defaults, and malformed values
// appear as the defaults they fell back to.
type GenerationResult struct {
	Success    bool              `json:"success"`
	ModelID    string            `json:"modelId,omitempty"`
	Files      *FileSet          `json:"files,omitempty"`
	Preview    *Preview          `json:"preview,omitempty"`
	Parameters *BottleParameters `json:"parameters,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Failure builds the structured failure response for a fatal error.
func Failure(err error) *GenerationResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &GenerationResult{Success: false, Error: msg}
}
