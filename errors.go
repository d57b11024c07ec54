package meshsimplify

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the way a Simplify call can fail, mirroring the
// wrapped-error idiom LoadObjectFromDXFFile uses for its own I/O errors.
type ErrorKind int

const (
	// InvalidInput covers an out-of-range rate or a structurally malformed
	// IndexedMesh (wrong-length arrays, non-triangular index count).
	InvalidInput ErrorKind = iota
	// DegenerateFace is raised when a triangle has zero area at build time.
	DegenerateFace
	// MissingEdge/MissingVertex/MissingFace signal a corrupted half-edge
	// mesh: a lookup that the mesh's own invariants guarantee should
	// succeed failed. These are programmer errors, not input errors.
	MissingEdge
	MissingVertex
	MissingFace
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case DegenerateFace:
		return "degenerate face"
	case MissingEdge:
		return "missing edge"
	case MissingVertex:
		return "missing vertex"
	case MissingFace:
		return "missing face"
	default:
		return "unknown"
	}
}

// SimplifyError is the error type returned for every failure the core
// itself detects. Kind lets a caller branch with errors.As without
// string-matching the message, the underlying cause is preserved with %w.
type SimplifyError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *SimplifyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("meshsimplify: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("meshsimplify: %s: %s", e.Op, e.Kind)
}

func (e *SimplifyError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, op string, err error) *SimplifyError {
	return &SimplifyError{Kind: kind, Op: op, Err: err}
}

// Sentinel causes wrapped by validate() and Simplify()'s argument checks.
var (
	errNonTriangular     = errors.New("index or position count is not a multiple of 3")
	errIndexOutOfRange   = errors.New("triangle index references a nonexistent vertex")
	errAttributeMismatch = errors.New("normal or texcoord array does not align with positions")
	errRateOutOfRange    = errors.New("rate must be within [0.0, 1.0]")
	errOpenMesh          = errors.New("mesh has a boundary: every half-edge must have a flip partner")
	errEmptyPositions    = errors.New("mesh has no positions")
)

// IsKind reports whether err is a *SimplifyError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *SimplifyError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
