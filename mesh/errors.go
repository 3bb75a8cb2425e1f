package mesh

import "errors"

// Error taxonomy of the connectivity engine. Operations wrap these with the
// offending ids, test with errors.Is.
var (
	// ErrInvalidType is returned for a cell type tag outside the supported set,
	// or a node count that does not fit the type
	ErrInvalidType = errors.New("invalid cell type")
	// ErrCapacityExceeded is returned when a node list or a neighbor query
	// goes over the configured hard limit
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrInconsistentState signals a caller sequencing bug: querying a view
	// that is not built, or addressing a removed node or cell
	ErrInconsistentState = errors.New("inconsistent state")
	// ErrUnsupportedFaceShape is returned by extrusion for faces that are not
	// linear triangles or quadrilaterals
	ErrUnsupportedFaceShape = errors.New("unsupported face shape")
	// ErrAllocationFailure aborts a bulk build or compaction that would not
	// fit in the memory budget, nothing has been modified when it is returned
	ErrAllocationFailure = errors.New("allocation failure")
)
