package delta

import "errors"

// Sentinel errors returned by the algebra. Callers should use errors.Is to
// check for a specific kind; messages may carry extra context via %w.
var (
	// ErrCannotRetainNonObject is returned when an embed value is expected
	// (a single-key map naming its embed type) but something else was found.
	ErrCannotRetainNonObject = errors.New("delta: cannot retain a non-object embed value")

	// ErrEmbedTypeMismatch is returned when two embed values on either side
	// of compose/invert name different embed types. TransformScript does
	// not return it: mismatched embed retains pass other's value through.
	ErrEmbedTypeMismatch = errors.New("delta: embed type mismatch")

	// ErrUnknownEmbedType is returned when compose or invert encounters an
	// embed type with no handler registered via RegisterEmbed.
	// TransformScript treats an unregistered type as a fall-through instead.
	ErrUnknownEmbedType = errors.New("delta: unknown embed type")

	// ErrNotADocument is returned by Diff when either input script contains
	// a non-insert operation.
	ErrNotADocument = errors.New("delta: not a document")
)
