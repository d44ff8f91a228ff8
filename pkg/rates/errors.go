package rates

import "errors"

// Sentinel errors. Callers test with errors.Is; every returned error wraps
// one of these with context.
var (
	// ErrNotFound is returned when a resource, block or unit name is not in the catalog.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousOutput is returned when a multi-output block is queried without naming an output.
	ErrAmbiguousOutput = errors.New("ambiguous output")
	// ErrNotProduced is returned when a named output or ammo is not handled by the block.
	ErrNotProduced = errors.New("not produced by block")
	// ErrInvalidScalingRule is returned when a heat-scaling expression fails to compile or evaluate.
	ErrInvalidScalingRule = errors.New("invalid scaling rule")
	// ErrCyclicDependency is returned when an upgrade chain or recipe graph loops.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrInvalidCatalog is returned when catalog configuration fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrUndefinedRate is returned when a rate would divide by a zero duration.
	ErrUndefinedRate = errors.New("undefined rate")
	// ErrWrongKind is returned when a block is used where a different kind is required.
	ErrWrongKind = errors.New("wrong block kind")
)
