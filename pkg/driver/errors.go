package driver

import "fmt"

// GrammarParseError means the parser returned no usable tree for the
// declared language — malformed source under that grammar.
type GrammarParseError struct {
	Language string
	Err      error
}

func (e *GrammarParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Language, e.Err)
}

func (e *GrammarParseError) Unwrap() error { return e.Err }

// InjectionQueryError means the grammar's injections query failed to
// compile or execute.
type InjectionQueryError struct {
	Language string
	Err      error
}

func (e *InjectionQueryError) Error() string {
	return fmt.Sprintf("injections query for %s: %v", e.Language, e.Err)
}

func (e *InjectionQueryError) Unwrap() error { return e.Err }

// SubResultDecodingError means a sub-formatter returned bytes that are not
// valid UTF-8, and escape/trim/reindent need a string view of the region.
type SubResultDecodingError struct {
	Language string
	Range    Range
}

func (e *SubResultDecodingError) Error() string {
	return fmt.Sprintf("sub-result for %s at [%d,%d) is not valid UTF-8", e.Language, e.Range.Start, e.Range.End)
}

// RecursionError means a region's byte range did not shrink relative to
// its parent buffer, which would make the driver's re-entrant recursion
// non-terminating.
type RecursionError struct {
	Language   string
	Range      Range
	ParentSize int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf(
		"region %s at [%d,%d) does not shrink relative to its %d-byte parent",
		e.Language, e.Range.Start, e.Range.End, e.ParentSize,
	)
}

// regionErr wraps err with the region's language and byte range, giving the
// propagated error chain the context the error-handling design calls for:
// language, region byte range, and (for formatter failures) command name —
// the command name already comes from dispatch.InvocationError further down
// the chain.
func regionErr(language string, r Range, err error) error {
	return fmt.Errorf("region %s [%d,%d): %w", language, r.Start, r.End, err)
}
