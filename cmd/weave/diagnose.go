package main

import (
	"errors"

	"github.com/weavefmt/weave/pkg/driver"
	weaveerrors "github.com/weavefmt/weave/pkg/errors"
	"github.com/weavefmt/weave/pkg/inject"
)

// describeFormatError renders err as a rustc-style Diagnostic anchored at
// the byte range carried by a position-bearing error in its chain, looked
// for in the order RecursionError, SubResultDecodingError, OverlapError.
// The range is drawn against source as given, but it is an offset into the
// buffer of the recursion level that failed, after that level's root
// format: it is not translated back through root formatting or through the
// enclosing regions, so for a failure inside a nested region the caret does
// not mark the region's place in source. Errors with no byte range (a bad
// injection query, an external formatter's own failure) fall back to err's
// plain message — there is no source span to underline.
func describeFormatError(filename string, source []byte, err error) string {
	var recursion *driver.RecursionError
	if errors.As(err, &recursion) {
		return weaveerrors.NewDiagnostic(filename, source, recursion.Range.Start, recursion.Range.End, 2,
			recursion.Error()).Format()
	}

	var decoding *driver.SubResultDecodingError
	if errors.As(err, &decoding) {
		return weaveerrors.NewDiagnostic(filename, source, decoding.Range.Start, decoding.Range.End, 2,
			decoding.Error()).Format()
	}

	var overlap *inject.OverlapError
	if errors.As(err, &overlap) {
		return weaveerrors.NewDiagnostic(filename, source, overlap.Outer.Start, overlap.Outer.End, 2,
			overlap.Error()).Format()
	}

	return err.Error()
}
