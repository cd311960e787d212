package formatters

import "github.com/weavefmt/weave/pkg/dispatch"

// TrimNewlines strips leading and trailing '\n'/'\r' bytes from source,
// leaving everything between them untouched.
func TrimNewlines(source []byte, _ dispatch.Opts) ([]byte, error) {
	start, end := 0, len(source)

	for start < end && (source[start] == '\n' || source[start] == '\r') {
		start++
	}
	for end > start && (source[end-1] == '\n' || source[end-1] == '\r') {
		end--
	}

	return source[start:end], nil
}
