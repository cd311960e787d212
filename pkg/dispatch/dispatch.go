// Package dispatch selects and invokes the formatter for a language: either
// an external program run via os/exec, or an in-process FormatterFunc. Both
// are registered under a name in a Registry and addressed through a
// per-language formatter chain.
package dispatch

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/weavefmt/weave/pkg/logging"
)

// Opts are the per-call parameters available to argument templating.
type Opts struct {
	PrintWidth uint32
	Language   string
}

// Spec describes an external formatter program.
type Spec struct {
	Cmd          string
	Args         []string
	Stdin        bool
	FailOnStderr bool
}

// FormatterFunc is an in-process formatter: a plugin that never shells out.
type FormatterFunc func(source []byte, opts Opts) ([]byte, error)

// Entry is one registered formatter: exactly one of Spec or Func is set.
type Entry struct {
	Spec *Spec
	Func FormatterFunc
}

// Registry maps a formatter name to its Entry.
type Registry map[string]Entry

// LanguageFormatters maps a language name to its formatter chain — an
// ordered list of formatter names. Only the chain's first entry is ever
// invoked; if that name is not registered, later entries are not tried
// (see Run).
type LanguageFormatters map[string][]string

// InvocationError reports that an external formatter exited non-zero, or
// wrote to stderr while FailOnStderr was set.
type InvocationError struct {
	Cmd    string
	Stderr string
	Err    error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("formatter %s failed: %v: %s", e.Cmd, e.Err, e.Stderr)
}

func (e *InvocationError) Unwrap() error { return e.Err }

var tempFileCounter atomic.Int64

// Run resolves language's formatter chain in registry and invokes the first
// entry. If the language has no chain, or the chain's first name is not
// registered, source is returned unchanged and no error is produced — this
// is what lets a grammar be "injection-only", present solely to enable
// recursive sub-formatting without a root formatter of its own.
func Run(registry Registry, chains LanguageFormatters, source []byte, opts Opts, logger logging.Logger) ([]byte, error) {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	chain, ok := chains[opts.Language]
	if !ok || len(chain) == 0 {
		return source, nil
	}

	entry, ok := registry[chain[0]]
	if !ok {
		return source, nil
	}

	start := time.Now()
	var (
		result []byte
		err    error
	)
	switch {
	case entry.Func != nil:
		result, err = entry.Func(source, opts)
	case entry.Spec != nil:
		result, err = runExternal(entry.Spec, source, opts)
	default:
		return source, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("format time [%s]: %s", chain[0], time.Since(start))
	return result, nil
}

func runExternal(spec *Spec, source []byte, opts Opts) ([]byte, error) {
	useStdin := spec.Stdin

	var tempFile string
	if !useStdin {
		path, err := uniqueTempFile()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, source, 0o600); err != nil {
			return nil, fmt.Errorf("write formatter temp file: %w", err)
		}
		tempFile = path
		defer os.Remove(path)
	}

	args := make([]string, len(spec.Args))
	for i, a := range spec.Args {
		args[i] = templateArg(a, opts, tempFile)
	}

	cmd := exec.Command(spec.Cmd, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if useStdin {
		cmd.Stdin = bytes.NewReader(source)
	}

	if err := cmd.Run(); err != nil {
		return nil, &InvocationError{Cmd: spec.Cmd, Stderr: stderr.String(), Err: err}
	}

	if spec.FailOnStderr && stderr.Len() > 0 {
		return nil, &InvocationError{
			Cmd:    spec.Cmd,
			Stderr: stderr.String(),
			Err:    fmt.Errorf("formatter wrote to stderr"),
		}
	}

	if useStdin {
		return stdout.Bytes(), nil
	}

	result, err := os.ReadFile(tempFile)
	if err != nil {
		return nil, fmt.Errorf("read formatter temp file: %w", err)
	}
	return result, nil
}

func templateArg(arg string, opts Opts, tempFile string) string {
	arg = strings.ReplaceAll(arg, "$textwidth", strconv.FormatUint(uint64(opts.PrintWidth), 10))
	arg = strings.ReplaceAll(arg, "$language", opts.Language)
	arg = strings.ReplaceAll(arg, "$file", tempFile)
	return arg
}

// uniqueTempFile names a file that will not collide with a concurrent
// invocation in the same process or with another weave process: the PID
// disambiguates across processes, the counter disambiguates within one.
func uniqueTempFile() (string, error) {
	n := tempFileCounter.Add(1)
	name := fmt.Sprintf("weave-format-%d-%d", os.Getpid(), n)
	return filepath.Join(os.TempDir(), name), nil
}
