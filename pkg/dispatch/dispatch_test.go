package dispatch_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weavefmt/weave/pkg/dispatch"
)

func upperFunc(source []byte, opts dispatch.Opts) ([]byte, error) {
	return bytes.ToUpper(source), nil
}

func TestRunInProcessFormatter(t *testing.T) {
	registry := dispatch.Registry{"upper": {Func: upperFunc}}
	chains := dispatch.LanguageFormatters{"text": {"upper"}}

	out, err := dispatch.Run(registry, chains, []byte("hi"), dispatch.Opts{Language: "text"}, nil)
	require.NoError(t, err)
	require.Equal(t, "HI", string(out))
}

func TestRunUnknownLanguagePassesThrough(t *testing.T) {
	registry := dispatch.Registry{"upper": {Func: upperFunc}}
	chains := dispatch.LanguageFormatters{"text": {"upper"}}

	out, err := dispatch.Run(registry, chains, []byte("hi"), dispatch.Opts{Language: "sql"}, nil)
	require.NoError(t, err)
	require.Equal(t, "hi", string(out))
}

func TestRunUnregisteredChainEntryPassesThrough(t *testing.T) {
	registry := dispatch.Registry{}
	chains := dispatch.LanguageFormatters{"text": {"missing"}}

	out, err := dispatch.Run(registry, chains, []byte("hi"), dispatch.Opts{Language: "text"}, nil)
	require.NoError(t, err)
	require.Equal(t, "hi", string(out))
}

func TestRunInProcessFormatterError(t *testing.T) {
	boom := func(source []byte, opts dispatch.Opts) ([]byte, error) {
		return nil, fmt.Errorf("boom")
	}
	registry := dispatch.Registry{"boom": {Func: boom}}
	chains := dispatch.LanguageFormatters{"text": {"boom"}}

	_, err := dispatch.Run(registry, chains, []byte("hi"), dispatch.Opts{Language: "text"}, nil)
	require.Error(t, err)
}

func TestRunExternalStdinMode(t *testing.T) {
	// cat echoes stdin to stdout unchanged; exercises the stdin-mode path
	// without depending on a formatter binary.
	registry := dispatch.Registry{
		"cat": {Spec: &dispatch.Spec{Cmd: "cat", Stdin: true}},
	}
	chains := dispatch.LanguageFormatters{"text": {"cat"}}

	out, err := dispatch.Run(registry, chains, []byte("hello\n"), dispatch.Opts{Language: "text", PrintWidth: 80}, nil)
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(out))
}

func TestRunExternalArgTemplating(t *testing.T) {
	// echo -n "$1" prints the templated argument back out; confirms
	// $textwidth and $language substitution.
	registry := dispatch.Registry{
		"echo": {Spec: &dispatch.Spec{Cmd: "echo", Args: []string{"-n", "width=$textwidth lang=$language"}, Stdin: true}},
	}
	chains := dispatch.LanguageFormatters{"sql": {"echo"}}

	out, err := dispatch.Run(registry, chains, nil, dispatch.Opts{Language: "sql", PrintWidth: 100}, nil)
	require.NoError(t, err)
	require.Equal(t, "width=100 lang=sql", string(out))
}

func TestRunExternalNonZeroExitIsError(t *testing.T) {
	registry := dispatch.Registry{
		"false": {Spec: &dispatch.Spec{Cmd: "false", Stdin: true}},
	}
	chains := dispatch.LanguageFormatters{"text": {"false"}}

	_, err := dispatch.Run(registry, chains, []byte("hi"), dispatch.Opts{Language: "text"}, nil)
	require.Error(t, err)
}

func TestRunExternalFailOnStderr(t *testing.T) {
	registry := dispatch.Registry{
		"warn": {Spec: &dispatch.Spec{
			Cmd:          "sh",
			Args:         []string{"-c", "echo oops 1>&2"},
			Stdin:        true,
			FailOnStderr: true,
		}},
	}
	chains := dispatch.LanguageFormatters{"text": {"warn"}}

	_, err := dispatch.Run(registry, chains, []byte("hi"), dispatch.Opts{Language: "text"}, nil)
	require.Error(t, err)
}
