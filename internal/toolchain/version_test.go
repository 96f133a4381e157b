package toolchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	cases := map[string]string{
		"cargo 1.79.0 (ffa9cf99a 2024-06-03)": "1.79.0",
		"Python 3.12.1":                       "3.12.1",
		"10.8.2\n":                            "10.8.2",
		"v20.11.0":                            "20.11.0",
		"rustc 1.80":                          "1.80.0",
	}
	for in, want := range cases {
		v, err := ParseVersion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v.String(), in)
	}
}

func TestParseVersion_NoVersion(t *testing.T) {
	_, err := ParseVersion("command not found")
	assert.Error(t, err)
}

func TestVersion_UsesStdoutThenStderr(t *testing.T) {
	r := NewFakeRunner("python3")
	r.On("python3", func(Command) (*Result, error) {
		return &Result{Stderr: "Python 2.7.18"}, nil
	})

	v, err := Version(context.Background(), r, "python3")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v.Major())

	calls := r.CallsTo("python3")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"--version"}, calls[0].Args)
}

func TestVersion_ToolFails(t *testing.T) {
	r := NewFakeRunner("cargo")
	r.On("cargo", Exit(101, "error: broken toolchain"))

	_, err := Version(context.Background(), r, "cargo")
	assert.Error(t, err)
}
