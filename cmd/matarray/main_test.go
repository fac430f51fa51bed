package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matarray/array"
	"github.com/born-ml/matarray/matfile"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	m, err := array.NewMultiDimensionalArrayFrom("m", array.Dims{2, 2}, []int32{1, 2, 3, 4})
	require.NoError(t, err)
	defer m.Release()
	cube, err := array.NewMultiDimensionalArrayFrom("cube", array.Dims{1, 1, 2}, []float64{0.5, 1.5})
	require.NoError(t, err)
	defer cube.Release()
	s, err := array.NewStringValue("label", "hello")
	require.NoError(t, err)
	defer s.Release()
	k, err := array.NewVectorFrom("k", []uint8{7})
	require.NoError(t, err)
	defer k.Release()

	path := filepath.Join(t.TempDir(), "fixture.mat")
	require.NoError(t, matfile.Save(path, matfile.WriterOptions{Description: "fixture"}, m, cube, s, k))
	return path
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, []string{"version"}, matfile.ReaderOptions{}, 10))
	assert.Equal(t, "matarray "+version+"\n", out.String())
}

func TestRunList(t *testing.T) {
	path := writeFixture(t)
	var out bytes.Buffer
	require.NoError(t, run(&out, []string{"ls", path}, matfile.ReaderOptions{}, 10))

	text := out.String()
	assert.Contains(t, text, "fixture")
	assert.Contains(t, text, "int32")
	assert.Contains(t, text, "2x2")
	assert.Contains(t, text, "1x1x2")
	assert.Contains(t, text, "char")
	assert.NotContains(t, text, "\x1b[", "output to a buffer must not be styled")
}

func TestRunShow(t *testing.T) {
	path := writeFixture(t)
	show := func(name string) string {
		var out bytes.Buffer
		require.NoError(t, run(&out, []string{"show", path, name}, matfile.ReaderOptions{}, 10))
		return out.String()
	}

	assert.Contains(t, show("m"), "         1          3\n         2          4\n")
	assert.Contains(t, show("cube"), "(0,0,1) 1.5")
	assert.Contains(t, show("label"), `"hello"`)
	assert.Contains(t, show("k"), "7\n")
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	assert.EqualError(t, run(&out, nil, matfile.ReaderOptions{}, 10), "missing command")
	assert.EqualError(t, run(&out, []string{"bogus"}, matfile.ReaderOptions{}, 10), `unknown command "bogus"`)
	assert.EqualError(t, run(&out, []string{"ls"}, matfile.ReaderOptions{}, 10), "usage: matarray ls FILE")
	assert.EqualError(t, run(&out, []string{"show", "x"}, matfile.ReaderOptions{}, 10), "usage: matarray show FILE VAR")

	path := writeFixture(t)
	err := run(&out, []string{"show", path, "missing"}, matfile.ReaderOptions{}, 10)
	assert.ErrorIs(t, err, matfile.ErrVariableNotFound)
}

func TestRunMainExitCodes(t *testing.T) {
	args, cmdline := os.Args, flag.CommandLine
	t.Cleanup(func() {
		os.Args, flag.CommandLine = args, cmdline
		array.SetLogger(nil)
		matfile.SetLogger(nil)
	})
	path := writeFixture(t)

	tests := []struct {
		args []string
		want int
	}{
		{[]string{"version"}, 0},
		{[]string{"-v", "ls", path}, 0},
		{[]string{"-v", "show", path, "missing"}, 1},
		{[]string{"-v"}, 1},
		{[]string{"bogus"}, 1},
	}
	for _, tt := range tests {
		flag.CommandLine = flag.NewFlagSet("matarray", flag.ContinueOnError)
		os.Args = append([]string{"matarray"}, tt.args...)
		assert.Equal(t, tt.want, runMain(), "args %v", tt.args)
	}
}

func TestAdvance(t *testing.T) {
	index := []int{0, 0, 0}
	dims := array.Dims{2, 1, 2}
	var seen []string
	for range 4 {
		seen = append(seen, formatIndex(index))
		advance(index, dims)
	}
	assert.Equal(t, []string{"0,0,0", "1,0,0", "0,0,1", "1,0,1"}, seen)
}
