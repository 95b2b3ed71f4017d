package round

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStdConsoleReadsTokens(t *testing.T) {
	var out bytes.Buffer
	c := NewStdConsole(strings.NewReader("100 1000\n0\n"), &out)

	for _, want := range []int{100, 1000, 0} {
		n, err := c.NextIntervals()
		require.NoError(t, err)
		require.Equal(t, want, n)
	}
	require.Contains(t, out.String(), "Enter the number of intervals: (0 quits) ")
}

func TestStdConsoleEOFQuits(t *testing.T) {
	c := NewStdConsole(strings.NewReader(""), &bytes.Buffer{})
	n, err := c.NextIntervals()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestStdConsoleRejectsGarbage(t *testing.T) {
	c := NewStdConsole(strings.NewReader("fifty\n"), &bytes.Buffer{})
	_, err := c.NextIntervals()
	require.Error(t, err)
	require.Contains(t, err.Error(), "fifty")
}

func TestStdConsoleReportFormat(t *testing.T) {
	var out bytes.Buffer
	c := NewStdConsole(strings.NewReader(""), &out)

	res := Result{
		Intervals: 1000,
		Value:     3.5,
		AbsError:  math.Abs(3.5 - math.Pi),
		Elapsed:   0.04567,
	}
	require.NoError(t, c.Report(res))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "elapsed time is 0.0457 seconds", lines[0])
	require.Regexp(t, `^pi is approximately \d\.\d{16}, Error is \d\.\d{16}$`, lines[1])
	require.True(t, strings.HasPrefix(lines[1], "pi is approximately 3.5000000000000000, Error is 0.3584073"))
}
