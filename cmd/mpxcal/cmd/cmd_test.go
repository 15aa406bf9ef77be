package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = "MPX,Microsoft Project for Windows,4.0,ANSI\r\n" +
	"20,Standard,0,1,1,1,1,1,0\r\n" +
	"25,2,08:00,12:00,13:00,17:00\r\n" +
	"26,25/12/2024,26/12/2024,0\r\n" +
	"20,Night,0,0,0,0,0,0,0\r\n" +
	"50,1,Alice\r\n" +
	"55,Standard,2,2,0,2,2,2,2\r\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	calendarName, resourceName, cronExpr, atTime, from, icsStart, outFile = "", "", "", "", "", "", ""
	count = 5

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.mpx")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o644))
	return path
}

func TestCommands(t *testing.T) {
	path := writeSample(t)

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "between counts inclusive working days",
			args:     []string{"between", path, "2024-01-01", "2024-01-07"},
			expected: "5d\n",
		},
		{
			name:     "between skips holidays",
			args:     []string{"between", path, "2024-12-23", "2024-12-27"},
			expected: "3d\n",
		},
		{
			name:     "between on a resource calendar",
			args:     []string{"between", path, "-r", "Alice", "2024-01-01", "2024-01-07"},
			expected: "4d\n",
		},
		{
			name:     "add counts the start day",
			args:     []string{"add", path, "2024-01-01", "5d"},
			expected: "05/01/24\n",
		},
		{
			name:     "add walks backwards",
			args:     []string{"add", path, "2024-01-10", "--", "-3d"},
			expected: "08/01/24\n",
		},
		{
			name:     "next keeps only working dates",
			args:     []string{"next", path, "--at", "09:00", "--from", "2024-12-24", "-n", "2"},
			expected: "24/12/24 09:00\n27/12/24 09:00\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestCommandErrors(t *testing.T) {
	path := writeSample(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown calendar", []string{"between", path, "-c", "Missing", "2024-01-01", "2024-01-02"}},
		{"unknown resource", []string{"between", path, "-r", "Bob", "2024-01-01", "2024-01-02"}},
		{"end before start", []string{"between", path, "2024-01-05", "2024-01-01"}},
		{"bad duration", []string{"add", path, "2024-01-01", "5x"}},
		{"missing file", []string{"info", filepath.Join(t.TempDir(), "none.mpx")}},
		{"no night working time", []string{"add", path, "-c", "Night", "2024-01-01", "1d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info", writeSample(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Standard\n")
	assert.Contains(t, out, "Alice (resource 1)")
	assert.Contains(t, out, "base: Standard")
	assert.Contains(t, out, "08:00-12:00 13:00-17:00")
	assert.Contains(t, out, "25/12/24 - 26/12/24 non-working")
}

func TestWriteRoundTrip(t *testing.T) {
	path := writeSample(t)
	out, err := run(t, "write", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "MPX,"))

	again := filepath.Join(t.TempDir(), "again.mpx")
	require.NoError(t, os.WriteFile(again, []byte(out), 0o644))
	first, err := run(t, "between", path, "-r", "Alice", "2024-12-01", "2024-12-31")
	require.NoError(t, err)
	second, err := run(t, "between", again, "-r", "Alice", "2024-12-01", "2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRemoteFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleFile))
	}))
	defer server.Close()

	out, err := run(t, "between", server.URL+"/plan.mpx", "2024-12-23", "2024-12-27")
	require.NoError(t, err)
	assert.Equal(t, "3d\n", out)
}

func TestICS(t *testing.T) {
	out, err := run(t, "ics", writeSample(t), "--start", "2024-12-02")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "BYDAY=MO,TU,WE,TH,FR")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "mpxcal "))
}
