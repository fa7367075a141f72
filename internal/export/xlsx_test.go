package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/mathdrill/internal/session"
)

func intPtr(n int) *int { return &n }

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"morning", time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local), "260314_0926.xlsx"},
		{"evening", time.Date(2025, 12, 1, 23, 5, 0, 0, time.Local), "251201_2305.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.at))
		})
	}
}

func TestXLSX_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 26, 0, 0, time.Local)
	records := []session.SessionRecord{
		{ProblemText: "3+4", Submitted: intPtr(8), ElapsedTicks: 2},
		{ProblemText: "3+4", Submitted: intPtr(7), ElapsedTicks: 5, Correct: true},
		{ProblemText: "15+9", ElapsedTicks: 30},
		{ProblemText: "12-5", Submitted: intPtr(7), ElapsedTicks: 0, Correct: true},
	}

	path, err := NewXLSX(dir, 0).Export(records, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "260314_0926.xlsx"), path)

	rows := readRows(t, path)
	require.Len(t, rows, len(records)+1)
	assert.Equal(t, Header, rows[0])

	want := [][]string{
		{"3+4", "8", "2"},
		{"3+4", "7", "5"},
		{"15+9", "", "30"},
		{"12-5", "7", "0"},
	}
	for i, w := range want {
		assert.Equal(t, w, rows[i+1], "row %d", i+1)
	}
}

func TestXLSX_ElapsedInSeconds(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 26, 0, 0, time.Local)
	records := []session.SessionRecord{
		{ProblemText: "3+4", Submitted: intPtr(7), ElapsedTicks: 2, Correct: true},
		{ProblemText: "15+9", Submitted: intPtr(20), ElapsedTicks: 5},
		{ProblemText: "15+9", ElapsedTicks: 30},
	}

	path, err := NewXLSX(dir, 1500*time.Millisecond).Export(records, now)
	require.NoError(t, err)

	rows := readRows(t, path)
	require.Len(t, rows, len(records)+1)
	assert.Equal(t, "Elapsed (s)", rows[0][2])
	assert.Equal(t, "3", rows[1][2])
	assert.Equal(t, "7.5", rows[2][2])
	assert.Equal(t, "45", rows[3][2])
}

func TestXLSX_Empty(t *testing.T) {
	path, err := NewXLSX(t.TempDir(), 0).Export(nil, time.Now())
	require.NoError(t, err)

	rows := readRows(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, Header, rows[0])
}

func TestXLSX_SameMinuteOverwrites(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 26, 0, 0, time.Local)
	x := NewXLSX(dir, 0)

	_, err := x.Export([]session.SessionRecord{{ProblemText: "1+1", Submitted: intPtr(2)}}, now)
	require.NoError(t, err)
	path, err := x.Export([]session.SessionRecord{
		{ProblemText: "2+2", Submitted: intPtr(4)},
		{ProblemText: "3+3", Submitted: intPtr(6)},
	}, now.Add(40*time.Second))
	require.NoError(t, err)

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "2+2", rows[1][0])
}

func TestXLSX_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	path, err := NewXLSX(dir, 0).Export(nil, time.Now())
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestXLSX_WriteError(t *testing.T) {
	// A regular file where the export directory should be.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := NewXLSX(blocker, 0).Export(nil, time.Now())
	require.Error(t, err)

	var wErr *WriteError
	require.True(t, errors.As(err, &wErr))
	assert.Contains(t, wErr.Path, "not-a-dir")
}
