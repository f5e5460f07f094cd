package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Pjt727/classboard/data/source"
	"github.com/Pjt727/classboard/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVEnglishHeaders(t *testing.T) {
	rows, err := source.ReadCSV(strings.NewReader(
		"code,name,section,room,weekday,start,end\n" +
			"MA111,Calculus I,A,CB01,Monday,08:00,10:00\n" +
			"F 128,Physics,B,PB12,Tuesday,14:00,16:00\n",
	))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, schedule.Row{
		Code:    "MA111",
		Name:    "Calculus I",
		Section: "A",
		Room:    "CB01",
		Weekday: "Monday",
		Start:   "08:00",
		End:     "10:00",
	}, rows[0])
	assert.Equal(t, "F 128", rows[1].Code)
}

func TestReadCSVPortugueseHeaders(t *testing.T) {
	rows, err := source.ReadCSV(strings.NewReader(
		"\ufeffcodigo,nome,turma,inicio,fim,sala,dia\n" +
			"BG180,Biologia Celular,A,08:00,10:00,IB05,Segunda\n",
	))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	entries, errs := schedule.LoadRows(rows)
	require.Empty(t, errs)
	assert.Equal(t, schedule.Monday, entries[0].Weekday)
	assert.Equal(t, "IB05", entries[0].Room)
	assert.Equal(t, "10:00", entries[0].End.String())
}

func TestReadCSVMissingColumnLeavesFieldEmpty(t *testing.T) {
	rows, err := source.ReadCSV(strings.NewReader(
		"code,name,section,weekday,start,end\n" +
			"MA111,Calculus I,A,Monday,08:00,10:00\n",
	))
	require.NoError(t, err)

	_, errs := schedule.LoadRows(rows)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], schedule.ErrMissingField)
	var rowErr *schedule.RowError
	require.ErrorAs(t, errs[0], &rowErr)
	assert.Equal(t, "room", rowErr.Field)
}

func TestReadCSVEmpty(t *testing.T) {
	rows, err := source.ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVFilesConcatenatesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.csv", "code,name,section,room,weekday,start,end\nAA001,A,A,R1,Monday,08:00,09:00\nAA002,B,A,R1,Monday,09:00,10:00\n")
	second := writeFile(t, dir, "second.csv", "code,name,section,room,weekday,start,end\nBB001,C,A,R2,Friday,10:00,11:00\n")

	src := source.NewCSVFiles(nil, first, second)
	assert.Equal(t, "csv", src.Name())
	rows, err := src.Rows(context.Background())
	require.NoError(t, err)

	var codes []string
	for _, row := range rows {
		codes = append(codes, row.Code)
	}
	assert.Equal(t, []string{"AA001", "AA002", "BB001"}, codes)
}

func TestCSVFilesRereadsOnEveryCall(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "schedule.csv", "code,name,section,room,weekday,start,end\nAA001,A,A,R1,Monday,08:00,09:00\n")
	src := source.NewCSVFiles(nil, path)

	rows, err := src.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	writeFile(t, dir, "schedule.csv", "code,name,section,room,weekday,start,end\nAA001,A,A,R1,Monday,08:00,09:00\nAA002,B,A,R1,Monday,09:00,10:00\n")
	rows, err = src.Rows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCSVFilesMissingFile(t *testing.T) {
	src := source.NewCSVFiles(nil, filepath.Join(t.TempDir(), "nope.csv"))
	_, err := src.Rows(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrSourceUnavailable))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
