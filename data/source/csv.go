package source

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/sync/errgroup"

	logginghelpers "github.com/Pjt727/classboard/data/logging-helpers"
	"github.com/Pjt727/classboard/schedule"
)

// headers of the spreadsheets the dashboards were first built around
var headerAliases = map[string]string{
	"codigo": "code",
	"código": "code",
	"nome":   "name",
	"turma":  "section",
	"sala":   "room",
	"dia":    "weekday",
	"day":    "weekday",
	"inicio": "start",
	"início": "start",
	"fim":    "end",
}

// CSVFiles rereads every file on each call, there is no caching between
// cycles so edits to the files show up on the next refresh
type CSVFiles struct {
	Paths  []string
	Logger *slog.Logger
}

func NewCSVFiles(logger *slog.Logger, paths ...string) *CSVFiles {
	return &CSVFiles{Paths: paths, Logger: logger}
}

func (s *CSVFiles) Name() string {
	return "csv"
}

// Rows reads the files concurrently and concatenates them in path order
func (s *CSVFiles) Rows(ctx context.Context) ([]schedule.Row, error) {
	perFile := make([][]schedule.Row, len(s.Paths))
	eg, ctx := errgroup.WithContext(ctx)
	for i, path := range s.Paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := readCSVFile(path)
			if err != nil {
				return unavailable(path, err)
			}
			if s.Logger != nil {
				s.Logger.Log(ctx, logginghelpers.LevelReportIO, "read schedule file", "path", path, "rows", len(rows))
			}
			perFile[i] = rows
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var rows []schedule.Row
	for _, fileRows := range perFile {
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

func readCSVFile(path string) ([]schedule.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV decodes rows with a header line, english or portuguese column names
func ReadCSV(r io.Reader) ([]schedule.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []schedule.Row
	if err := gocsv.UnmarshalCSV(&aliasedHeaderReader{Reader: reader}, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []schedule.Row{}, nil
		}
		return nil, err
	}
	return rows, nil
}

// aliasedHeaderReader rewrites the first record so gocsv can match it
// against the csv tags on schedule.Row
type aliasedHeaderReader struct {
	*csv.Reader
	sawHeader bool
}

func (r *aliasedHeaderReader) Read() ([]string, error) {
	record, err := r.Reader.Read()
	if err != nil {
		return record, err
	}
	if !r.sawHeader {
		r.sawHeader = true
		normalizeHeader(record)
	}
	return record, nil
}

func (r *aliasedHeaderReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

func normalizeHeader(record []string) {
	for i, column := range record {
		column = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(column, "\ufeff")))
		if alias, ok := headerAliases[column]; ok {
			column = alias
		}
		record[i] = column
	}
}
