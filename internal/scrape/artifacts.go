package scrape

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/sozoku/internal/models"
)

// WriteLinks overwrites path with one URL per line.
func WriteLinks(path string, links []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var b strings.Builder
	for _, l := range links {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// ReadLinks reads a URL list, skipping blank lines.
func ReadLinks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var links []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			links = append(links, line)
		}
	}
	return links, sc.Err()
}

// RecordWriter writes the records artifact. The header is written on creation.
type RecordWriter struct {
	f *os.File
	w *csv.Writer
	n int
}

// CreateRecordFile truncates path and writes the CSV header.
func CreateRecordFile(path string) (*RecordWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(models.CSVHeader); err != nil {
		f.Close()
		return nil, err
	}
	return &RecordWriter{f: f, w: w}, nil
}

// Write appends records and flushes them to disk.
func (rw *RecordWriter) Write(records ...models.Record) error {
	for _, r := range records {
		if err := rw.w.Write(r.Fields()); err != nil {
			return err
		}
		rw.n++
	}
	rw.w.Flush()
	return rw.w.Error()
}

// Count returns the number of rows written, excluding the header.
func (rw *RecordWriter) Count() int { return rw.n }

// Close flushes and closes the file.
func (rw *RecordWriter) Close() error {
	rw.w.Flush()
	if err := rw.w.Error(); err != nil {
		rw.f.Close()
		return err
	}
	return rw.f.Close()
}

// ReadRecords loads the records artifact. A leading header row is skipped.
func ReadRecords(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(models.CSVHeader)
	var records []models.Record
	for line := 1; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if line == 1 && isHeader(row) {
			continue
		}
		records = append(records, models.Record{Title: row[0], Text: row[1], URL: row[2]})
	}
	return records, nil
}

func isHeader(row []string) bool {
	for i, h := range models.CSVHeader {
		if strings.TrimSpace(row[i]) != h {
			return false
		}
	}
	return true
}
