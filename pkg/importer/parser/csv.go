// Package parser contains the CSV reading shared by the parsers for the
// different export formats.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/warped-finance/backend/pkg/normalize"
)

// Row is a CSV line keyed by the normalized column names.
type Row map[string]string

// Get returns the value of the column. Missing columns are empty.
func (r Row) Get(column string) string {
	return r[column]
}

// Reader reads CSV files with a header line.
type Reader struct {
	r      *csv.Reader
	header []string
	line   int
}

// NewReader reads the header line. Column names are normalized with normalize.Header.
// An empty input yields a reader without rows.
func NewReader(in io.Reader) (*Reader, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	reader := &Reader{r: r}

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return reader, nil
	}
	if err != nil {
		return nil, reader.Error(fmt.Errorf("could not read the header: %w", err))
	}
	reader.line, _ = r.FieldPos(0)

	reader.header = make([]string, 0, len(header))
	for _, column := range header {
		reader.header = append(reader.header, normalize.Header(column))
	}

	return reader, nil
}

// Header returns the normalized column names.
func (r *Reader) Header() []string {
	return r.header
}

// Read returns the next row. It returns io.EOF when there are no more rows.
// Surplus fields are dropped, missing fields are empty.
func (r *Reader) Read() (Row, error) {
	if r.header == nil {
		return nil, io.EOF
	}

	record, err := r.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, r.Error(fmt.Errorf("could not read line in CSV: %w", err))
	}
	r.line, _ = r.r.FieldPos(0)

	row := make(Row, len(r.header))
	for i, column := range r.header {
		if i < len(record) {
			row[column] = record[i]
		}
	}

	return row, nil
}

// ReadAll returns all remaining rows.
func (r *Reader) ReadAll() ([]Row, error) {
	var rows []Row
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Line returns the line the last row started in.
func (r *Reader) Line() int {
	return r.line
}

// Error returns an error including the line of the input
// the error occurred in in the message.
func (r *Reader) Error(err error) error {
	line := r.line

	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		line = parseErr.StartLine
	}

	return fmt.Errorf("error in line %d of the CSV: %w", line, err)
}
