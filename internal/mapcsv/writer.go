// Package mapcsv encodes and decodes the exchanged block-map document:
// a CSV stream with header "number,size,excerpt,<algorithm>" and one
// row per block, and the matching result document produced when blocks
// are relocated. Rows are flushed as they are written so the documents
// can be consumed as pipelines.
package mapcsv

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/blockmark/blockmark/internal/blockmap"
)

// MapWriter writes a block-map document. The header names the digest
// algorithm in its fourth column.
type MapWriter struct {
	csv         *csv.Writer
	algorithm   string
	wroteHeader bool
}

// NewMapWriter wraps w with a block-map document writer using the
// given digest algorithm name for the header.
func NewMapWriter(w io.Writer, algorithm string) *MapWriter {
	return &MapWriter{csv: csv.NewWriter(w), algorithm: algorithm}
}

// WriteDescriptor appends one block row and flushes it immediately.
func (w *MapWriter) WriteDescriptor(d blockmap.Descriptor) error {
	if !w.wroteHeader {
		if err := w.csv.Write([]string{"number", "size", "excerpt", w.algorithm}); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		w.wroteHeader = true
	}
	row := []string{
		strconv.Itoa(d.Number),
		strconv.FormatInt(d.Size, 10),
		base64.StdEncoding.EncodeToString(d.Excerpt),
		d.Digest,
	}
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("write block %d: %w", d.Number, err)
	}
	w.csv.Flush()
	return w.csv.Error()
}

// ResultWriter writes the relocation result document with columns
// number, size, location. A missing block renders its location as the
// literal token None.
type ResultWriter struct {
	csv         *csv.Writer
	wroteHeader bool
}

// NewResultWriter wraps w with a result document writer.
func NewResultWriter(w io.Writer) *ResultWriter {
	return &ResultWriter{csv: csv.NewWriter(w)}
}

// WriteResult appends one result row and flushes it immediately.
func (w *ResultWriter) WriteResult(res blockmap.Result) error {
	if !w.wroteHeader {
		if err := w.csv.Write([]string{"number", "size", "location"}); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		w.wroteHeader = true
	}
	location := "None"
	if res.Found {
		location = strconv.FormatInt(res.Location, 10)
	}
	row := []string{
		strconv.Itoa(res.Number),
		strconv.FormatInt(res.Size, 10),
		location,
	}
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("write result for block %d: %w", res.Number, err)
	}
	w.csv.Flush()
	return w.csv.Error()
}
