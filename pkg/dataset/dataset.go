// Package dataset holds the tabular data a symbolic regression run trains
// against: named float64 columns stored as Arrow arrays, loaded from CSV,
// partitioned into training and test ranges.
package dataset

import (
	"encoding/csv"
	"io"
	"math/rand"
	"os"
	"strconv"

	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"gonum.org/v1/gonum/stat"

	"github.com/evoscope/symgp/pkg/errors"
)

// Dataset is an immutable-by-convention columnar table. Variables are
// addressed by column index from tree nodes and by name from user input.
type Dataset struct {
	names []string
	cols  []*array.Float64
	rows  int
}

// New builds a dataset from column-major data. Every column must have the
// same length.
func New(names []string, columns [][]float64) (*Dataset, error) {
	if len(names) != len(columns) {
		return nil, errors.New(errors.InvalidInput, "column name count does not match column count")
	}
	if len(columns) == 0 {
		return nil, errors.New(errors.InvalidInput, "dataset needs at least one column")
	}
	rows := len(columns[0])
	for i, col := range columns {
		if len(col) != rows {
			return nil, errors.WithFields(
				errors.New(errors.InvalidInput, "ragged columns"),
				errors.Fields{"column": names[i], "rows": len(col), "expected": rows})
		}
	}
	d := &Dataset{names: append([]string(nil), names...), rows: rows}
	for _, col := range columns {
		d.cols = append(d.cols, buildColumn(col))
	}
	return d, nil
}

// FromCSV loads a dataset from a CSV file with a header row; every data cell
// must parse as a float.
func FromCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.DatasetError, "open dataset")
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads CSV content with a header row from r.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.DatasetError, "read csv header")
	}

	columns := make([][]float64, len(header))
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.DatasetError, "read csv record")
		}
		for i, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.WithFields(
					errors.Wrap(err, errors.DatasetError, "non-numeric cell"),
					errors.Fields{"row": row, "column": header[i]})
			}
			columns[i] = append(columns[i], v)
		}
		row++
	}
	return New(header, columns)
}

func buildColumn(values []float64) *array.Float64 {
	b := array.NewFloat64Builder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues(values, nil)
	return b.NewFloat64Array()
}

// Rows returns the number of rows.
func (d *Dataset) Rows() int { return d.rows }

// Cols returns the number of columns.
func (d *Dataset) Cols() int { return len(d.cols) }

// Names returns the column names in storage order.
func (d *Dataset) Names() []string { return d.names }

// Column returns the backing values of column i.
func (d *Dataset) Column(i int) []float64 { return d.cols[i].Float64Values() }

// ColumnIndex resolves a column name, returning an error for unknown names.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	for i, n := range d.names {
		if n == name {
			return i, nil
		}
	}
	return 0, errors.WithFields(
		errors.New(errors.ResourceNotFound, "unknown column"),
		errors.Fields{"name": name})
}

// Value returns the cell at (column, row).
func (d *Dataset) Value(col, row int) float64 { return d.cols[col].Value(row) }

// FullRange covers every row.
func (d *Dataset) FullRange() Range { return Range{Start: 0, End: d.rows} }

// Shuffle permutes the rows uniformly, keeping cells of one row together.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	perm := rng.Perm(d.rows)
	for c, col := range d.cols {
		src := col.Float64Values()
		shuffled := make([]float64, d.rows)
		for i, j := range perm {
			shuffled[i] = src[j]
		}
		old := d.cols[c]
		d.cols[c] = buildColumn(shuffled)
		old.Release()
	}
}

// Standardize rescales every column to zero mean and unit variance, with the
// statistics taken over the given (training) range only so the test partition
// stays unseen.
func (d *Dataset) Standardize(r Range) {
	for c, col := range d.cols {
		src := col.Float64Values()
		train := src[r.Start:r.End]
		mean, std := stat.MeanStdDev(train, nil)
		if std == 0 {
			std = 1
		}
		scaled := make([]float64, d.rows)
		for i, v := range src {
			scaled[i] = (v - mean) / std
		}
		old := d.cols[c]
		d.cols[c] = buildColumn(scaled)
		old.Release()
	}
}
