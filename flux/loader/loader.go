// Package loader reads delimited text with a header row into a table.
//
// Decoding is done by Arrow's CSV reader against an all-float32 schema built
// from the header. Null cells become NaN; a cell that is neither null nor a
// number fails the load.
package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"fluxcore/flux/table"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/chewxy/math32"
)

// ProgressEvery is the row interval between progress reports.
const ProgressEvery = 100

const defaultChunk = 1024

var ErrNoHeader = errors.New("loader: missing header row")

// DefaultNulls are the cell values read as missing.
var DefaultNulls = []string{"", "NA", "NaN", "nan", "NULL", "null"}

// Options configures a load. The zero value reads comma-separated input.
type Options struct {
	// Separator is the field delimiter; zero means ','.
	Separator rune

	// Nulls overrides DefaultNulls.
	Nulls []string

	// Chunk is the number of rows decoded per batch.
	Chunk int

	// Progress, when set, is called every ProgressEvery rows and once more
	// with done set after the last row.
	Progress func(rows int, done bool)

	Logger *slog.Logger
}

// Load reads the file at path. The table is named after the path.
func Load(path string, opts Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	tbl, err := Read(f, path, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tbl, nil
}

// Read decodes r into a table called name.
func Read(r io.Reader, name string, opts Options) (*table.Table, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	comma := opts.Separator
	if comma == 0 {
		comma = ','
	}
	nulls := opts.Nulls
	if nulls == nil {
		nulls = DefaultNulls
	}
	chunk := opts.Chunk
	if chunk <= 0 {
		chunk = defaultChunk
	}

	br := bufio.NewReader(r)
	line, header, err := readHeader(br, comma)
	if err != nil {
		return nil, err
	}

	tbl, err := table.New(name, header)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	// position in the file -> position in canonical order
	slots := make([]int, len(header))
	for i, col := range header {
		slots[i] = tbl.Index(col)
	}

	fields := make([]arrow.Field, len(header))
	for i, col := range header {
		fields[i] = arrow.Field{Name: col, Type: arrow.PrimitiveTypes.Float32, Nullable: true}
	}
	// The header line is handed back to the reader so that it also fixes the
	// expected field count for every row.
	rd := arrowcsv.NewReader(io.MultiReader(strings.NewReader(line), br), arrow.NewSchema(fields, nil),
		arrowcsv.WithHeader(true),
		arrowcsv.WithComma(comma),
		arrowcsv.WithChunk(chunk),
		arrowcsv.WithNullReader(true, nulls...),
	)
	defer rd.Release()

	row := make([]float32, len(header))
	rows := 0
	for rd.Next() {
		rec := rd.Record()
		cols := make([]*array.Float32, rec.NumCols())
		for i := range cols {
			cols[i] = rec.Column(i).(*array.Float32)
		}
		for j := 0; j < int(rec.NumRows()); j++ {
			for i, c := range cols {
				v := math32.NaN()
				if c.IsValid(j) {
					v = c.Value(j)
				}
				row[slots[i]] = v
			}
			tbl.Push(row)
			rows++
			if opts.Progress != nil && rows%ProgressEvery == 0 {
				opts.Progress(rows, false)
			}
		}
	}
	if err := rd.Err(); err != nil {
		return nil, fmt.Errorf("loader: after row %d: %w", rows, err)
	}
	if opts.Progress != nil {
		opts.Progress(rows, true)
	}

	log.Debug("loaded", "table", name, "rows", rows, "columns", len(header))
	return tbl, nil
}

// readHeader consumes the first line and splits it into column names. The
// raw line is returned alongside, newline included.
func readHeader(br *bufio.Reader, comma rune) (string, []string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("loader: %w", err)
	}
	line = strings.TrimPrefix(line, "\ufeff")
	if strings.TrimSpace(line) == "" {
		return "", nil, ErrNoHeader
	}

	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = comma
	names, err := cr.Read()
	if err != nil {
		return "", nil, fmt.Errorf("loader: header: %w", err)
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	return line, names, nil
}
