// Command fluxgen writes synthetic point clouds as delimited text for the
// viewer to load.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

func main() {
	var (
		outPath   = flag.String("out", "", "Output file; stdout when empty.")
		shape     = flag.String("shape", "clusters", "clusters|spiral|uniform.")
		rows      = flag.Int("rows", 10000, "Number of points.")
		cols      = flag.Int("cols", 3, "Number of columns.")
		k         = flag.Int("k", 4, "Number of clusters (clusters only).")
		seed      = flag.Uint64("seed", 1, "Random seed.")
		nulls     = flag.Float64("nulls", 0, "Fraction of cells left empty.")
		separator = flag.String("separator", ",", "Field separator.")
	)
	flag.Parse()

	sep, size := utf8.DecodeRuneInString(*separator)
	if sep == utf8.RuneError || size != len(*separator) {
		fatalf("separator %q must be a single character", *separator)
	}
	g := Generator{
		Shape:    strings.ToLower(*shape),
		Rows:     *rows,
		Columns:  *cols,
		Clusters: *k,
		Seed:     *seed,
		Nulls:    *nulls,
		Comma:    sep,
	}
	if err := g.Validate(); err != nil {
		fatalf("fluxgen: %v", err)
	}

	if err := write(*outPath, g); err != nil {
		fatalf("fluxgen: %v", err)
	}
}

func write(path string, g Generator) (err error) {
	var w io.Writer = os.Stdout
	if path != "" {
		out, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := out.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = out
	}
	bw := bufio.NewWriterSize(w, 64*1024)
	if err := g.Write(bw); err != nil {
		return err
	}
	return bw.Flush()
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
