package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"gonum.org/v1/gonum/mat"
)

const batchRows = 4096

// Generator describes one synthetic data set.
type Generator struct {
	Shape    string
	Rows     int
	Columns  int
	Clusters int
	Seed     uint64

	// Nulls is the probability of a cell being written empty.
	Nulls float64

	Comma rune
}

func (g Generator) Validate() error {
	var errs []error
	switch g.Shape {
	case "clusters", "spiral", "uniform":
	default:
		errs = append(errs, fmt.Errorf("unknown shape %q", g.Shape))
	}
	if g.Rows < 0 {
		errs = append(errs, fmt.Errorf("rows %d must not be negative", g.Rows))
	}
	if g.Columns < 1 {
		errs = append(errs, fmt.Errorf("cols %d must be at least 1", g.Columns))
	}
	if g.Shape == "clusters" && g.Clusters < 1 {
		errs = append(errs, fmt.Errorf("k %d must be at least 1", g.Clusters))
	}
	if g.Nulls < 0 || g.Nulls > 1 {
		errs = append(errs, fmt.Errorf("nulls %v must be within [0, 1]", g.Nulls))
	}
	return errors.Join(errs...)
}

// ColumnNames are x, y, z followed by c3, c4, ...
func ColumnNames(n int) []string {
	base := []string{"x", "y", "z"}
	names := make([]string, n)
	for i := range names {
		if i < len(base) {
			names[i] = base[i]
		} else {
			names[i] = fmt.Sprintf("c%d", i)
		}
	}
	return names
}

// Write emits the header and all rows. Output is a function of the
// generator alone.
func (g Generator) Write(w io.Writer) error {
	if err := g.Validate(); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(g.Seed, g.Seed^0x9e3779b97f4a7c15))
	sample, err := g.sampler(rng)
	if err != nil {
		return err
	}

	fields := make([]arrow.Field, g.Columns)
	for i, name := range ColumnNames(g.Columns) {
		fields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float32, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	cw := arrowcsv.NewWriter(w, schema,
		arrowcsv.WithHeader(true),
		arrowcsv.WithComma(g.Comma),
		arrowcsv.WithNullWriter(""),
	)
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	point := make([]float64, g.Columns)
	flush := func() error {
		rec := b.NewRecord()
		defer rec.Release()
		return cw.Write(rec)
	}

	// A header-only file still needs one Write.
	pending := g.Rows == 0
	for i := 0; i < g.Rows; i++ {
		sample(i, point)
		for c, v := range point {
			fb := b.Field(c).(*array.Float32Builder)
			if g.Nulls > 0 && rng.Float64() < g.Nulls {
				fb.AppendNull()
				continue
			}
			fb.Append(float32(v))
		}
		pending = true
		if (i+1)%batchRows == 0 {
			if err := flush(); err != nil {
				return err
			}
			pending = false
		}
	}
	if pending {
		if err := flush(); err != nil {
			return err
		}
	}
	return cw.Flush()
}

type sampler func(i int, out []float64)

func (g Generator) sampler(rng *rand.Rand) (sampler, error) {
	switch g.Shape {
	case "uniform":
		return func(_ int, out []float64) {
			for c := range out {
				out[c] = rng.Float64() * 100
			}
		}, nil
	case "spiral":
		turns := 4.0
		return func(i int, out []float64) {
			t := float64(i) / float64(max(g.Rows-1, 1)) * turns * 2 * math.Pi
			r := t + rng.NormFloat64()*0.3
			for c := range out {
				switch c {
				case 0:
					out[c] = r * math.Cos(t)
				case 1:
					out[c] = r * math.Sin(t)
				case 2:
					out[c] = t
				default:
					out[c] = rng.NormFloat64()
				}
			}
		}, nil
	default:
		return g.clusters(rng)
	}
}

// clusters draws from k Gaussian clusters with random centres and random
// correlated covariance, sampled through the covariance's Cholesky factor.
func (g Generator) clusters(rng *rand.Rand) (sampler, error) {
	d := g.Columns
	centres := make([]*mat.VecDense, g.Clusters)
	factors := make([]*mat.TriDense, g.Clusters)
	for k := range centres {
		c := make([]float64, d)
		for i := range c {
			c[i] = rng.Float64()*20 - 10
		}
		centres[k] = mat.NewVecDense(d, c)

		a := mat.NewDense(d, d, nil)
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				a.Set(i, j, rng.NormFloat64()*0.8)
			}
		}
		var aat mat.Dense
		aat.Mul(a, a.T())
		cov := mat.NewSymDense(d, nil)
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				v := aat.At(i, j)
				if i == j {
					v += 0.1
				}
				cov.SetSym(i, j, v)
			}
		}

		var chol mat.Cholesky
		if ok := chol.Factorize(cov); !ok {
			return nil, fmt.Errorf("cluster %d: covariance is not positive definite", k)
		}
		var l mat.TriDense
		chol.LTo(&l)
		factors[k] = &l
	}

	z := mat.NewVecDense(d, nil)
	var p mat.VecDense
	return func(_ int, out []float64) {
		k := rng.IntN(len(centres))
		for i := 0; i < d; i++ {
			z.SetVec(i, rng.NormFloat64())
		}
		p.MulVec(factors[k], z)
		p.AddVec(&p, centres[k])
		for i := range out {
			out[i] = p.AtVec(i)
		}
	}, nil
}
