package align

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Trellis is the [frames+1 × tokens+1] matrix of best cumulative path scores.
// Row t, column j is the best score having consumed j tokens after t frames.
type Trellis struct {
	m *mat.Dense
}

// Rows returns frames+1.
func (tr *Trellis) Rows() int {
	r, _ := tr.m.Dims()
	return r
}

// Cols returns tokens+1.
func (tr *Trellis) Cols() int {
	_, c := tr.m.Dims()
	return c
}

// At returns the score at frame row t and token column j.
func (tr *Trellis) At(t, j int) float64 { return tr.m.At(t, j) }

// BuildTrellis fills the trellis for emission and token ids. Each frame
// either stays on the current token (scored as blank) or advances to the
// next one.
func BuildTrellis(em *Emission, tokens []int, blank int) (*Trellis, error) {
	if em == nil {
		return nil, fmt.Errorf("%w: nil emission", ErrMalformedEmission)
	}
	if len(tokens) == 0 {
		return nil, errors.New("build trellis: no tokens")
	}
	if err := em.checkCode(blank, "blank id"); err != nil {
		return nil, err
	}
	for _, tok := range tokens {
		if err := em.checkCode(tok, "token id"); err != nil {
			return nil, err
		}
	}

	frames, n := em.Frames(), len(tokens)
	m := mat.NewDense(frames+1, n+1, nil)

	// Column 0: no token emitted yet, every frame is blank.
	blanks := mat.Col(nil, blank, em.m)
	floats.CumSum(blanks, blanks)
	for t, score := range blanks {
		m.Set(t+1, 0, score)
	}
	first := m.RawRowView(0)
	for j := 1; j <= n; j++ {
		first[j] = math.Inf(-1)
	}

	for t := 0; t < frames; t++ {
		prev, next, e := m.RawRowView(t), m.RawRowView(t+1), em.m.RawRowView(t)
		stay := e[blank]
		for j := 1; j <= n; j++ {
			next[j] = math.Max(prev[j]+stay, prev[j-1]+e[tokens[j-1]])
		}
	}
	return &Trellis{m: m}, nil
}
