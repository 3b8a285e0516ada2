package align

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Emission is a [frames × vocab] matrix of log-probabilities for one segment.
type Emission struct {
	m *mat.Dense
}

// NewEmission copies rows into an Emission. Rows must be non-empty, equally
// long and free of NaN or +Inf; -Inf is a valid log-probability.
func NewEmission(rows [][]float64) (*Emission, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrMalformedEmission)
	}
	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary dimension", ErrMalformedEmission)
	}
	data := make([]float64, 0, len(rows)*width)
	for t, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: frame %d has %d values, want %d", ErrMalformedEmission, t, len(row), width)
		}
		for v, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 1) {
				return nil, fmt.Errorf("%w: frame %d column %d is %v", ErrMalformedEmission, t, v, x)
			}
		}
		data = append(data, row...)
	}
	return &Emission{m: mat.NewDense(len(rows), width, data)}, nil
}

// EmissionFromDense wraps an existing matrix without copying.
func EmissionFromDense(m *mat.Dense) (*Emission, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("%w: no frames", ErrMalformedEmission)
	}
	return &Emission{m: m}, nil
}

// Frames returns the number of time frames.
func (e *Emission) Frames() int {
	r, _ := e.m.Dims()
	return r
}

// Width returns the vocabulary dimension.
func (e *Emission) Width() int {
	_, c := e.m.Dims()
	return c
}

// At returns the log-probability of code v at frame t.
func (e *Emission) At(t, v int) float64 { return e.m.At(t, v) }

func (e *Emission) checkCode(code int, what string) error {
	if code < 0 || code >= e.Width() {
		return fmt.Errorf("%w: %s %d not in [0, %d)", ErrTokenOutOfRange, what, code, e.Width())
	}
	return nil
}
