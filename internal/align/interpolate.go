package align

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// Interpolation methods accepted by InterpolateNaNs.
const (
	MethodNearest  = "nearest"
	MethodLinear   = "linear"
	MethodPrevious = "previous"
	MethodNext     = "next"
	MethodAkima    = "akima"
	MethodPCHIP    = "pchip"
)

// ErrInterpolationFit reports that a method could not fit the defined points.
var ErrInterpolationFit = errors.New("interpolation fit failed")

// Methods lists every supported interpolation method.
func Methods() []string {
	return []string{MethodNearest, MethodLinear, MethodPrevious, MethodNext, MethodAkima, MethodPCHIP}
}

// ValidateMethod returns ErrUnknownMethod for unsupported names.
func ValidateMethod(method string) error {
	_, err := newPredictor(method)
	return err
}

func newPredictor(method string) (interp.FittablePredictor, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "", MethodNearest:
		return &nearest{}, nil
	case MethodLinear:
		return &interp.PiecewiseLinear{}, nil
	case MethodPrevious:
		return &previous{}, nil
	case MethodNext:
		return &interp.PiecewiseConstant{}, nil
	case MethodAkima:
		return &interp.AkimaSpline{}, nil
	case MethodPCHIP:
		return &interp.FritschButland{}, nil
	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownMethod, method, strings.Join(Methods(), ", "))
	}
}

// InterpolateNaNs fills absent values indexed by position. When more than one
// value is present the gaps between the first and last present value are
// interpolated with method; the remaining ends are then forward-filled and
// back-filled. A slice with no present value is returned unchanged.
func InterpolateNaNs(values []Optional[float64], method string) ([]Optional[float64], error) {
	predictor, err := newPredictor(method)
	if err != nil {
		return nil, err
	}

	out := make([]Optional[float64], len(values))
	copy(out, values)

	var xs, ys []float64
	for i, v := range values {
		if y, ok := v.Get(); ok {
			xs = append(xs, float64(i))
			ys = append(ys, y)
		}
	}

	if len(xs) > 1 && len(xs) < len(values) {
		if err := predictor.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInterpolationFit, method, err)
		}
		first, last := int(xs[0]), int(xs[len(xs)-1])
		for i := first + 1; i < last; i++ {
			if !out[i].Valid() {
				out[i] = Some(predictor.Predict(float64(i)))
			}
		}
	}

	fill(out)
	return out, nil
}

// fill forward-fills then back-fills absent values in place.
func fill(values []Optional[float64]) {
	var last Optional[float64]
	for i, v := range values {
		if v.Valid() {
			last = v
		} else if last.Valid() {
			values[i] = last
		}
	}
	last = None[float64]()
	for i := len(values) - 1; i >= 0; i-- {
		if values[i].Valid() {
			last = values[i]
		} else if last.Valid() {
			values[i] = last
		}
	}
}

// nearest predicts the value of the closest fitted x; a query halfway
// between two points takes the left one.
type nearest struct {
	xs, ys []float64
}

func (n *nearest) Fit(xs, ys []float64) error {
	if err := checkFit(xs, ys); err != nil {
		return err
	}
	n.xs, n.ys = xs, ys
	return nil
}

func (n *nearest) Predict(x float64) float64 {
	i := sort.SearchFloat64s(n.xs, x)
	switch {
	case i == 0:
		return n.ys[0]
	case i == len(n.xs):
		return n.ys[len(n.ys)-1]
	case n.xs[i] == x:
		return n.ys[i]
	}
	if x-n.xs[i-1] <= n.xs[i]-x {
		return n.ys[i-1]
	}
	return n.ys[i]
}

// previous predicts the value of the last fitted x at or before the query.
type previous struct {
	xs, ys []float64
}

func (p *previous) Fit(xs, ys []float64) error {
	if err := checkFit(xs, ys); err != nil {
		return err
	}
	p.xs, p.ys = xs, ys
	return nil
}

func (p *previous) Predict(x float64) float64 {
	i := sort.Search(len(p.xs), func(i int) bool { return p.xs[i] > x })
	if i == 0 {
		return p.ys[0]
	}
	return p.ys[i-1]
}

func checkFit(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return errors.New("xs and ys have different lengths")
	}
	if len(xs) < 2 {
		return errors.New("too few points for interpolation")
	}
	if !sort.Float64sAreSorted(xs) {
		return errors.New("xs must be sorted")
	}
	return nil
}
