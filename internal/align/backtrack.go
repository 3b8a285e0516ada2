package align

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Point is one step of an alignment path.
type Point struct {
	TokenIndex int     `json:"token_index"`
	TimeIndex  int     `json:"time_index"`
	Score      float64 `json:"score"`
}

// Backtrack recovers the best path through tr, time-ascending. It starts at
// the frame where the final token column peaks, so trailing silence is not
// forced onto the last token. ErrBacktrackFailed is returned when the path
// runs out of frames before consuming every token; no partial path is
// returned.
func Backtrack(tr *Trellis, em *Emission, tokens []int, blank int) ([]Point, error) {
	if tr == nil || em == nil {
		return nil, fmt.Errorf("%w: nil trellis or emission", ErrMalformedEmission)
	}
	n := len(tokens)
	if tr.Cols() != n+1 || tr.Rows() != em.Frames()+1 {
		return nil, fmt.Errorf("%w: trellis %dx%d does not match %d frames and %d tokens",
			ErrMalformedEmission, tr.Rows(), tr.Cols(), em.Frames(), n)
	}

	j := n
	tStart := floats.MaxIdx(mat.Col(nil, j, tr.m))

	path := make([]Point, 0, tStart)
	for t := tStart; t > 0 && j > 0; t-- {
		e := em.m.RawRowView(t - 1)
		stayed := tr.m.At(t-1, j) + e[blank]
		changed := tr.m.At(t-1, j-1) + e[tokens[j-1]]

		code := blank
		if changed > stayed {
			code = tokens[j-1]
		}
		path = append(path, Point{TokenIndex: j - 1, TimeIndex: t - 1, Score: math.Exp(e[code])})
		if changed > stayed {
			j--
		}
	}
	if j > 0 {
		return nil, fmt.Errorf("%w: %d of %d tokens unconsumed after %d frames", ErrBacktrackFailed, j, n, tStart)
	}

	slices.Reverse(path)
	return path, nil
}
