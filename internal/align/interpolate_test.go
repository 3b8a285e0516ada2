package align

import (
	"errors"
	"testing"
)

func opts(values ...any) []Optional[float64] {
	out := make([]Optional[float64], len(values))
	for i, v := range values {
		if f, ok := v.(float64); ok {
			out[i] = Some(f)
		}
	}
	return out
}

func floatsOf(t *testing.T, values []Optional[float64]) []float64 {
	t.Helper()
	out := make([]float64, len(values))
	for i, v := range values {
		f, ok := v.Get()
		if !ok {
			t.Fatalf("value %d is still absent: %+v", i, values)
		}
		out[i] = f
	}
	return out
}

func TestInterpolateNaNs(t *testing.T) {
	tests := []struct {
		name   string
		method string
		in     []Optional[float64]
		want   []float64
	}{
		{"nearest ties left", MethodNearest, opts(1.0, nil, nil, nil, 5.0), []float64{1, 1, 1, 5, 5}},
		{"default is nearest", "", opts(1.0, nil, nil, nil, 5.0), []float64{1, 1, 1, 5, 5}},
		{"linear", MethodLinear, opts(0.0, nil, nil, 3.0), []float64{0, 1, 2, 3}},
		{"previous", MethodPrevious, opts(1.0, nil, nil, 5.0), []float64{1, 1, 1, 5}},
		{"next", MethodNext, opts(1.0, nil, nil, 5.0), []float64{1, 5, 5, 5}},
		{"edges filled", MethodNearest, opts(nil, 2.0, nil, 4.0, nil), []float64{2, 2, 2, 4, 4}},
		{"linear edges filled", MethodLinear, opts(nil, 2.0, nil, 4.0, nil), []float64{2, 2, 3, 4, 4}},
		{"single value", MethodLinear, opts(nil, 3.0, nil), []float64{3, 3, 3}},
		{"akima", MethodAkima, opts(0.0, nil, 2.0, nil, 4.0, nil, 6.0), []float64{0, 1, 2, 3, 4, 5, 6}},
		{"pchip", MethodPCHIP, opts(0.0, nil, 2.0, nil, 4.0, nil, 6.0), []float64{0, 1, 2, 3, 4, 5, 6}},
		{"nothing missing", MethodLinear, opts(4.0, 1.0), []float64{4, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InterpolateNaNs(tt.in, tt.method)
			if err != nil {
				t.Fatalf("InterpolateNaNs returned error: %v", err)
			}
			values := floatsOf(t, got)
			for i := range tt.want {
				if !approx(values[i], tt.want[i]) {
					t.Fatalf("got %v, want %v", values, tt.want)
				}
			}
		})
	}
}

func TestInterpolateNaNsLeavesAllAbsent(t *testing.T) {
	got, err := InterpolateNaNs(opts(nil, nil), MethodNearest)
	if err != nil {
		t.Fatalf("InterpolateNaNs returned error: %v", err)
	}
	for i, v := range got {
		if v.Valid() {
			t.Fatalf("value %d unexpectedly filled", i)
		}
	}
	empty, err := InterpolateNaNs(nil, MethodNearest)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result, got %v, %v", empty, err)
	}
}

func TestInterpolateNaNsDoesNotMutateInput(t *testing.T) {
	in := opts(1.0, nil, 3.0)
	if _, err := InterpolateNaNs(in, MethodLinear); err != nil {
		t.Fatalf("InterpolateNaNs returned error: %v", err)
	}
	if in[1].Valid() {
		t.Fatal("input slice was modified")
	}
}

func TestInterpolateNaNsRejectsUnknownMethod(t *testing.T) {
	if _, err := InterpolateNaNs(opts(1.0, nil), "quadratic"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
	if err := ValidateMethod(" Linear "); err != nil {
		t.Fatalf("ValidateMethod(Linear) returned error: %v", err)
	}
	for _, m := range Methods() {
		if err := ValidateMethod(m); err != nil {
			t.Fatalf("ValidateMethod(%q) returned error: %v", m, err)
		}
	}
}
