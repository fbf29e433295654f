package index

import (
	"errors"
	"testing"

	"intent-router/internal/model"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"Identical", []float32{0.3, 0.4, 0.5}, []float32{0.3, 0.4, 0.5}, 1},
		{"Scaled", []float32{1, 2}, []float32{2, 4}, 1},
		{"Orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"Opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"Zero", []float32{0, 0}, []float32{1, 1}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Cosine(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tc.want)
			}
			if got > 1 || got < -1 {
				t.Errorf("score out of range: %v", got)
			}
		})
	}
}

func TestCheckQuery(t *testing.T) {
	if err := CheckQuery(2, []float32{1, 0}, 0); !errors.Is(err, ErrInvalidTopK) {
		t.Errorf("expected ErrInvalidTopK, got %v", err)
	}
	if err := CheckQuery(2, []float32{1}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if err := CheckQuery(2, []float32{1, 0}, 1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckEntries(t *testing.T) {
	ok := []model.IndexEntry{{RouteName: "a", Utterance: "x", Vector: []float32{1, 2}}}
	if err := CheckEntries(2, ok); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	bad := append(ok, model.IndexEntry{RouteName: "a", Utterance: "y", Vector: []float32{1}})
	if err := CheckEntries(2, bad); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
