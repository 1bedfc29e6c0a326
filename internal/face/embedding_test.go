package face

import (
	"errors"
	"math"
	"testing"
)

func TestCosineSimilarity_IdenticalVectors(t *testing.T) {
	v := []float32{0.1, -0.5, 0.3, 0.8}

	sim, err := CosineSimilarity(v, v)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if math.Abs(float64(sim)-1.0) > 1e-6 {
		t.Fatalf("близость вектора с самим собой должна быть 1.0, получили %v", sim)
	}
}

func TestCosineSimilarity_OppositeVectors(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{-1, 0, 0}

	sim, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if math.Abs(float64(sim)+1.0) > 1e-6 {
		t.Fatalf("близость противоположных векторов должна быть -1.0, получили %v", sim)
	}
}

func TestCosineSimilarity_OrthogonalVectors(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}

	sim, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if math.Abs(float64(sim)) > 1e-6 {
		t.Fatalf("близость ортогональных векторов должна быть 0, получили %v", sim)
	}
}

func TestCosineSimilarity_ScaleInvariant(t *testing.T) {
	a := []float32{0.2, 0.4, 0.6}
	b := []float32{2, 4, 6}

	sim, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if math.Abs(float64(sim)-1.0) > 1e-5 {
		t.Fatalf("близость коллинеарных векторов должна быть 1.0, получили %v", sim)
	}
}

func TestCosineSimilarity_LengthMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("ожидалась ErrLengthMismatch, получили %v", err)
	}
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	_, err := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})
	if !errors.Is(err, ErrZeroVector) {
		t.Fatalf("ожидалась ErrZeroVector, получили %v", err)
	}
}

func TestCosineSimilarity_Empty(t *testing.T) {
	_, err := CosineSimilarity(nil, []float32{1})
	if !errors.Is(err, ErrEmptyEmbedding) {
		t.Fatalf("ожидалась ErrEmptyEmbedding, получили %v", err)
	}
}
