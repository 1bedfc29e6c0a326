package face

import (
	"errors"
	"math"
)

// Ошибки сравнения эмбеддингов. Оба случая — некорректные входные данные,
// а не "лицо не совпало": вызывающая сторона сообщает о них как об
// INVALID_EMBEDDING, не трогая токен.
var (
	ErrEmptyEmbedding = errors.New("эмбеддинг пуст")
	ErrLengthMismatch = errors.New("эмбеддинги разной длины")
	ErrZeroVector     = errors.New("эмбеддинг с нулевой нормой")
)

// CosineSimilarity вычисляет косинусную близость двух эмбеддингов:
// (a · b) / (‖a‖ * ‖b‖). Арифметика ведётся в float32 — той же точности,
// в которой эмбеддинги хранятся в документе.
func CosineSimilarity(a, b []float32) (float32, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrEmptyEmbedding
	}
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}

	denom := float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB)))
	return dot / denom, nil
}
