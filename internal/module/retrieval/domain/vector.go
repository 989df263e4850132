package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseVector は区切り文字列表現（"[0.1,0.2,...]"）をベクトルに変換します。
// 角括弧は省略されていても受け付けます。
func ParseVector(raw string) ([]float32, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")
	if strings.TrimSpace(trimmed) == "" {
		return nil, fmt.Errorf("%w: empty vector literal", ErrMalformedEmbedding)
	}

	parts := strings.Split(trimmed, ",")
	vector := make([]float32, len(parts))
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedEmbedding, i, err)
		}
		vector[i] = float32(value)
	}

	return vector, nil
}

// CosineSimilarity は2つのベクトルのコサイン類似度を返します。
// dot(a,b) / (||a|| * ||b||)。ゼロノルムのベクトルは類似度0として扱い、
// ゼロ除算は発生させません。次元が一致しない場合も0を返します。
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
