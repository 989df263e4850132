package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVector(t *testing.T) {
	vector, err := ParseVector("[0.1,0.2,0.3]")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.1, 0.2, 0.3}, vector, 1e-6)

	// 角括弧なし・空白入りも受け付ける
	vector, err = ParseVector(" 1.0, -2.5 , 3 ")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1.0, -2.5, 3}, vector, 1e-6)
}

func TestParseVector_Malformed(t *testing.T) {
	cases := []string{"", "[]", "[0.1,abc]", "[0.1,,0.3]", "not a vector"}
	for _, raw := range cases {
		_, err := ParseVector(raw)
		assert.ErrorIs(t, err, ErrMalformedEmbedding, "input: %q", raw)
	}
}

func TestStoredEmbeddingVector(t *testing.T) {
	// 配列表現
	fromValues := NewStoredEmbeddingFromValues([]float32{0.5, 0.5})
	vector, err := fromValues.Vector()
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, vector)

	// 文字列表現も同じベクトル型に正規化される
	fromRaw := NewStoredEmbeddingFromRaw("[0.5,0.5]")
	vector, err = fromRaw.Vector()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.5, 0.5}, vector, 1e-6)

	// 未保存
	assert.True(t, StoredEmbedding{}.IsZero())
	_, err = StoredEmbedding{}.Vector()
	assert.ErrorIs(t, err, ErrMalformedEmbedding)
}

func TestCosineSimilaritySymmetry(t *testing.T) {
	a := []float32{0.3, -0.7, 0.2, 0.9}
	b := []float32{0.1, 0.4, -0.5, 0.8}

	assert.Equal(t, CosineSimilarity(a, b), CosineSimilarity(b, a))
}

func TestCosineSimilarityBounds(t *testing.T) {
	cases := [][2][]float32{
		{{1, 0}, {0, 1}},
		{{1, 2, 3}, {-1, -2, -3}},
		{{0.5, 0.5}, {0.9, 0.1}},
	}
	for _, pair := range cases {
		sim := CosineSimilarity(pair[0], pair[1])
		assert.GreaterOrEqual(t, sim, -1.0)
		assert.LessOrEqual(t, sim, 1.0)
	}

	// 同一ベクトルは1.0
	v := []float32{0.2, 0.4, 0.6}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)

	// 正反対のベクトルは-1.0
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 1}, []float32{-1, -1}), 1e-9)
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	// ゼロノルムはゼロ除算せず類似度0
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 1}, []float32{0, 0}))
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, []float32{1}))
}
