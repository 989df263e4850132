package database

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestFloat64ToPgtype(t *testing.T) {
	converted := Float64ToPgtype(72.5)

	assert.True(t, converted.Valid)
	assert.InDelta(t, 72.5, converted.Float64, 1e-9)
}

func TestFloat64ToPgtype_Zero(t *testing.T) {
	// 0は有効な値（根拠スコア0点）であり、NULLにはならない
	converted := Float64ToPgtype(0)

	assert.True(t, converted.Valid)
	assert.Zero(t, converted.Float64)
}

func TestFloat64RoundTrip(t *testing.T) {
	for _, value := range []float64{0, 0.5, 72.5, 100} {
		assert.InDelta(t, value, PgtypeToFloat64(Float64ToPgtype(value)), 1e-9)
	}
}

func TestPgtypeToFloat64_Null(t *testing.T) {
	assert.Zero(t, PgtypeToFloat64(pgtype.Float8{}))
}

func TestStringToNullableText(t *testing.T) {
	assert.False(t, StringToNullableText("").Valid)

	converted := StringToNullableText("failed to extract text")
	assert.True(t, converted.Valid)
	assert.Equal(t, "failed to extract text", converted.String)
}
