package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaturityLevels は成熟度フレームワークが使用する5段階レベル（弱い順）です
var MaturityLevels = []string{"basic", "reactive", "compliant", "proactive", "resilient"}

// DefaultTargetLevel はモデル出力が目標レベルを省略した場合の既定値
const DefaultTargetLevel = "compliant"

var maturityLevelSet = map[string]bool{
	"basic":     true,
	"reactive":  true,
	"compliant": true,
	"proactive": true,
	"resilient": true,
}

// ValidMaturityLevel はレベル名が定義済みかどうかを返します
func ValidMaturityLevel(level string) bool {
	return maturityLevelSet[level]
}

// Criterion は1ドメイン内の評価基準です
type Criterion struct {
	ID          uuid.UUID
	DomainID    uuid.UUID
	Name        string
	Description string
	Position    int
}

// FrameworkDomain は成熟度フレームワークの1ドメインです
type FrameworkDomain struct {
	ID          uuid.UUID
	FrameworkID uuid.UUID
	Name        string
	Description string
	TargetLevel string
	Position    int
	Criteria    []Criterion
}

// Framework は組織向けに生成された成熟度フレームワークです
type Framework struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	Name        string
	Description string
	Domains     []FrameworkDomain
	CreatedAt   time.Time
}
