package domain

import "fmt"

// MaturityLevel は成熟度レベルを表します。
// 5つのトークンとその順序は外部契約であり、UIやレポート生成が依存します。
type MaturityLevel string

const (
	LevelBasic     MaturityLevel = "basic"
	LevelReactive  MaturityLevel = "reactive"
	LevelCompliant MaturityLevel = "compliant"
	LevelProactive MaturityLevel = "proactive"
	LevelResilient MaturityLevel = "resilient"
)

// levelRanks はレベルの全順序 basic(1) < reactive(2) < compliant(3) < proactive(4) < resilient(5)
var levelRanks = map[MaturityLevel]int{
	LevelBasic:     1,
	LevelReactive:  2,
	LevelCompliant: 3,
	LevelProactive: 4,
	LevelResilient: 5,
}

// orderedLevels はランク昇順のレベル一覧
var orderedLevels = []MaturityLevel{
	LevelBasic,
	LevelReactive,
	LevelCompliant,
	LevelProactive,
	LevelResilient,
}

// Levels はランク昇順のレベル一覧を返します
func Levels() []MaturityLevel {
	levels := make([]MaturityLevel, len(orderedLevels))
	copy(levels, orderedLevels)
	return levels
}

// ParseMaturityLevel は文字列をMaturityLevelに解決します
func ParseMaturityLevel(s string) (MaturityLevel, error) {
	level := MaturityLevel(s)
	if !level.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return level, nil
}

// Valid は定義済みレベルかどうかを返します
func (l MaturityLevel) Valid() bool {
	_, ok := levelRanks[l]
	return ok
}

// Rank はレベルの順位（1〜5）を返します。未定義レベルは0。
func (l MaturityLevel) Rank() int {
	return levelRanks[l]
}

// AtOrAbove は対象レベル以上かどうかを返します
func (l MaturityLevel) AtOrAbove(target MaturityLevel) bool {
	return l.Rank() >= target.Rank()
}

// StepDown は1段階下のレベルを返します。最下位はbasicで打ち止め。
func (l MaturityLevel) StepDown() MaturityLevel {
	rank := l.Rank()
	if rank <= 1 {
		return LevelBasic
	}
	return orderedLevels[rank-2]
}

// minMaturityLevel はレベル群の最小値を返します。空の場合はbasic。
func minMaturityLevel(levels []MaturityLevel) MaturityLevel {
	if len(levels) == 0 {
		return LevelBasic
	}
	min := levels[0]
	for _, l := range levels[1:] {
		if l.Rank() < min.Rank() {
			min = l
		}
	}
	return min
}
