package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maturion/genesis-forge/internal/module/generation/domain"
)

// CriterionPayload はモデル出力の基準定義です
type CriterionPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DomainPayload はモデル出力のドメイン定義です
type DomainPayload struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	TargetLevel string             `json:"target_level"`
	Criteria    []CriterionPayload `json:"criteria"`
}

// FrameworkPayload はモデル出力のフレームワーク定義です
type FrameworkPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Domains     []DomainPayload `json:"domains"`
}

// ParseFrameworkResponse はモデル出力からフレームワーク定義を復元します。
// モデルはコードフェンスや前置きを付けることがあるため、最初の { から
// 最後の } までを切り出してからJSONとして解釈します。
func ParseFrameworkResponse(response string) (*FrameworkPayload, error) {
	cleaned := repairJSON(response)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: no JSON object found", domain.ErrUnparsableResponse)
	}

	var payload FrameworkPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableResponse, err)
	}

	if err := validatePayload(&payload); err != nil {
		return nil, err
	}

	return &payload, nil
}

// repairJSON はコードフェンスを除去し、最初の { から最後の } までを切り出します
func repairJSON(response string) string {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end < start {
		return ""
	}

	return cleaned[start : end+1]
}

func validatePayload(payload *FrameworkPayload) error {
	if len(payload.Domains) == 0 {
		return domain.ErrEmptyFramework
	}

	for i := range payload.Domains {
		d := &payload.Domains[i]
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("%w: domain %d has no name", domain.ErrUnparsableResponse, i)
		}
		if d.TargetLevel == "" {
			d.TargetLevel = domain.DefaultTargetLevel
		}
		if !domain.ValidMaturityLevel(d.TargetLevel) {
			return fmt.Errorf("%w: %q", domain.ErrInvalidTargetLevel, d.TargetLevel)
		}
		if len(d.Criteria) == 0 {
			return fmt.Errorf("%w: domain %q has no criteria", domain.ErrUnparsableResponse, d.Name)
		}
		for j, c := range d.Criteria {
			if strings.TrimSpace(c.Name) == "" {
				return fmt.Errorf("%w: domain %q criterion %d has no name", domain.ErrUnparsableResponse, d.Name, j)
			}
		}
	}

	return nil
}
