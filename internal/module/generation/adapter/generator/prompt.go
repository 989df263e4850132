package generator

import (
	"fmt"
	"strings"
)

const (
	// maxContextChars はプロンプトに含めるコンテキストの上限文字数。
	// 超過分のチャンクは関連度順で切り捨てる。
	maxContextChars = 24000
)

const systemPrompt = `You are an expert in organizational maturity assessment.
You design maturity frameworks with measurable practice statements.
Respond with a single JSON object and nothing else.`

const promptTemplate = `Design a maturity assessment framework for the following organization.

## Organization
%s

## Context from the organization's documents
%s

## Requirements
- Produce %d assessment domains covering distinct capability areas.
- Each domain has 3 to 6 criteria. Each criterion is a concrete, verifiable practice statement.
- Maturity levels, weakest to strongest: basic, reactive, compliant, proactive, resilient.
- Each domain declares a target_level from that list.

## Output format
Return exactly this JSON structure:
{
  "name": "framework name",
  "description": "one paragraph",
  "domains": [
    {
      "name": "domain name",
      "description": "what this domain covers",
      "target_level": "compliant",
      "criteria": [
        {"name": "criterion name", "description": "practice statement"}
      ]
    }
  ]
}`

// PromptBuilder はフレームワーク生成用のプロンプトを構築します
type PromptBuilder struct {
	maxContextChars int
}

// NewPromptBuilder は新しいPromptBuilderを作成します
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{maxContextChars: maxContextChars}
}

// SystemPrompt はシステムプロンプトを返します
func (p *PromptBuilder) SystemPrompt() string {
	return systemPrompt
}

// Build は組織説明と検索済みコンテキストからプロンプトを構築します
func (p *PromptBuilder) Build(industry string, contextChunks []string, domainCount int) string {
	return fmt.Sprintf(promptTemplate, industry, p.formatContext(contextChunks), domainCount)
}

// formatContext はコンテキストチャンクを上限文字数まで整形します
func (p *PromptBuilder) formatContext(chunks []string) string {
	if len(chunks) == 0 {
		return "(no organization documents available)"
	}

	var builder strings.Builder
	for i, chunk := range chunks {
		entry := fmt.Sprintf("### Excerpt %d\n%s\n\n", i+1, chunk)
		if builder.Len()+len(entry) > p.maxContextChars {
			break
		}
		builder.WriteString(entry)
	}

	if builder.Len() == 0 {
		return "(no organization documents available)"
	}
	return strings.TrimSpace(builder.String())
}
