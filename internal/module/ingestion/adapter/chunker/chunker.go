package chunker

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/maturion/genesis-forge/internal/module/ingestion/domain"
)

const (
	// DefaultTargetTokens は1チャンクの目標トークン数
	DefaultTargetTokens = 400
	// DefaultOverlapTokens はチャンク間のオーバーラップトークン数
	DefaultOverlapTokens = 80
	// DefaultMinChars は索引対象とする最小文字数。
	// これ未満の断片はノイズとして破棄し、埋め込みを生成しない。
	DefaultMinChars = 50
)

// Chunker はtiktokenベースでテキストを分割します。
// Markdownは見出し境界を優先し、見出し単位が目標トークン数を超える場合のみ
// トークン窓で再分割します。
type Chunker struct {
	encoder      *tiktoken.Tiktoken
	targetTokens int
	overlap      int
	minChars     int
}

// Option は Chunker のオプション設定
type Option func(*Chunker)

// WithTargetTokens は目標トークン数を上書きする
func WithTargetTokens(n int) Option {
	return func(c *Chunker) {
		c.targetTokens = n
	}
}

// WithOverlapTokens はオーバーラップトークン数を上書きする
func WithOverlapTokens(n int) Option {
	return func(c *Chunker) {
		c.overlap = n
	}
}

// WithMinChars は最小文字数を上書きする
func WithMinChars(n int) Option {
	return func(c *Chunker) {
		c.minChars = n
	}
}

// NewChunker は新しいChunkerを作成します
func NewChunker(opts ...Option) (*Chunker, error) {
	// cl100k_baseエンコーダを使用（text-embedding-3-smallと互換）
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoder: %w", err)
	}

	c := &Chunker{
		encoder:      encoder,
		targetTokens: DefaultTargetTokens,
		overlap:      DefaultOverlapTokens,
		minChars:     DefaultMinChars,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ domain.Chunker = (*Chunker)(nil)

// Split はテキストをチャンク列に分割します。
// 最小文字数未満の断片は結果に含めません。
func (c *Chunker) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var chunks []string
	for _, section := range splitByHeadings(text) {
		if c.countTokens(section) <= c.targetTokens {
			chunks = c.appendChunk(chunks, section)
			continue
		}
		for _, window := range c.splitByTokenWindow(section) {
			chunks = c.appendChunk(chunks, window)
		}
	}

	return chunks, nil
}

// appendChunk は最小文字数を満たすチャンクのみを追加します
func (c *Chunker) appendChunk(chunks []string, chunk string) []string {
	chunk = strings.TrimSpace(chunk)
	if len([]rune(chunk)) < c.minChars {
		return chunks
	}
	return append(chunks, chunk)
}

// splitByHeadings はMarkdown見出し行を境界としてセクションに分割します。
// コードブロック内の # は見出しとして扱いません。
func splitByHeadings(text string) []string {
	lines := strings.Split(text, "\n")

	var sections []string
	var current []string
	inCodeBlock := false

	flush := func() {
		if len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
		}

		if strings.HasPrefix(trimmed, "#") && !inCodeBlock {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return sections
}

// splitByTokenWindow は長いセクションをトークン窓で分割し、
// 窓の末尾をオーバーラップとして次の窓に持ち越します。
func (c *Chunker) splitByTokenWindow(section string) []string {
	tokens := c.encoder.Encode(section, nil, nil)

	var windows []string
	step := c.targetTokens - c.overlap
	if step <= 0 {
		step = c.targetTokens
	}

	for start := 0; start < len(tokens); start += step {
		end := start + c.targetTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		windows = append(windows, c.encoder.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}

	return windows
}

// countTokens はテキストのトークン数をカウントします
func (c *Chunker) countTokens(text string) int {
	return len(c.encoder.Encode(text, nil, nil))
}
