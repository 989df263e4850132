package extractor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/maturion/genesis-forge/internal/module/ingestion/domain"
)

// Extractor は拡張子に応じてファイル内容からテキストを抽出します。
// PDF以外はUTF-8テキストとして扱います。
type Extractor struct{}

// NewExtractor は新しいExtractorを作成します
func NewExtractor() *Extractor {
	return &Extractor{}
}

var _ domain.Extractor = (*Extractor)(nil)

// Extract はファイル内容からプレーンテキストを抽出します
func (e *Extractor) Extract(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(data)
	case ".txt", ".md", ".markdown", ".text", "":
		return extractPlainText(data)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// extractPDF はPDFの全ページからテキストを抽出します。
// ページ単位の抽出失敗はスキップして続行します。
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var builder strings.Builder
	totalPages := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n\n")
	}

	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyDocument
	}

	return normalizeText(text), nil
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not valid UTF-8 text", domain.ErrUnsupportedFormat)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyDocument
	}

	return normalizeText(text), nil
}

// normalizeText は連続する空行と行末空白を畳み込みます
func normalizeText(text string) string {
	lines := strings.Split(text, "\n")

	var cleaned []string
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			if !blank && len(cleaned) > 0 {
				cleaned = append(cleaned, "")
			}
			blank = true
			continue
		}
		blank = false
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
