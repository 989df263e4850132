package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus は取り込みパイプライン上のドキュメントの状態です
type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// DocumentType は検索フィルタに使用するドキュメントの分類です
type DocumentType string

const (
	TypePolicy     DocumentType = "policy"
	TypeProcedure  DocumentType = "procedure"
	TypeEvidence   DocumentType = "evidence"
	TypeAssessment DocumentType = "assessment"
	TypeReference  DocumentType = "reference"
)

var documentTypes = map[DocumentType]bool{
	TypePolicy:     true,
	TypeProcedure:  true,
	TypeEvidence:   true,
	TypeAssessment: true,
	TypeReference:  true,
}

// ValidDocumentType は分類が定義済みかどうかを返します
func ValidDocumentType(t DocumentType) bool {
	return documentTypes[t]
}

// Document は組織にアップロードされた1ドキュメントです
type Document struct {
	ID            uuid.UUID
	OrgID         uuid.UUID
	Name          string
	Type          DocumentType
	Status        DocumentStatus
	SizeBytes     int64
	ChunkCount    int
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ChunkRecord は埋め込み済みチャンクの永続化レコードです。
// 同一ドキュメントの再取り込みでは全レコードが置き換えられます。
type ChunkRecord struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	OrgID      uuid.UUID
	Ordinal    int
	Content    string
	Embedding  []float32
	Metadata   map[string]any
}
