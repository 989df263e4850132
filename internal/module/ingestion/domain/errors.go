package domain

import "errors"

var (
	// ErrEmptyDocument は抽出後のテキストが空の場合に返されます
	ErrEmptyDocument = errors.New("document has no extractable text")

	// ErrUnsupportedFormat は対応していないファイル形式の場合に返されます
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrUnknownDocumentType は未定義のドキュメント分類の場合に返されます
	ErrUnknownDocumentType = errors.New("unknown document type")

	// ErrDocumentNotFound はドキュメントが存在しない場合に返されます
	ErrDocumentNotFound = errors.New("document not found")

	// ErrNoChunks はチャンク化の結果が空の場合に返されます
	ErrNoChunks = errors.New("no chunks produced from document")
)
