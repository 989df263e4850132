package domain

import "errors"

var (
	// ErrAPIKeyNotSet はAPIキーが設定されていない場合のエラー
	ErrAPIKeyNotSet = errors.New("api key is not set")

	// ErrEmptyInput は入力テキストが空の場合のエラー
	ErrEmptyInput = errors.New("no input texts provided")

	// ErrBatchTooLarge はバッチサイズが上限を超えた場合のエラー
	ErrBatchTooLarge = errors.New("batch size exceeds maximum")

	// ErrMaxRetriesExceeded は最大リトライ回数を超えた場合のエラー
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
