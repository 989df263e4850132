package domain

import "errors"

var (
	// ErrNoCriteriaScores は基準スコアが1件も与えられなかった場合のエラー
	ErrNoCriteriaScores = errors.New("no criteria scores provided")

	// ErrUnknownLevel は未定義の成熟度レベルが指定された場合のエラー
	ErrUnknownLevel = errors.New("unknown maturity level")

	// ErrNoDomainScores はドメインスコアが1件も与えられなかった場合のエラー
	ErrNoDomainScores = errors.New("no domain scores provided")

	// ErrInvalidThreshold は閾値パーセンテージが範囲外の場合のエラー
	ErrInvalidThreshold = errors.New("threshold percent must be within [0, 100]")
)
