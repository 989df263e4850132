package domain

import "errors"

var (
	// ErrUnparsableResponse はモデル出力からJSONを復元できない場合に返されます
	ErrUnparsableResponse = errors.New("model response is not parsable as framework JSON")

	// ErrEmptyFramework は生成結果にドメインが1つも含まれない場合に返されます
	ErrEmptyFramework = errors.New("generated framework has no domains")

	// ErrInvalidTargetLevel は未定義の目標レベルが含まれる場合に返されます
	ErrInvalidTargetLevel = errors.New("invalid target maturity level")

	// ErrFrameworkNotFound はフレームワークが存在しない場合に返されます
	ErrFrameworkNotFound = errors.New("framework not found")

	// ErrEmptyIndustry は業種・組織説明が空の場合に返されます
	ErrEmptyIndustry = errors.New("industry description must not be empty")
)
