package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Database設定
	Database DatabaseConfig

	// OpenAI設定（Embeddings + 生成用LLM）
	OpenAI OpenAIConfig

	// 検索ポリシー設定
	Search SearchConfig

	// スコアリングポリシー設定
	Scoring ScoringConfig

	// HTTPサーバ設定
	Server ServerConfig

	// ログ設定
	LogLevel  string
	LogFormat string
}

// DatabaseConfig はデータベース接続設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN はpgx向けの接続文字列を組み立てます
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// OpenAIConfig はOpenAI API設定
type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
	ChatModel          string // MPS・基準生成に使用するモデル名
	ChatTemperature    float64
	ChatMaxTokens      int
}

// SearchConfig はセマンティック検索のポリシー設定
type SearchConfig struct {
	// SimilarityThreshold はコサイン類似度の下限（既定: 0.7）
	SimilarityThreshold float64
	// DefaultLimit は返却件数の既定値（既定: 10）
	DefaultLimit int
	// CandidateLimit は候補チャンク取得数の上限（既定: 100）
	CandidateLimit int
	// MinChunkChars はインデックス対象とするチャンクの最小文字数（既定: 50）
	MinChunkChars int
	// EmbedTimeoutSeconds はEmbedding API呼び出しのタイムアウト秒数（既定: 15）
	EmbedTimeoutSeconds int
}

// ScoringConfig は成熟度スコアリングのポリシー設定
type ScoringConfig struct {
	// TargetThresholdPercent は「閾値を満たす」と判定する目標達成率（既定: 80）
	TargetThresholdPercent float64
}

// ServerConfig はHTTPサーバ設定
type ServerConfig struct {
	Port int
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "forge"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "forge"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", 1536),
			ChatModel:          getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature:    getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.2),
			ChatMaxTokens:      getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 2048),
		},
		Search: SearchConfig{
			SimilarityThreshold: getEnvAsFloat("SEARCH_SIMILARITY_THRESHOLD", 0.7),
			DefaultLimit:        getEnvAsInt("SEARCH_DEFAULT_LIMIT", 10),
			CandidateLimit:      getEnvAsInt("SEARCH_CANDIDATE_LIMIT", 100),
			MinChunkChars:       getEnvAsInt("SEARCH_MIN_CHUNK_CHARS", 50),
			EmbedTimeoutSeconds: getEnvAsInt("SEARCH_EMBED_TIMEOUT_SECONDS", 15),
		},
		Scoring: ScoringConfig{
			TargetThresholdPercent: getEnvAsFloat("SCORING_TARGET_THRESHOLD_PERCENT", 80),
		},
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate はポリシー値の範囲を検証します
func (c *Config) validate() error {
	if c.Search.SimilarityThreshold < -1 || c.Search.SimilarityThreshold > 1 {
		return fmt.Errorf("SEARCH_SIMILARITY_THRESHOLD must be within [-1, 1], got %v", c.Search.SimilarityThreshold)
	}
	if c.Search.CandidateLimit <= 0 {
		return fmt.Errorf("SEARCH_CANDIDATE_LIMIT must be positive, got %d", c.Search.CandidateLimit)
	}
	if c.Scoring.TargetThresholdPercent < 0 || c.Scoring.TargetThresholdPercent > 100 {
		return fmt.Errorf("SCORING_TARGET_THRESHOLD_PERCENT must be within [0, 100], got %v", c.Scoring.TargetThresholdPercent)
	}
	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat は環境変数を浮動小数点数として取得します
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
