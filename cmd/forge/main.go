package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/maturion/genesis-forge/cmd/forge/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "forge",
		Usage: "組織成熟度アセスメント基盤（コンテキスト検索・スコアリング・フレームワーク生成）",
		Commands: []*cli.Command{
			{
				Name:  "document",
				Usage: "ドキュメント管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "ingest",
						Usage: "ドキュメントを取り込み、検索インデックスを構築",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "org",
								Usage:    "組織ID (UUID)",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "file",
								Usage:    "取り込むファイルパス（PDF/Markdown/テキスト）",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "type",
								Usage: "ドキュメント種別 (policy/procedure/evidence/assessment/reference)",
								Value: "reference",
							},
						},
						Action: commands.DocumentIngestAction,
					},
					{
						Name:  "list",
						Usage: "ドキュメント一覧を表示",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "org",
								Usage:    "組織ID (UUID)",
								Required: true,
							},
						},
						Action: commands.DocumentListAction,
					},
				},
			},
			{
				Name:  "search",
				Usage: "組織ドキュメントをセマンティック検索",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:     "org",
						Usage:    "組織ID (UUID)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "query",
						Usage:    "検索クエリ",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "type",
						Usage: "ドキュメント種別で絞り込み（複数指定可）",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "返却件数の上限",
					},
					&cli.FloatFlag{
						Name:  "threshold",
						Usage: "類似度の下限（省略時は設定値）",
					},
					&cli.BoolFlag{
						Name:  "widen-scope",
						Usage: "主組織に結果が無い場合、所属組織まで検索範囲を拡大",
					},
					&cli.StringFlag{
						Name:  "principal",
						Usage: "検索主体のプリンシパルID (UUID、--widen-scope 使用時に必須)",
					},
				},
				Action: commands.SearchAction,
			},
			{
				Name:  "assess",
				Usage: "アセスメント管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "answer",
						Usage: "基準の自己評価を提出",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "assessment",
								Usage:    "アセスメントID (UUID)",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "org",
								Usage:    "組織ID (UUID)",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "domain",
								Usage:    "ドメインID (UUID)",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "criterion",
								Usage:    "基準ID (UUID)",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "current-level",
								Usage:    "現在レベル (basic/reactive/compliant/proactive/resilient)",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "target-level",
								Usage:    "目標レベル (basic/reactive/compliant/proactive/resilient)",
								Required: true,
							},
							&cli.FloatFlag{
								Name:  "evidence-score",
								Usage: "根拠記述の充足度 (0-100)",
							},
						},
						Action: commands.AssessAnswerAction,
					},
					{
						Name:  "score",
						Usage: "アセスメントの成熟度スコアを算出",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "assessment",
								Usage:    "アセスメントID (UUID)",
								Required: true,
							},
						},
						Action: commands.AssessScoreAction,
					},
				},
			},
			{
				Name:  "framework",
				Usage: "成熟度フレームワーク管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "generate",
						Usage: "組織コンテキストからフレームワークを生成",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "org",
								Usage:    "組織ID (UUID)",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "industry",
								Usage:    "業種・組織の説明",
								Required: true,
							},
							&cli.IntFlag{
								Name:  "domains",
								Usage: "生成するドメイン数",
								Value: 5,
							},
						},
						Action: commands.FrameworkGenerateAction,
					},
				},
			},
			{
				Name:  "audit",
				Usage: "検索監査ログ管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "直近の検索監査レコードを表示",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:     "org",
								Usage:    "組織ID (UUID)",
								Required: true,
							},
							&cli.IntFlag{
								Name:  "limit",
								Usage: "表示件数",
								Value: 50,
							},
						},
						Action: commands.AuditListAction,
					},
				},
			},
			{
				Name:  "server",
				Usage: "サーバ関連コマンド",
				Commands: []*cli.Command{
					{
						Name:  "start",
						Usage: "HTTPサーバを起動",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.IntFlag{
								Name:  "port",
								Usage: "HTTPポート（省略時は環境変数またはデフォルトの8080）",
							},
						},
						Action: commands.ServerStartAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
