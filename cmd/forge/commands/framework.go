package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	generationapp "github.com/maturion/genesis-forge/internal/module/generation/application"
)

// FrameworkGenerateAction はフレームワークを生成するコマンドのアクション
func FrameworkGenerateAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	industry := cmd.String("industry")

	orgID, err := uuid.Parse(cmd.String("org"))
	if err != nil {
		return fmt.Errorf("--org はUUIDで指定してください: %w", err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	slog.Info("フレームワーク生成を開始", "org", orgID, "industry", industry)

	framework, err := appCtx.Container.GenerationService.GenerateFramework(ctx, generationapp.GenerateFrameworkParams{
		OrgID:       orgID,
		Industry:    industry,
		DomainCount: int(cmd.Int("domains")),
	})
	if err != nil {
		slog.Error("フレームワーク生成に失敗しました", "error", err)
		return err
	}

	fmt.Printf("\nフレームワークを生成しました: %s (%s)\n\n", framework.Name, framework.ID)
	for _, d := range framework.Domains {
		fmt.Printf("## %s (target: %s)\n", d.Name, d.TargetLevel)
		for _, c := range d.Criteria {
			fmt.Printf("  - %s\n", c.Name)
		}
		fmt.Println()
	}

	return nil
}
