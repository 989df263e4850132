package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	retrievalapp "github.com/maturion/genesis-forge/internal/module/retrieval/application"
	retrievaldomain "github.com/maturion/genesis-forge/internal/module/retrieval/domain"
)

// SearchAction はセマンティック検索を実行するコマンドのアクション
func SearchAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	query := cmd.String("query")

	orgID, err := uuid.Parse(cmd.String("org"))
	if err != nil {
		return fmt.Errorf("--org はUUIDで指定してください: %w", err)
	}

	var principalID uuid.UUID
	if principal := cmd.String("principal"); principal != "" {
		principalID, err = uuid.Parse(principal)
		if err != nil {
			return fmt.Errorf("--principal はUUIDで指定してください: %w", err)
		}
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	slog.Info("検索を開始", "query", query, "org", orgID)

	response, err := appCtx.Container.SearchService.SearchContext(ctx, retrievalapp.SearchContextParams{
		OrgID:               orgID,
		Query:               query,
		DocumentTypes:       cmd.StringSlice("type"),
		Limit:               int(cmd.Int("limit")),
		SimilarityThreshold: cmd.Float("threshold"),
		AllowScopeWidening:  cmd.Bool("widen-scope"),
		PrincipalID:         principalID,
	})
	if err != nil {
		slog.Error("検索に失敗しました", "error", err)
		return err
	}

	fmt.Printf("\n検索タイプ: %s", response.SearchType)
	if response.ScopeWidened {
		fmt.Printf("（検索範囲を所属組織に拡大）")
	}
	fmt.Printf("  件数: %d\n\n", len(response.Results))

	if len(response.Results) == 0 {
		fmt.Println("該当するチャンクがありません")
		return nil
	}

	renderSearchResultsTable(response.Results)
	return nil
}

func renderSearchResultsTable(results []*retrievaldomain.SearchResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Similarity", "Document", "Type", "Content")

	for _, result := range results {
		content := result.Content
		if runes := []rune(content); len(runes) > 80 {
			content = string(runes[:77]) + "..."
		}
		table.Append(
			fmt.Sprintf("%.3f", result.Similarity),
			result.DocumentName,
			result.DocumentType,
			content,
		)
	}

	table.Render()
}
