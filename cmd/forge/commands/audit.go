package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

// AuditListAction は検索監査ログを表示するコマンドのアクション
func AuditListAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	limit := int(cmd.Int("limit"))

	orgID, err := uuid.Parse(cmd.String("org"))
	if err != nil {
		return fmt.Errorf("--org はUUIDで指定してください: %w", err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	entries, err := appCtx.Container.AuditRepository.ListRecentSearches(ctx, orgID, limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("監査レコードがありません")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Created At", "Query", "Results", "Type", "Widened")

	for _, entry := range entries {
		query := entry.Query
		if runes := []rune(query); len(runes) > 60 {
			query = string(runes[:57]) + "..."
		}
		table.Append(
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			query,
			fmt.Sprintf("%d", entry.ResultCount),
			string(entry.SearchType),
			fmt.Sprintf("%t", entry.ScopeWidened),
		)
	}

	table.Render()
	return nil
}
