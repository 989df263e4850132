package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	ingestionapp "github.com/maturion/genesis-forge/internal/module/ingestion/application"
	ingestiondomain "github.com/maturion/genesis-forge/internal/module/ingestion/domain"
)

// DocumentIngestAction はドキュメントを取り込むコマンドのアクション
func DocumentIngestAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	filePath := cmd.String("file")
	docType := cmd.String("type")

	orgID, err := uuid.Parse(cmd.String("org"))
	if err != nil {
		return fmt.Errorf("--org はUUIDで指定してください: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("ファイルの読み込みに失敗: %w", err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	slog.Info("ドキュメント取り込みを開始", "file", filePath, "org", orgID)

	doc, err := appCtx.Container.IngestService.IngestDocument(ctx, ingestionapp.IngestDocumentParams{
		OrgID:    orgID,
		Filename: filepath.Base(filePath),
		Type:     docType,
		Data:     data,
	})
	if err != nil {
		slog.Error("ドキュメント取り込みに失敗しました", "error", err)
		return err
	}

	fmt.Printf("\nドキュメントを取り込みました\n")
	fmt.Printf("ID:          %s\n", doc.ID)
	fmt.Printf("Name:        %s\n", doc.Name)
	fmt.Printf("Status:      %s\n", doc.Status)
	fmt.Printf("Chunk Count: %d\n", doc.ChunkCount)

	return nil
}

// DocumentListAction はドキュメント一覧を表示するコマンドのアクション
func DocumentListAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	orgID, err := uuid.Parse(cmd.String("org"))
	if err != nil {
		return fmt.Errorf("--org はUUIDで指定してください: %w", err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	docs, err := appCtx.Container.IngestService.ListDocuments(ctx, orgID)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Println("ドキュメントが登録されていません")
		return nil
	}

	renderDocumentsTable(docs)
	return nil
}

func renderDocumentsTable(docs []ingestiondomain.Document) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Type", "Status", "Chunks", "Created At")

	for _, doc := range docs {
		table.Append(
			doc.ID.String(),
			doc.Name,
			string(doc.Type),
			string(doc.Status),
			fmt.Sprintf("%d", doc.ChunkCount),
			doc.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	table.Render()
}
