package commands

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/maturion/genesis-forge/internal/interface/httpapi"
)

// ServerStartAction はHTTPサーバを起動するコマンドのアクション
func ServerStartAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	port := int(cmd.Int("port"))
	if port <= 0 {
		port = appCtx.Config.Server.Port
	}

	server := httpapi.NewServer(appCtx.Container)

	// シグナルでコンテキストが取り消されたらサーバを停止する
	go func() {
		<-ctx.Done()
		slog.Info("シャットダウンします")
		if err := server.Shutdown(); err != nil {
			slog.Error("サーバ停止に失敗しました", "error", err)
		}
	}()

	slog.Info("HTTPサーバを起動します", "port", port)
	return server.Listen(port)
}
