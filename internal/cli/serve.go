package cli

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/krishanu7/minigames-bot/internal/api"
	"github.com/krishanu7/minigames-bot/internal/events"
	"github.com/krishanu7/minigames-bot/internal/leaderboard"
	"github.com/krishanu7/minigames-bot/internal/ranking"
	"github.com/krishanu7/minigames-bot/internal/scores"
	"github.com/krishanu7/minigames-bot/internal/ws"
	wsPkg "github.com/krishanu7/minigames-bot/pkg/websocket"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the leaderboard HTTP API and live feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := a.bootstrap(ctx, "api", true)
			if err != nil {
				return err
			}
			defer rt.Close()

			store := scores.NewStore(rt.db)
			board := leaderboard.NewService(rt.db)
			hub := wsPkg.NewHub()
			opts := api.Options{
				Ranking:        ranking.NewService(rt.db, store),
				Scores:         store,
				Board:          board,
				DB:             rt.db,
				Feed:           ws.NewHandler(hub, board, rt.log).ServeWS,
				BotToken:       rt.cfg.BotToken,
				InitDataMaxAge: rt.cfg.InitDataMaxAge,
				Logger:         rt.log,
			}
			if rt.rdb != nil {
				opts.Publisher = events.NewPublisher(rt.rdb)
				worker := ws.NewNotificationWorker(rt.rdb, hub, board, rt.log)
				go func() {
					if err := worker.Run(ctx); err != nil {
						rt.log.Error("notification worker stopped", err)
					}
				}()
			}
			if rt.cfg.BotToken == "" {
				rt.log.Warn("BOT_TOKEN not set; POST /api/v1/scores will reject every request")
			}

			srv := &http.Server{
				Addr:              rt.cfg.HTTPAddr,
				Handler:           api.NewServer(opts).Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return serveHTTP(ctx, srv, rt.log)
		},
	}
}
