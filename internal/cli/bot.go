package cli

import (
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krishanu7/minigames-bot/internal/chatbot"
	"github.com/krishanu7/minigames-bot/internal/dedup"
	"github.com/krishanu7/minigames-bot/internal/events"
	"github.com/krishanu7/minigames-bot/internal/leaderboard"
	"github.com/krishanu7/minigames-bot/internal/ranking"
	"github.com/krishanu7/minigames-bot/internal/scores"
)

const dedupPrefix = "minigames:dedup:"

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "bot <minesweeper|memory>",
		Short:     "Run one of the Telegram bots",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{chatbot.Minesweeper.Name, chatbot.Memory.Name},
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := chatbot.GameByName(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := a.bootstrap(ctx, game.Name+"-bot", true)
			if err != nil {
				return err
			}
			defer rt.Close()

			token, err := rt.cfg.TokenFor(game.Name)
			if err != nil {
				return err
			}

			bot := &chatbot.App{
				Game:      game,
				WebAppURL: rt.cfg.WebAppURL,
				Ranking:   ranking.NewService(rt.db, scores.NewStore(rt.db)),
				Board:     leaderboard.NewService(rt.db),
				Logger:    rt.log,
			}
			if rt.rdb != nil {
				bot.Guard = dedup.NewGuard(rt.rdb, dedupPrefix, rt.cfg.DedupTTL)
				bot.Publisher = events.NewPublisher(rt.rdb)
			}
			router := bot.Routes()

			client, err := tgbot.New(token, tgbot.WithDefaultHandler(router.Enqueue))
			if err != nil {
				return err
			}
			bot.Sender = client

			if rt.cfg.MetricsAddr != "" {
				go func() {
					if err := serveHTTP(ctx, metricsServer(rt.cfg.MetricsAddr), rt.log); err != nil {
						rt.log.Error("metrics server stopped", err)
					}
				}()
			}

			go router.Run(ctx)
			rt.log.Info("bot started", zap.String("game", game.Name), zap.String("webapp_url", rt.cfg.WebAppURL))
			client.Start(ctx)
			rt.log.Info("bot stopped", zap.String("game", game.Name))
			return nil
		},
	}
}
