package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krishanu7/minigames-bot/config"
	"github.com/krishanu7/minigames-bot/db"
	"github.com/krishanu7/minigames-bot/pkg/logger"
	"github.com/krishanu7/minigames-bot/pkg/redis"
)

type app struct {
	envFile string
	stdout  io.Writer
	stderr  io.Writer
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Stdout, os.Stderr)
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{stdout: out, stderr: errOut}

	cmd := &cobra.Command{
		Use:           "minigames",
		Short:         "Telegram mini game bots and their leaderboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(
		newBotCmd(a),
		newServeCmd(a),
		newMigrateCmd(a),
	)
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// runtime holds what every long running command needs.
type runtime struct {
	cfg config.Config
	log *logger.Logger
	db  *sqlx.DB
	rdb *goredis.Client // nil when Redis is not configured or unreachable
}

// bootstrap loads config, builds the logger and opens a migrated database.
// Redis is connected only when withRedis is set.
func (a *app) bootstrap(ctx context.Context, service string, withRedis bool) (*runtime, error) {
	cfg, err := config.LoadConfig(a.envFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: service,
		FilePath:    cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DBUrl)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := db.Migrate(conn, log); err != nil {
		conn.Close()
		log.Sync()
		return nil, err
	}

	rt := &runtime{cfg: cfg, log: log, db: conn}
	if !withRedis {
		return rt, nil
	}
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set; dedup and live updates are disabled")
		return rt, nil
	}
	rdb, err := redis.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Error("redis unavailable; dedup and live updates are disabled", err)
		return rt, nil
	}
	rt.rdb = rdb
	log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.rdb != nil {
		rt.rdb.Close()
	}
	rt.db.Close()
	rt.log.Sync()
}

// serveHTTP runs srv until ctx is cancelled, then drains it.
func serveHTTP(ctx context.Context, srv *http.Server, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
