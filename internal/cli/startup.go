package cli

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/raphaelgruber/dbmcp-go/internal/config"
	"github.com/raphaelgruber/dbmcp-go/internal/db"
	"github.com/raphaelgruber/dbmcp-go/internal/kvstore"
	"github.com/raphaelgruber/dbmcp-go/internal/sqlstore"
	"github.com/raphaelgruber/dbmcp-go/internal/tools"
)

// initConnections opens the connections declared in the config file
// concurrently. Both are attempted even if one fails. Every failure is
// logged and the first one is returned.
func initConnections(ctx context.Context, cfg config.Config, deps *tools.Dependencies, logger *slog.Logger) error {
	var g errgroup.Group

	if c := cfg.SQL; c != nil {
		g.Go(func() error {
			url := db.MaskDSN(c.URL)
			err := deps.SQL.Init(ctx, sqlstore.Credentials{
				Driver:   c.Driver,
				URL:      c.URL,
				Username: c.Username,
				Password: c.Password,
			})
			if err != nil {
				logger.Error("sql connection from config failed", "url", url, "error", err)
				return fmt.Errorf("sql %s: %w", url, err)
			}
			logger.Info("sql connection initialized from config", "url", url)
			return nil
		})
	}

	if c := cfg.Redis; c != nil {
		g.Go(func() error {
			addr := kvstore.Address{Host: c.Host, Port: c.Port, Password: c.Password}
			if err := deps.KV.Init(ctx, addr); err != nil {
				logger.Error("redis connection from config failed", "addr", addr.String(), "error", err)
				return fmt.Errorf("redis %s: %w", addr, err)
			}
			logger.Info("redis connection initialized from config", "addr", addr.String())
			return nil
		})
	}

	return g.Wait()
}
