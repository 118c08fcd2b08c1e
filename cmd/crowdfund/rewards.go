package main

import (
	"context"
	"fmt"

	"crowdfund/internal/db"
	"crowdfund/internal/rewards"
	"crowdfund/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var rewardsCommand = &cli.Command{
	Name:      "rewards",
	Usage:     "Print a supporter's rewards summary for a fundraiser",
	ArgsUsage: "<supporter-id> <fundraiser-id>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return cli.ShowSubcommandHelp(c)
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		pool, err := db.Connect(c.Context, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		st := store.New(pool)
		engine := rewards.NewEngine(logger, st, func(ctx context.Context, fn func(rewards.Ledger) error) error {
			return st.Snapshot(ctx, func(tx *store.Store) error { return fn(tx) })
		})

		summary, err := engine.RewardsSummary(c.Context, c.Args().Get(0), c.Args().Get(1))
		if err != nil {
			return err
		}

		pp.Println(summary)

		return nil
	},
}
