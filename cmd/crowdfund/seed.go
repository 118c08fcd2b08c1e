package main

import (
	"fmt"

	"crowdfund/internal/db"
	"crowdfund/internal/seed"
	"crowdfund/internal/store"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with a demo fundraiser, reward tiers and needs",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx := c.Context

		pool, err := db.Connect(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger.Info("Connected to database")

		logger.Info("Seeding demo fundraiser...")
		if err := seed.SeedDemo(ctx, store.New(pool)); err != nil {
			return fmt.Errorf("failed to seed demo fundraiser: %w", err)
		}

		logger.WithField("fundraiser_id", seed.DemoFundraiserID).Info("Demo fundraiser seeded successfully")

		return nil
	},
}
