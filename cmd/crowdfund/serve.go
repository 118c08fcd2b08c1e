package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crowdfund/internal/db"
	"crowdfund/internal/needs"
	"crowdfund/internal/pledges"
	"crowdfund/internal/rewards"
	"crowdfund/internal/server"
	"crowdfund/internal/storage"
	"crowdfund/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	logger, err := newLogger(config)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	st := store.New(pool)

	var images rewards.ImageUploader
	if config.TierImageBucket != "" {
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		images = storage.NewS3Storage(s3.NewFromConfig(awsConfig), config.TierImageBucket, config.TierImageBaseURL)
	} else {
		logger.Warn("TIER_IMAGE_BUCKET not set, reward tier image uploads are disabled")
	}

	engine := rewards.NewEngine(logger, st, func(ctx context.Context, fn func(rewards.Ledger) error) error {
		return st.Snapshot(ctx, func(tx *store.Store) error { return fn(tx) })
	})

	pledgeService := pledges.New(logger, engine, st, func(ctx context.Context, fn func(pledges.Store) error) error {
		return st.InTx(ctx, func(tx *store.Store) error { return fn(tx) })
	})

	needService := needs.New(logger, st, func(ctx context.Context, fn func(needs.Store) error) error {
		return st.InTx(ctx, func(tx *store.Store) error { return fn(tx) })
	})

	jwkCache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.CognitoIssuerURL)

	err = jwkCache.Register(ctx, jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register jwks url with cache: %w", err)
	}

	srv, err := server.New(
		config,
		logger,
		server.Services{
			Tiers:   rewards.NewTierService(logger, st, images),
			Needs:   needService,
			Pledges: pledgeService,
			Rewards: engine,
		},
		jwkCache,
		jwksURL,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
