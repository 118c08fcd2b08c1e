package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"crowdfund/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type TierService interface {
	Tiers(ctx context.Context, fundraiserID string, rewardType types.RewardType) ([]*types.RewardTier, error)
	CreateTier(ctx context.Context, actorID string, tier *types.RewardTier) (*types.RewardTier, error)
	UpdateTier(ctx context.Context, actorID, tierID string, update *types.RewardTier) (*types.RewardTier, error)
	DeleteTier(ctx context.Context, actorID, tierID string) error
	SetTierImage(ctx context.Context, actorID, tierID string, body io.Reader, contentType string) (*types.RewardTier, error)
}

type NeedService interface {
	Need(ctx context.Context, needID string) (*types.Need, error)
	CreateNeed(ctx context.Context, ownerID string, need *types.Need) (*types.Need, error)
	UpdateNeedDetail(ctx context.Context, ownerID, needID string, detail types.NeedDetail) (*types.Need, error)
	DeleteNeed(ctx context.Context, ownerID, needID string) error
}

type PledgeService interface {
	Pledge(ctx context.Context, pledgeID string) (*types.Pledge, error)
	CreatePledge(ctx context.Context, supporterID string, pledge *types.Pledge) (*types.Pledge, error)
	UpdatePledgeDetail(ctx context.Context, supporterID, pledgeID string, detail types.PledgeDetail) (*types.Pledge, error)
	TransitionPledge(ctx context.Context, actorID, pledgeID string, target types.PledgeStatus) (*types.Pledge, error)
	DeletePledge(ctx context.Context, supporterID, pledgeID string) error
}

type RewardsService interface {
	RewardsSummary(ctx context.Context, supporterID, fundraiserID string) (*types.RewardsSummary, error)
}

type Services struct {
	Tiers   TierService
	Needs   NeedService
	Pledges PledgeService
	Rewards RewardsService
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	tiers   TierService
	needs   NeedService
	pledges PledgeService
	rewards RewardsService

	cookie *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	// authenticate resolves a raw access token to a user id.
	authenticate func(ctx context.Context, token string) (string, error)

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	services Services,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie hash key: %w", err)
	}

	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie block key: %w", err)
	}

	s := &Service{
		logger: logger,
		config: config,

		tiers:   services.Tiers,
		needs:   services.Needs,
		pledges: services.Pledges,
		rewards: services.Rewards,

		cookie: securecookie.New(hashKey, blockKey),

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		handler:   mux,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}
	s.authenticate = s.verifyToken

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.HandleFunc("/fundraisers/:fundraiserID/reward-tiers", s.handleListRewardTiers, http.MethodGet)
	r.HandleFunc("/needs/:needID", s.handleGetNeed, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/fundraisers/:fundraiserID/reward-tiers", s.handleCreateRewardTier, http.MethodPost)
		r.HandleFunc("/reward-tiers/:tierID", s.handleUpdateRewardTier, http.MethodPut)
		r.HandleFunc("/reward-tiers/:tierID", s.handleDeleteRewardTier, http.MethodDelete)
		r.HandleFunc("/reward-tiers/:tierID/image", s.handlePutRewardTierImage, http.MethodPut)

		r.HandleFunc("/fundraisers/:fundraiserID/needs", s.handleCreateNeed, http.MethodPost)
		r.HandleFunc("/needs/:needID/detail", s.handleUpdateNeedDetail, http.MethodPut)
		r.HandleFunc("/needs/:needID", s.handleDeleteNeed, http.MethodDelete)

		r.HandleFunc("/pledges", s.handleCreatePledge, http.MethodPost)
		r.HandleFunc("/pledges/:pledgeID", s.handleGetPledge, http.MethodGet)
		r.HandleFunc("/pledges/:pledgeID/detail", s.handleUpdatePledgeDetail, http.MethodPut)
		r.HandleFunc("/pledges/:pledgeID/status", s.handleTransitionPledge, http.MethodPost)
		r.HandleFunc("/pledges/:pledgeID", s.handleDeletePledge, http.MethodDelete)

		r.HandleFunc("/fundraisers/:fundraiserID/rewards", s.handleGetRewardsSummary, http.MethodGet)
	})
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}
