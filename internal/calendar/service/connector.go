package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/internal/calendar/domain"
	"github.com/smallbiznis/mentorhub/internal/calendar/google"
	"github.com/smallbiznis/mentorhub/internal/config"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Config     config.Config
	GenID      *snowflake.Node
	Repo       domain.IntegrationRepository
	HTTPClient *http.Client `optional:"true"`
}

type Connector struct {
	db         *gorm.DB
	log        *zap.Logger
	cfg        config.CalendarConfig
	genID      *snowflake.Node
	repo       domain.IntegrationRepository
	httpClient *http.Client
}

func New(p Params) domain.Connector {
	return &Connector{
		db:         p.DB,
		log:        p.Log.Named("calendar.service"),
		cfg:        p.Config.Calendar,
		genID:      p.GenID,
		repo:       p.Repo,
		httpClient: p.HTTPClient,
	}
}

func (c *Connector) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.cfg.GoogleClientID,
		ClientSecret: c.cfg.GoogleClientSecret,
		RedirectURL:  c.cfg.GoogleRedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{google.ReadOnlyScope},
	}
}

// ProviderFor fails with ErrNotConnected when the OAuth client is not
// configured or the organization never linked a calendar.
func (c *Connector) ProviderFor(ctx context.Context) (domain.Provider, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	if !c.cfg.Configured() {
		return nil, domain.ErrNotConnected
	}

	integration, err := c.repo.FindByOrg(ctx, c.db, orgID)
	if err != nil {
		return nil, err
	}
	if integration == nil || integration.AccessToken == "" {
		return nil, domain.ErrNotConnected
	}

	token := &oauth2.Token{
		AccessToken:  integration.AccessToken,
		RefreshToken: integration.RefreshToken,
		TokenType:    integration.TokenType,
	}
	if integration.Expiry != nil {
		token.Expiry = *integration.Expiry
	}

	// The oauth2 transport uses this client for token refreshes as well.
	tokenCtx := context.Background()
	if c.httpClient != nil {
		tokenCtx = context.WithValue(tokenCtx, oauth2.HTTPClient, c.httpClient)
	}
	client := c.oauthConfig().Client(tokenCtx, token)

	return google.New(client, c.cfg.GoogleAPIBaseURL, integration.CalendarID), nil
}

func (c *Connector) Connect(ctx context.Context, req domain.ConnectRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidOrganization
	}

	accessToken := strings.TrimSpace(req.AccessToken)
	if accessToken == "" {
		return domain.ErrInvalidToken
	}

	now := time.Now().UTC()
	integration := domain.Integration{
		ID:           c.genID.Generate(),
		OrgID:        orgID,
		Provider:     domain.ProviderGoogle,
		CalendarID:   strings.TrimSpace(req.CalendarID),
		AccessToken:  accessToken,
		RefreshToken: strings.TrimSpace(req.RefreshToken),
		TokenType:    "Bearer",
		Expiry:       req.Expiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if integration.CalendarID == "" {
		integration.CalendarID = "primary"
	}

	if err := c.repo.Upsert(ctx, c.db, &integration); err != nil {
		return err
	}

	c.log.Info("calendar connected",
		zap.String("org_id", orgID.String()),
		zap.String("calendar_id", integration.CalendarID),
	)
	return nil
}
