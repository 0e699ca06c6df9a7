package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/internal/mentee/domain"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("mentee.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateMenteeRequest) (domain.Mentee, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.Mentee{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Mentee{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Mentee{}, domain.ErrInvalidEmail
	}

	var cohortID *snowflake.ID
	if raw := strings.TrimSpace(req.CohortID); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return domain.Mentee{}, err
		}
		cohortID = &id
	}

	now := time.Now().UTC()
	mentee := domain.Mentee{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		Email:     email,
		CohortID:  cohortID,
		Active:    true,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &mentee); err != nil {
		return domain.Mentee{}, err
	}

	return mentee, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Mentee, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.Mentee{}, domain.ErrInvalidOrganization
	}

	menteeID, err := parseID(id)
	if err != nil {
		return domain.Mentee{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, menteeID)
	if err != nil {
		return domain.Mentee{}, err
	}
	if item == nil {
		return domain.Mentee{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Roster(ctx context.Context) (*domain.Roster, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	mentees, err := s.repo.ListActive(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}
	return domain.NewRoster(mentees), nil
}

// ResolveByName returns nil without error when no unique mentee matches.
func (s *Service) ResolveByName(ctx context.Context, candidate string) (*domain.Mentee, error) {
	roster, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	mentee := roster.Resolve(candidate)
	if mentee == nil {
		s.log.Debug("mentee name unresolved", zap.String("candidate", candidate))
	}
	return mentee, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
