package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mentorhub/internal/callnote/domain"
	"github.com/smallbiznis/mentorhub/internal/clock"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	"github.com/smallbiznis/mentorhub/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	MenteeRepo menteedomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	menteeRepo menteedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("callnote.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		menteeRepo: p.MenteeRepo,
	}
}

func (s *Service) Save(ctx context.Context, req domain.SaveRequest) (domain.SaveResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.SaveResponse{}, domain.ErrInvalidOrganization
	}

	menteeID, err := parseID(req.MenteeID)
	if err != nil {
		return domain.SaveResponse{}, err
	}

	if verrs := Validate(req); len(verrs) > 0 {
		return domain.SaveResponse{}, verrs
	}

	if err := s.ensureMentee(ctx, orgID, menteeID); err != nil {
		return domain.SaveResponse{}, err
	}

	metadata := datatypes.JSONMap{}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	note := domain.CallNote{
		ID:              s.genID.Generate(),
		OrgID:           orgID,
		MenteeID:        menteeID,
		CallDate:        req.CallDate.UTC(),
		Insights:        strings.TrimSpace(req.Insights),
		AgreedActions:   strings.TrimSpace(req.AgreedActions),
		NextSteps:       strings.TrimSpace(req.NextSteps),
		DurationMinutes: req.DurationMinutes,
		Metadata:        metadata,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &note); err != nil {
		return domain.SaveResponse{}, fmt.Errorf("insert call note: %w", err)
	}

	s.log.Info("call note saved",
		zap.String("note_id", note.ID.String()),
		zap.String("mentee_id", menteeID.String()),
	)
	return domain.SaveResponse{Success: true, NoteID: note.ID.String()}, nil
}

func (s *Service) GetLast(ctx context.Context, menteeID string) (*domain.CallNote, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	id, err := parseID(menteeID)
	if err != nil {
		return nil, err
	}

	return s.repo.FindLast(ctx, s.db, orgID, id)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.ListResponse{}, domain.ErrInvalidOrganization
	}

	menteeID, err := parseID(req.MenteeID)
	if err != nil {
		return domain.ListResponse{}, err
	}
	if err := s.ensureMentee(ctx, orgID, menteeID); err != nil {
		return domain.ListResponse{}, err
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, orgID, menteeID, page)
	if err != nil {
		return domain.ListResponse{}, err
	}

	limit := page.Limit()
	pageInfo := pagination.BuildCursorPageInfo(items, int32(limit), func(note *domain.CallNote) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        note.ID.String(),
			CreatedAt: note.CallDate.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if len(items) > limit {
		items = items[:limit]
	}

	notes := make([]domain.CallNote, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		notes = append(notes, *item)
	}

	resp := domain.ListResponse{Notes: notes}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) ensureMentee(ctx context.Context, orgID, menteeID snowflake.ID) error {
	mentee, err := s.menteeRepo.FindByID(ctx, s.db, orgID, menteeID)
	if err != nil {
		return err
	}
	if mentee == nil {
		return domain.ErrNotFound
	}
	return nil
}

// Validate reports every invalid field of req.
func Validate(req domain.SaveRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if req.CallDate == nil || req.CallDate.IsZero() {
		errs = append(errs, domain.FieldError{
			Field:   "dataCall",
			Code:    "required",
			Message: "data da call é obrigatória",
		})
	}

	texts := []struct {
		field string
		value string
	}{
		{"principaisInsights", req.Insights},
		{"acoesAcordadas", req.AgreedActions},
		{"proximosPassos", req.NextSteps},
	}
	for _, t := range texts {
		if utf8.RuneCountInString(strings.TrimSpace(t.value)) < domain.MinTextLength {
			errs = append(errs, domain.FieldError{
				Field:   t.field,
				Code:    "too_short",
				Message: fmt.Sprintf("deve ter pelo menos %d caracteres", domain.MinTextLength),
			})
		}
	}

	if req.DurationMinutes < 0 {
		errs = append(errs, domain.FieldError{
			Field:   "duracaoMinutos",
			Code:    "invalid",
			Message: "duração não pode ser negativa",
		})
	}

	return errs
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
