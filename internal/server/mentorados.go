package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	callnotedomain "github.com/smallbiznis/mentorhub/internal/callnote/domain"
	callprepdomain "github.com/smallbiznis/mentorhub/internal/callprep/domain"
	"github.com/smallbiznis/mentorhub/internal/orgcontext"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"github.com/smallbiznis/mentorhub/pkg/db/pagination"
	"go.uber.org/zap"
)

const headerCache = "X-Cache"

func (s *Server) GetCallPreparation(c *gin.Context) {
	bundle, hit, err := s.bundle(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header(headerCache, cacheStatus(hit))
	c.JSON(http.StatusOK, gin.H{"data": bundle})
}

func (s *Server) GetCallPreparationPDF(c *gin.Context) {
	bundle, _, err := s.bundle(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdf.GenerateBriefing(c.Request.Context(), bundle)
	if err != nil {
		AbortWithError(c, fmt.Errorf("generate briefing: %w", err))
		return
	}

	filename := fmt.Sprintf("preparacao-%s-%s.pdf", bundle.Mentee.ID, bundle.Period)
	c.DataFromReader(http.StatusOK, -1, "application/pdf", doc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, filename),
	})
}

// bundle serves current-month bundles through the cache. Requests for an
// explicit period always compose fresh.
func (s *Server) bundle(c *gin.Context) (callprepdomain.Bundle, bool, error) {
	ctx := c.Request.Context()
	menteeID := strings.TrimSpace(c.Param("id"))

	period, err := parseOptionalPeriod(c.Query("year"), c.Query("month"))
	if err != nil {
		return callprepdomain.Bundle{}, false, err
	}

	orgID := orgKey(ctx)
	current := performancedomain.PeriodOf(s.clock.Now())
	cacheable := period == nil || *period == current
	if cacheable {
		if cached, ok := s.bundles.Get(ctx, orgID, menteeID); ok && cached.Period == current {
			return cached, true, nil
		}
	}

	bundle, err := s.callprepSvc.GetCallPreparation(ctx, callprepdomain.CallPreparationRequest{
		MenteeID: menteeID,
		Period:   period,
	})
	if err != nil {
		return callprepdomain.Bundle{}, false, err
	}

	if cacheable {
		s.bundles.Set(ctx, orgID, menteeID, bundle)
	}
	return bundle, false, nil
}

func (s *Server) GetAlerts(c *gin.Context) {
	period, err := parseOptionalPeriod(c.Query("year"), c.Query("month"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	set, err := s.alertSvc.CalculateAlerts(c.Request.Context(), alertdomain.CalculateAlertsRequest{
		MenteeID: strings.TrimSpace(c.Param("id")),
		Period:   period,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": set})
}

type saveCallNotesRequest struct {
	DataCall           string         `json:"dataCall"`
	PrincipaisInsights string         `json:"principaisInsights"`
	AcoesAcordadas     string         `json:"acoesAcordadas"`
	ProximosPassos     string         `json:"proximosPassos"`
	DuracaoMinutos     int            `json:"duracaoMinutos"`
	Metadata           map[string]any `json:"metadata"`
}

func (s *Server) SaveCallNotes(c *gin.Context) {
	var req saveCallNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	callDate, err := parseOptionalTime(req.DataCall)
	if err != nil {
		AbortWithError(c, newValidationError("dataCall", "invalid", "data da call inválida"))
		return
	}

	ctx := c.Request.Context()
	menteeID := strings.TrimSpace(c.Param("id"))
	resp, err := s.callprepSvc.SaveCallNotes(ctx, callnotedomain.SaveRequest{
		MenteeID:        menteeID,
		CallDate:        callDate,
		Insights:        req.PrincipaisInsights,
		AgreedActions:   req.AcoesAcordadas,
		NextSteps:       req.ProximosPassos,
		DurationMinutes: req.DuracaoMinutos,
		Metadata:        req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.bundles.Invalidate(ctx, orgKey(ctx), menteeID)
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListCallNotes(c *gin.Context) {
	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.callnoteSvc.List(c.Request.Context(), callnotedomain.ListRequest{
		MenteeID:  strings.TrimSpace(c.Param("id")),
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Recompute drops the cached bundle so the next read reflects newly
// submitted metrics.
func (s *Server) Recompute(c *gin.Context) {
	ctx := c.Request.Context()
	menteeID := strings.TrimSpace(c.Param("id"))

	if _, err := s.menteeSvc.GetByID(ctx, menteeID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.bundles.Invalidate(ctx, orgKey(ctx), menteeID)
	s.log.Info("call preparation invalidated", zap.String("mentee_id", menteeID))
	c.JSON(http.StatusAccepted, gin.H{"status": "invalidated"})
}

func orgKey(ctx context.Context) string {
	orgID, _ := orgcontext.OrgIDFromContext(ctx)
	return orgID.String()
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
