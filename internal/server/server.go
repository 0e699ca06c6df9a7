package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/mentorhub/internal/alert"
	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	"github.com/smallbiznis/mentorhub/internal/cache"
	"github.com/smallbiznis/mentorhub/internal/calendar"
	calendardomain "github.com/smallbiznis/mentorhub/internal/calendar/domain"
	"github.com/smallbiznis/mentorhub/internal/callnote"
	callnotedomain "github.com/smallbiznis/mentorhub/internal/callnote/domain"
	"github.com/smallbiznis/mentorhub/internal/callprep"
	callprepdomain "github.com/smallbiznis/mentorhub/internal/callprep/domain"
	"github.com/smallbiznis/mentorhub/internal/clock"
	"github.com/smallbiznis/mentorhub/internal/cohort"
	"github.com/smallbiznis/mentorhub/internal/config"
	"github.com/smallbiznis/mentorhub/internal/mentee"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	"github.com/smallbiznis/mentorhub/internal/observability"
	obslogger "github.com/smallbiznis/mentorhub/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/mentorhub/internal/observability/metrics"
	obstracing "github.com/smallbiznis/mentorhub/internal/observability/tracing"
	"github.com/smallbiznis/mentorhub/internal/performance"
	"github.com/smallbiznis/mentorhub/internal/providers"
	"github.com/smallbiznis/mentorhub/internal/providers/pdf"
	"github.com/smallbiznis/mentorhub/internal/ratelimit"
	"github.com/smallbiznis/mentorhub/internal/suggestion"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	mentee.Module,
	performance.Module,
	alert.Module,
	cohort.Module,
	callnote.Module,
	calendar.Module,
	cache.Module,
	ratelimit.Module,
	suggestion.Module,
	callprep.Module,
	providers.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware(func(c *gin.Context) string {
		return c.GetHeader(HeaderOrg)
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	log         *zap.Logger
	clock       clock.Clock
	menteeSvc   menteedomain.Service
	alertSvc    alertdomain.Service
	callprepSvc callprepdomain.Service
	callnoteSvc callnotedomain.Service
	calendar    calendardomain.Connector
	bundles     cache.BundleCache
	pdf         pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Log         *zap.Logger
	Clock       clock.Clock
	MenteeSvc   menteedomain.Service
	AlertSvc    alertdomain.Service
	CallprepSvc callprepdomain.Service
	CallnoteSvc callnotedomain.Service
	Calendar    calendardomain.Connector
	Bundles     cache.BundleCache
	PDF         pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		log:         p.Log.Named("http.server"),
		clock:       p.Clock,
		menteeSvc:   p.MenteeSvc,
		alertSvc:    p.AlertSvc,
		callprepSvc: p.CallprepSvc,
		callnoteSvc: p.CallnoteSvc,
		calendar:    p.Calendar,
		bundles:     p.Bundles,
		pdf:         p.PDF,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", OrgContext())

	api.GET("/calls/upcoming", s.ListUpcomingCalls)
	api.PUT("/calendar/integration", s.ConnectCalendar)

	mentorados := api.Group("/mentorados/:id")
	mentorados.GET("/call-preparation", s.GetCallPreparation)
	mentorados.GET("/call-preparation.pdf", s.GetCallPreparationPDF)
	mentorados.GET("/alerts", s.GetAlerts)
	mentorados.POST("/call-notes", s.SaveCallNotes)
	mentorados.GET("/call-notes", s.ListCallNotes)
	mentorados.POST("/recompute", s.Recompute)
}
