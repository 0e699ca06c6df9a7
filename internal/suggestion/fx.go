package suggestion

import (
	"github.com/smallbiznis/mentorhub/internal/config"
	"github.com/smallbiznis/mentorhub/internal/suggestion/domain"
	"github.com/smallbiznis/mentorhub/internal/suggestion/openai"
	"github.com/smallbiznis/mentorhub/internal/suggestion/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("suggestion.service",
	fx.Provide(provideProvider),
	fx.Provide(service.New),
)

func provideProvider(cfg config.Config, log *zap.Logger) domain.Provider {
	client := openai.New(cfg.AI)
	if client == nil {
		log.Info("ai suggestions disabled, using fallback table")
		return nil
	}
	return client
}
