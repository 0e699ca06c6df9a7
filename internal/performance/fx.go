package performance

import (
	"github.com/smallbiznis/mentorhub/internal/performance/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("performance.repository",
	fx.Provide(repository.Provide),
)
