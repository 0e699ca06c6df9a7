package callprep

import (
	"github.com/smallbiznis/mentorhub/internal/callprep/service"
	"go.uber.org/fx"
)

var Module = fx.Module("callprep.service",
	fx.Provide(service.New),
)
