package mentee

import (
	"github.com/smallbiznis/mentorhub/internal/mentee/repository"
	"github.com/smallbiznis/mentorhub/internal/mentee/service"
	"go.uber.org/fx"
)

var Module = fx.Module("mentee.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
