package callnote

import (
	"github.com/smallbiznis/mentorhub/internal/callnote/repository"
	"github.com/smallbiznis/mentorhub/internal/callnote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("callnote.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
