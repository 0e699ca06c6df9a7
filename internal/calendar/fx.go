package calendar

import (
	"github.com/smallbiznis/mentorhub/internal/calendar/repository"
	"github.com/smallbiznis/mentorhub/internal/calendar/service"
	"go.uber.org/fx"
)

var Module = fx.Module("calendar.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
