package pdf

import (
	"context"
	"io"

	callprepdomain "github.com/smallbiznis/mentorhub/internal/callprep/domain"
	"go.uber.org/fx"
)

type Provider interface {
	GenerateBriefing(ctx context.Context, bundle callprepdomain.Bundle) (io.Reader, error)
}

var Module = fx.Module("pdf.provider",
	fx.Provide(New),
)
