package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	callprepdomain "github.com/smallbiznis/mentorhub/internal/callprep/domain"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	suggestiondomain "github.com/smallbiznis/mentorhub/internal/suggestion/domain"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

var (
	heading = props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}
	body    = props.Text{Size: 9}
	bold    = props.Text{Size: 9, Style: fontstyle.Bold}
	right   = props.Text{Size: 9, Align: align.Right}
)

func (p *PDFProvider) GenerateBriefing(ctx context.Context, bundle callprepdomain.Bundle) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Preparação de call: "+bundle.Mentee.Name, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(12,
		col.New(6).Add(
			text.New("Mês de referência: "+periodLabel(bundle), props.Text{Size: 9}),
			text.New("Gerado em: "+bundle.GeneratedAt.Format("02/01/2006 15:04"), props.Text{Size: 9, Top: 4}),
		),
		col.New(6),
	)

	m.AddRow(10, text.NewCol(12, "Alertas", heading))
	if len(bundle.Alerts) == 0 {
		m.AddRow(7, text.NewCol(12, "Nenhum alerta no período.", body))
	}
	for _, a := range bundle.Alerts {
		m.AddRow(7,
			text.NewCol(2, severityLabel(a.Severity), bold),
			text.NewCol(10, a.Message, body),
		)
	}

	m.AddRow(10, text.NewCol(12, "Comparação com a turma", heading))
	if bundle.Cohort.Averages == nil {
		m.AddRow(7, text.NewCol(12, "Sem dados da turma para o período.", body))
	} else {
		m.AddRow(7,
			text.NewCol(6, "Métrica", bold),
			text.NewCol(3, "Mentorado", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(3, fmt.Sprintf("Turma (%d)", bundle.Cohort.PeerCount), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		)
		for _, kind := range performancedomain.AllMetrics {
			mentee := "-"
			if bundle.Cohort.Mentee != nil {
				mentee = formatValue(kind, bundle.Cohort.Mentee.Get(kind))
			}
			m.AddRow(6,
				text.NewCol(6, kind.Label(), body),
				text.NewCol(3, mentee, right),
				text.NewCol(3, formatValue(kind, bundle.Cohort.Averages.Get(kind)), right),
			)
		}
	}

	m.AddRow(10, text.NewCol(12, "Última call", heading))
	if note := bundle.LastCallNote; note == nil {
		m.AddRow(7, text.NewCol(12, "Nenhuma call registrada.", body))
	} else {
		m.AddRow(7, text.NewCol(12, fmt.Sprintf("%s (%d min)", note.CallDate.Format("02/01/2006"), note.DurationMinutes), bold))
		m.AddRow(10, text.NewCol(3, "Insights", bold), text.NewCol(9, note.Insights, body))
		m.AddRow(10, text.NewCol(3, "Ações acordadas", bold), text.NewCol(9, note.AgreedActions, body))
		m.AddRow(10, text.NewCol(3, "Próximos passos", bold), text.NewCol(9, note.NextSteps, body))
	}

	m.AddRow(10, text.NewCol(12, "Sugestões de pauta ("+sourceLabel(bundle.Suggestions.Source)+")", heading))
	for i, s := range bundle.Suggestions.Suggestions {
		m.AddRow(12,
			col.New(12).Add(
				text.New(fmt.Sprintf("%d. %s", i+1, s.Topic), bold),
				text.New(s.Rationale, props.Text{Size: 8, Top: 4}),
			),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func periodLabel(b callprepdomain.Bundle) string {
	label := fmt.Sprintf("%02d/%d", b.Period.Month, b.Period.Year)
	if b.UsedFallback && b.ReferencePeriod != nil {
		label += fmt.Sprintf(" (dados de %02d/%d)", b.ReferencePeriod.Month, b.ReferencePeriod.Year)
	}
	return label
}

func severityLabel(s alertdomain.Severity) string {
	switch s {
	case alertdomain.SeverityRed:
		return "CRÍTICO"
	case alertdomain.SeverityYellow:
		return "ATENÇÃO"
	default:
		return "OK"
	}
}

func sourceLabel(s suggestiondomain.Source) string {
	if s == suggestiondomain.SourceAI {
		return "IA"
	}
	return "regras"
}

func formatValue(kind performancedomain.MetricKind, v float64) string {
	switch kind {
	case performancedomain.MetricRevenue, performancedomain.MetricProfit:
		return "R$ " + strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
	default:
		return strings.Replace(fmt.Sprintf("%.1f", v), ".", ",", 1)
	}
}
