// Package fallback holds the rule-based topics used when no AI provider
// answers.
package fallback

import (
	"sort"

	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"github.com/smallbiznis/mentorhub/internal/suggestion/domain"
)

const MaxSuggestions = 5

type key struct {
	metric   performancedomain.MetricKind
	severity alertdomain.Severity
}

var table = map[key]domain.Suggestion{
	{performancedomain.MetricRevenue, alertdomain.SeverityRed}: {
		Topic:     "Plano de recuperação de faturamento",
		Rationale: "Faturamento em queda crítica; revisar precificação, ticket médio e agenda das próximas semanas.",
	},
	{performancedomain.MetricRevenue, alertdomain.SeverityYellow}: {
		Topic:     "Ticket médio e conversão de consultas",
		Rationale: "Faturamento abaixo do histórico; investigar se a queda vem de volume ou de valor por atendimento.",
	},
	{performancedomain.MetricLeads, alertdomain.SeverityRed}: {
		Topic:     "Captação de leads",
		Rationale: "Entrada de leads despencou; revisar canais de aquisição, anúncios ativos e parcerias.",
	},
	{performancedomain.MetricLeads, alertdomain.SeverityYellow}: {
		Topic:     "Canais de aquisição",
		Rationale: "Leads abaixo da média; checar qual canal perdeu tração no último mês.",
	},
	{performancedomain.MetricProcedures, alertdomain.SeverityRed}: {
		Topic:     "Conversão de leads em procedimentos",
		Rationale: "Procedimentos em queda forte; revisar roteiro de atendimento e follow-up de orçamentos.",
	},
	{performancedomain.MetricProcedures, alertdomain.SeverityYellow}: {
		Topic:     "Agenda e taxa de comparecimento",
		Rationale: "Procedimentos abaixo do esperado; verificar faltas, remarcações e ociosidade de agenda.",
	},
	{performancedomain.MetricFeedPosts, alertdomain.SeverityRed}: {
		Topic:     "Retomar calendário editorial",
		Rationale: "Publicações no feed praticamente pararam; definir uma rotina mínima de conteúdo.",
	},
	{performancedomain.MetricFeedPosts, alertdomain.SeverityYellow}: {
		Topic:     "Consistência de conteúdo no feed",
		Rationale: "Frequência de posts caiu; combinar metas semanais realistas.",
	},
	{performancedomain.MetricStories, alertdomain.SeverityRed}: {
		Topic:     "Presença diária nos stories",
		Rationale: "Stories caíram de forma crítica; retomar bastidores e provas sociais no dia a dia.",
	},
	{performancedomain.MetricStories, alertdomain.SeverityYellow}: {
		Topic:     "Engajamento nos stories",
		Rationale: "Volume de stories abaixo do habitual; revisar formatos que geram mais respostas.",
	},
}

var noRecord = domain.Suggestion{
	Topic:     "Envio das métricas do mês",
	Rationale: "Não há registro de métricas para o mês; alinhar o preenchimento antes de analisar resultados.",
}

var momentum = domain.Suggestion{
	Topic:     "Manter o ritmo e definir próximas metas",
	Rationale: "Nenhum indicador em alerta; aproveitar a call para consolidar o que funcionou e subir a meta.",
}

// Suggestions maps alerts to topics, most severe first and then in the
// reporting order of metrics.
func Suggestions(alerts []alertdomain.Alert) []domain.Suggestion {
	ordered := make([]alertdomain.Alert, len(alerts))
	copy(ordered, alerts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Severity != ordered[j].Severity {
			return ordered[i].Severity > ordered[j].Severity
		}
		return rank(ordered[i]) < rank(ordered[j])
	})

	out := make([]domain.Suggestion, 0, MaxSuggestions)
	seen := make(map[string]struct{})
	for _, alert := range ordered {
		s, ok := lookup(alert)
		if !ok {
			continue
		}
		if _, dup := seen[s.Topic]; dup {
			continue
		}
		seen[s.Topic] = struct{}{}
		out = append(out, s)
		if len(out) == MaxSuggestions {
			break
		}
	}

	if len(out) == 0 {
		out = append(out, momentum)
	}
	return out
}

// Result wraps Suggestions with the fallback source tag.
func Result(alerts []alertdomain.Alert) domain.Result {
	return domain.Result{Suggestions: Suggestions(alerts), Source: domain.SourceFallback}
}

func lookup(alert alertdomain.Alert) (domain.Suggestion, bool) {
	if alert.Type == alertdomain.AlertTypeNoRecord {
		return noRecord, true
	}
	s, ok := table[key{alert.Metric, alert.Severity}]
	if !ok {
		return domain.Suggestion{}, false
	}
	s.Metric = alert.Metric
	return s, true
}

func rank(alert alertdomain.Alert) int {
	if alert.Type == alertdomain.AlertTypeNoRecord {
		return -1
	}
	for i, kind := range performancedomain.AlertedMetrics {
		if kind == alert.Metric {
			return i
		}
	}
	return len(performancedomain.AlertedMetrics)
}
