package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	performancedomain "github.com/smallbiznis/mentorhub/internal/performance/domain"
	"github.com/smallbiznis/mentorhub/internal/suggestion/domain"
)

const systemPrompt = `Você é um mentor de negócios para profissionais de saúde e estética.
Sugira de 3 a 5 tópicos objetivos para a próxima call de mentoria.
Responda somente com um array JSON no formato:
[{"topic": "...", "rationale": "...", "metric": "revenue|leads|procedures|feed_posts|stories|"}]`

func buildPrompt(in domain.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mentorado: %s\n", in.MenteeName)
	fmt.Fprintf(&b, "Mês de referência: %s\n", in.Period.String())
	if in.NoRecord {
		b.WriteString("Atenção: o mentorado não enviou métricas para o mês de referência.\n")
	}

	if len(in.Alerts) == 0 {
		b.WriteString("Alertas: nenhum\n")
	} else {
		b.WriteString("Alertas:\n")
		for _, a := range in.Alerts {
			fmt.Fprintf(&b, "- [%s] %s\n", a.Severity, a.Message)
		}
	}

	if in.Current != nil {
		b.WriteString("Métricas atuais:\n")
		writeMetrics(&b, *in.Current)
	}
	if in.Cohort != nil {
		b.WriteString("Média da turma:\n")
		writeMetrics(&b, *in.Cohort)
	}
	return b.String()
}

func writeMetrics(b *strings.Builder, m performancedomain.MetricAverages) {
	for _, kind := range performancedomain.AllMetrics {
		fmt.Fprintf(b, "- %s: %.2f\n", kind.Label(), m.Get(kind))
	}
}

type rawSuggestion struct {
	Topic     string `json:"topic"`
	Rationale string `json:"rationale"`
	Metric    string `json:"metric"`
}

// parseSuggestions accepts a bare JSON array or one wrapped in a markdown fence.
func parseSuggestions(content string) ([]domain.Suggestion, error) {
	content = stripFence(strings.TrimSpace(content))
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var raw []rawSuggestion
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	out := make([]domain.Suggestion, 0, len(raw))
	for _, r := range raw {
		topic := strings.TrimSpace(r.Topic)
		if topic == "" {
			continue
		}
		out = append(out, domain.Suggestion{
			Topic:     topic,
			Rationale: strings.TrimSpace(r.Rationale),
			Metric:    knownMetric(r.Metric),
		})
	}
	return out, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func knownMetric(raw string) performancedomain.MetricKind {
	kind := performancedomain.MetricKind(strings.TrimSpace(raw))
	for _, k := range performancedomain.AllMetrics {
		if k == kind {
			return k
		}
	}
	return ""
}

