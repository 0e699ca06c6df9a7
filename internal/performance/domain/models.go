package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MonthlyMetric is one mentee's submission for one calendar month. A missing
// row means the month was not submitted; a row of zeros is a real submission.
type MonthlyMetric struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;uniqueIndex:ux_monthly_metrics_period,priority:1" json:"organization_id"`
	MenteeID    snowflake.ID `gorm:"not null;uniqueIndex:ux_monthly_metrics_period,priority:2" json:"mentee_id"`
	Year        int          `gorm:"not null;uniqueIndex:ux_monthly_metrics_period,priority:3" json:"year"`
	Month       int          `gorm:"not null;uniqueIndex:ux_monthly_metrics_period,priority:4" json:"month"`
	Revenue     float64      `gorm:"not null;default:0" json:"revenue"`
	Profit      float64      `gorm:"not null;default:0" json:"profit"`
	Leads       int64        `gorm:"not null;default:0" json:"leads"`
	Procedures  int64        `gorm:"not null;default:0" json:"procedures"`
	FeedPosts   int64        `gorm:"not null;default:0" json:"feed_posts"`
	Stories     int64        `gorm:"not null;default:0" json:"stories"`
	SubmittedAt time.Time    `gorm:"not null" json:"submitted_at"`
}

func (MonthlyMetric) TableName() string { return "monthly_metrics" }

func (m MonthlyMetric) Period() Period {
	return Period{Year: m.Year, Month: m.Month}
}

// MetricKind names one tracked figure of a MonthlyMetric.
type MetricKind string

const (
	MetricRevenue    MetricKind = "revenue"
	MetricProfit     MetricKind = "profit"
	MetricLeads      MetricKind = "leads"
	MetricProcedures MetricKind = "procedures"
	MetricFeedPosts  MetricKind = "feed_posts"
	MetricStories    MetricKind = "stories"
)

// AlertedMetrics are checked for anomalies, in reporting order.
var AlertedMetrics = []MetricKind{
	MetricRevenue,
	MetricLeads,
	MetricProcedures,
	MetricFeedPosts,
	MetricStories,
}

// AllMetrics includes profit, which is compared but never alerted on.
var AllMetrics = []MetricKind{
	MetricRevenue,
	MetricProfit,
	MetricLeads,
	MetricProcedures,
	MetricFeedPosts,
	MetricStories,
}

func (k MetricKind) Value(m MonthlyMetric) float64 {
	switch k {
	case MetricRevenue:
		return m.Revenue
	case MetricProfit:
		return m.Profit
	case MetricLeads:
		return float64(m.Leads)
	case MetricProcedures:
		return float64(m.Procedures)
	case MetricFeedPosts:
		return float64(m.FeedPosts)
	case MetricStories:
		return float64(m.Stories)
	default:
		return 0
	}
}

// Label is the name shown to mentors.
func (k MetricKind) Label() string {
	switch k {
	case MetricRevenue:
		return "Faturamento"
	case MetricProfit:
		return "Lucro"
	case MetricLeads:
		return "Leads"
	case MetricProcedures:
		return "Procedimentos"
	case MetricFeedPosts:
		return "Posts no feed"
	case MetricStories:
		return "Stories"
	default:
		return string(k)
	}
}

// MetricAverages carries one value per tracked metric.
type MetricAverages struct {
	Revenue    float64 `json:"revenue"`
	Profit     float64 `json:"profit"`
	Leads      float64 `json:"leads"`
	Procedures float64 `json:"procedures"`
	FeedPosts  float64 `json:"feed_posts"`
	Stories    float64 `json:"stories"`
}

func (a MetricAverages) Get(k MetricKind) float64 {
	switch k {
	case MetricRevenue:
		return a.Revenue
	case MetricProfit:
		return a.Profit
	case MetricLeads:
		return a.Leads
	case MetricProcedures:
		return a.Procedures
	case MetricFeedPosts:
		return a.FeedPosts
	case MetricStories:
		return a.Stories
	default:
		return 0
	}
}

func (a *MetricAverages) Set(k MetricKind, v float64) {
	switch k {
	case MetricRevenue:
		a.Revenue = v
	case MetricProfit:
		a.Profit = v
	case MetricLeads:
		a.Leads = v
	case MetricProcedures:
		a.Procedures = v
	case MetricFeedPosts:
		a.FeedPosts = v
	case MetricStories:
		a.Stories = v
	}
}

// ValuesOf projects a single row onto MetricAverages.
func ValuesOf(m MonthlyMetric) MetricAverages {
	var out MetricAverages
	for _, k := range AllMetrics {
		out.Set(k, k.Value(m))
	}
	return out
}
