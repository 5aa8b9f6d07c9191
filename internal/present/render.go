package present

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/internal/screener"
	"github.com/wonny/rsystem/pkg/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Title is the dashboard heading
const Title = "高値ブレイク銘柄スクリーナー"

var funcMap = template.FuncMap{
	"percent":    Percent,
	"multiplier": Multiplier,
}

// Option is one selectable tab
type Option struct {
	Value  string
	Label  string
	Active bool
}

// DashboardPage is everything the dashboard template needs
type DashboardPage struct {
	Title          string
	Metric         contracts.Metric
	Metrics        []Option
	RangeLabel     string
	HighLabel      string
	SourceSpan     string
	Ranking        []RankingRow
	RankingNotices contracts.Notices
	Summary        Summary
	Day            contracts.Source
	Days           []Option
	Daily          []DailyRow
	DailyNotices   contracts.Notices
	GeneratedAt    string
}

// LoginPage is the password form state
type LoginPage struct {
	Title  string
	Failed bool
	Next   string
}

// Renderer executes the embedded page templates
type Renderer struct {
	dashboard *template.Template
	login     *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	dashboard, err := template.New("dashboard.html").Funcs(funcMap).ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	login, err := template.New("login.html").ParseFS(templateFS, "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login template: %w", err)
	}
	return &Renderer{dashboard: dashboard, login: login}, nil
}

// NewDashboardPage assembles the page from one ranking run and one filtered day list
func NewDashboardPage(ranking screener.RankingResult, daily screener.DailyResult, links config.LinkConfig) DashboardPage {
	metrics := make([]Option, 0, 2)
	for _, m := range []contracts.Metric{contracts.MetricRange, contracts.MetricHigh} {
		metrics = append(metrics, Option{Value: string(m), Label: m.Label(), Active: m == ranking.Metric})
	}

	days := make([]Option, 0, len(contracts.AllSources))
	for _, s := range contracts.AllSources {
		days = append(days, Option{Value: string(s), Label: s.Label(), Active: s == daily.Source})
	}

	return DashboardPage{
		Title:          Title,
		Metric:         ranking.Metric,
		Metrics:        metrics,
		RangeLabel:     contracts.MetricRange.Label(),
		HighLabel:      contracts.MetricHigh.Label(),
		SourceSpan:     sourceSpan(ranking.Sources),
		Ranking:        FormatRanking(ranking.Rows, links),
		RankingNotices: ranking.Notices,
		Summary:        Summarize(ranking.Rows, ranking.Metric),
		Day:            daily.Source,
		Days:           days,
		Daily:          FormatDaily(daily.Rows, links),
		DailyNotices:   daily.Notices,
		GeneratedAt:    ranking.GeneratedAt.Format("2006-01-02 15:04"),
	}
}

// sourceSpan names the first and last source, e.g. "本日〜3日前"
func sourceSpan(sources []contracts.Source) string {
	switch len(sources) {
	case 0:
		return ""
	case 1:
		return sources[0].Label()
	}
	return strings.Join([]string{sources[0].Label(), sources[len(sources)-1].Label()}, "〜")
}

// Dashboard writes the dashboard page
func (r *Renderer) Dashboard(w io.Writer, page DashboardPage) error {
	return r.dashboard.Execute(w, page)
}

// Login writes the password form
func (r *Renderer) Login(w io.Writer, page LoginPage) error {
	if page.Title == "" {
		page.Title = Title
	}
	return r.login.Execute(w, page)
}
