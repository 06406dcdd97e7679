// Package report renders analytics results as JSON, YAML or aligned text tables.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fjacquet/ledger-analytics/internal/logging"
	"fjacquet/ledger-analytics/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// ErrUnsupportedFormat is returned for unknown formats and for values that have no
// text layout.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatText:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
}

// Generator renders report values.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator. A nil logger discards output.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Generator{logger: logger.WithField(logging.FieldComponent, "report")}
}

// Generate renders v in the given format. Money values are written with two decimal
// places in every format.
func (g *Generator) Generate(v any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(encodable(v), "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		out, err := yaml.Marshal(encodable(v))
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return out, nil
	case FormatText:
		var buf bytes.Buffer
		if err := g.text(&buf, v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Write renders v and writes it to w.
func (g *Generator) Write(w io.Writer, v any, format Format) error {
	out, err := g.Generate(v, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	g.logger.Debug("Report written",
		logging.F(logging.FieldFormat, string(format)),
		logging.F("bytes", len(out)))
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(models.MoneyPlaces)
}

func percent(f float64) string {
	return fmt.Sprintf("%+.2f%%", f)
}

func (g *Generator) text(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	switch r := v.(type) {
	case models.AllAnalytics:
		writeAll(tw, r)
	case *models.AllAnalytics:
		writeAll(tw, *r)
	case TrendsReport:
		writeTrends(tw, r)
	case CategoriesReport:
		writeCategories(tw, r)
	case NetWorthReport:
		writeNetWorth(tw, r)
	case []models.CategorySpending:
		writeCategoryTable(tw, r)
	case []models.PeriodTrend:
		writePeriodTable(tw, r)
	default:
		return fmt.Errorf("%w: no text layout for %T", ErrUnsupportedFormat, v)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write text report: %w", err)
	}
	return nil
}

func writeAll(w io.Writer, a models.AllAnalytics) {
	fmt.Fprintf(w, "Range:\t%s\n", a.Range)
	fmt.Fprintf(w, "Generated:\t%s\n", a.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Transactions:\t%d\n", a.Quick.TransactionCount)
	fmt.Fprintf(w, "Income:\t%s\n", money(a.Quick.Income))
	fmt.Fprintf(w, "Spending:\t%s\n", money(a.Quick.Spending))
	fmt.Fprintf(w, "Net savings:\t%s\n", money(a.Quick.NetSavings))
	fmt.Fprintf(w, "Average daily spending:\t%s\n", money(a.AverageDailySpending))
	fmt.Fprintf(w, "Net worth:\t%s\n", money(a.NetWorth))
	fmt.Fprintln(w)
	writeSummary(w, a.Trends)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Top categories")
	writeCategoryTable(w, a.TopCategories)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Monthly")
	fmt.Fprintln(w, "MONTH\tINCOME\tSPENDING\tNET")
	for _, m := range a.MonthlySpending {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Month, money(m.Income), money(m.Spending), money(m.Net))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trend")
	writePeriodTable(w, a.SpendingTrends)
}

func writeSummary(w io.Writer, s models.TrendSummary) {
	fmt.Fprintln(w, "Change vs previous period")
	fmt.Fprintf(w, "  Net worth:\t%s\n", percent(s.NetWorth))
	fmt.Fprintf(w, "  Income:\t%s\n", percent(s.Income))
	fmt.Fprintf(w, "  Spending:\t%s\n", percent(s.Spending))
	fmt.Fprintf(w, "  Savings rate:\t%s\n", percent(s.Savings))
}

func writeCategoryTable(w io.Writer, rows []models.CategorySpending) {
	fmt.Fprintln(w, "CATEGORY\tAMOUNT\tCOLOR")
	for _, c := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Category, money(c.Amount), c.Color)
	}
}

func writePeriodTable(w io.Writer, rows []models.PeriodTrend) {
	fmt.Fprintln(w, "PERIOD\tINCOME\tSPENDING\tNET")
	for _, p := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Period, money(p.Income), money(p.Spending), money(p.Net))
	}
}

func writeTrends(w io.Writer, r TrendsReport) {
	fmt.Fprintf(w, "Range:\t%s\n\n", r.Range)
	writePeriodTable(w, r.Periods)
	if len(r.ByCategory) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "PERIOD\tCATEGORY\tAMOUNT")
		for _, p := range r.ByCategory {
			for _, c := range p.Categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Period, c.Category, money(c.Amount))
			}
		}
	}
	fmt.Fprintln(w)
	writeSummary(w, r.Summary)
}

func writeCategories(w io.Writer, r CategoriesReport) {
	fmt.Fprintf(w, "Range:\t%s\n\n", r.Range)
	writeCategoryTable(w, r.Categories)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Top %d\n", len(r.Top))
	for i, c := range r.Top {
		fmt.Fprintf(w, "%d.\t%s\t%s\n", i+1, c.Category, money(c.Amount))
	}
}

func writeNetWorth(w io.Writer, r NetWorthReport) {
	fmt.Fprintf(w, "Scope:\t%s\n", r.Scope)
	fmt.Fprintf(w, "Accounts:\t%d\n", r.Accounts)
	fmt.Fprintf(w, "Net worth:\t%s\n", money(r.NetWorth))
	fmt.Fprintf(w, "Trend (%s):\t%s\n", r.Range, percent(r.Trend))
}
