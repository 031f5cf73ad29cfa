package builtin

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/codemarcinu/steward/internal/schema"
	"github.com/codemarcinu/steward/internal/store"
	"github.com/codemarcinu/steward/internal/tool"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// SpendingSummaryHandler aggregates spending entries over a period.
type SpendingSummaryHandler struct {
	spending store.SpendingDAO
	now      func() time.Time
}

// NewSpendingSummaryHandler creates the get_spending_summary handler.
func NewSpendingSummaryHandler(spending store.SpendingDAO, now func() time.Time) *SpendingSummaryHandler {
	if now == nil {
		now = time.Now
	}
	return &SpendingSummaryHandler{spending: spending, now: now}
}

func (h *SpendingSummaryHandler) Definition() tool.Definition {
	return tool.Definition{
		Name:        "get_spending_summary",
		Description: "Summarize the user's spending for a period. Use when the user asks how much they spent.",
		Parameters: schema.NewObjectSchema(map[string]schema.SchemaField{
			"period":   schema.NewStringField("Period to summarize: a month as YYYY-MM, or one of today, this_week, this_month"),
			"category": schema.NewStringField("Optional category to narrow the summary to"),
		}, []string{"period"}),
	}
}

func (h *SpendingSummaryHandler) Execute(ctx context.Context, args map[string]any) (string, error) {
	var in struct {
		Period   string `mapstructure:"period"`
		Category string `mapstructure:"category"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}

	from, to, label, err := resolvePeriod(in.Period, h.now())
	if err != nil {
		return "", err
	}

	summary, err := h.spending.Summarize(ctx, from, to, in.Category)
	if err != nil {
		return "", err
	}

	if summary.Count == 0 {
		if in.Category != "" {
			return fmt.Sprintf("No %s spending recorded for %s.", in.Category, label), nil
		}
		return fmt.Sprintf("No spending recorded for %s.", label), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Spent %s across %d entries %s.",
		formatMoney(summary.TotalCents, summary.Currency), summary.Count, label)

	if in.Category == "" && len(summary.ByCategory) > 1 {
		parts := make([]string, 0, len(summary.ByCategory))
		for _, ct := range summary.ByCategory {
			parts = append(parts, fmt.Sprintf("%s %s", ct.Category, formatMoney(ct.TotalCents, summary.Currency)))
		}
		fmt.Fprintf(&b, " Breakdown: %s.", strings.Join(parts, ", "))
	}
	return b.String(), nil
}

// resolvePeriod turns a period keyword or YYYY-MM month into a
// half-open [from, to) range plus a human label. Weeks start Monday.
func resolvePeriod(period string, now time.Time) (time.Time, time.Time, string, error) {
	period = strings.ToLower(strings.TrimSpace(period))

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case "today":
		return midnight, midnight.AddDate(0, 0, 1), "today", nil

	case "this_week":
		weekday := int(midnight.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := midnight.AddDate(0, 0, -(weekday - 1))
		return monday, monday.AddDate(0, 0, 7), "this week", nil

	case "this_month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, 0), "this month", nil
	}

	if monthPattern.MatchString(period) {
		first, err := time.ParseInLocation("2006-01", period, now.Location())
		if err == nil {
			return first, first.AddDate(0, 1, 0), "in " + period, nil
		}
	}

	return time.Time{}, time.Time{}, "", fmt.Errorf(
		"unsupported period %q: want YYYY-MM, today, this_week, or this_month", period)
}

func formatMoney(cents int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(cents)/100, currency)
}
