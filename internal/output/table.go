package output

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/starfollow/starfollow/internal/core"
)

// TableFormatter renders a run summary as an ASCII table.
type TableFormatter struct{}

// FormatSummary renders one row per follow attempt plus a footer summary.
func (f *TableFormatter) FormatSummary(summary *core.RunSummary) (string, error) {
	if summary == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Login", "Outcome", "Status", "Notes"})

	for _, attempt := range summary.Attempts {
		if attempt == nil {
			continue
		}
		t.AppendRow(table.Row{
			attempt.Identity.Login,
			attempt.Kind.String(),
			statusLabel(attempt),
			notes(attempt),
		})
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("%s/%s", summary.Owner, summary.Repo),
		fmt.Sprintf("%d followed", summary.Followed),
		fmt.Sprintf("%d pages", summary.PagesFetched),
		footerNotes(summary),
	})

	return t.Render(), nil
}

func statusLabel(attempt *core.Outcome) string {
	if attempt.StatusCode == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", attempt.StatusCode)
}

func notes(attempt *core.Outcome) string {
	switch attempt.Kind {
	case core.OutcomeRateLimited:
		return fmt.Sprintf("retry in %s", attempt.RetryAfter.Round(time.Second))
	case core.OutcomeSucceeded:
		if attempt.Quota != nil {
			return fmt.Sprintf("quota %d/%d", attempt.Quota.Remaining, attempt.Quota.Limit)
		}
		return ""
	default:
		return attempt.Message
	}
}

func footerNotes(summary *core.RunSummary) string {
	value := ""
	if summary.Denied > 0 {
		value += fmt.Sprintf("%d denied ", summary.Denied)
	}
	if summary.RateLimited > 0 {
		value += fmt.Sprintf("%d throttled ", summary.RateLimited)
	}
	if summary.Failed > 0 {
		value += fmt.Sprintf("%d failed", summary.Failed)
	}
	return value
}
