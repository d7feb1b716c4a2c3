package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"household-planner/internal/model"
)

const (
	iconDone      = "✅"
	iconRequired  = "🔴"
	iconOptional  = "🟡"
	iconRecurring = "♻️"
)

// SummaryService builds human-readable day summaries for chat delivery.
type SummaryService struct {
	engine *Engine
}

func NewSummaryService(engine *Engine) *SummaryService {
	return &SummaryService{engine: engine}
}

// Summary is a rendered day together with the view it was rendered from.
type Summary struct {
	View DayView
	Text string
}

// DaySummary renders the merged view of a day as Telegram HTML.
func (s *SummaryService) DaySummary(ctx context.Context, date model.Date) (*Summary, error) {
	view, err := s.engine.Day(ctx, date)
	if err != nil {
		return nil, err
	}
	return &Summary{View: view, Text: RenderDay(date, view.Occurrences)}, nil
}

// RenderDay formats occurrences already ordered for display.
func RenderDay(date model.Date, occurrences []model.Occurrence) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("📋 <b>%s, %s</b>\n", date.Weekday(), date.Time().Format("02.01.2006")))
	if len(occurrences) > 0 && occurrences[0].IsSnapshot() {
		builder.WriteString("🔒 Day closed, read-only\n")
	}
	builder.WriteByte('\n')

	if len(occurrences) == 0 {
		builder.WriteString("— nothing planned\n")
		return strings.TrimSpace(builder.String())
	}

	done, left, total := 0, 0, 0
	for _, occ := range occurrences {
		builder.WriteString(formatOccurrence(occ))
		total += occ.ExpectedMinutes
		if occ.IsCompleted() {
			done++
		} else {
			left += occ.ExpectedMinutes
		}
	}

	builder.WriteString(fmt.Sprintf("\nDone %d/%d · %d of %d min left", done, len(occurrences), left, total))
	return strings.TrimSpace(builder.String())
}

func formatOccurrence(occ model.Occurrence) string {
	var sb strings.Builder

	icon := iconOptional
	switch {
	case occ.IsCompleted():
		icon = iconDone
	case occ.Priority == model.PriorityRequired:
		icon = iconRequired
	}

	title := html.EscapeString(strings.TrimSpace(occ.Title))
	sb.WriteString(fmt.Sprintf("%s #%d %s · %d min", icon, occ.ID, title, occ.ExpectedMinutes))
	if !occ.IsOneOff() {
		sb.WriteString(" " + iconRecurring)
	}

	if occ.Description != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(strings.TrimSpace(occ.Description))))
	}

	sb.WriteByte('\n')
	return sb.String()
}
