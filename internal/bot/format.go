package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"household-planner/internal/model"
	"household-planner/internal/service"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelTomorrow),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

// taskKeyboard builds one toggle button per task. Closed days get none.
func taskKeyboard(view service.DayView) (tgbotapi.InlineKeyboardMarkup, bool) {
	if view.Closed || len(view.Occurrences) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(view.Occurrences))
	for _, occ := range view.Occurrences {
		label := fmt.Sprintf("✅ #%d · %s", occ.ID, shortTitle(occ.Title, 24))
		data := fmt.Sprintf("%s%d", cbCompletePrefix, occ.ID)
		if occ.IsCompleted() {
			label = fmt.Sprintf("↩️ #%d · %s", occ.ID, shortTitle(occ.Title, 24))
			data = fmt.Sprintf("%s%d", cbUndoPrefix, occ.ID)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func parseTaskID(data, prefix string) (uint, error) {
	raw := strings.TrimPrefix(data, prefix)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

// parseDayArg accepts a date, a relative word or a signed day offset.
// Empty input means today.
func parseDayArg(args string, today model.Date) (model.Date, error) {
	arg := strings.ToLower(strings.TrimSpace(args))
	switch arg {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	if offset, err := strconv.Atoi(arg); err == nil {
		return today.AddDays(offset), nil
	}
	return model.ParseDate(arg)
}

// errorReply turns an engine error into a chat answer.
func errorReply(err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return "Task not found."
	case errors.Is(err, service.ErrImmutableRecord):
		return "🔒 That day is closed and can no longer be changed."
	case errors.Is(err, service.ErrAmbiguousIntent):
		return "🤔 " + escape(err.Error())
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidRecurrence):
		return "Invalid input: " + escape(err.Error())
	default:
		return "Something went wrong, try again later."
	}
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func escape(s string) string {
	return html.EscapeString(s)
}
