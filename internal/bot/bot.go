package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"household-planner/internal/model"
	"household-planner/internal/service"
)

const (
	cbCompletePrefix = "complete:"
	cbUndoPrefix     = "undo:"
)

const (
	menuLabelToday    = "📋 Today"
	menuLabelTomorrow = "📅 Tomorrow"
	menuLabelHelp     = "ℹ️ Help"
)

// Bot serves the household plan over Telegram private chats.
type Bot struct {
	api       *tgbotapi.BotAPI
	engine    *service.Engine
	summary   *service.SummaryService
	snapshots *service.SnapshotJob
	log       *zap.SugaredLogger
}

func New(token string, engine *service.Engine, summary *service.SummaryService, snapshots *service.SnapshotJob, log *zap.SugaredLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Infow("bot authorized", "account", api.Self.UserName)

	return &Bot{
		api:       api,
		engine:    engine,
		summary:   summary,
		snapshots: snapshots,
		log:       log,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Errorw("handle callback", "error", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Errorw("handle message", "error", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		b.log.Infow("command", "user", msg.From.ID, "command", msg.Command(), "args", msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	switch strings.ToLower(strings.TrimSpace(msg.Text)) {
	case strings.ToLower(menuLabelToday):
		return b.sendDay(ctx, msg.Chat.ID, b.engine.Today())
	case strings.ToLower(menuLabelTomorrow):
		return b.sendDay(ctx, msg.Chat.ID, b.engine.Today().AddDays(1))
	case strings.ToLower(menuLabelHelp):
		return b.handleHelp(msg)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Try /today or /help.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(msg)
	case "today":
		return b.sendDay(ctx, msg.Chat.ID, b.engine.Today())
	case "day":
		date, err := parseDayArg(msg.CommandArguments(), b.engine.Today())
		if err != nil {
			return b.sendText(msg.Chat.ID, "Use /day 2024-03-04, /day tomorrow or /day -1.")
		}
		return b.sendDay(ctx, msg.Chat.ID, date)
	case "complete":
		return b.handleStatus(ctx, msg, service.IntentComplete)
	case "undo":
		return b.handleStatus(ctx, msg, service.IntentUncomplete)
	case "close":
		return b.handleClose(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command, see /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I keep track of the household chores.</b>\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

const helpText = "• /today — today's tasks\n" +
	"• /day &lt;YYYY-MM-DD|tomorrow|yesterday|±N&gt; — tasks of another day\n" +
	"• /complete &lt;id&gt; — mark a task done\n" +
	"• /undo &lt;id&gt; — mark a task not done\n" +
	"• /close [YYYY-MM-DD] — close a day, freezing its tasks\n" +
	"• /help — this list"

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, "ℹ️ <b>Commands</b>\n"+helpText)
}

func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message, intent service.Intent) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Give the task number: /%s 12", msg.Command()))
	}
	taskID, err := parseTaskID(args, "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "The task number must be a number.")
	}
	return b.applyAndRefresh(ctx, msg.Chat.ID, taskID, intent)
}

func (b *Bot) handleClose(ctx context.Context, msg *tgbotapi.Message) error {
	date, err := parseDayArg(msg.CommandArguments(), b.engine.Today())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Use /close or /close 2024-03-04.")
	}
	count, err := b.snapshots.Run(ctx, date)
	if err != nil {
		return b.sendText(msg.Chat.ID, errorReply(err))
	}
	b.log.Infow("day closed from chat", "chat", msg.Chat.ID, "date", date, "snapshots", count)
	return b.sendDay(ctx, msg.Chat.ID, date)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warnw("callback ack", "error", err)
	}

	data := cb.Data
	var intent service.Intent
	var prefix string
	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		intent, prefix = service.IntentComplete, cbCompletePrefix
	case strings.HasPrefix(data, cbUndoPrefix):
		intent, prefix = service.IntentUncomplete, cbUndoPrefix
	default:
		return nil
	}

	taskID, err := parseTaskID(data, prefix)
	if err != nil {
		return nil
	}
	b.log.Infow("callback", "user", cb.From.ID, "intent", intent, "task", taskID)
	return b.applyAndRefresh(ctx, cb.Message.Chat.ID, taskID, intent)
}

func (b *Bot) applyAndRefresh(ctx context.Context, chatID int64, taskID uint, intent service.Intent) error {
	res, err := b.engine.Apply(ctx, service.Mutation{Intent: intent, OccurrenceID: taskID})
	if err != nil {
		return b.sendText(chatID, errorReply(err))
	}
	return b.sendDay(ctx, chatID, res.Occurrence.ScheduledDate)
}

func (b *Bot) sendDay(ctx context.Context, chatID int64, date model.Date) error {
	summary, err := b.summary.DaySummary(ctx, date)
	if err != nil {
		return b.sendText(chatID, errorReply(err))
	}

	msg := tgbotapi.NewMessage(chatID, summary.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup, ok := taskKeyboard(summary.View); ok {
		msg.ReplyMarkup = markup
	}
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}
