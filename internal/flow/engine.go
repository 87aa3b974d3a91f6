// Package flow drives the conversation state machines: manual expense entry,
// photo-derived entry, and month change. The engine owns session lifecycle
// and is the only caller of the expense sink.
package flow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gsantin/spesebot/internal/auth"
	"github.com/gsantin/spesebot/internal/expense"
	"github.com/gsantin/spesebot/internal/extractor"
	"github.com/gsantin/spesebot/internal/metrics"
	"github.com/gsantin/spesebot/internal/sink"
)

// Choice token prefixes. Tokens that do not match the expected shape for the
// current step are ignored, which keeps stale or replayed button presses
// harmless.
const (
	tokenCategoryPrefix = "cat:"
	tokenMonthPrefix    = "month:"
	tokenConfirm        = "confirm"
	tokenDecline        = "decline"
)

type Engine struct {
	gate      *auth.Gate
	sessions  *SessionStore
	world     *World
	sink      sink.Sink
	extractor extractor.Extractor
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewEngine(gate *auth.Gate, world *World, snk sink.Sink, ext extractor.Extractor, m *metrics.Metrics, logger *zap.Logger) *Engine {
	return &Engine{
		gate:      gate,
		sessions:  NewSessionStore(),
		world:     world,
		sink:      snk,
		extractor: ext,
		metrics:   m,
		logger:    logger,
	}
}

// Sessions exposes the session store, mainly for tests.
func (e *Engine) Sessions() *SessionStore {
	return e.sessions
}

// Handle runs one inbound event through authorization and the active flow,
// returning the replies to deliver. A nil slice means the event was ignored.
func (e *Engine) Handle(ctx context.Context, ev Event) []Output {
	if !e.gate.Authorize(ev.UserID()) {
		e.metrics.Unauthorized.Inc()
		return []Output{Ack(auth.RejectionMessage)}
	}

	switch event := ev.(type) {
	case CommandInput:
		return e.handleCommand(ctx, event)
	case TextInput:
		return e.handleText(event)
	case ChoiceInput:
		return e.handleChoice(ctx, event)
	case AttachmentInput:
		return e.handleAttachment(ctx, event)
	default:
		return nil
	}
}

func (e *Engine) handleCommand(ctx context.Context, ev CommandInput) []Output {
	switch ev.Name {
	case "start":
		return []Output{Ack(fmt.Sprintf("Welcome! Use /help to see the available commands. Current month: %s", e.world.Month()))}

	case "help":
		return []Output{Ack("Available commands:\n" +
			"/receipt - Upload a receipt photo\n" +
			"/manual - Enter an expense step by step\n" +
			"/change_month - Change the active month\n" +
			"/cancel - Cancel the current operation")}

	case "receipt", "scontrino":
		e.startFlow(ev.User, FlowPhoto, StepPhoto)
		return []Output{Prompt("Send a photo of the receipt.")}

	case "manual", "manuale":
		e.startFlow(ev.User, FlowManual, StepName)
		return []Output{Prompt("Enter the expense name:")}

	case "change_month", "cambia_mese":
		e.startFlow(ev.User, FlowMonthChange, StepMonth)
		return []Output{Prompt("Select the month:", monthChoices()...)}

	case "cancel":
		session, ok := e.sessions.Get(ev.User)
		if !ok {
			return nil
		}
		e.finish(ev.User, session.Kind, metrics.OutcomeCancelled)
		return []Output{Ack("Operation cancelled.")}

	default:
		return nil
	}
}

func (e *Engine) startFlow(userID int64, kind FlowKind, step Step) {
	if prev, ok := e.sessions.Get(userID); ok {
		e.logger.Info("replacing active session",
			zap.Int64("user_id", userID),
			zap.String("previous_flow", string(prev.Kind)),
			zap.String("new_flow", string(kind)))
	}
	e.sessions.Start(userID, kind, step)
	e.metrics.FlowsStarted.WithLabelValues(string(kind)).Inc()
}

func (e *Engine) handleText(ev TextInput) []Output {
	session, ok := e.sessions.Get(ev.User)
	if !ok || session.Kind != FlowManual {
		return nil
	}

	switch session.Step {
	case StepName:
		if err := session.Draft.SetName(ev.Text); err != nil {
			return []Output{Prompt("The name must not be empty. Enter the expense name:")}
		}
		session.Step = StepDay
		return []Output{Prompt("Enter the day of the month (1-31):")}

	case StepDay:
		if err := session.Draft.SetDay(ev.Text); err != nil {
			return []Output{Prompt("Invalid day. Enter a number between 1 and 31:")}
		}
		session.Step = StepPrice
		return []Output{Prompt("Enter the price:")}

	case StepPrice:
		if err := session.Draft.SetPrice(ev.Text); err != nil {
			return []Output{Prompt("Invalid price. Enter a positive number:")}
		}
		session.Step = StepPrimaryCategory
		return []Output{Prompt("Select the primary category:", categoryChoices()...)}

	case StepSecondaryCategory:
		if err := session.Draft.SetSecondary(ev.Text); err != nil {
			return []Output{Prompt("The secondary category must not be empty. Enter it again:")}
		}
		rec, err := session.Draft.Complete()
		if err != nil {
			// Cannot happen with the step order above; treat as a broken
			// session rather than crashing the conversation.
			e.logger.Error("draft incomplete at confirmation", zap.Error(err), zap.String("session_id", session.ID))
			e.finish(ev.User, session.Kind, metrics.OutcomeFailed)
			return []Output{Ack("Something went wrong, the expense was not recorded. Start again with /manual.")}
		}
		session.Record = &rec
		session.Step = StepConfirm
		return []Output{Prompt(rec.Summary()+"\n\nSave this expense?", confirmChoices()...)}

	default:
		// Free text while a choice or photo is expected: ignore.
		return nil
	}
}

func (e *Engine) handleChoice(ctx context.Context, ev ChoiceInput) []Output {
	session, ok := e.sessions.Get(ev.User)
	if !ok {
		return nil
	}

	switch {
	case session.Kind == FlowManual && session.Step == StepPrimaryCategory:
		token, matched := strings.CutPrefix(ev.Token, tokenCategoryPrefix)
		if !matched {
			return nil
		}
		if err := session.Draft.SetPrimary(token); err != nil {
			return []Output{Prompt("Unknown category. Select the primary category:", categoryChoices()...)}
		}
		session.Step = StepSecondaryCategory
		return []Output{Prompt(fmt.Sprintf("Primary category: %s\nEnter the secondary category (free text):", token))}

	case session.Step == StepConfirm:
		switch ev.Token {
		case tokenConfirm:
			return e.confirm(ctx, session)
		case tokenDecline:
			e.finish(ev.User, session.Kind, metrics.OutcomeDeclined)
			return []Output{Ack("Operation cancelled, nothing was saved.")}
		default:
			return nil
		}

	case session.Kind == FlowMonthChange && session.Step == StepMonth:
		token, matched := strings.CutPrefix(ev.Token, tokenMonthPrefix)
		if !matched {
			return nil
		}
		if !expense.ValidMonth(token) {
			return []Output{Prompt("Unknown month. Select the month:", monthChoices()...)}
		}
		return e.changeMonth(ctx, session, token)

	default:
		return nil
	}
}

// confirm appends the completed record against the current active month. The
// session ends here no matter what the sink says: a failed append is
// reported, not retried.
func (e *Engine) confirm(ctx context.Context, session *Session) []Output {
	if session.Record == nil {
		e.logger.Error("confirmation without a completed record", zap.String("session_id", session.ID))
		e.finish(session.User, session.Kind, metrics.OutcomeFailed)
		return []Output{Ack("Something went wrong, the expense was not recorded.")}
	}

	month := e.world.Month()
	if err := e.sink.Append(ctx, month, *session.Record); err != nil {
		e.logger.Error("sink append failed",
			zap.Error(err),
			zap.String("month", month),
			zap.String("session_id", session.ID))
		e.metrics.SinkFailures.Inc()
		e.finish(session.User, session.Kind, metrics.OutcomeFailed)
		return []Output{Ack(fmt.Sprintf("Saving to %s failed, the expense was not recorded. Please try again later.", month))}
	}

	e.finish(session.User, session.Kind, metrics.OutcomeSaved)
	return []Output{Ack(fmt.Sprintf("Expense saved to %s.", month))}
}

func (e *Engine) changeMonth(ctx context.Context, session *Session, month string) []Output {
	e.world.SetMonth(month)
	e.metrics.MonthChanges.Inc()

	// Worksheet creation is best effort here; a missing worksheet will
	// surface again on the next append.
	if err := e.sink.EnsureWorksheet(ctx, month); err != nil {
		e.logger.Warn("ensure worksheet failed", zap.Error(err), zap.String("month", month))
	}

	e.finish(session.User, session.Kind, metrics.OutcomeSaved)
	return []Output{Ack(fmt.Sprintf("Active month set to %s.", month))}
}

func (e *Engine) handleAttachment(ctx context.Context, ev AttachmentInput) []Output {
	session, ok := e.sessions.Get(ev.User)
	if !ok || session.Kind != FlowPhoto || session.Step != StepPhoto {
		return nil
	}

	rec, err := e.extractor.Extract(ctx, ev.Bytes)
	if err != nil {
		e.logger.Error("receipt extraction failed", zap.Error(err), zap.String("session_id", session.ID))
		e.metrics.ExtractionFailures.Inc()
		e.finish(ev.User, session.Kind, metrics.OutcomeFailed)
		return []Output{Ack(fmt.Sprintf("Could not read the receipt: %v\nYou can enter the expense with /manual.", err))}
	}

	session.Record = &rec
	session.Step = StepConfirm
	return []Output{Prompt(rec.Summary()+"\n\nSave this expense?", confirmChoices()...)}
}

// finish ends the identity's flow: clears the session and records the
// outcome.
func (e *Engine) finish(userID int64, kind FlowKind, outcome string) {
	e.sessions.Clear(userID)
	e.metrics.FlowsFinished.WithLabelValues(string(kind), outcome).Inc()
}

func categoryChoices() []Choice {
	choices := make([]Choice, 0, len(expense.Categories))
	for _, c := range expense.Categories {
		choices = append(choices, Choice{Label: string(c), Token: tokenCategoryPrefix + string(c)})
	}
	return choices
}

func monthChoices() []Choice {
	choices := make([]Choice, 0, len(expense.Months))
	for _, m := range expense.Months {
		choices = append(choices, Choice{Label: m, Token: tokenMonthPrefix + m})
	}
	return choices
}

func confirmChoices() []Choice {
	return []Choice{
		{Label: "Yes", Token: tokenConfirm},
		{Label: "No", Token: tokenDecline},
	}
}
