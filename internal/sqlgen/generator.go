package sqlgen

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sam171002/Text-2-SQL/internal/llm"
	"github.com/sam171002/Text-2-SQL/internal/observability"
	"github.com/sam171002/Text-2-SQL/internal/schema"
)

// ErrGenerationFailed is returned when the attempt budget is exhausted
// without an accepted statement.
var ErrGenerationFailed = errors.New("sql generation failed")

type genState int

const (
	stateComposing genState = iota
	stateGenerating
	stateSanitizing
	stateRewriting
	stateValidating
	stateRetrying
	stateAccepted
	stateExhausted
)

// Generator drives compose → model call → sanitize → rewrite → validate
// as an explicit state machine with a shared attempt budget. Transport
// faults and semantic rejections consume attempts alike; attempts run
// strictly in sequence and the first accepted statement wins.
type Generator struct {
	Model       llm.Model
	Rewriter    Rewriter
	Prompt      PromptSpec
	MaxAttempts int
	Logger      *slog.Logger
}

func (g *Generator) maxAttempts() int {
	if g.MaxAttempts <= 0 {
		return 3
	}
	return g.MaxAttempts
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Generate produces exactly one validated statement for question, or
// fails with ErrGenerationFailed. A returned statement is always safe
// to execute without further checking.
func (g *Generator) Generate(ctx context.Context, question string, desc schema.Description) (string, error) {
	logger := g.logger()

	var (
		current   = stateComposing
		attempts  int
		prompt    string
		candidate string
		validated string
	)

	for {
		switch current {
		case stateComposing:
			prompt = ComposePrompt(question, desc, g.Prompt)
			current = stateGenerating

		case stateGenerating:
			attempts++
			observability.IncrementGenerationAttempt()
			logger.Info("generating sql",
				slog.Int("attempt", attempts),
				slog.Int("max_attempts", g.maxAttempts()),
			)
			raw, err := g.Model.Complete(ctx, prompt)
			if err != nil {
				logger.Warn("model call failed", slog.Int("attempt", attempts), slog.Any("error", err))
				observability.IncrementGenerationRejection("model")
				current = stateRetrying
				continue
			}
			candidate = raw
			current = stateSanitizing

		case stateSanitizing:
			candidate = Sanitize(candidate)
			if candidate == "" {
				logger.Warn("sanitizer produced empty statement", slog.Int("attempt", attempts))
				observability.IncrementGenerationRejection("sanitize")
				current = stateRetrying
				continue
			}
			current = stateRewriting

		case stateRewriting:
			rewritten, err := g.Rewriter.Rewrite(candidate)
			if err != nil {
				logger.Warn("unsafe statement rejected", slog.Int("attempt", attempts))
				observability.IncrementGenerationRejection("rewrite")
				current = stateRetrying
				continue
			}
			candidate = rewritten
			current = stateValidating

		case stateValidating:
			if !Validate(candidate) {
				logger.Warn("statement failed validation", slog.Int("attempt", attempts))
				observability.IncrementGenerationRejection("validate")
				current = stateRetrying
				continue
			}
			validated = candidate
			current = stateAccepted

		case stateRetrying:
			if attempts >= g.maxAttempts() {
				current = stateExhausted
				continue
			}
			current = stateGenerating

		case stateAccepted:
			logger.Info("sql accepted", slog.Int("attempts", attempts), slog.String("sql", validated))
			return validated, nil

		case stateExhausted:
			observability.IncrementGenerationExhausted()
			logger.Error("generation attempts exhausted", slog.Int("attempts", attempts))
			return "", ErrGenerationFailed
		}
	}
}
