package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/engine"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/shopspring/decimal"
)

// Menu choices.
const (
	choiceLog     = "1"
	choiceSummary = "2"
	choiceReset   = "3"
	choiceExit    = "4"
)

// Session runs the numbered text menu against a tracker.
type Session struct {
	tracker       *engine.Tracker
	reader        *LineReader
	writer        io.Writer
	defaultPeriod model.Period
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDefaultPeriod sets the period used when the budget prompt is left blank.
func WithDefaultPeriod(p model.Period) SessionOption {
	return func(s *Session) {
		if p.Valid() {
			s.defaultPeriod = p
		}
	}
}

// NewSession creates a session reading from in and writing to out.
func NewSession(tracker *engine.Tracker, in io.Reader, out io.Writer, opts ...SessionOption) *Session {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	s := &Session{
		tracker:       tracker,
		reader:        NewLineReader(in),
		writer:        out,
		defaultPeriod: model.PeriodWeek,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the menu until the user exits, input ends, or ctx is canceled.
// End of input is treated as a normal exit.
func (s *Session) Run(ctx context.Context) error {
	err := s.run(ctx)
	if errors.Is(err, io.EOF) {
		s.println("")
		s.println(FormatInfo("Goodbye!"))
		return nil
	}
	return err
}

func (s *Session) run(ctx context.Context) error {
	s.println(FormatTitle(LeafIcon + " Personal Carbon Budget Tracker"))
	s.println(SubtleStyle.Render("Track your carbon footprint for " + s.tracker.Account().Name()))

	if s.tracker.Account().Budget() == nil {
		if err := s.setupBudget(ctx); err != nil {
			return err
		}
	}

	for {
		s.println("")
		s.println(BoldStyle.Render("MAIN MENU"))
		s.println("1. Log activity")
		s.println("2. View summary")
		s.println("3. Reset budget")
		s.println("4. Exit")

		choice, err := s.prompt(ctx, "Choose an option")
		if err != nil {
			return err
		}

		switch choice {
		case choiceLog:
			err = s.logActivity(ctx)
		case choiceSummary:
			s.showSummary(ctx)
		case choiceReset:
			s.resetBudget(ctx)
		case choiceExit:
			s.println(FormatInfo("Goodbye! " + LeafIcon))
			return nil
		default:
			s.println(FormatWarning("Invalid choice. Try again."))
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) setupBudget(ctx context.Context) error {
	s.println(FormatInfo("No budget configured yet."))

	for {
		amount, err := s.promptDecimal(ctx, "Enter your budget amount (kg CO₂)")
		if err != nil {
			return err
		}
		period, err := s.promptPeriod(ctx)
		if err != nil {
			return err
		}

		if err := s.tracker.ConfigureBudget(ctx, amount, period); err != nil {
			if common.IsValidationError(err) {
				s.println(FormatError(err.Error()))
				continue
			}
			return err
		}
		s.println(FormatSuccess("Budget set successfully!"))
		return nil
	}
}

func (s *Session) logActivity(ctx context.Context) error {
	s.println("")
	s.println(BoldStyle.Render("LOG EMISSION ACTIVITY"))
	s.println("Select a category:")
	s.println(RenderCategories())

	category, err := s.promptCategory(ctx)
	if err != nil {
		return err
	}
	quantity, err := s.promptDecimal(ctx, fmt.Sprintf("Enter quantity (%s)", category.Unit()))
	if err != nil {
		return err
	}

	out, err := s.tracker.LogActivity(ctx, category, quantity)
	switch {
	case err != nil && !out.Committed():
		s.println(FormatError("Error: " + err.Error()))
		return nil
	case err != nil:
		s.println(RenderOutcome(out))
		s.println(FormatWarning(err.Error()))
		slog.Warn("Activity committed but not stored", "account", s.tracker.Account().Name(), "error", err)
		return nil
	}

	s.println(RenderOutcome(out))
	return nil
}

func (s *Session) showSummary(ctx context.Context) {
	summary, err := s.tracker.Summarize()
	if err != nil {
		s.println(FormatWarning("No budget set."))
		return
	}
	s.println(RenderSummary(summary))

	if err := s.tracker.SaveHistory(ctx); err != nil {
		s.println(FormatWarning("Could not save history: " + err.Error()))
		return
	}
	s.println(SubtleStyle.Render("History saved."))
}

func (s *Session) resetBudget(ctx context.Context) {
	if err := s.tracker.ResetBudget(ctx); err != nil {
		s.println(FormatError("Error: " + err.Error()))
		return
	}
	remaining := s.tracker.Account().Budget().Remaining()
	s.println(FormatSuccess("Budget reset. Remaining: " + model.FormatAmount(remaining) + " kg CO₂"))
}

func (s *Session) promptCategory(ctx context.Context) (model.Category, error) {
	for {
		input, err := s.prompt(ctx, "Enter category")
		if err != nil {
			return model.CategoryUnknown, err
		}
		c, err := model.ParseCategory(input)
		if err == nil {
			return c, nil
		}
		s.println(FormatWarning("Invalid category. Try again."))
	}
}

func (s *Session) promptPeriod(ctx context.Context) (model.Period, error) {
	label := fmt.Sprintf("Select a period (WEEK or MONTH) [%s]", s.defaultPeriod)
	for {
		input, err := s.prompt(ctx, label)
		if err != nil {
			return "", err
		}
		if input == "" {
			return s.defaultPeriod, nil
		}
		p, err := model.ParsePeriod(input)
		if err == nil {
			return p, nil
		}
		label = "Invalid period. Enter WEEK or MONTH"
	}
}

func (s *Session) promptDecimal(ctx context.Context, label string) (decimal.Decimal, error) {
	for {
		input, err := s.prompt(ctx, label)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(input)
		if err == nil {
			return d, nil
		}
		label = "Invalid number. Please enter a valid decimal"
	}
}

func (s *Session) prompt(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprint(s.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := s.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) println(line string) {
	if _, err := fmt.Fprintln(s.writer, line); err != nil {
		slog.Debug("Failed to write session output", "error", err)
	}
}
