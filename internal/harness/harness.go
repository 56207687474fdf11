package harness

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/bingo/internal/catalog"
	"github.com/roach88/bingo/internal/generator"
	"github.com/roach88/bingo/internal/logging"
	"github.com/roach88/bingo/internal/ratelimit"
	"github.com/roach88/bingo/internal/sanitize"
	"github.com/roach88/bingo/internal/session"
	"github.com/roach88/bingo/internal/testutil"
)

// CaseError is the completion case for failures outside the catalog error
// taxonomy, such as an unreadable file.
const CaseError = "Error"

// Harness executes one scenario against a fresh session.
type Harness struct {
	scenario *Scenario
	session  *session.Session
	clock    *testutil.FakeClock
	logger   *slog.Logger
	seq      int64
}

// Run executes a scenario and returns the result.
//
// Each scenario gets a fresh session with a seeded generator, a fixed
// board ID and a fake clock starting at testutil.Epoch.
//
// Execution flow:
//  1. Build the session (preview board from the sample catalog)
//  2. Execute flow steps, checking expect clauses
//  3. Capture final state
//  4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, logging.Discard())
}

// RunWithLogger is Run with session logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	clock := testutil.NewFakeClock(time.Time{})

	maxAttempts, window := ratelimit.DefaultMaxAttempts, ratelimit.DefaultWindow
	if rl := scenario.RateLimit; rl != nil {
		d, err := time.ParseDuration(rl.Window)
		if err != nil {
			return nil, fmt.Errorf("rate_limit.window: %w", err)
		}
		maxAttempts, window = rl.MaxAttempts, d
	}

	s, err := session.New(session.Options{
		Generator: generator.New(
			generator.WithRand(generator.NewSeededRand(scenario.Seed)),
			generator.WithIDs(testutil.NewFixedIDs(scenario.BoardID)),
		),
		Limiter:   ratelimit.New(maxAttempts, window, ratelimit.WithClock(clock)),
		Logger:    logger,
		FreeSpace: scenario.freeSpace(),
		Strict:    scenario.Strict,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	h := &Harness{scenario: scenario, session: s, clock: clock, logger: logger}
	result := NewResult()
	if err := h.executeFlow(scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	result.State = h.state()
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) executeFlow(flow []FlowStep, result *Result) error {
	for i, step := range flow {
		n := step.Repeat
		if n == 0 {
			n = 1
		}
		for rep := 0; rep < n; rep++ {
			h.seq++
			result.addInvocation(step.Action, step.Args, h.seq)

			outputCase, out, err := h.invoke(step)
			if err != nil {
				return fmt.Errorf("flow[%d] %s: %w", i, step.Action, err)
			}
			h.seq++
			result.addCompletion(step.Action, outputCase, out, h.seq)

			if step.Expect != nil {
				for _, msg := range checkExpect(step.Expect, outputCase, out) {
					result.AddError(fmt.Sprintf("flow[%d] %s (run %d): %s", i, step.Action, rep+1, msg))
				}
			}
		}
	}
	return nil
}

// invoke runs one action. Session errors become completion cases; the
// returned error is reserved for malformed steps.
func (h *Harness) invoke(step FlowStep) (string, map[string]any, error) {
	switch step.Action {
	case ActionUpload:
		file, _ := step.Args["file"].(string)
		res, err := h.session.UploadFile(h.scenario.resolve(file))
		if err != nil {
			c, out := failure(err)
			return c, out, nil
		}
		out := h.boardSummary(res.Board)
		out["warnings"] = len(res.Warnings)
		return CaseSuccess, out, nil

	case ActionRecreate:
		return h.boardOutcome(h.session.Recreate())

	case ActionSetFreeSpace:
		on, ok := step.Args["on"].(bool)
		if !ok {
			return "", nil, fmt.Errorf("args.on must be a boolean")
		}
		return h.boardOutcome(h.session.SetFreeSpace(on))

	case ActionToggleFreeSpace:
		return h.boardOutcome(h.session.ToggleFreeSpace())

	case ActionSetHeader:
		var in sanitize.Header
		for key, dst := range map[string]*string{
			"title":        &in.Title,
			"instructions": &in.Instructions,
			"subtitle":     &in.Subtitle,
		} {
			if v, ok := step.Args[key]; ok {
				str, ok := v.(string)
				if !ok {
					return "", nil, fmt.Errorf("args.%s must be a string", key)
				}
				*dst = str
			}
		}
		got := h.session.SetHeader(in)
		return CaseSuccess, map[string]any{
			"title":        got.Title,
			"instructions": got.Instructions,
			"subtitle":     got.Subtitle,
		}, nil

	case ActionAdvance:
		by, _ := step.Args["by"].(string)
		d, err := time.ParseDuration(by)
		if err != nil {
			return "", nil, fmt.Errorf("args.by: %w", err)
		}
		h.clock.Advance(d)
		return CaseSuccess, map[string]any{"now": h.clock.Now().Format(time.RFC3339)}, nil

	case ActionExportFilename:
		date := testutil.Epoch
		if v, ok := step.Args["date"]; ok {
			str, _ := v.(string)
			t, err := time.Parse(time.DateOnly, str)
			if err != nil {
				return "", nil, fmt.Errorf("args.date: %w", err)
			}
			date = t
		}
		return CaseSuccess, map[string]any{"filename": h.session.ExportFilename(date)}, nil
	}
	return "", nil, fmt.Errorf("unknown action %q", step.Action)
}

func (h *Harness) boardOutcome(b *generator.Board, err error) (string, map[string]any, error) {
	if err != nil {
		c, out := failure(err)
		return c, out, nil
	}
	return CaseSuccess, h.boardSummary(b), nil
}

// failure maps an error to its completion case and result.
func failure(err error) (string, map[string]any) {
	var ce *catalog.Error
	if !errors.As(err, &ce) {
		return CaseError, map[string]any{"error": err.Error()}
	}
	out := make(map[string]any, len(ce.Details)+1)
	for k, v := range ce.Details {
		out[k] = v
	}
	if ce.TotalIssues > 0 {
		out["issues"] = ce.TotalIssues
	}
	return string(ce.Kind), out
}

// boardSummary records a board's shape: every field is determined by the
// catalog and the free-space mode, not by the seed.
func (h *Harness) boardSummary(b *generator.Board) map[string]any {
	return map[string]any{
		"board_id":        b.ID,
		"version":         h.session.Version(),
		"free_space":      b.FreeSpace,
		"category_counts": categoryCounts(h.session.Catalog(), b),
	}
}

// categoryCounts attributes each cell to the first category holding its
// prompt.
func categoryCounts(c *catalog.Catalog, b *generator.Board) map[string]any {
	owner := make(map[string]string, c.TotalPrompts())
	for _, cat := range c.Categories {
		for _, p := range cat.Prompts {
			if _, ok := owner[p]; !ok {
				owner[p] = cat.Name
			}
		}
	}
	counts := make(map[string]int)
	for _, p := range b.Prompts() {
		counts[owner[p]]++
	}
	out := make(map[string]any, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}

func (h *Harness) state() map[string]any {
	s := h.session
	c := s.Catalog()
	b := s.Board()
	return map[string]any{
		"preview":         s.Preview(),
		"version":         s.Version(),
		"free_space":      s.FreeSpace(),
		"categories":      c.Len(),
		"prompts":         c.TotalPrompts(),
		"title":           s.Header().Title,
		"export_filename": s.ExportFilename(testutil.Epoch),
		"board_id":        b.ID,
		"category_counts": categoryCounts(c, b),
	}
}

// checkExpect compares a completion against an expect clause.
func checkExpect(expect *ExpectClause, outputCase string, out map[string]any) []string {
	var errs []string
	if expect.Case != outputCase {
		errs = append(errs, fmt.Sprintf("expected case %s, got %s (result %v)", expect.Case, outputCase, out))
	}
	for key, want := range expect.Result {
		got, ok := out[key]
		if !ok {
			errs = append(errs, fmt.Sprintf("result field %q missing", key))
			continue
		}
		if !valuesEqual(got, want) {
			errs = append(errs, fmt.Sprintf("result field %q = %v, want %v", key, got, want))
		}
	}
	return errs
}
