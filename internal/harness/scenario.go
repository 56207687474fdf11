package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines one pipeline scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed seeds the board generator. Zero is a valid seed.
	Seed uint64 `yaml:"seed,omitempty"`

	// BoardID is returned for every generated board. Defaults to
	// "test-board".
	BoardID string `yaml:"board_id,omitempty"`

	// FreeSpace is the starting free-space mode. Defaults to true.
	FreeSpace *bool `yaml:"free_space,omitempty"`

	// Strict makes duplicate prompts fatal.
	Strict bool `yaml:"strict,omitempty"`

	// RateLimit overrides the upload limiter.
	RateLimit *RateLimit `yaml:"rate_limit,omitempty"`

	// Flow is executed in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`

	// baseDir resolves file arguments. Set by LoadScenario.
	baseDir string
}

// RateLimit configures the scenario's limiter.
type RateLimit struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Window      string `yaml:"window"`
}

// FlowStep invokes one session action.
type FlowStep struct {
	// Action is one of the Action* constants.
	Action string `yaml:"action"`

	// Args are the action arguments.
	Args map[string]any `yaml:"args,omitempty"`

	// Repeat runs the step this many times. Zero means once.
	Repeat int `yaml:"repeat,omitempty"`

	// Expect is checked on every repetition. Nil skips validation.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected completion.
type ExpectClause struct {
	// Case is "Success" or a catalog error kind.
	Case string `yaml:"case"`

	// Result is a subset match against the completion result.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	Type    string         `yaml:"type"`
	Action  string         `yaml:"action,omitempty"`
	Args    map[string]any `yaml:"args,omitempty"`
	Case    string         `yaml:"case,omitempty"`
	Count   int            `yaml:"count,omitempty"`
	Actions []string       `yaml:"actions,omitempty"`
	Expect  map[string]any `yaml:"expect,omitempty"`
}

// Actions.
const (
	ActionUpload          = "upload"
	ActionRecreate        = "recreate"
	ActionSetFreeSpace    = "set_free_space"
	ActionToggleFreeSpace = "toggle_free_space"
	ActionSetHeader       = "set_header"
	ActionAdvance         = "advance"
	ActionExportFilename  = "export_filename"
)

// requiredArgs lists the arguments each action needs.
var requiredArgs = map[string][]string{
	ActionUpload:          {"file"},
	ActionRecreate:        nil,
	ActionSetFreeSpace:    {"on"},
	ActionToggleFreeSpace: nil,
	ActionSetHeader:       nil,
	ActionAdvance:         {"by"},
	ActionExportFilename:  nil,
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file. It rejects unknown
// fields, missing required fields and file arguments that do not exist.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	scenario.baseDir = filepath.Dir(path)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		out = append(out, s)
	}
	return out, nil
}

// resolve makes a file argument relative to the scenario file.
func (s *Scenario) resolve(path string) string {
	if filepath.IsAbs(path) || s.baseDir == "" {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

func (s *Scenario) freeSpace() bool {
	return s.FreeSpace == nil || *s.FreeSpace
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if rl := s.RateLimit; rl != nil {
		if rl.MaxAttempts <= 0 {
			return fmt.Errorf("rate_limit.max_attempts must be positive")
		}
		if d, err := time.ParseDuration(rl.Window); err != nil || d <= 0 {
			return fmt.Errorf("rate_limit.window must be a positive duration, got %q", rl.Window)
		}
	}

	for i, step := range s.Flow {
		required, ok := requiredArgs[step.Action]
		if !ok {
			return fmt.Errorf("flow[%d]: unknown action %q", i, step.Action)
		}
		for _, arg := range required {
			if _, ok := step.Args[arg]; !ok {
				return fmt.Errorf("flow[%d]: %s requires args.%s", i, step.Action, arg)
			}
		}
		if step.Repeat < 0 {
			return fmt.Errorf("flow[%d]: repeat must be non-negative", i)
		}
		if step.Expect != nil && step.Expect.Case == "" {
			return fmt.Errorf("flow[%d].expect: case is required", i)
		}
		if step.Action == ActionUpload {
			file, ok := step.Args["file"].(string)
			if !ok {
				return fmt.Errorf("flow[%d]: args.file must be a string", i)
			}
			if _, err := os.Stat(s.resolve(file)); err != nil {
				return fmt.Errorf("flow[%d]: catalog file not found: %s", i, file)
			}
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
