package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes validation failures.
type ErrorKind string

const (
	// File-level rejects, checked before the content is read.
	KindNoFile          ErrorKind = "NoFile"
	KindEmptyFile       ErrorKind = "EmptyFile"
	KindInvalidFileType ErrorKind = "InvalidFileType"
	KindFileTooLarge    ErrorKind = "FileTooLarge"

	// Parse-level rejects.
	KindEmptyContent   ErrorKind = "EmptyContent"
	KindWhitespaceOnly ErrorKind = "WhitespaceOnly"
	KindInvalidJSON    ErrorKind = "InvalidJson"

	// Shape-level rejects.
	KindInvalidStructure  ErrorKind = "InvalidStructure"
	KindNoCategories      ErrorKind = "NoCategories"
	KindTooManyCategories ErrorKind = "TooManyCategories"
	KindCategoryIssues    ErrorKind = "CategoryIssues"
	KindPromptIssues      ErrorKind = "PromptIssues"

	// Cardinality rejects.
	KindInsufficientPrompts ErrorKind = "InsufficientPrompts"
	KindTooManyPrompts      ErrorKind = "TooManyPrompts"

	// KindDuplicatePrompts is only fatal in strict mode.
	KindDuplicatePrompts ErrorKind = "DuplicatePrompts"

	// KindRateLimited is returned when uploads are attempted too quickly.
	KindRateLimited ErrorKind = "RateLimited"
)

// MaxReportedIssues bounds the per-item diagnostics carried by an Error.
const MaxReportedIssues = 10

// Issue is a single offending category or prompt.
type Issue struct {
	Category string `json:"category"`
	// Index is the prompt index within the category, or -1 for
	// category-level issues.
	Index   int    `json:"index"`
	Snippet string `json:"snippet,omitempty"`
	Problem string `json:"problem"`
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Index < 0 {
		fmt.Fprintf(&b, "category %q: %s", i.Category, i.Problem)
	} else {
		fmt.Fprintf(&b, "category %q, prompt %d: %s", i.Category, i.Index+1, i.Problem)
	}
	if i.Snippet != "" {
		fmt.Fprintf(&b, " (%q)", i.Snippet)
	}
	return b.String()
}

// Error is the structured error raised by every core operation.
//
// Message is a short human sentence, Suggestion a remedy. Issues holds at
// most MaxReportedIssues entries; TotalIssues is the full count.
type Error struct {
	Kind        ErrorKind      `json:"kind"`
	Message     string         `json:"message"`
	Suggestion  string         `json:"suggestion,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	Issues      []Issue        `json:"issues,omitempty"`
	TotalIssues int            `json:"total_issues,omitempty"`
	Err         error          `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// More returns how many issues were collected but not reported.
func (e *Error) More() int {
	if n := e.TotalIssues - len(e.Issues); n > 0 {
		return n
	}
	return 0
}

// Report renders the message, the listed issues, a "+N more" line when
// truncated, and the suggestion.
func (e *Error) Report() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, is := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(is.String())
	}
	if n := e.More(); n > 0 {
		fmt.Fprintf(&b, "\n  +%d more", n)
	}
	if e.Suggestion != "" {
		b.WriteString("\n")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}

func newError(kind ErrorKind, suggestion, format string, args ...any) *Error {
	return &Error{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		Suggestion: suggestion,
	}
}

// NewError builds an Error for callers outside the package that share the
// taxonomy, such as the generator's defensive re-checks.
func NewError(kind ErrorKind, suggestion, format string, args ...any) *Error {
	return newError(kind, suggestion, format, args...)
}

func issuesError(kind ErrorKind, message, suggestion string, issues []Issue) *Error {
	e := &Error{
		Kind:        kind,
		Message:     message,
		Suggestion:  suggestion,
		TotalIssues: len(issues),
	}
	if len(issues) > MaxReportedIssues {
		issues = issues[:MaxReportedIssues]
	}
	e.Issues = append([]Issue(nil), issues...)
	return e
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or "" if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
