package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &Error{Kind: KindInvalidJSON, Message: "bad", Err: root}

	assert.ErrorIs(t, err, root)
	assert.Equal(t, "InvalidJson: bad: root", err.Error())

	wrapped := fmt.Errorf("upload: %w", err)
	assert.True(t, IsKind(wrapped, KindInvalidJSON))
	assert.Equal(t, KindInvalidJSON, KindOf(wrapped))
	assert.Equal(t, ErrorKind(""), KindOf(root))
}

func TestIssuesErrorTruncates(t *testing.T) {
	issues := make([]Issue, 13)
	for i := range issues {
		issues[i] = Issue{Category: "c", Index: i, Problem: "too short"}
	}
	e := issuesError(KindPromptIssues, "13 problems", "fix them", issues)

	require.Len(t, e.Issues, MaxReportedIssues)
	assert.Equal(t, 13, e.TotalIssues)
	assert.Equal(t, 3, e.More())

	report := e.Report()
	assert.Contains(t, report, "13 problems")
	assert.Contains(t, report, `category "c", prompt 1: too short`)
	assert.Contains(t, report, "+3 more")
	assert.Contains(t, report, "fix them")
}

func TestIssueString(t *testing.T) {
	assert.Equal(t, `category "a": must not be empty`, Issue{Category: "a", Index: -1, Problem: "must not be empty"}.String())
	assert.Equal(t, `category "a", prompt 3: too short ("ab")`, Issue{Category: "a", Index: 2, Snippet: "ab", Problem: "too short"}.String())
}

func TestNilError(t *testing.T) {
	var e *Error
	assert.Equal(t, "<nil>", e.Error())
	assert.Nil(t, e.Unwrap())
}
