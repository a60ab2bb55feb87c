package uitest

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds how long [WaitFor] waits for output.
const DefaultTimeout = 3 * time.Second

// NewTestModel creates a new test model with the given terminal size.
func NewTestModel(tb testing.TB, m tea.Model, size Size) *teatest.TestModel {
	tb.Helper()

	return teatest.NewTestModel(tb, m,
		teatest.WithInitialTermSize(size.Width, size.Height),
	)
}

// WaitFor waits for a condition to be met in the output.
func WaitFor(
	tb testing.TB,
	r io.Reader,
	condition func([]byte) bool,
	opts ...teatest.WaitForOption,
) {
	tb.Helper()

	opts = append([]teatest.WaitForOption{teatest.WithDuration(DefaultTimeout)}, opts...)
	teatest.WaitFor(tb, r, condition, opts...)
}

// Contains returns a condition matching output that contains every one of
// want once escape sequences are removed.
func Contains(want ...string) func([]byte) bool {
	return func(b []byte) bool {
		plain := PlainText(b)
		for _, w := range want {
			if !strings.Contains(plain, w) {
				return false
			}
		}

		return true
	}
}

// PlainText strips escape sequences from terminal output.
func PlainText(b []byte) string {
	return ansi.Strip(string(bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))))
}

// GetFinalOutput reads all output after the program finishes.
func GetFinalOutput(tb testing.TB, tm *teatest.TestModel, timeout time.Duration) string {
	tb.Helper()

	b, err := io.ReadAll(tm.FinalOutput(tb, teatest.WithFinalTimeout(timeout)))
	if err != nil {
		tb.Fatal(err)
	}

	return PlainText(b)
}
