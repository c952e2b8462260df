package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"cards-marketplace/internal/domain"
)

// consoleNotifier prints notices: errors and warnings to stderr, the rest to stdout
type consoleNotifier struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

func newConsoleNotifier(out, errOut io.Writer) *consoleNotifier {
	return &consoleNotifier{out: out, errOut: errOut}
}

func (n *consoleNotifier) Notify(notice domain.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()

	w := n.out
	if notice.Severity == domain.SeverityError || notice.Severity == domain.SeverityWarn {
		w = n.errOut
	}
	if notice.Detail == "" {
		fmt.Fprintf(w, "[%s] %s\n", notice.Severity, notice.Summary)
		return
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", notice.Severity, notice.Summary, notice.Detail)
}

func sessionExpiredNotice() domain.Notice {
	return domain.Notice{
		Severity: domain.SeverityWarn,
		Summary:  "Session expired",
		Detail:   "run `marketplace login` to sign in again",
		Life:     domain.NoticeLife,
	}
}

// promptConfirmer asks on out and reads a y/N answer from in
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
	// assumeYes skips the prompt, set by --yes
	assumeYes bool
}

func newPromptConfirmer(in *bufio.Reader, out io.Writer) *promptConfirmer {
	return &promptConfirmer{in: in, out: out}
}

func (c *promptConfirmer) Confirm(ctx context.Context, prompt string) bool {
	if c.assumeYes {
		return true
	}
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)

	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
