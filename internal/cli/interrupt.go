package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
)

// InterruptHandler turns the first SIGINT or SIGTERM into a context
// cancellation and prints a short farewell.
type InterruptHandler struct {
	out         io.Writer
	signals     chan os.Signal
	account     string
	interrupted atomic.Bool
}

// NewInterruptHandler writes its farewell to out, or stdout when nil.
func NewInterruptHandler(out io.Writer) *InterruptHandler {
	if out == nil {
		out = os.Stdout
	}
	return &InterruptHandler{out: out, signals: make(chan os.Signal, 1)}
}

// HandleInterrupts derives a context from parent that is canceled on the
// first interrupt. account, when set, is named in the farewell. Signal
// delivery stops once the returned context is done.
func (h *InterruptHandler) HandleInterrupts(parent context.Context, account string) context.Context {
	h.account = account
	ctx, cancel := context.WithCancel(parent)
	signal.Notify(h.signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(h.signals)
		select {
		case <-ctx.Done():
			return
		case <-h.signals:
		}
		if h.interrupted.CompareAndSwap(false, true) {
			h.farewell()
		}
		cancel()
	}()
	return ctx
}

func (h *InterruptHandler) farewell() {
	var b strings.Builder
	b.WriteString("\n\n" + FormatWarning("Session interrupted!") + "\n")
	b.WriteString(FormatInfo("Every committed activity is already stored.") + "\n")
	if h.account != "" {
		b.WriteString(FormatInfo("Review it with: carbon summary --account "+h.account) + "\n")
	}
	b.WriteString(FormatInfo("Goodbye! "+LeafIcon) + "\n")

	if _, err := io.WriteString(h.out, b.String()); err != nil {
		slog.Warn("Failed to write interrupt message", "error", err)
	}
}

// WasInterrupted reports whether a signal ended the session.
func (h *InterruptHandler) WasInterrupted() bool {
	return h.interrupted.Load()
}
