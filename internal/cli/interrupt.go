package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels a command's context on SIGINT or SIGTERM and
// tells the user what was abandoned.
type InterruptHandler struct {
	writer      io.Writer
	subscribe   func() (<-chan os.Signal, func())
	cancelFunc  context.CancelFunc
	action      string
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a handler that reports to writer, or to
// stderr when writer is nil.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stderr
	}
	return &InterruptHandler{
		writer:    writer,
		subscribe: notifySignals,
	}
}

func notifySignals() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	return ch, func() { signal.Stop(ch) }
}

// HandleInterrupts returns a context that is canceled on interrupt and a
// stop function that releases the signal handler. action names the work in
// progress, for example "export".
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, action string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancelFunc = cancel
	h.action = action
	h.mu.Unlock()

	signals, release := h.subscribe()
	go func() {
		defer release()
		select {
		case <-signals:
			h.interrupt()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func (h *InterruptHandler) interrupt() {
	h.mu.Lock()
	first := !h.interrupted
	h.interrupted = true
	action, cancel := h.action, h.cancelFunc
	h.mu.Unlock()

	if first {
		_, _ = fmt.Fprint(h.writer, interruptMessage(action))
	}
	if cancel != nil {
		cancel()
	}
}

func interruptMessage(action string) string {
	msg := "\n\n" + FormatWarning("Analysis interrupted!")
	if action != "" {
		msg += "\n" + FormatInfo(fmt.Sprintf("The %s did not complete.", action))
	}
	return msg + "\n"
}

// WasInterrupted reports whether a signal arrived.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
