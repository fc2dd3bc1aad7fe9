package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// LoadProgress reports how many transaction sources have been loaded.
// It is safe for concurrent use by the loaders.
type LoadProgress struct {
	bar   *progressbar.ProgressBar
	mu    sync.Mutex
	done  int
	total int
}

// NewLoadProgress creates a progress bar for total sources. A nil writer
// writes to stderr.
func NewLoadProgress(writer io.Writer, total int) *LoadProgress {
	if writer == nil {
		writer = os.Stderr
	}
	p := &LoadProgress{total: total}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Loading transactions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Loaded marks one source as loaded.
func (p *LoadProgress) Loaded(source string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.bar.Describe(fmt.Sprintf("[cyan][bold]Loaded[reset] %s", source))
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Done returns how many sources have been loaded so far.
func (p *LoadProgress) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Finish completes the bar even if some sources were skipped.
func (p *LoadProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done >= p.total {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}
