package adapters

import (
	"fmt"
	"io"
	"os"
	"sync"

	"resume-render/internal/logging/types"
)

// StdoutConfig represents configuration for the stdout adapter
type StdoutConfig struct {
	Format    string `yaml:"format"`    // json or text
	Colorized bool   `yaml:"colorized"` // text format only
	// Writer replaces os.Stdout when set.
	Writer io.Writer `yaml:"-"`
}

// StdoutAdapter writes one line per entry to stdout
type StdoutAdapter struct {
	name   string
	config StdoutConfig
	out    io.Writer
	mu     sync.Mutex
}

func NewStdoutAdapter(name string, config StdoutConfig) *StdoutAdapter {
	out := config.Writer
	if out == nil {
		out = os.Stdout
	}
	return &StdoutAdapter{name: name, config: config, out: out}
}

func (a *StdoutAdapter) Write(entry *types.LogEntry) error {
	line, err := formatEntry(entry, a.config.Format, a.config.Colorized)
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = fmt.Fprintln(a.out, line)
	return err
}

func (a *StdoutAdapter) Close() error { return nil }

func (a *StdoutAdapter) Name() string { return a.name }
