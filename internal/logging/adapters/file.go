package adapters

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"resume-render/internal/logging/types"
)

// FileConfig represents configuration for the file adapter
type FileConfig struct {
	FilePath   string `yaml:"file_path"`
	Format     string `yaml:"format"`      // json or text
	MaxSize    int64  `yaml:"max_size"`    // bytes before rotating to <path>.1, 0 = never
	CreateDirs bool   `yaml:"create_dirs"` // create parent directories if missing
}

// FileAdapter appends entries to a file with single-backup size rotation
type FileAdapter struct {
	name   string
	config FileConfig
	file   *os.File
	size   int64
	mu     sync.Mutex
}

func NewFileAdapter(name string, config FileConfig) (*FileAdapter, error) {
	if config.Format == "" {
		config.Format = "json"
	}
	if config.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directories: %w", err)
		}
	}

	f, size, err := openLogFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &FileAdapter{name: name, config: config, file: f, size: size}, nil
}

func openLogFile(path string) (*os.File, int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// rotate moves the current file to <path>.1 and starts a new one.
// a.file stays open and usable whether or not rotation succeeds.
func (a *FileAdapter) rotate() error {
	if err := os.Rename(a.config.FilePath, a.config.FilePath+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}
	f, size, err := openLogFile(a.config.FilePath)
	if err != nil {
		return err
	}
	old := a.file
	a.file, a.size = f, size
	return old.Close()
}

func (a *FileAdapter) Write(entry *types.LogEntry) error {
	line, err := formatEntry(entry, a.config.Format, false)
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var rotateErr error
	if a.config.MaxSize > 0 && a.size+int64(len(line)+1) > a.config.MaxSize && a.size > 0 {
		if err := a.rotate(); err != nil {
			// Keep the entry in the oversized file and retry on the next write.
			rotateErr = fmt.Errorf("failed to rotate log file: %w", err)
		}
	}
	n, err := a.file.WriteString(line + "\n")
	a.size += int64(n)
	if err != nil {
		return errors.Join(rotateErr, fmt.Errorf("failed to write to log file: %w", err))
	}
	return rotateErr
}

func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}

func (a *FileAdapter) Name() string { return a.name }
