package logging

import (
	"fmt"
	"sync"

	"resume-render/internal/config"
	"resume-render/internal/logging/adapters"
)

// NewFromConfig builds a logger from the logging section of the configuration.
// Without adapters configured it falls back to a single stdout adapter.
func NewFromConfig(cfg *config.Config) (*MultiLogger, error) {
	logger := NewMultiLogger()
	logger.SetLevel(ParseLogLevel(cfg.Logging.Level))

	enabled := 0
	for _, ac := range cfg.Logging.Adapters {
		if !ac.Enabled {
			continue
		}
		adapter, err := CreateAdapter(AdapterConfig{
			Name:    ac.Name,
			Type:    ac.Type,
			Enabled: ac.Enabled,
			Options: ac.Options,
		})
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("failed to create adapter %s: %w", ac.Name, err)
		}
		if err := logger.AddAdapter(adapter); err != nil {
			logger.Close()
			return nil, fmt.Errorf("failed to add adapter %s: %w", ac.Name, err)
		}
		enabled++
	}

	if enabled == 0 {
		adapter := adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{Format: cfg.Logging.Format})
		if err := logger.AddAdapter(adapter); err != nil {
			return nil, err
		}
	}
	return logger, nil
}

var (
	globalMu     sync.Mutex
	globalLogger *MultiLogger
)

// InitializeLogging initializes the global logging system
func InitializeLogging(cfg *config.Config) error {
	logger, err := NewFromConfig(cfg)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger != nil {
		globalLogger.Close()
	}
	globalLogger = logger
	return nil
}

// GetGlobalLogger returns the global logger, creating a JSON stdout logger on first use
func GetGlobalLogger() Logger {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger == nil {
		globalLogger = NewMultiLogger()
		globalLogger.AddAdapter(adapters.NewStdoutAdapter("fallback_stdout", adapters.StdoutConfig{Format: "json"}))
	}
	return globalLogger
}

// CloseLogging closes the global logging system
func CloseLogging() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger == nil {
		return nil
	}
	err := globalLogger.Close()
	globalLogger = nil
	return err
}

// LogWithRequestID returns the global logger tagged with a request ID
func LogWithRequestID(requestID string) Logger {
	return GetGlobalLogger().WithField("request_id", requestID)
}

// SetGlobalLogger replaces the global logger, closing the previous one
func SetGlobalLogger(logger *MultiLogger) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger != nil && globalLogger != logger {
		globalLogger.Close()
	}
	globalLogger = logger
}
