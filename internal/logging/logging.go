// Package logging builds the process logger. The terminal UI owns stdout
// and stderr, so all logging goes to a file under the state directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects where and how much to log.
type Config struct {
	// Debug lowers the level to debug. Off means info and up.
	Debug bool
	// Dir is the directory log files land in. Created if missing.
	Dir string
	// SessionID tags every entry so interleaved sessions stay separable.
	SessionID string
}

// New builds a file-backed zap logger. Each call gets its own file, named
// for the start time plus the session id (pid when unset), so sessions
// started in the same second never clobber each other. Callers that want
// no logging use zap.NewNop() instead.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("log directory required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	tag := cfg.SessionID
	if tag == "" {
		tag = strconv.Itoa(os.Getpid())
	}
	name := fmt.Sprintf("sparrow_%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), tag)
	path := filepath.Join(cfg.Dir, name)

	zcfg := zap.NewProductionConfig()
	if cfg.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}

	log, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if cfg.SessionID != "" {
		log = log.With(zap.String("session", cfg.SessionID))
	}
	return log, nil
}
