// Package logging provides categorized file-based logging for finchat.
// The TUI owns the terminal, so logs are written to .finchat/logs/ instead
// of stdout. Every subsystem gets a named child logger; before Initialize
// has run (or when it fails) all loggers are no-ops, so the chat session
// never depends on logging being available.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem. Used as the logger name so log lines are
// filterable per concern.
type Category string

const (
	CategorySession   Category = "session"   // session store mutations
	CategoryTransport Category = "transport" // websocket lifecycle, reconnects
	CategoryProtocol  Category = "protocol"  // frame decode, discarded frames
	CategoryStructure Category = "structure" // response structuring
	CategoryUI        Category = "ui"        // TUI lifecycle
)

var (
	mu      sync.RWMutex
	base    *zap.Logger
	logFile *os.File
)

// Initialize opens the log file under the given workspace and builds the
// root logger. Called once at startup; an error leaves logging as no-ops.
func Initialize(workspace string, debug bool) error {
	dir := filepath.Join(workspace, ".finchat", "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "finchat.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level)

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	base = zap.New(core)
	logFile = f
	return nil
}

// For returns the logger for a category. Always non-nil; a no-op until
// Initialize has run.
func For(cat Category) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if base == nil {
		return zap.NewNop().Sugar()
	}
	return base.Named(string(cat)).Sugar()
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if base != nil {
		_ = base.Sync()
		base = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
