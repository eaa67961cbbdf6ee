// Package logger captures panics as JSON crash logs.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// CrashLogDir is the directory for crash logs relative to the base path.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep.
	MaxCrashLogs = 10
)

// CrashContext stores context for crash logging.
type CrashContext struct {
	mu       sync.RWMutex
	command  string
	version  string
	basePath string
}

var globalContext = &CrashContext{}

// SetBasePath sets the directory crash logs are written under (typically .pulse).
func SetBasePath(path string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.basePath = path
}

// SetVersion sets the application version for crash logs.
func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

// SetCommand sets the current command being executed.
func SetCommand(cmd string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = cmd
}

func truncateForLog(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	Request    string    `json:"request,omitempty"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic recovers a panic on the main goroutine, writes a crash log
// and exits. Usage: defer logger.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		path, err := Capture(r, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "[CRASH] Failed to write crash log: %v\n", err)
			fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, debug.Stack())
		} else {
			fmt.Fprintf(os.Stderr, "pulse crashed; crash log saved to %s\n", path)
		}
		os.Exit(1)
	}
}

// Capture writes a crash log for a recovered panic and returns its path.
// request describes the in-flight request, if any.
func Capture(panicValue any, request string) (string, error) {
	log := createCrashLog(panicValue, request)
	if err := writeCrashLog(log); err != nil {
		return "", err
	}
	return getCrashLogPath(log.Timestamp), nil
}

func createCrashLog(panicValue any, request string) CrashLog {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashLog{
		Timestamp:  time.Now(),
		Version:    globalContext.version,
		Command:    globalContext.command,
		Request:    truncateForLog(request, 500),
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

func writeCrashLog(log CrashLog) error {
	dir := getCrashLogDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create crash log dir: %w", err)
	}

	if err := cleanOldCrashLogs(dir); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal crash log: %w", err)
	}
	if err := os.WriteFile(getCrashLogPath(log.Timestamp), data, 0644); err != nil {
		return fmt.Errorf("write crash log: %w", err)
	}
	return nil
}

func getCrashLogDir() string {
	globalContext.mu.RLock()
	basePath := globalContext.basePath
	globalContext.mu.RUnlock()

	if basePath == "" {
		basePath = ".pulse"
	}
	return filepath.Join(basePath, CrashLogDir)
}

// Nanosecond suffix keeps concurrent request panics from sharing a file.
func getCrashLogPath(t time.Time) string {
	filename := fmt.Sprintf("crash_%s_%09d.json", t.Format("20060102_150405"), t.Nanosecond())
	return filepath.Join(getCrashLogDir(), filename)
}

func isCrashLog(name string) bool {
	return strings.HasPrefix(name, "crash_") && strings.HasSuffix(name, ".json")
}

// cleanOldCrashLogs keeps room for one more log under MaxCrashLogs.
func cleanOldCrashLogs(dir string) error {
	logs, err := listCrashLogs(dir)
	if err != nil {
		return err
	}
	for len(logs) >= MaxCrashLogs {
		if err := os.Remove(logs[0]); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", logs[0], err)
		}
		logs = logs[1:]
	}
	return nil
}

func listCrashLogs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && isCrashLog(e.Name()) {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(logs)
	return logs, nil
}

// ListCrashLogs returns crash log paths, oldest first.
func ListCrashLogs() ([]string, error) {
	return listCrashLogs(getCrashLogDir())
}

// ReadCrashLog decodes a crash log file.
func ReadCrashLog(path string) (CrashLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CrashLog{}, err
	}
	var log CrashLog
	if err := json.Unmarshal(data, &log); err != nil {
		return CrashLog{}, fmt.Errorf("parse crash log: %w", err)
	}
	return log, nil
}
