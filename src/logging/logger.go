// Package logging is the leveled logger shared by the ingest pipeline and the viewer.
// Operational messages go to stderr; the block results protocol on stdout is not routed through here.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents severity.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

var currentLevel int32 = int32(LevelInfo)

var (
	mu         sync.Mutex
	baseLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
)

// ParseLevel maps a level name (debug|info|warn|error) to a Level.
func ParseLevel(s string) (Level, error) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// SetLogLevel parses and sets the global log level. Unknown names leave the level unchanged.
func SetLogLevel(s string) {
	l, err := ParseLevel(s)
	if err != nil {
		return
	}
	atomic.StoreInt32(&currentLevel, int32(l))
}

// GetLogLevel returns the current global log level.
func GetLogLevel() Level { return Level(atomic.LoadInt32(&currentLevel)) }

// SetOutput redirects log output and returns a func restoring the previous logger.
func SetOutput(w io.Writer, flags int) (restore func()) {
	mu.Lock()
	saved := baseLogger
	baseLogger = log.New(w, "", flags)
	mu.Unlock()
	return func() {
		mu.Lock()
		baseLogger = saved
		mu.Unlock()
	}
}

func logf(l Level, format string, args ...interface{}) {
	if GetLogLevel() > l {
		return
	}
	mu.Lock()
	lg := baseLogger
	mu.Unlock()
	// A message without args is printed verbatim so literal % in file names survive.
	if len(args) == 0 {
		lg.Printf("[%s] %s", l, format)
		return
	}
	lg.Printf("[%s] %s", l, fmt.Sprintf(format, args...))
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs the duration of a phase at debug level. Use as defer TimeTrack(time.Now(), "ingest").
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
