package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type Logger struct {
	// The level at which this logger logs. Any log messages intended for a higher
	// (more verbose) log level are ignored.
	Level

	// Tag used to filter and classify log messages.
	Tag string

	out io.Writer

	// Mutex to prevent messages from different goroutines from interleaving.
	// Shared by all derived loggers.
	mu *sync.Mutex
}

// Write to stderr by default.
var DefaultLogger = &Logger{defaultLevel, "", os.Stderr, new(sync.Mutex)}

// New creates a root logger writing to out. The level comes from LOGLEVEL.
func New(tag string, out io.Writer) *Logger {
	return &Logger{determineLevel(tag, defaultLevel), tag, out, new(sync.Mutex)}
}

// Derive a new logger with the given tag. Look up the level based on the tag.
func (log *Logger) WithTag(tag string) *Logger {
	return &Logger{determineLevel(tag, log.Level), tag, log.out, log.mu}
}

// Enabled reports whether a message at the given level would be written.
// Hot loops check this before building arguments.
func (log *Logger) Enabled(level Level) bool {
	return level <= log.Level
}

// Wrapper for []byte that implements io.Writer. Simpler and cheaper than
// bytes.Buffer.
type buffer []byte

func (b *buffer) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}

// A global buffer pool, shared across all loggers. Initial capacity is 256 to
// accommodate *most* log lines.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make(buffer, 0, 256)
		return &b
	},
}

// Log a message at the given level. Include the file and line number from
// 'calldepth' steps up the call stack.
func (log *Logger) Log(level Level, calldepth int, format string, a ...interface{}) {
	if level > log.Level {
		return
	}

	bp := bufPool.Get().(*buffer)
	buf := (*bp)[:0]
	defer func() {
		*bp = buf[:0]
		bufPool.Put(bp)
	}()

	// Get the caller of Error()/Warn()/Info()/etc.
	_, file, line, ok := runtime.Caller(calldepth + 1)
	if !ok {
		file = "?"
	}

	buf = append(buf, headerColor.Sprint(time.Now().Format(timestampFormat))...)
	buf = append(buf, ' ')
	buf = append(buf, level.color().Sprintf("%c/%s[%s:%d]", level.letter(), log.Tag, filepath.Base(file), line)...)
	buf = append(buf, ' ')
	fmt.Fprintf(&buf, format, a...)

	if n := len(format); n == 0 || format[n-1] != '\n' {
		buf = append(buf, '\n')
	}

	// Lock before writing to avoid interleaving of log messages.
	log.mu.Lock()
	defer log.mu.Unlock()
	if _, err := log.out.Write(buf); err != nil {
		panic(fmt.Sprintf("Failed to log to %v: %v", log.out, err))
	}
}

func (log *Logger) Error(format string, a ...interface{}) {
	log.Log(Error, 1, format, a...)
}

func (log *Logger) Warn(format string, a ...interface{}) {
	log.Log(Warn, 1, format, a...)
}

func (log *Logger) Info(format string, a ...interface{}) {
	log.Log(Info, 1, format, a...)
}

func (log *Logger) Debug(format string, a ...interface{}) {
	log.Log(Debug, 1, format, a...)
}

func (log *Logger) Trace(n int, format string, a ...interface{}) {
	log.Log(Level(n), 1, format, a...)
}

// Fatalf logs at Error and exits with status 1.
func (log *Logger) Fatalf(format string, a ...interface{}) {
	log.Log(Error, 1, format, a...)
	os.Exit(1)
}
