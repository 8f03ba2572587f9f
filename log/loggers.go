package log

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// NewSubLogger registers and returns a sublogger for the supplied subsystem
// name. Registering an already known name returns the existing handle.
func NewSubLogger(name string) *SubLogger {
	mu.Lock()
	defer mu.Unlock()
	if sl, ok := registry[name]; ok {
		return sl
	}
	sl := &SubLogger{name: name, info: true, warn: true, err: true}
	registry[name] = sl
	return sl
}

// SetOutput redirects all log output, primarily for tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetDebug toggles debug output across every registered sublogger
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	showDebug = enabled
	for _, sl := range registry {
		sl.debug = enabled
	}
}

func timestampNow() string {
	return time.Now().Format(timestampFormat)
}

func (sl *SubLogger) stage(header, message string) {
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(output, "%s%s%s%s%s%s%s\n",
		timeSource(), spacer, sl.name, spacer, header, spacer, message)
}

// stageln strips the newline fmt.Sprintln already appended so stage does not
// emit a blank line after it
func (sl *SubLogger) stageln(header, message string) {
	sl.stage(header, strings.TrimSuffix(message, "\n"))
}

// Infoln logs at info level
func Infoln(sl *SubLogger, v ...any) {
	if sl == nil || !sl.info {
		return
	}
	sl.stageln(infoHeader, fmt.Sprintln(v...))
}

// Infof logs a formatted message at info level
func Infof(sl *SubLogger, format string, v ...any) {
	if sl == nil || !sl.info {
		return
	}
	sl.stage(infoHeader, fmt.Sprintf(format, v...))
}

// Warnln logs at warn level
func Warnln(sl *SubLogger, v ...any) {
	if sl == nil || !sl.warn {
		return
	}
	sl.stageln(warnHeader, fmt.Sprintln(v...))
}

// Warnf logs a formatted message at warn level
func Warnf(sl *SubLogger, format string, v ...any) {
	if sl == nil || !sl.warn {
		return
	}
	sl.stage(warnHeader, fmt.Sprintf(format, v...))
}

// Debugln logs at debug level
func Debugln(sl *SubLogger, v ...any) {
	if sl == nil || !sl.debug {
		return
	}
	sl.stageln(debugHeader, fmt.Sprintln(v...))
}

// Debugf logs a formatted message at debug level
func Debugf(sl *SubLogger, format string, v ...any) {
	if sl == nil || !sl.debug {
		return
	}
	sl.stage(debugHeader, fmt.Sprintf(format, v...))
}

// Errorln logs at error level
func Errorln(sl *SubLogger, v ...any) {
	if sl == nil || !sl.err {
		return
	}
	sl.stageln(errorHeader, fmt.Sprintln(v...))
}

// Errorf logs a formatted message at error level
func Errorf(sl *SubLogger, format string, v ...any) {
	if sl == nil || !sl.err {
		return
	}
	sl.stage(errorHeader, fmt.Sprintf(format, v...))
}
