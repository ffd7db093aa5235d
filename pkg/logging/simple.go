package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
)

// Level labels, colored when the sink is created with useColor.
var (
	infoColor  = color.New(color.FgGreen).SprintFunc()
	debugColor = color.New(color.FgCyan).SprintFunc()
	traceColor = color.New(color.FgYellow).SprintFunc()
	errorColor = color.New(color.FgRed).SprintFunc()
)

// SimpleLogSink implements the logr.LogSink interface with one human-readable line per message:
//
//	[INFO] [disc.layout] track added track=2 start=4650
type SimpleLogSink struct {
	writer       io.Writer
	minVerbosity int
	name         string
	keyValues    []interface{}
	useColor     bool
	callDepth    int
	// shared by every sink derived through WithName/WithValues so lines from one writer never interleave
	mutex *sync.Mutex
}

// NewSimpleLogSink creates a new SimpleLogSink.
// If writer is nil, it defaults to os.Stderr.
// minVerbosity sets the highest V level that is still written.
func NewSimpleLogSink(writer io.Writer, minVerbosity int, useColor bool) *SimpleLogSink {
	if writer == nil {
		writer = os.Stderr
	}
	return &SimpleLogSink{
		writer:       writer,
		minVerbosity: minVerbosity,
		useColor:     useColor,
		mutex:        &sync.Mutex{},
	}
}

// Init records the call depth handed over by logr.
func (s *SimpleLogSink) Init(info logr.RuntimeInfo) {
	s.callDepth = info.CallDepth
}

// Enabled reports whether messages at the given verbosity are written.
func (s *SimpleLogSink) Enabled(level int) bool {
	return level <= s.minVerbosity
}

// Info writes a non-error message.
func (s *SimpleLogSink) Info(level int, msg string, keysAndValues ...interface{}) {
	if !s.Enabled(level) {
		return
	}
	s.write(s.label(level, false), msg, keysAndValues)
}

// Error writes an error message. Errors are written regardless of verbosity.
func (s *SimpleLogSink) Error(err error, msg string, keysAndValues ...interface{}) {
	kv := make([]interface{}, 0, len(keysAndValues)+2)
	kv = append(kv, keysAndValues...)
	kv = append(kv, "error", err)
	s.write(s.label(0, true), msg, kv)
}

// WithValues returns a sink that appends the key/value pairs to every message.
func (s *SimpleLogSink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	child := s.clone()
	child.keyValues = append(child.keyValues, keysAndValues...)
	return child
}

// WithName returns a sink whose messages carry the dotted name of the component.
func (s *SimpleLogSink) WithName(name string) logr.LogSink {
	child := s.clone()
	if child.name == "" {
		child.name = name
	} else {
		child.name = child.name + "." + name
	}
	return child
}

func (s *SimpleLogSink) clone() *SimpleLogSink {
	return &SimpleLogSink{
		writer:       s.writer,
		minVerbosity: s.minVerbosity,
		name:         s.name,
		keyValues:    append([]interface{}{}, s.keyValues...),
		useColor:     s.useColor,
		callDepth:    s.callDepth,
		mutex:        s.mutex,
	}
}

func (s *SimpleLogSink) label(level int, isError bool) string {
	var text string
	var paint func(a ...interface{}) string
	switch {
	case isError:
		text, paint = "[ERROR]", errorColor
	case level == LEVEL_INFO:
		text, paint = "[INFO]", infoColor
	case level == LEVEL_DEBUG:
		text, paint = "[DEBUG]", debugColor
	case level == LEVEL_TRACE:
		text, paint = "[TRACE]", traceColor
	default:
		return fmt.Sprintf("[LEVEL %d]", level)
	}
	if !s.useColor {
		return text
	}
	return paint(text)
}

func (s *SimpleLogSink) write(label, msg string, keysAndValues []interface{}) {
	var b strings.Builder
	b.WriteString(label)
	b.WriteByte(' ')
	if s.name != "" {
		fmt.Fprintf(&b, "[%s] ", s.name)
	}
	b.WriteString(msg)

	all := make([]interface{}, 0, len(s.keyValues)+len(keysAndValues))
	all = append(all, s.keyValues...)
	all = append(all, keysAndValues...)
	for i := 0; i+1 < len(all); i += 2 {
		key, ok := all[i].(string)
		if !ok {
			key = fmt.Sprintf("key%d", i/2)
		}
		fmt.Fprintf(&b, " %s=%v", key, all[i+1])
	}
	b.WriteByte('\n')

	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, _ = io.WriteString(s.writer, b.String())
}

// NewSimpleLogger creates a new logr.Logger using SimpleLogSink.
// If writer is nil, it defaults to os.Stderr.
// minVerbosity sets the highest V level that is still written.
func NewSimpleLogger(writer io.Writer, minVerbosity int, useColor bool) logr.Logger {
	return logr.New(NewSimpleLogSink(writer, minVerbosity, useColor))
}
