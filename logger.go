package canvas

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// Severity ranks diagnostics.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic describes a rejected command or an absorbed failure.
type Diagnostic struct {
	Component string
	Op        string
	Scope     string
	Target    string
	Reason    Reason
	Severity  Severity
	Message   string
	Err       error
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Component)
	if d.Op != "" {
		b.WriteString(".")
		b.WriteString(d.Op)
	}
	if d.Scope != "" {
		fmt.Fprintf(&b, " scope=%s", d.Scope)
	}
	if d.Target != "" {
		fmt.Fprintf(&b, " target=%q", d.Target)
	}
	if d.Reason != ReasonNone {
		fmt.Fprintf(&b, " reason=%s", d.Reason)
	}
	if d.Message != "" {
		b.WriteString(": ")
		b.WriteString(d.Message)
	}
	if d.Err != nil {
		fmt.Fprintf(&b, ": %v", d.Err)
	}
	return b.String()
}

// Logger records diagnostics.
type Logger interface {
	LogDiagnostic(Diagnostic)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(Diagnostic)

// LogDiagnostic implements Logger.
func (f LoggerFunc) LogDiagnostic(d Diagnostic) {
	if f != nil {
		f(d)
	}
}

type noopLogger struct{}

func (noopLogger) LogDiagnostic(Diagnostic) {}

type glogLogger struct{}

func (glogLogger) LogDiagnostic(d Diagnostic) {
	switch d.Severity {
	case SeverityWarning:
		glog.Warningf("canvas: %s", d)
	case SeverityInfo:
		glog.Infof("canvas: %s", d)
	default:
		glog.V(2).Infof("canvas: %s", d)
	}
}

// GlogLogger returns the default logger, writing through glog. Debug
// diagnostics need -v=2.
func GlogLogger() Logger {
	return glogLogger{}
}
