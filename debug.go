package feign

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/tomruk/feign-go/internal/sync"
	"github.com/xiegeo/coloredgoroutine"
)

type (
	Debugger interface {
		Log(main string, v ...any)
		WithContext(context string) Debugger
		WithDynamicContext(context string, dynamicContext func() string) Debugger
	}

	noopDebugger struct{}

	printDebugger struct {
		stdout         io.Writer
		context        string
		dynamicContext func() string
	}
)

func NewNoopDebugger() Debugger {
	return noopDebugger{}
}

func (d noopDebugger) Log(main string, _v ...any) {}

func (d noopDebugger) WithContext(context string) Debugger { return d }

func (d noopDebugger) WithDynamicContext(context string, _ func() string) Debugger { return d }

func NewPrintDebugger() Debugger {
	return NewPrintDebuggerTo(os.Stdout)
}

// NewPrintDebuggerTo writes to w, colouring each goroutine's lines.
func NewPrintDebuggerTo(w io.Writer) Debugger {
	return &printDebugger{stdout: coloredgoroutine.Colors(w)}
}

var printMu sync.Mutex

// Log prints the non-empty context fields, main, and then every value,
// separated by colons.
func (d *printDebugger) Log(main string, values ...any) {
	fields := make([]string, 0, 3+len(values))
	for _, f := range []string{d.context, d.dynamic(), main} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	for _, v := range values {
		fields = append(fields, fmt.Sprint(v))
	}
	line := strings.Join(fields, ": ") + "\n"

	printMu.Lock()
	defer printMu.Unlock()
	io.WriteString(d.stdout, line)
}

func (d *printDebugger) dynamic() string {
	if d.dynamicContext == nil {
		return ""
	}
	return d.dynamicContext()
}

func (d printDebugger) WithContext(context string) Debugger {
	d.context = context
	return &d
}

func (d printDebugger) WithDynamicContext(context string, dynamicContext func() string) Debugger {
	d.context = context
	d.dynamicContext = dynamicContext
	return &d
}

// StatusText colours an HTTP status code by class.
func StatusText(code int) string {
	s := strconv.Itoa(code)
	switch {
	case code >= 500:
		return color.FgRed.Sprint(s)
	case code >= 400:
		return color.FgYellow.Sprint(s)
	case code >= 300:
		return color.FgCyan.Sprint(s)
	}
	return color.FgGreen.Sprint(s)
}
