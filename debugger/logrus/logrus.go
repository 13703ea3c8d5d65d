// Package logrus routes feign debug output to a logrus entry at debug level.
package logrus

import (
	"strconv"

	"github.com/sirupsen/logrus"
	feign "github.com/tomruk/feign-go"
)

var _ feign.Debugger = LogrusDebugger{}

type LogrusDebugger struct {
	E *logrus.Entry

	context        string
	dynamicContext func() string
}

func New(e *logrus.Entry) feign.Debugger { return LogrusDebugger{E: e} }

func (d LogrusDebugger) Log(main string, v ...any) {
	d.E.WithFields(d.fields(v)).Debug(main)
}

func (d LogrusDebugger) WithContext(context string) feign.Debugger {
	d.context = context
	return d
}

func (d LogrusDebugger) WithDynamicContext(context string, dynamicContext func() string) feign.Debugger {
	d.context = context
	d.dynamicContext = dynamicContext
	return d
}

func (d LogrusDebugger) fields(v []any) logrus.Fields {
	f := make(logrus.Fields, len(v)+2)
	if d.context != "" {
		f["context"] = d.context
	}
	if d.dynamicContext != nil {
		if s := d.dynamicContext(); s != "" {
			f["dynamic_context"] = s
		}
	}
	for i, x := range v {
		f["v"+strconv.Itoa(i)] = x
	}
	return f
}
