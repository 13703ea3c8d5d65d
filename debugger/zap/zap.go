// Package zap routes feign debug output to a zap logger at debug level.
package zap

import (
	"strconv"

	feign "github.com/tomruk/feign-go"
	"go.uber.org/zap"
)

var _ feign.Debugger = ZapDebugger{}

type ZapDebugger struct {
	L *zap.Logger

	context        string
	dynamicContext func() string
}

func New(l *zap.Logger) feign.Debugger { return ZapDebugger{L: l} }

func (d ZapDebugger) Log(main string, v ...any) {
	d.L.Debug(main, d.fields(v)...)
}

func (d ZapDebugger) WithContext(context string) feign.Debugger {
	d.context = context
	return d
}

func (d ZapDebugger) WithDynamicContext(context string, dynamicContext func() string) feign.Debugger {
	d.context = context
	d.dynamicContext = dynamicContext
	return d
}

func (d ZapDebugger) fields(v []any) []zap.Field {
	out := make([]zap.Field, 0, len(v)+2)
	if d.context != "" {
		out = append(out, zap.String("context", d.context))
	}
	if d.dynamicContext != nil {
		if s := d.dynamicContext(); s != "" {
			out = append(out, zap.String("dynamic_context", s))
		}
	}
	for i, x := range v {
		out = append(out, zap.Any("v"+strconv.Itoa(i), x))
	}
	return out
}
