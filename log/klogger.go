// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package log

import (
	"fmt"

	"k8s.io/klog/v2"
)

type klogger struct {
	level klog.Level
	kvs   []any
}

// Logf implements Logger.Logf.
func (kl klogger) Logf(msg string, args ...any) {
	if len(kl.kvs) > 0 {
		klog.V(kl.level).InfoS(fmt.Sprintf(msg, args...), kl.kvs...)
		return
	}
	klog.V(kl.level).Infof(msg, args...)
}

// LogKV implements Logger.LogKV.
func (kl klogger) LogKV(msg string, kvs ...any) {
	klog.V(kl.level).InfoS(msg, kl.merge(kvs)...)
}

// ErrorKV implements Logger.ErrorKV.
func (kl klogger) ErrorKV(err error, msg string, kvs ...any) {
	klog.ErrorS(err, msg, kl.merge(kvs)...)
}

// WithKeyValues implements Logger.WithKeyValues.
func (kl klogger) WithKeyValues(kvs ...any) Logger {
	return klogger{
		level: kl.level,
		kvs:   kl.merge(kvs),
	}
}

func (kl klogger) merge(kvs []any) []any {
	res := make([]any, 0, len(kl.kvs)+len(kvs))
	res = append(res, kl.kvs...)
	return append(res, kvs...)
}

// NewLogger returns builtin Logger implementation. Info messages are
// emitted at verbosity level.
func NewLogger(level int32) Logger {
	return klogger{level: klog.Level(level)}
}
