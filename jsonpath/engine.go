// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package jsonpath

import (
	"io"

	"github.com/njlr/bsonpath/jsonpath/expr"
	"github.com/sirupsen/logrus"
)

// defaultStackDepth mirrors expr's own default; Engine keeps its own
// copy so it never needs to reach into the expr package's unexported
// constant.
const defaultStackDepth = 32

// Engine holds the caller-facing tunables for path selection: an
// optional trace logger and the embedded expression VM's stack depth.
// The package-level Select function runs against a shared default
// Engine, so simple callers never need to construct one.
type Engine struct {
	logger     logrus.FieldLogger
	stackDepth int
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithLogger sets the logger the embedded expression compiler and VM
// use for Debug-level trace lines (op and stack depth per executed
// instruction, instruction count per compiled expression). The default
// discards everything below Warn, so tracing costs nothing unless a
// caller opts in.
func WithLogger(logger logrus.FieldLogger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithStackDepth overrides the embedded expression VM's operand stack
// capacity (default 32).
func WithStackDepth(depth int) EngineOption {
	return func(e *Engine) { e.stackDepth = depth }
}

// NewEngine returns an Engine with a nil-safe default logger (WarnLevel,
// discarded output) and the default VM stack depth.
func NewEngine(opts ...EngineOption) *Engine {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	discard.SetLevel(logrus.WarnLevel)

	e := &Engine{logger: discard, stackDepth: defaultStackDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) vmOptions() []expr.Option {
	return []expr.Option{
		expr.WithLogger(e.logger),
		expr.WithStackDepth(e.stackDepth),
	}
}

var defaultEngine = NewEngine()
