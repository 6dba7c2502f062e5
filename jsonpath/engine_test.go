// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package jsonpath

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineWithLoggerTracesFilterEvaluation(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	e := NewEngine(WithLogger(logger))
	doc := decodeDoc(t, `{"items":[{"n":1},{"n":2}]}`)
	got, err := e.Select(rootValue(doc), "$.items[?(@.n > 1)].n")
	require.NoError(t, err)
	assert.Equal(t, []int32{2}, int32s(t, got))
	assert.Contains(t, buf.String(), "expr: executing instruction")
}

func TestEngineWithStackDepthAppliesToVM(t *testing.T) {
	e := NewEngine(WithStackDepth(2))
	doc := decodeDoc(t, `{"items":[{"n":1}]}`)
	_, err := e.Select(rootValue(doc), "$.items[?(1 + (2 + (3 + 4)) > 0)]")
	assert.Error(t, err)
}
