// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileArithmeticExpression(t *testing.T) {
	prog, err := CompileString("1 + 2 * 3")
	require.NoError(t, err)
	ops := make([]OpCode, 0, len(prog))
	for _, in := range prog {
		ops = append(ops, in.Op)
	}
	assert.Equal(t, []OpCode{OpPushInt, OpPushInt, OpPushInt, OpMul, OpAdd}, ops)
}

func TestCompilePathLoad(t *testing.T) {
	prog, err := CompileString("@.price < 10")
	require.NoError(t, err)
	require.Len(t, prog, 3)
	assert.Equal(t, OpLoad, prog[0].Op)
	assert.Equal(t, "price", prog[0].StrOp)
	assert.Equal(t, OpPushInt, prog[1].Op)
	assert.EqualValues(t, 10, prog[1].IntOp)
	assert.Equal(t, OpLt, prog[2].Op)
}

func TestCompileNeverEmitsStore(t *testing.T) {
	prog, err := CompileString(`@.a == "x" && (1 != 2 || true)`)
	require.NoError(t, err)
	for _, in := range prog {
		assert.NotEqual(t, OpStore, in.Op)
	}
}

func TestCompileUnaryNegation(t *testing.T) {
	prog, err := CompileString("-5")
	require.NoError(t, err)
	assert.Equal(t, []Instruction{
		{Op: OpPushInt, IntOp: 5},
		{Op: OpNeg},
	}, prog)
}
