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

func TestParsePathComparison(t *testing.T) {
	n, err := Parse("@.price < 10")
	require.NoError(t, err)
	bin, ok := n.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpLess, bin.Op)
	path, ok := bin.Left.(*PathRefExpr)
	require.True(t, ok)
	assert.Equal(t, "price", path.Path)
	lit, ok := bin.Right.(*IntLiteral)
	require.True(t, ok)
	assert.EqualValues(t, 10, lit.Value)
}

func TestParseOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 == 7 should parse as (1 + (2 * 3)) == 7
	n, err := Parse("1 + 2 * 3 == 7")
	require.NoError(t, err)
	top, ok := n.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpEqual, top.Op)
	add, ok := top.Left.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpAddB, add.Op)
	mul, ok := add.Right.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpMulB, mul.Op)
}

func TestParseAndOrPrecedence(t *testing.T) {
	// a || b && c should parse as a || (b && c)
	n, err := Parse("true || false && true")
	require.NoError(t, err)
	top, ok := n.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpOrB, top.Op)
	_, ok = top.Right.(*BinaryExpr)
	require.True(t, ok)
}

func TestParseParenGrouping(t *testing.T) {
	n, err := Parse("(1 + 2) * 3")
	require.NoError(t, err)
	top, ok := n.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpMulB, top.Op)
	_, ok = top.Left.(*BinaryExpr)
	require.True(t, ok)
}

func TestParseUnaryChain(t *testing.T) {
	n, err := Parse("!!true")
	require.NoError(t, err)
	outer, ok := n.(*UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpNegateBool, outer.Op)
	inner, ok := outer.X.(*UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpNegateBool, inner.Op)
}

func TestParseStringLiteralAndNestedPath(t *testing.T) {
	n, err := Parse(`@.tags[0] == "x"`)
	require.NoError(t, err)
	bin, ok := n.(*BinaryExpr)
	require.True(t, ok)
	path, ok := bin.Left.(*PathRefExpr)
	require.True(t, ok)
	assert.Equal(t, "tags[0]", path.Path)
	str, ok := bin.Right.(*StringLiteral)
	require.True(t, ok)
	assert.Equal(t, "x", str.Value)
}

func TestParseRejectsUnbalancedParen(t *testing.T) {
	_, err := Parse("(1 + 2")
	assert.Error(t, err)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := Parse("1 + 2 3")
	assert.Error(t, err)
}

func TestParseRejectsEmptyExpression(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
}
