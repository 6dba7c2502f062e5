// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package expr

import (
	"strings"
	"testing"

	"github.com/njlr/bsonpath/bsoncore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dottedNameEval is a minimal Evaluator for tests: it resolves a
// dot-separated chain of plain document keys against root, without any
// of jsonpath's wildcard/filter/recursive-descent machinery. The real
// Evaluator wired in by the jsonpath package is exercised in that
// package's own tests.
func dottedNameEval(root bsoncore.Value, path string) ([]bsoncore.Value, error) {
	if path == "" {
		return []bsoncore.Value{root}, nil
	}
	cur := root
	for _, name := range strings.Split(path, ".") {
		doc, ok := cur.DocumentOK()
		if !ok {
			return nil, nil
		}
		v, err := doc.LookupErr(name)
		if err != nil {
			return nil, nil
		}
		cur = v
	}
	return []bsoncore.Value{cur}, nil
}

func runExpr(t *testing.T, root bsoncore.Document, src string) bool {
	t.Helper()
	prog, err := CompileString(src)
	require.NoError(t, err)
	rootVal := bsoncore.Value{Type: bsoncore.TypeEmbeddedDocument, Data: root}
	vm := NewVM(rootVal, dottedNameEval)
	result, err := vm.Run(prog)
	require.NoError(t, err)
	return result
}

func sampleDoc() bsoncore.Document {
	return bsoncore.BuildInlineDocument(func(b *bsoncore.Builder) {
		b.AppendInt32("price", 7)
		b.AppendString("name", "widget")
		b.AppendBoolean("active", true)
	})
}

func TestVMArithmetic(t *testing.T) {
	assert.True(t, runExpr(t, sampleDoc(), "1 + 2 * 3 == 7"))
}

func TestVMPathComparison(t *testing.T) {
	assert.True(t, runExpr(t, sampleDoc(), "@.price < 10"))
	assert.False(t, runExpr(t, sampleDoc(), "@.price > 10"))
}

func TestVMStringEquality(t *testing.T) {
	assert.True(t, runExpr(t, sampleDoc(), `@.name == "widget"`))
	assert.False(t, runExpr(t, sampleDoc(), `@.name == "gadget"`))
}

func TestVMBooleanElementEquality(t *testing.T) {
	assert.True(t, runExpr(t, sampleDoc(), "@.active == true"))
}

func TestVMLogicalOperators(t *testing.T) {
	assert.True(t, runExpr(t, sampleDoc(), "@.price < 10 && @.active == true"))
	assert.False(t, runExpr(t, sampleDoc(), "@.price > 10 || @.name == \"nope\""))
}

func TestVMMissingPathShortCircuitsFalse(t *testing.T) {
	assert.False(t, runExpr(t, sampleDoc(), "@.missing == 1"))
}

func TestVMDivisionByZero(t *testing.T) {
	prog, err := CompileString("1 / 0")
	require.NoError(t, err)
	rootVal := bsoncore.Value{Type: bsoncore.TypeEmbeddedDocument, Data: sampleDoc()}
	vm := NewVM(rootVal, dottedNameEval)
	_, err = vm.Run(prog)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestVMOrderingTypeMismatchYieldsFalse(t *testing.T) {
	assert.False(t, runExpr(t, sampleDoc(), `@.price < "10"`))
}

func TestVMStackOverflow(t *testing.T) {
	// Build a deeply nested unary chain to exceed maxStackDepth pushes
	// before any pops occur is not how the stack grows for unary chains
	// (each push is immediately consumed), so instead force overflow by
	// compiling a wide chain of additions that all stay live until the
	// final reduction is not representative either; directly exercise
	// VM.push's bound instead.
	vm := NewVM(bsoncore.Value{}, dottedNameEval)
	for i := 0; i < maxStackDepth; i++ {
		require.NoError(t, vm.push(intSlot(int64(i))))
	}
	assert.ErrorIs(t, vm.push(intSlot(0)), ErrStackOverflow)
}
