// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package jsonpath

import (
	"strings"
	"testing"

	"github.com/njlr/bsonpath/bsoncore"
	"github.com/njlr/bsonpath/bsonjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeDoc(t *testing.T, jsonText string) bsoncore.Document {
	t.Helper()
	dec, err := bsonjson.NewDecoder(strings.NewReader(jsonText))
	require.NoError(t, err)
	doc, err := dec.Decode()
	require.NoError(t, err)
	return doc
}

func rootValue(doc bsoncore.Document) bsoncore.Value {
	return bsoncore.Value{Type: bsoncore.TypeEmbeddedDocument, Data: doc}
}

func int32s(t *testing.T, vals []bsoncore.Value) []int32 {
	t.Helper()
	out := make([]int32, 0, len(vals))
	for _, v := range vals {
		require.Equal(t, bsoncore.TypeInt32, v.Type)
		out = append(out, v.Int32())
	}
	return out
}

func TestSelectRecursiveDescent(t *testing.T) {
	doc := decodeDoc(t, `{"a":{"b":1,"c":{"b":2}},"d":[{"b":3},{"b":4}]}`)
	got, err := Select(rootValue(doc), "$..b")
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 4}, int32s(t, got))
}

func TestSelectFilterExpression(t *testing.T) {
	doc := decodeDoc(t, `{"items":[{"n":1},{"n":2},{"n":3}]}`)
	got, err := Select(rootValue(doc), "$.items[?(@.n > 1)].n")
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 3}, int32s(t, got))
}

func TestSelectRootAndEmptyPathAreIdempotent(t *testing.T) {
	doc := decodeDoc(t, `{"a":1}`)
	root := rootValue(doc)

	viaDollar, err := Select(root, "$")
	require.NoError(t, err)
	viaEmpty, err := Select(root, "")
	require.NoError(t, err)

	require.Len(t, viaDollar, 1)
	require.Len(t, viaEmpty, 1)
	assert.Equal(t, root, viaDollar[0])
	assert.Equal(t, root, viaEmpty[0])
}

func TestSelectMissingNameYieldsEmptyNotError(t *testing.T) {
	doc := decodeDoc(t, `{"a":1}`)
	got, err := Select(rootValue(doc), "$.missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectWildcardDescendsOnlyIntoContainers(t *testing.T) {
	doc := decodeDoc(t, `{"a":1,"b":{"x":10},"c":[1,2]}`)
	got, err := Select(rootValue(doc), "$.*.*")
	require.NoError(t, err)
	assert.Equal(t, []int32{10, 1, 2}, int32s(t, got))
}

func TestSelectBracketNameList(t *testing.T) {
	doc := decodeDoc(t, `{"a":1,"b":2,"c":3}`)
	got, err := Select(rootValue(doc), `$['a','c']`)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 3}, int32s(t, got))
}

func TestSelectBracketListDedupsPreservingOrder(t *testing.T) {
	doc := decodeDoc(t, `{"a":1,"b":2,"c":3}`)
	got, err := Select(rootValue(doc), `$['a','a','b','a']`)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, int32s(t, got))
}

func TestSelectArrayIndex(t *testing.T) {
	doc := decodeDoc(t, `{"items":[10,20,30]}`)
	got, err := Select(rootValue(doc), "$.items[1]")
	require.NoError(t, err)
	assert.Equal(t, []int32{20}, int32s(t, got))
}

func TestSelectPlainExpressionSubscriptName(t *testing.T) {
	doc := decodeDoc(t, `{"a":1,"b":2}`)
	got, err := Select(rootValue(doc), `$[("a")]`)
	require.NoError(t, err)
	assert.Equal(t, []int32{1}, int32s(t, got))
}

func TestSelectPlainExpressionSubscriptBoolSelectsAll(t *testing.T) {
	doc := decodeDoc(t, `{"a":1,"b":2}`)
	got, err := Select(rootValue(doc), `$[(true)]`)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSelectMalformedPathIsError(t *testing.T) {
	doc := decodeDoc(t, `{"a":1}`)
	_, err := Select(rootValue(doc), "$.a[")
	assert.Error(t, err)
}

func TestSelectFilterContextIsSiblingSubtree(t *testing.T) {
	doc := decodeDoc(t, `{"items":[{"n":1,"ok":true},{"n":2,"ok":false}]}`)
	got, err := Select(rootValue(doc), `$.items[?(@.ok == true)].n`)
	require.NoError(t, err)
	assert.Equal(t, []int32{1}, int32s(t, got))
}
