// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsoncore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample() Document {
	return BuildInlineDocument(func(b *Builder) {
		b.AppendString("name", "ada")
		b.AppendInt32("age", 30)
		b.AppendInlineDocument("address", func(inner *Builder) {
			inner.AppendString("city", "london")
		})
	})
}

func TestDocumentValidate(t *testing.T) {
	doc := buildSample()
	require.NoError(t, doc.Validate())
}

func TestDocumentValidate_Truncated(t *testing.T) {
	doc := buildSample()
	truncated := Document(doc[:len(doc)-3])
	assert.Error(t, truncated.Validate())
}

func TestDocumentLookup(t *testing.T) {
	doc := buildSample()
	v, err := doc.LookupErr("name")
	require.NoError(t, err)
	assert.Equal(t, "ada", v.StringValue())

	_, err = doc.LookupErr("missing")
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestDocumentElements(t *testing.T) {
	doc := buildSample()
	elems, err := doc.Elements()
	require.NoError(t, err)
	require.Len(t, elems, 3)
	assert.Equal(t, "name", elems[0].Key())
	assert.Equal(t, "age", elems[1].Key())
	assert.Equal(t, "address", elems[2].Key())
}

func TestDocumentEqual(t *testing.T) {
	a := buildSample()
	b := buildSample()
	assert.True(t, a.Equal(b))

	c := BuildInlineDocument(func(b *Builder) { b.AppendString("name", "grace") })
	assert.False(t, a.Equal(c))
}

func TestDocumentDebugString(t *testing.T) {
	doc := buildSample()
	s := doc.DebugString()
	assert.Contains(t, s, `"name":"ada"`)
	assert.Contains(t, s, `"age":{"$numberInt":"30"}`)
}

func TestDocumentEmpty(t *testing.T) {
	empty := BuildInlineDocument(func(b *Builder) {})
	assert.True(t, empty.Empty())
	assert.False(t, buildSample().Empty())
}
