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

func TestBuilderBuildsValidDocument(t *testing.T) {
	doc := NewDocumentBuilder().
		AppendString("name", "turing").
		AppendInt32("year", 1936).
		AppendBoolean("active", true).
		Build()
	require.NoError(t, doc.Validate())

	v, err := doc.LookupErr("name")
	require.NoError(t, err)
	assert.Equal(t, "turing", v.StringValue())
}

func TestBuilderNestedDocumentsAndArrays(t *testing.T) {
	doc := NewDocumentBuilder().
		AppendInlineArray("tags", func(a *ArrayBuilder) {
			a.AppendString("alpha")
			a.AppendString("beta")
		}).
		AppendInlineDocument("meta", func(b *Builder) {
			b.AppendInt32("version", 2)
		}).
		Build()
	require.NoError(t, doc.Validate())

	tags, err := doc.LookupErr("tags")
	require.NoError(t, err)
	values, err := tags.Array().Values()
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "alpha", values[0].StringValue())

	meta, err := doc.LookupErr("meta")
	require.NoError(t, err)
	version, err := meta.Document().LookupErr("version")
	require.NoError(t, err)
	assert.EqualValues(t, 2, version.Int32())
}

func TestArrayBuilderIndicesAreSequential(t *testing.T) {
	arr := NewArrayBuilder().
		AppendInt32(10).
		AppendInt32(20).
		AppendInt32(30).
		Build()
	require.NoError(t, arr.Validate())
	elems, err := Document(arr).Elements()
	require.NoError(t, err)
	for i, e := range elems {
		assert.Equal(t, formatIndex(i), e.Key())
	}
}
