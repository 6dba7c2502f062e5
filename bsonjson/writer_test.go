// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonjson

import (
	"math"
	"strings"
	"testing"

	"github.com/njlr/bsonpath/bsoncore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDocumentRoundTrip(t *testing.T) {
	doc := bsoncore.BuildInlineDocument(func(b *bsoncore.Builder) {
		b.AppendString("name", "lovelace")
		b.AppendInt32("year", 1843)
		b.AppendBoolean("active", true)
		b.AppendNull("gap")
	})
	w := NewWriter()
	out, err := w.WriteDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"lovelace","year":1843,"active":true,"gap":null}`, out)

	d, err := NewDecoder(strings.NewReader(out))
	require.NoError(t, err)
	got, err := d.Decode()
	require.NoError(t, err)

	year, err := got.LookupErr("year")
	require.NoError(t, err)
	assert.Equal(t, bsoncore.TypeInt32, year.Type)
	assert.EqualValues(t, 1843, year.Int32())
}

func TestWriteNestedArray(t *testing.T) {
	doc := bsoncore.BuildInlineDocument(func(b *bsoncore.Builder) {
		b.AppendInlineArray("tags", func(a *bsoncore.ArrayBuilder) {
			a.AppendString("x")
			a.AppendString("y")
		})
	})
	w := NewWriter()
	out, err := w.WriteDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"tags":["x","y"]}`, out)
}

func TestWriteNonFiniteDoubleEmitsNull(t *testing.T) {
	doc := bsoncore.BuildInlineDocument(func(b *bsoncore.Builder) {
		b.AppendDouble("nan", math.NaN())
		b.AppendDouble("inf", math.Inf(1))
		b.AppendDouble("neginf", math.Inf(-1))
		b.AppendDouble("finite", 2.5)
	})
	w := NewWriter()
	out, err := w.WriteDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"nan":null,"inf":null,"neginf":null,"finite":2.5}`, out)
}

func TestWriteObjectIDAndDateTimeAreBare(t *testing.T) {
	oid := bsoncore.ObjectID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c}
	doc := bsoncore.BuildInlineDocument(func(b *bsoncore.Builder) {
		b.AppendObjectID("id", oid)
		b.AppendDateTime("created", 1577836800000)
	})
	w := NewWriter()
	out, err := w.WriteDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"0102030405060708090a0b0c","created":1577836800000}`, out)
}

func TestPrettyIndentsMinifiedOutput(t *testing.T) {
	pretty := Pretty(`{"a":1,"b":[1,2]}`)
	assert.Contains(t, pretty, "\n")
	assert.Contains(t, pretty, "\"a\"")
}
