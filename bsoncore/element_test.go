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

func TestElementReadAndAccessors(t *testing.T) {
	raw := AppendStringElement(nil, "greeting", "hello")
	elem, rem, ok := ReadElement(raw)
	require.True(t, ok)
	require.Empty(t, rem)
	assert.Equal(t, "greeting", elem.Key())
	assert.Equal(t, TypeString, elem.Type())
	assert.Equal(t, "hello", elem.Value().StringValue())
}

func TestElementValidate_BadType(t *testing.T) {
	raw := AppendStringElement(nil, "k", "v")
	raw[0] = 0x99
	elem := Element(raw)
	assert.Error(t, elem.Validate())
}

func TestElementValidate_NameContainsNull(t *testing.T) {
	elem := Element{byte(TypeInt32), 0x00, 0x00, 1, 0, 0, 0}
	assert.ErrorIs(t, elem.Validate(), ErrNameContainsNull)
}

func TestElementSetName(t *testing.T) {
	raw := AppendInt32Element(nil, "old", 5)
	elem := Element(raw)
	renamed, err := elem.SetName("new")
	require.NoError(t, err)
	assert.Equal(t, "new", renamed.Key())
	assert.EqualValues(t, 5, renamed.Value().Int32())
	// original must be untouched
	assert.Equal(t, "old", elem.Key())
}

func TestElementSetName_RejectsEmbeddedNull(t *testing.T) {
	raw := AppendInt32Element(nil, "old", 5)
	elem := Element(raw)
	_, err := elem.SetName("ba\x00d")
	assert.ErrorIs(t, err, ErrNameContainsNull)
}

func TestElementSetType_RezeroesPayload(t *testing.T) {
	raw := AppendStringElement(nil, "k", "a long string value")
	elem := Element(raw)
	retyped, err := elem.SetType(TypeInt32)
	require.NoError(t, err)
	assert.Equal(t, TypeInt32, retyped.Type())
	assert.EqualValues(t, 0, retyped.Value().Int32())
	require.NoError(t, retyped.Validate())
}

func TestElementSetValue(t *testing.T) {
	raw := AppendInt32Element(nil, "k", 1)
	elem := Element(raw)
	updated, err := elem.SetValue(Value{Type: TypeString, Data: AppendString(nil, "now a string")})
	require.NoError(t, err)
	assert.Equal(t, "k", updated.Key())
	assert.Equal(t, "now a string", updated.Value().StringValue())
}
