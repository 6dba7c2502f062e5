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

func TestIteratorWalksAndRestarts(t *testing.T) {
	doc := buildSample()
	iter := NewIterator(doc)

	elems, err := iter.Elements()
	require.NoError(t, err)
	require.Len(t, elems, 3)

	_, err = iter.Next()
	assert.ErrorIs(t, err, ErrElementNotFound)

	iter.Reset()
	first, err := iter.Next()
	require.NoError(t, err)
	assert.Equal(t, "name", first.Key())
}

func TestIteratorEmpty(t *testing.T) {
	empty := BuildInlineDocument(func(b *Builder) {})
	iter := NewIterator(empty)
	assert.True(t, iter.Empty())
	_, err := iter.Next()
	assert.ErrorIs(t, err, ErrElementNotFound)
}
