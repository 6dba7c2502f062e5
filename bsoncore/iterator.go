// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsoncore

// Iterator walks the top-level elements of a Document lazily, one at a
// time, and can be Reset to walk again.
type Iterator struct {
	Data Document
	pos  int
}

// NewIterator returns an Iterator over d's top-level elements.
func NewIterator(d Document) *Iterator {
	return &Iterator{Data: d}
}

// Reset rewinds the iterator to the first element.
func (iter *Iterator) Reset() {
	iter.pos = 0
}

// Empty reports whether the underlying document has no elements at all.
// It does not reflect how far the iterator has advanced.
func (iter *Iterator) Empty() bool {
	return iter.Data.Empty()
}

// Next advances the iterator and returns the next element, or
// ErrElementNotFound once the document is exhausted.
func (iter *Iterator) Next() (Element, error) {
	l, _, ok := ReadLength(iter.Data)
	if !ok {
		return Element{}, NewInsufficientBytesError(iter.Data, iter.Data)
	}
	body := iter.Data[4 : l-1]
	if iter.pos >= len(body) {
		return Element{}, ErrElementNotFound
	}
	elem, _, ok := ReadElement(body[iter.pos:])
	if !ok {
		return Element{}, ErrInvalidKey
	}
	iter.pos += len(elem)
	return elem, nil
}

// Elements drains the iterator, returning every remaining element.
func (iter *Iterator) Elements() ([]Element, error) {
	var elems []Element
	for {
		elem, err := iter.Next()
		if err == ErrElementNotFound {
			return elems, nil
		}
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
}
