// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsoncore

import "strings"

// Document is a BSON document: a length-prefixed, null-terminated sequence
// of elements. It is a thin wrapper over the raw wire bytes and performs
// no eager parsing; element access walks the byte stream on demand,
// zero-copy.
type Document []byte

// NewDocumentFromReader builds a Document from a previously-validated byte
// slice, without copying.
func NewDocumentFromReader(b []byte) (Document, error) {
	d := Document(b)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Len reports the document's declared byte length (its own length prefix).
func (d Document) Len() int32 {
	if len(d) < 4 {
		return 0
	}
	l, _, _ := ReadLength(d)
	return l
}

// Empty reports whether d is the empty document (5 bytes: length + null).
func (d Document) Empty() bool {
	return len(d) <= 5
}

// Validate walks every element in d, checking the length prefix, the
// trailing null terminator, and each element's own Validate.
func (d Document) Validate() error {
	l, rem, ok := ReadLength(d)
	if !ok {
		return NewInsufficientBytesError(d, d)
	}
	if int(l) != len(d) {
		return newDocumentValidationError(0, lengthError("document", int(l), len(d)))
	}
	if l < 5 {
		return newDocumentValidationError(0, lengthError("document", int(l), len(d)))
	}
	rem = d[4 : l-1]
	offset := 4
	for len(rem) > 0 {
		elem, next, ok := ReadElement(rem)
		if !ok {
			return newDocumentValidationError(offset, ErrInvalidKey)
		}
		if err := elem.Validate(); err != nil {
			return newDocumentValidationError(offset, err)
		}
		offset += len(rem) - len(next)
		rem = next
	}
	if d[l-1] != 0x00 {
		return newDocumentValidationError(int(l-1), ErrMissingNull)
	}
	return nil
}

// Elements returns every top-level element of d in wire order. It assumes
// d is valid; call Validate first if that is not guaranteed.
func (d Document) Elements() ([]Element, error) {
	l, _, ok := ReadLength(d)
	if !ok || int(l) > len(d) {
		return nil, NewInsufficientBytesError(d, d)
	}
	var elems []Element
	rem := d[4 : l-1]
	for len(rem) > 0 {
		elem, next, ok := ReadElement(rem)
		if !ok {
			return nil, ErrInvalidKey
		}
		elems = append(elems, elem)
		rem = next
	}
	return elems, nil
}

// Values returns every top-level element's value, discarding keys.
func (d Document) Values() ([]Value, error) {
	elems, err := d.Elements()
	if err != nil {
		return nil, err
	}
	values := make([]Value, len(elems))
	for i, e := range elems {
		values[i] = e.Value()
	}
	return values, nil
}

// Lookup returns the value of the first top-level element named key, or
// the zero Value if none is found.
func (d Document) Lookup(key string) Value {
	v, _ := d.LookupErr(key)
	return v
}

// LookupErr is the error-returning form of Lookup: it reports
// ErrElementNotFound when no element named key exists.
func (d Document) LookupErr(key string) (Value, error) {
	l, _, ok := ReadLength(d)
	if !ok || int(l) > len(d) {
		return Value{}, NewInsufficientBytesError(d, d)
	}
	rem := d[4 : l-1]
	for len(rem) > 0 {
		elem, next, ok := ReadElement(rem)
		if !ok {
			return Value{}, ErrInvalidKey
		}
		if elem.Key() == key {
			return elem.Value(), nil
		}
		rem = next
	}
	return Value{}, ErrElementNotFound
}

// IndexErr returns the element at the given top-level position, in wire
// order, or ErrElementNotFound if idx is out of range.
func (d Document) IndexErr(idx int) (Element, error) {
	elems, err := d.Elements()
	if err != nil {
		return Element{}, err
	}
	if idx < 0 || idx >= len(elems) {
		return Element{}, ErrElementNotFound
	}
	return elems[idx], nil
}

// Equal reports whether d and d2 describe the same sequence of elements
// (same keys, types, and values in the same order).
func (d Document) Equal(d2 Document) bool {
	e1, err1 := d.Elements()
	e2, err2 := d2.Elements()
	if err1 != nil || err2 != nil {
		return false
	}
	if len(e1) != len(e2) {
		return false
	}
	for i := range e1 {
		if e1[i].Key() != e2[i].Key() {
			return false
		}
		if !e1[i].Value().Equal(e2[i].Value()) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer using Extended JSON v1.
func (d Document) String() string {
	v := Value{Type: TypeEmbeddedDocument, Data: d}
	var buf strings.Builder
	v.writeExtJSON(&buf)
	return buf.String()
}

// DebugString is a best-effort stringifier that never panics, rendering as
// much of d as can be decoded and a placeholder for the rest.
func (d Document) DebugString() string {
	var buf strings.Builder
	buf.WriteByte('{')
	l, _, ok := ReadLength(d)
	if !ok || int(l) > len(d) || l < 5 {
		buf.WriteString("<malformed>}")
		return buf.String()
	}
	rem := d[4 : l-1]
	first := true
	for len(rem) > 0 {
		elem, next, ok := ReadElement(rem)
		if !ok {
			buf.WriteString("<malformed>")
			break
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteByte('"')
		buf.WriteString(escapeString(elem.Key()))
		buf.WriteString(`":`)
		buf.WriteString(elem.Value().DebugString())
		rem = next
	}
	buf.WriteByte('}')
	return buf.String()
}
