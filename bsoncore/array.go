// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsoncore

import (
	"strconv"
	"strings"
)

// Array is a BSON array: wire-identical to a Document, but with keys that
// are required to be the ascending decimal strings "0", "1", "2", ...
// Array never renumbers element keys on write; Builder is responsible
// for writing them correctly as elements are appended.
type Array []byte

// NewArrayFromReader builds an Array from a previously-validated byte
// slice, without copying.
func NewArrayFromReader(b []byte) (Array, error) {
	a := Array(b)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Len reports the array's declared byte length.
func (a Array) Len() int32 {
	if len(a) < 4 {
		return 0
	}
	l, _, _ := ReadLength(a)
	return l
}

// Empty reports whether a is the empty array.
func (a Array) Empty() bool {
	return len(a) <= 5
}

// Validate walks every element in a, checking the length prefix, trailing
// null terminator, each element's own Validate, and that keys are the
// ascending decimal strings "0", "1", "2", ... in order.
func (a Array) Validate() error {
	l, _, ok := ReadLength(a)
	if !ok {
		return NewInsufficientBytesError(a, a)
	}
	if int(l) != len(a) || l < 5 {
		return newDocumentValidationError(0, lengthError("array", int(l), len(a)))
	}
	rem := a[4 : l-1]
	offset := 4
	idx := 0
	for len(rem) > 0 {
		elem, next, ok := ReadElement(rem)
		if !ok {
			return newDocumentValidationError(offset, ErrInvalidKey)
		}
		if err := elem.Validate(); err != nil {
			return newDocumentValidationError(offset, err)
		}
		if elem.Key() != strconv.Itoa(idx) {
			return newDocumentValidationError(offset, ErrInvalidKey)
		}
		offset += len(rem) - len(next)
		rem = next
		idx++
	}
	if a[l-1] != 0x00 {
		return newDocumentValidationError(int(l-1), ErrMissingNull)
	}
	return nil
}

// Values returns every element's value, in index order.
func (a Array) Values() ([]Value, error) {
	l, _, ok := ReadLength(a)
	if !ok || int(l) > len(a) {
		return nil, NewInsufficientBytesError(a, a)
	}
	var values []Value
	rem := a[4 : l-1]
	for len(rem) > 0 {
		elem, next, ok := ReadElement(rem)
		if !ok {
			return nil, ErrInvalidKey
		}
		values = append(values, elem.Value())
		rem = next
	}
	return values, nil
}

// Index returns the value at position idx, or the zero Value if idx is
// out of range.
func (a Array) Index(idx uint) Value {
	v, _ := a.IndexErr(idx)
	return v
}

// IndexErr is the error-returning form of Index.
func (a Array) IndexErr(idx uint) (Value, error) {
	return a.LookupErr(strconv.FormatUint(uint64(idx), 10))
}

// LookupErr returns the value of the element whose key matches key
// (typically a decimal index string), or ErrElementNotFound.
func (a Array) LookupErr(key string) (Value, error) {
	l, _, ok := ReadLength(a)
	if !ok || int(l) > len(a) {
		return Value{}, NewInsufficientBytesError(a, a)
	}
	rem := a[4 : l-1]
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

// Equal reports whether a and a2 hold the same sequence of values.
func (a Array) Equal(a2 Array) bool {
	v1, err1 := a.Values()
	v2, err2 := a2.Values()
	if err1 != nil || err2 != nil {
		return false
	}
	if len(v1) != len(v2) {
		return false
	}
	for i := range v1 {
		if !v1[i].Equal(v2[i]) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer using Extended JSON v1.
func (a Array) String() string {
	v := Value{Type: TypeArray, Data: a}
	var buf strings.Builder
	v.writeExtJSON(&buf)
	return buf.String()
}

// DebugString is a best-effort stringifier that never panics.
func (a Array) DebugString() string {
	var buf strings.Builder
	buf.WriteByte('[')
	l, _, ok := ReadLength(a)
	if !ok || int(l) > len(a) || l < 5 {
		buf.WriteString("<malformed>]")
		return buf.String()
	}
	rem := a[4 : l-1]
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
		buf.WriteString(elem.Value().DebugString())
		rem = next
	}
	buf.WriteByte(']')
	return buf.String()
}
