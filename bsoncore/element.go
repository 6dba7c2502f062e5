// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsoncore

// Element is a single BSON element: a type byte, a cstring key, and a
// value payload, stored as its raw wire bytes. Element is a read-only
// view; its three mutators (SetName, SetType, SetValue) each build a
// brand new Element in a scratch buffer and only return it on success,
// so a failed mutation never leaves the receiver's bytes half-written.
type Element []byte

// ReadElement reads a single element (type byte, cstring key, and a value
// payload appropriate to the type) from the front of src.
func ReadElement(src []byte) (Element, []byte, bool) {
	t, _, ok := ReadType(src)
	if !ok {
		return nil, src, false
	}
	_, rest, ok := ReadKey(src[1:])
	if !ok {
		return nil, src, false
	}
	_, rem, ok := readValue(rest, t)
	if !ok {
		return nil, src, false
	}
	n := len(src) - len(rem)
	return Element(src[:n]), rem, true
}

// Type returns e's BSON type tag.
func (e Element) Type() Type {
	if len(e) < 1 {
		return Type(0)
	}
	return Type(e[0])
}

// Key returns e's name.
func (e Element) Key() string {
	key, _, ok := ReadKey(e[1:])
	if !ok {
		return ""
	}
	return key
}

// Value returns e's typed payload.
func (e Element) Value() Value {
	_, rest, ok := ReadKey(e[1:])
	if !ok {
		return Value{}
	}
	return Value{Type: e.Type(), Data: rest}
}

// Validate checks e's type tag is recognized, its key is a well-formed
// cstring, and its value payload is the exact size its type requires with
// no trailing bytes.
func (e Element) Validate() error {
	t, key, rest, ok := ReadHeader(e)
	if !ok {
		return NewInsufficientBytesError(e, e)
	}
	if !t.IsValid() {
		return newInvalidElementTypeError(t)
	}
	if containsNull(key) {
		return ErrNameContainsNull
	}
	v := Value{Type: t, Data: rest}
	return v.Validate()
}

// Size returns the total number of wire bytes e occupies (type byte + key
// + null terminator + payload).
func (e Element) Size() int32 {
	return int32(len(e))
}

// String implements fmt.Stringer, rendering e as a single Extended JSON
// v1 key/value pair.
func (e Element) String() string {
	return `"` + escapeString(e.Key()) + `":` + e.Value().String()
}

// SetName returns a copy of e with its key replaced by name. It fails
// with ErrNameContainsNull if name embeds a null byte; e itself is never
// modified.
func (e Element) SetName(name string) (Element, error) {
	if containsNull(name) {
		return nil, ErrNameContainsNull
	}
	v := e.Value()
	buf := make([]byte, 0, len(name)+len(v.Data)+2)
	buf = AppendHeader(buf, e.Type(), name)
	buf = append(buf, v.Data...)
	return Element(buf), nil
}

// SetType returns a copy of e with its type changed to t and its payload
// reset to t's zero value (Open Question decision D.2: set_type is a pure
// validator + re-zero, never leaving stale payload bytes of the wrong
// shape behind).
func (e Element) SetType(t Type) (Element, error) {
	if !t.IsValid() {
		return nil, newInvalidElementTypeError(t)
	}
	zero := zeroPayload(t)
	buf := make([]byte, 0, len(e.Key())+len(zero)+2)
	buf = AppendHeader(buf, t, e.Key())
	buf = append(buf, zero...)
	return Element(buf), nil
}

// SetValue returns a copy of e with its value replaced by v, adopting
// v.Type as e's new type.
func (e Element) SetValue(v Value) (Element, error) {
	if !v.Type.IsValid() {
		return nil, newInvalidElementTypeError(v.Type)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(e.Key())+len(v.Data)+2)
	buf = AppendHeader(buf, v.Type, e.Key())
	buf = append(buf, v.Data...)
	return Element(buf), nil
}

func containsNull(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0x00 {
			return true
		}
	}
	return false
}

// zeroPayload returns the wire-encoded zero value for t: 0.0 for double,
// the empty string for string/javascript/symbol, the empty document or
// array, a zero-length binary blob with subtype 0x00, a zero ObjectID,
// false, epoch 0 for datetime, no bytes for null/undefined/min/max key,
// empty pattern/options for regex, an empty namespace and zero ObjectID
// for dbPointer, empty code with an empty scope document for
// codeWithScope, 0 for int32/int64, and a zero timestamp.
func zeroPayload(t Type) []byte {
	switch t {
	case TypeDouble:
		return AppendDouble(nil, 0)
	case TypeString, TypeJavaScript, TypeSymbol:
		return appendstring(nil, "")
	case TypeEmbeddedDocument, TypeArray:
		return emptyContainer()
	case TypeBinary:
		return AppendBinary(nil, 0x00, nil)
	case TypeUndefined, TypeNull, TypeMinKey, TypeMaxKey:
		return nil
	case TypeObjectID:
		return AppendObjectID(nil, ObjectID{})
	case TypeBoolean:
		return AppendBoolean(nil, false)
	case TypeDateTime:
		return AppendDateTime(nil, 0)
	case TypeRegex:
		return AppendRegex(nil, "", "")
	case TypeDBPointer:
		return AppendDBPointer(nil, "", ObjectID{})
	case TypeCodeWithScope:
		return AppendCodeWithScope(nil, "", emptyContainer())
	case TypeInt32:
		return AppendInt32(nil, 0)
	case TypeTimestamp:
		return AppendTimestamp(nil, 0, 0)
	case TypeInt64:
		return AppendInt64(nil, 0)
	default:
		return nil
	}
}

func emptyContainer() []byte {
	idx, buf := ReserveLength(nil)
	return AppendDocumentEnd(buf, idx)
}
