// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bsoncore provides the byte-level BSON data model: a validating,
// zero-copy-capable representation of BSON elements, documents, and arrays,
// plus an incremental builder for constructing them.
//
// The free functions in this file follow a uniform shape: Append<Kind>
// appends the wire encoding of a Go value to dst and returns the extended
// slice; Append<Kind>Element does the same but also writes the element's
// type byte and cstring key first; Read<Kind> decodes a value from the
// front of src and returns (value, remaining, ok), where ok is false if src
// did not contain enough bytes.
package bsoncore

import (
	"encoding/binary"
	"math"
)

// ReserveLength appends four placeholder bytes to dst for a length prefix
// that will be filled in later by UpdateLength, and returns the index at
// which those bytes begin.
func ReserveLength(dst []byte) (int32, []byte) {
	index := len(dst)
	return int32(index), append(dst, 0x00, 0x00, 0x00, 0x00)
}

// UpdateLength writes length as a little-endian int32 into dst starting at
// index, overwriting the placeholder bytes ReserveLength appended.
func UpdateLength(dst []byte, index, length int32) []byte {
	binary.LittleEndian.PutUint32(dst[index:], uint32(length))
	return dst
}

// ReadLength reads a little-endian int32 length prefix from the front of
// src.
func ReadLength(src []byte) (int32, []byte, bool) {
	return ReadInt32(src)
}

func appendLength(dst []byte, l int32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(l))
	return append(dst, buf[:]...)
}

func appendi32(dst []byte, i32 int32) []byte {
	return appendLength(dst, i32)
}

func appendu32(dst []byte, u32 uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], u32)
	return append(dst, buf[:]...)
}

func appendi64(dst []byte, i64 int64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(i64))
	return append(dst, buf[:]...)
}

func appendu64(dst []byte, u64 uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], u64)
	return append(dst, buf[:]...)
}

func appendstring(dst []byte, s string) []byte {
	l := int32(len(s) + 1)
	dst = appendLength(dst, l)
	dst = append(dst, s...)
	return append(dst, 0x00)
}

// AppendType appends t's byte discriminant to dst.
func AppendType(dst []byte, t Type) []byte { return append(dst, byte(t)) }

// AppendKey appends key as a null-terminated cstring to dst.
func AppendKey(dst []byte, key string) []byte {
	dst = append(dst, key...)
	return append(dst, 0x00)
}

// AppendHeader appends an element's type byte and cstring key to dst.
func AppendHeader(dst []byte, t Type, key string) []byte {
	dst = AppendType(dst, t)
	return AppendKey(dst, key)
}

// AppendValueElement appends an element using key and value's wire bytes.
func AppendValueElement(dst []byte, key string, value Value) []byte {
	dst = AppendHeader(dst, value.Type, key)
	return append(dst, value.Data...)
}

// ReadType reads a single type byte from the front of src.
func ReadType(src []byte) (Type, []byte, bool) {
	if len(src) < 1 {
		return Type(0), src, false
	}
	return Type(src[0]), src[1:], true
}

// ReadKey reads a null-terminated cstring key from the front of src.
func ReadKey(src []byte) (string, []byte, bool) {
	idx := indexNull(src)
	if idx < 0 {
		return "", src, false
	}
	return string(src[:idx]), src[idx+1:], true
}

// ReadHeader reads an element's type byte and cstring key from the front
// of src.
func ReadHeader(src []byte) (Type, string, []byte, bool) {
	t, rem, ok := ReadType(src)
	if !ok {
		return Type(0), "", src, false
	}
	key, rem, ok := ReadKey(rem)
	if !ok {
		return Type(0), "", src, false
	}
	return t, key, rem, true
}

func indexNull(src []byte) int {
	for i, b := range src {
		if b == 0x00 {
			return i
		}
	}
	return -1
}

// --- double ---

// AppendDouble appends f's IEEE-754 bytes to dst.
func AppendDouble(dst []byte, f float64) []byte {
	return appendu64(dst, math.Float64bits(f))
}

// AppendDoubleElement appends a double element using key and f.
func AppendDoubleElement(dst []byte, key string, f float64) []byte {
	dst = AppendHeader(dst, TypeDouble, key)
	return AppendDouble(dst, f)
}

// ReadDouble reads an IEEE-754 double from the front of src.
func ReadDouble(src []byte) (float64, []byte, bool) {
	if len(src) < 8 {
		return 0, src, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(src)), src[8:], true
}

// --- string / javascript / symbol (identical wire shape) ---

// AppendString appends s as a length-prefixed, null-terminated string.
func AppendString(dst []byte, s string) []byte { return appendstring(dst, s) }

// AppendStringElement appends a string element using key and val.
func AppendStringElement(dst []byte, key, val string) []byte {
	dst = AppendHeader(dst, TypeString, key)
	return AppendString(dst, val)
}

// ReadString reads a length-prefixed, null-terminated string.
func ReadString(src []byte) (string, []byte, bool) {
	l, rem, ok := ReadLength(src)
	if !ok || l < 1 || int(l) > len(rem) {
		return "", src, false
	}
	if rem[l-1] != 0x00 {
		return "", src, false
	}
	return string(rem[:l-1]), rem[l:], true
}

// AppendJavaScript appends js using the string wire shape.
func AppendJavaScript(dst []byte, js string) []byte { return appendstring(dst, js) }

// AppendJavaScriptElement appends a JavaScript element using key and js.
func AppendJavaScriptElement(dst []byte, key, js string) []byte {
	dst = AppendHeader(dst, TypeJavaScript, key)
	return AppendJavaScript(dst, js)
}

// ReadJavaScript reads a JavaScript code string.
func ReadJavaScript(src []byte) (string, []byte, bool) { return ReadString(src) }

// AppendSymbol appends symbol using the string wire shape.
func AppendSymbol(dst []byte, symbol string) []byte { return appendstring(dst, symbol) }

// AppendSymbolElement appends a symbol element using key and symbol.
func AppendSymbolElement(dst []byte, key, symbol string) []byte {
	dst = AppendHeader(dst, TypeSymbol, key)
	return AppendSymbol(dst, symbol)
}

// ReadSymbol reads a symbol string.
func ReadSymbol(src []byte) (string, []byte, bool) { return ReadString(src) }

// --- document / array ---

// AppendDocumentStart reserves a document's length prefix, returning the
// index UpdateLength/AppendDocumentEnd will later use.
func AppendDocumentStart(dst []byte) (int32, []byte) { return ReserveLength(dst) }

// AppendDocumentEnd writes the trailing null byte and backfills the length
// prefix reserved at index.
func AppendDocumentEnd(dst []byte, index int32) []byte {
	dst = append(dst, 0x00)
	return UpdateLength(dst, index, int32(len(dst[index:])))
}

// AppendDocument appends doc's raw bytes to dst.
func AppendDocument(dst []byte, doc []byte) []byte { return append(dst, doc...) }

// AppendDocumentElement appends a document element using key and doc.
func AppendDocumentElement(dst []byte, key string, doc []byte) []byte {
	dst = AppendHeader(dst, TypeEmbeddedDocument, key)
	return AppendDocument(dst, doc)
}

// ReadDocument reads a nested document (length-prefixed, null-terminated)
// from the front of src.
func ReadDocument(src []byte) (Document, []byte, bool) {
	l, _, ok := ReadLength(src)
	if !ok || l < 5 || int(l) > len(src) {
		return nil, src, false
	}
	return Document(src[:l]), src[l:], true
}

// AppendArrayStart reserves an array's length prefix.
func AppendArrayStart(dst []byte) (int32, []byte) { return ReserveLength(dst) }

// AppendArrayEnd writes the trailing null byte and backfills the length
// prefix reserved at index.
func AppendArrayEnd(dst []byte, index int32) []byte { return AppendDocumentEnd(dst, index) }

// AppendArray appends arr's raw bytes to dst.
func AppendArray(dst []byte, arr []byte) []byte { return append(dst, arr...) }

// AppendArrayElement appends an array element using key and arr.
func AppendArrayElement(dst []byte, key string, arr []byte) []byte {
	dst = AppendHeader(dst, TypeArray, key)
	return AppendArray(dst, arr)
}

// ReadArray reads a nested array (same wire shape as a document).
func ReadArray(src []byte) (Array, []byte, bool) {
	l, _, ok := ReadLength(src)
	if !ok || l < 5 || int(l) > len(src) {
		return nil, src, false
	}
	return Array(src[:l]), src[l:], true
}

// --- binary ---

// AppendBinary appends a binary value: length-prefixed subtype+bytes. The
// deprecated subtype 0x02 nests its own redundant length prefix.
func AppendBinary(dst []byte, subtype byte, data []byte) []byte {
	if subtype == 0x02 {
		dst = appendLength(dst, int32(len(data)+4))
		dst = append(dst, subtype)
		dst = appendLength(dst, int32(len(data)))
		return append(dst, data...)
	}
	dst = appendLength(dst, int32(len(data)))
	dst = append(dst, subtype)
	return append(dst, data...)
}

// AppendBinaryElement appends a binary element using key, subtype, data.
func AppendBinaryElement(dst []byte, key string, subtype byte, data []byte) []byte {
	dst = AppendHeader(dst, TypeBinary, key)
	return AppendBinary(dst, subtype, data)
}

// ReadBinary reads a binary value's subtype and payload.
func ReadBinary(src []byte) (subtype byte, data []byte, rem []byte, ok bool) {
	l, rest, ok := ReadLength(src)
	if !ok {
		return 0, nil, src, false
	}
	if len(rest) < 1 {
		return 0, nil, src, false
	}
	subtype = rest[0]
	rest = rest[1:]
	if subtype == 0x02 {
		if int(l) < 4 {
			return 0, nil, src, false
		}
		innerLen, rest2, ok := ReadLength(rest)
		if !ok || innerLen != l-4 || int(innerLen) > len(rest2) {
			return 0, nil, src, false
		}
		return subtype, append([]byte(nil), rest2[:innerLen]...), rest2[innerLen:], true
	}
	if l < 0 || int(l) > len(rest) {
		return 0, nil, src, false
	}
	return subtype, append([]byte(nil), rest[:l]...), rest[l:], true
}

// --- objectID ---

// AppendObjectID appends oid's 12 raw bytes to dst.
func AppendObjectID(dst []byte, oid ObjectID) []byte { return append(dst, oid[:]...) }

// AppendObjectIDElement appends an objectID element using key and oid.
func AppendObjectIDElement(dst []byte, key string, oid ObjectID) []byte {
	dst = AppendHeader(dst, TypeObjectID, key)
	return AppendObjectID(dst, oid)
}

// ReadObjectID reads a 12-byte object ID.
func ReadObjectID(src []byte) (ObjectID, []byte, bool) {
	if len(src) < 12 {
		return ObjectID{}, src, false
	}
	var oid ObjectID
	copy(oid[:], src[:12])
	return oid, src[12:], true
}

// --- boolean ---

// AppendBoolean appends b as a single 0x00/0x01 byte.
func AppendBoolean(dst []byte, b bool) []byte {
	if b {
		return append(dst, 0x01)
	}
	return append(dst, 0x00)
}

// AppendBooleanElement appends a boolean element using key and b.
func AppendBooleanElement(dst []byte, key string, b bool) []byte {
	dst = AppendHeader(dst, TypeBoolean, key)
	return AppendBoolean(dst, b)
}

// ReadBoolean reads a single boolean byte. Any non-zero byte is accepted
// on read and coerces to true; only 0x00/0x01 are ever written.
func ReadBoolean(src []byte) (bool, []byte, bool) {
	if len(src) < 1 {
		return false, src, false
	}
	return src[0] != 0x00, src[1:], true
}

// --- datetime ---

// AppendDateTime appends dt (milliseconds since the epoch) as an int64.
func AppendDateTime(dst []byte, dt int64) []byte { return appendi64(dst, dt) }

// AppendDateTimeElement appends a datetime element using key and dt.
func AppendDateTimeElement(dst []byte, key string, dt int64) []byte {
	dst = AppendHeader(dst, TypeDateTime, key)
	return AppendDateTime(dst, dt)
}

// ReadDateTime reads a datetime (int64 milliseconds since the epoch).
func ReadDateTime(src []byte) (int64, []byte, bool) { return ReadInt64(src) }

// --- null / undefined / min/max key (no payload) ---

// AppendNullElement appends a null element using key.
func AppendNullElement(dst []byte, key string) []byte {
	return AppendHeader(dst, TypeNull, key)
}

// AppendUndefinedElement appends an undefined element using key.
func AppendUndefinedElement(dst []byte, key string) []byte {
	return AppendHeader(dst, TypeUndefined, key)
}

// AppendMinKeyElement appends a min-key element using key.
func AppendMinKeyElement(dst []byte, key string) []byte {
	return AppendHeader(dst, TypeMinKey, key)
}

// AppendMaxKeyElement appends a max-key element using key.
func AppendMaxKeyElement(dst []byte, key string) []byte {
	return AppendHeader(dst, TypeMaxKey, key)
}

// --- regex ---

// AppendRegex appends pattern and options as two consecutive cstrings.
func AppendRegex(dst []byte, pattern, options string) []byte {
	dst = AppendKey(dst, pattern)
	return AppendKey(dst, options)
}

// AppendRegexElement appends a regex element using key, pattern, options.
func AppendRegexElement(dst []byte, key, pattern, options string) []byte {
	dst = AppendHeader(dst, TypeRegex, key)
	return AppendRegex(dst, pattern, options)
}

// ReadRegex reads a regex value's pattern and options cstrings.
func ReadRegex(src []byte) (pattern, options string, rem []byte, ok bool) {
	pattern, rem, ok = ReadKey(src)
	if !ok {
		return "", "", src, false
	}
	options, rem, ok = ReadKey(rem)
	if !ok {
		return "", "", src, false
	}
	return pattern, options, rem, true
}

// --- db_pointer ---

// AppendDBPointer appends a DBPointer value: string namespace then OID.
func AppendDBPointer(dst []byte, ns string, oid ObjectID) []byte {
	dst = AppendString(dst, ns)
	return AppendObjectID(dst, oid)
}

// AppendDBPointerElement appends a DBPointer element using key, ns, oid.
func AppendDBPointerElement(dst []byte, key, ns string, oid ObjectID) []byte {
	dst = AppendHeader(dst, TypeDBPointer, key)
	return AppendDBPointer(dst, ns, oid)
}

// ReadDBPointer reads a DBPointer's namespace string and OID.
func ReadDBPointer(src []byte) (ns string, oid ObjectID, rem []byte, ok bool) {
	ns, rem, ok = ReadString(src)
	if !ok {
		return "", ObjectID{}, src, false
	}
	oid, rem, ok = ReadObjectID(rem)
	if !ok {
		return "", ObjectID{}, src, false
	}
	return ns, oid, rem, true
}

// --- code with scope ---

// AppendCodeWithScope appends a scoped_javascript value: a total length
// prefix, then the code string, then the scope document.
func AppendCodeWithScope(dst []byte, code string, scope []byte) []byte {
	length := int32(4 + 4 + len(code) + 1 + len(scope))
	dst = appendLength(dst, length)
	dst = appendstring(dst, code)
	return append(dst, scope...)
}

// AppendCodeWithScopeElement appends a scoped_javascript element.
func AppendCodeWithScopeElement(dst []byte, key, code string, scope []byte) []byte {
	dst = AppendHeader(dst, TypeCodeWithScope, key)
	return AppendCodeWithScope(dst, code, scope)
}

// ReadCodeWithScope reads a scoped_javascript value's code and scope.
func ReadCodeWithScope(src []byte) (code string, scope Document, rem []byte, ok bool) {
	total, _, ok := ReadLength(src)
	if !ok || int(total) > len(src) {
		return "", nil, src, false
	}
	body := src[4:total]
	code, body, ok = ReadString(body)
	if !ok {
		return "", nil, src, false
	}
	scope, body, ok = ReadDocument(body)
	if !ok || len(body) != 0 {
		return "", nil, src, false
	}
	return code, scope, src[total:], true
}

// --- int32 ---

// AppendInt32 appends i32's little-endian bytes.
func AppendInt32(dst []byte, i32 int32) []byte { return appendi32(dst, i32) }

// AppendInt32Element appends an int32 element using key and i32.
func AppendInt32Element(dst []byte, key string, i32 int32) []byte {
	dst = AppendHeader(dst, TypeInt32, key)
	return AppendInt32(dst, i32)
}

// ReadInt32 reads a little-endian int32.
func ReadInt32(src []byte) (int32, []byte, bool) {
	if len(src) < 4 {
		return 0, src, false
	}
	return int32(binary.LittleEndian.Uint32(src)), src[4:], true
}

// --- timestamp ---

// AppendTimestamp appends t (seconds) and i (ordinal), i first on the wire.
func AppendTimestamp(dst []byte, t, i uint32) []byte {
	dst = appendu32(dst, i)
	return appendu32(dst, t)
}

// AppendTimestampElement appends a timestamp element using key, t, i.
func AppendTimestampElement(dst []byte, key string, t, i uint32) []byte {
	dst = AppendHeader(dst, TypeTimestamp, key)
	return AppendTimestamp(dst, t, i)
}

// ReadTimestamp reads a timestamp's ordinal and seconds fields.
func ReadTimestamp(src []byte) (t, i uint32, rem []byte, ok bool) {
	if len(src) < 8 {
		return 0, 0, src, false
	}
	i = binary.LittleEndian.Uint32(src[0:4])
	t = binary.LittleEndian.Uint32(src[4:8])
	return t, i, src[8:], true
}

// --- int64 ---

// AppendInt64 appends i64's little-endian bytes.
func AppendInt64(dst []byte, i64 int64) []byte { return appendi64(dst, i64) }

// AppendInt64Element appends an int64 element using key and i64.
func AppendInt64Element(dst []byte, key string, i64 int64) []byte {
	dst = AppendHeader(dst, TypeInt64, key)
	return AppendInt64(dst, i64)
}

// ReadInt64 reads a little-endian int64.
func ReadInt64(src []byte) (int64, []byte, bool) {
	if len(src) < 8 {
		return 0, src, false
	}
	return int64(binary.LittleEndian.Uint64(src)), src[8:], true
}

// readValue reads a value of the given type from the front of src,
// returning its raw payload bytes and the remainder. It is the shared
// implementation behind Element/Value decoding and Value.Validate.
func readValue(src []byte, t Type) (data []byte, rem []byte, ok bool) {
	switch t {
	case TypeDouble:
		if len(src) < 8 {
			return nil, src, false
		}
		return src[:8], src[8:], true
	case TypeString, TypeJavaScript, TypeSymbol:
		l, rest, ok := ReadLength(src)
		if !ok || l < 1 || int(l) > len(rest) {
			return nil, src, false
		}
		return src[:4+l], rest[l:], true
	case TypeEmbeddedDocument, TypeArray:
		l, _, ok := ReadLength(src)
		if !ok || l < 5 || int(l) > len(src) {
			return nil, src, false
		}
		return src[:l], src[l:], true
	case TypeBinary:
		_, _, rem, ok := ReadBinary(src)
		if !ok {
			return nil, src, false
		}
		return src[:len(src)-len(rem)], rem, true
	case TypeUndefined, TypeNull, TypeMinKey, TypeMaxKey:
		return src[:0], src, true
	case TypeObjectID:
		if len(src) < 12 {
			return nil, src, false
		}
		return src[:12], src[12:], true
	case TypeBoolean:
		if len(src) < 1 {
			return nil, src, false
		}
		return src[:1], src[1:], true
	case TypeDateTime, TypeInt64, TypeTimestamp:
		if len(src) < 8 {
			return nil, src, false
		}
		return src[:8], src[8:], true
	case TypeRegex:
		_, _, rem, ok := ReadRegex(src)
		if !ok {
			return nil, src, false
		}
		return src[:len(src)-len(rem)], rem, true
	case TypeDBPointer:
		_, _, rem, ok := ReadDBPointer(src)
		if !ok {
			return nil, src, false
		}
		return src[:len(src)-len(rem)], rem, true
	case TypeCodeWithScope:
		total, _, ok := ReadLength(src)
		if !ok || total < 5 || int(total) > len(src) {
			return nil, src, false
		}
		return src[:total], src[total:], true
	case TypeInt32:
		if len(src) < 4 {
			return nil, src, false
		}
		return src[:4], src[4:], true
	default:
		return nil, src, false
	}
}
