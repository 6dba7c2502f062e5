// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsoncore

// Builder incrementally constructs a BSON document or array, one element
// at a time, through a chainable *Builder method set. Build consumes the
// builder and returns the finished, null-terminated, length-prefixed
// bytes; a half-built Builder is never a valid Document or Array, so a
// caller that stops calling Append methods midway simply never calls
// Build, and the scratch buffer is discarded with it.
type Builder struct {
	buf   []byte
	index int32
}

// NewDocumentBuilder returns a Builder with its document length prefix
// already reserved.
func NewDocumentBuilder() *Builder {
	b := &Builder{}
	b.index, b.buf = AppendDocumentStart(b.buf)
	return b
}

// Build finalizes the document: writes the trailing null byte and
// backfills the length prefix.
func (b *Builder) Build() Document {
	b.buf = AppendDocumentEnd(b.buf, b.index)
	return Document(b.buf)
}

// AppendDouble appends a double element.
func (b *Builder) AppendDouble(key string, f float64) *Builder {
	b.buf = AppendDoubleElement(b.buf, key, f)
	return b
}

// AppendString appends a string element.
func (b *Builder) AppendString(key, val string) *Builder {
	b.buf = AppendStringElement(b.buf, key, val)
	return b
}

// AppendDocument appends a pre-built document element.
func (b *Builder) AppendDocument(key string, doc []byte) *Builder {
	b.buf = AppendDocumentElement(b.buf, key, doc)
	return b
}

// AppendArray appends a pre-built array element.
func (b *Builder) AppendArray(key string, arr []byte) *Builder {
	b.buf = AppendArrayElement(b.buf, key, arr)
	return b
}

// AppendBinary appends a binary element.
func (b *Builder) AppendBinary(key string, subtype byte, data []byte) *Builder {
	b.buf = AppendBinaryElement(b.buf, key, subtype, data)
	return b
}

// AppendUndefined appends an undefined element.
func (b *Builder) AppendUndefined(key string) *Builder {
	b.buf = AppendUndefinedElement(b.buf, key)
	return b
}

// AppendObjectID appends an objectID element.
func (b *Builder) AppendObjectID(key string, oid ObjectID) *Builder {
	b.buf = AppendObjectIDElement(b.buf, key, oid)
	return b
}

// AppendBoolean appends a boolean element.
func (b *Builder) AppendBoolean(key string, v bool) *Builder {
	b.buf = AppendBooleanElement(b.buf, key, v)
	return b
}

// AppendDateTime appends a datetime element.
func (b *Builder) AppendDateTime(key string, dt int64) *Builder {
	b.buf = AppendDateTimeElement(b.buf, key, dt)
	return b
}

// AppendNull appends a null element.
func (b *Builder) AppendNull(key string) *Builder {
	b.buf = AppendNullElement(b.buf, key)
	return b
}

// AppendRegex appends a regex element.
func (b *Builder) AppendRegex(key, pattern, options string) *Builder {
	b.buf = AppendRegexElement(b.buf, key, pattern, options)
	return b
}

// AppendDBPointer appends a dbPointer element.
func (b *Builder) AppendDBPointer(key, ns string, oid ObjectID) *Builder {
	b.buf = AppendDBPointerElement(b.buf, key, ns, oid)
	return b
}

// AppendJavaScript appends a javascript element.
func (b *Builder) AppendJavaScript(key, code string) *Builder {
	b.buf = AppendJavaScriptElement(b.buf, key, code)
	return b
}

// AppendSymbol appends a symbol element.
func (b *Builder) AppendSymbol(key, symbol string) *Builder {
	b.buf = AppendSymbolElement(b.buf, key, symbol)
	return b
}

// AppendCodeWithScope appends a scoped_javascript element.
func (b *Builder) AppendCodeWithScope(key, code string, scope []byte) *Builder {
	b.buf = AppendCodeWithScopeElement(b.buf, key, code, scope)
	return b
}

// AppendInt32 appends an int32 element.
func (b *Builder) AppendInt32(key string, i32 int32) *Builder {
	b.buf = AppendInt32Element(b.buf, key, i32)
	return b
}

// AppendTimestamp appends a timestamp element.
func (b *Builder) AppendTimestamp(key string, t, i uint32) *Builder {
	b.buf = AppendTimestampElement(b.buf, key, t, i)
	return b
}

// AppendInt64 appends an int64 element.
func (b *Builder) AppendInt64(key string, i64 int64) *Builder {
	b.buf = AppendInt64Element(b.buf, key, i64)
	return b
}

// AppendMinKey appends a min-key element.
func (b *Builder) AppendMinKey(key string) *Builder {
	b.buf = AppendMinKeyElement(b.buf, key)
	return b
}

// AppendMaxKey appends a max-key element.
func (b *Builder) AppendMaxKey(key string) *Builder {
	b.buf = AppendMaxKeyElement(b.buf, key)
	return b
}

// AppendValue appends an element built from an already-typed Value.
func (b *Builder) AppendValue(key string, v Value) *Builder {
	b.buf = AppendValueElement(b.buf, key, v)
	return b
}

// AppendInlineDocument runs build against a fresh nested document builder
// and appends the result under key, so nested documents can be
// constructed without manually tracking a scratch buffer.
func (b *Builder) AppendInlineDocument(key string, build func(*Builder)) *Builder {
	inner := NewDocumentBuilder()
	build(inner)
	return b.AppendDocument(key, inner.Build())
}

// AppendInlineArray runs build against a fresh nested array builder and
// appends the result under key.
func (b *Builder) AppendInlineArray(key string, build func(*ArrayBuilder)) *Builder {
	inner := NewArrayBuilder()
	build(inner)
	return b.AppendArray(key, inner.Build())
}

// ArrayBuilder incrementally constructs a BSON array. It tracks the
// implicit "0", "1", "2", ... index keys so callers append values, not
// key/value pairs.
type ArrayBuilder struct {
	b   *Builder
	idx int
}

// NewArrayBuilder returns an ArrayBuilder with its length prefix already
// reserved.
func NewArrayBuilder() *ArrayBuilder {
	return &ArrayBuilder{b: NewDocumentBuilder()}
}

// Build finalizes the array.
func (a *ArrayBuilder) Build() Array {
	return Array(a.b.Build())
}

func (a *ArrayBuilder) nextKey() string {
	key := formatIndex(a.idx)
	a.idx++
	return key
}

func formatIndex(i int) string {
	if i == 0 {
		return "0"
	}
	var digits [20]byte
	pos := len(digits)
	for i > 0 {
		pos--
		digits[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(digits[pos:])
}

// AppendDouble appends a double value.
func (a *ArrayBuilder) AppendDouble(f float64) *ArrayBuilder {
	a.b.AppendDouble(a.nextKey(), f)
	return a
}

// AppendString appends a string value.
func (a *ArrayBuilder) AppendString(val string) *ArrayBuilder {
	a.b.AppendString(a.nextKey(), val)
	return a
}

// AppendDocument appends a pre-built document value.
func (a *ArrayBuilder) AppendDocument(doc []byte) *ArrayBuilder {
	a.b.AppendDocument(a.nextKey(), doc)
	return a
}

// AppendArray appends a pre-built array value.
func (a *ArrayBuilder) AppendArray(arr []byte) *ArrayBuilder {
	a.b.AppendArray(a.nextKey(), arr)
	return a
}

// AppendBoolean appends a boolean value.
func (a *ArrayBuilder) AppendBoolean(v bool) *ArrayBuilder {
	a.b.AppendBoolean(a.nextKey(), v)
	return a
}

// AppendInt32 appends an int32 value.
func (a *ArrayBuilder) AppendInt32(i32 int32) *ArrayBuilder {
	a.b.AppendInt32(a.nextKey(), i32)
	return a
}

// AppendInt64 appends an int64 value.
func (a *ArrayBuilder) AppendInt64(i64 int64) *ArrayBuilder {
	a.b.AppendInt64(a.nextKey(), i64)
	return a
}

// AppendNull appends a null value.
func (a *ArrayBuilder) AppendNull() *ArrayBuilder {
	a.b.AppendNull(a.nextKey())
	return a
}

// AppendValue appends an already-typed Value.
func (a *ArrayBuilder) AppendValue(v Value) *ArrayBuilder {
	a.b.AppendValue(a.nextKey(), v)
	return a
}

// AppendInlineDocument runs build against a fresh nested document builder
// and appends the result as the next array value.
func (a *ArrayBuilder) AppendInlineDocument(build func(*Builder)) *ArrayBuilder {
	inner := NewDocumentBuilder()
	build(inner)
	a.b.AppendDocument(a.nextKey(), inner.Build())
	return a
}

// AppendInlineArray runs build against a fresh nested array builder and
// appends the result as the next array value.
func (a *ArrayBuilder) AppendInlineArray(build func(*ArrayBuilder)) *ArrayBuilder {
	inner := NewArrayBuilder()
	build(inner)
	a.b.AppendArray(a.nextKey(), inner.Build())
	return a
}

// BuildInlineDocument is a package-level convenience combining
// NewDocumentBuilder and Build in one call.
func BuildInlineDocument(build func(*Builder)) Document {
	b := NewDocumentBuilder()
	build(b)
	return b.Build()
}

// BuildInlineArray is a package-level convenience combining
// NewArrayBuilder and Build in one call.
func BuildInlineArray(build func(*ArrayBuilder)) Array {
	b := NewArrayBuilder()
	build(b)
	return b.Build()
}
