// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonjson

import (
	"bufio"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/njlr/bsonpath/bsoncore"
	"github.com/pkg/errors"
)

const defaultMaxDepth = 200

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxDepth overrides the default bound on nested object/array
// recursion depth.
func WithMaxDepth(depth int) Option {
	return func(d *Decoder) { d.maxDepth = depth }
}

// Decoder streams a single JSON document (an RFC 8259 object or array)
// from a reader and converts it directly to BSON bytes: BSON length prefixes
// are reserved as placeholders and backfilled once an element's encoded
// size is known, so the converter never buffers the whole output
// document twice.
type Decoder struct {
	r        *bufio.Reader
	offset   int64
	maxDepth int
	depth    int
}

// NewDecoder wraps r, auto-detecting a UTF-8/16/32 byte-order-mark.
func NewDecoder(r io.Reader, opts ...Option) (*Decoder, error) {
	br, err := detectAndTranscode(r)
	if err != nil {
		return nil, errors.Wrap(err, "bsonjson: detecting input encoding")
	}
	d := &Decoder{r: br, maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Decode reads exactly one top-level JSON value — an object or an array
// — from the wrapped reader and returns its BSON encoding (a BSON array
// is wire-identical to a document, keyed "0", "1", ...). Any
// non-whitespace bytes following the value are a garbage_after_document
// error.
func (d *Decoder) Decode() (bsoncore.Document, error) {
	if err := d.skipWS(); err != nil {
		return nil, err
	}
	c, err := d.peek()
	if err != nil {
		return nil, newParseError(KindUnexpectedEOF, d.offset, "expected a JSON object or array")
	}
	var dst []byte
	switch c {
	case '{':
		dst, err = d.convertObject(nil)
	case '[':
		dst, err = d.convertArray(nil)
	default:
		return nil, newParseError(KindUnexpectedToken, d.offset, "document must start with '{' or '['")
	}
	if err != nil {
		return nil, err
	}
	if err := d.skipWS(); err != nil {
		return nil, err
	}
	if _, err := d.r.Peek(1); err != io.EOF {
		return nil, newParseError(KindGarbageAfterDocument, d.offset, "unexpected bytes after top-level document")
	}
	return bsoncore.Document(dst), nil
}

func (d *Decoder) peek() (byte, error) {
	b, err := d.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) advance() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	d.offset++
	return b, nil
}

func (d *Decoder) skipWS() error {
	for {
		b, err := d.r.Peek(1)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch b[0] {
		case ' ', '\t', '\n', '\r':
			d.advance()
		default:
			return nil
		}
	}
}

func (d *Decoder) expect(c byte) error {
	got, err := d.advance()
	if err != nil {
		return newParseError(KindUnexpectedEOF, d.offset, "unexpected end of input")
	}
	if got != c {
		return newParseError(KindUnexpectedToken, d.offset, "expected '"+string(c)+"'")
	}
	return nil
}

// convertObject assumes the current byte is '{' and appends a full BSON
// document (length prefix, elements, terminator) to dst.
func (d *Decoder) convertObject(dst []byte) ([]byte, error) {
	if d.depth >= d.maxDepth {
		return nil, newParseError(KindDepthExceeded, d.offset, "maximum nesting depth exceeded")
	}
	d.depth++
	defer func() { d.depth-- }()

	if err := d.expect('{'); err != nil {
		return nil, err
	}
	index, dst := bsoncore.ReserveLength(dst)

	if err := d.skipWS(); err != nil {
		return nil, err
	}
	c, err := d.peek()
	if err != nil {
		return nil, newParseError(KindUnexpectedEOF, d.offset, "unterminated object")
	}
	if c == '}' {
		d.advance()
		return bsoncore.AppendDocumentEnd(dst, index), nil
	}

	for {
		if err := d.skipWS(); err != nil {
			return nil, err
		}
		c, err := d.peek()
		if err != nil || c != '"' {
			return nil, newParseError(KindUnexpectedToken, d.offset, "expected a quoted object key")
		}
		key, err := d.convertCString()
		if err != nil {
			return nil, err
		}
		if err := d.skipWS(); err != nil {
			return nil, err
		}
		if err := d.expect(':'); err != nil {
			return nil, err
		}
		if err := d.skipWS(); err != nil {
			return nil, err
		}
		dst, err = d.convertValue(dst, key)
		if err != nil {
			return nil, err
		}
		if err := d.skipWS(); err != nil {
			return nil, err
		}
		c, err = d.advance()
		if err != nil {
			return nil, newParseError(KindUnexpectedEOF, d.offset, "unterminated object")
		}
		if c == '}' {
			return bsoncore.AppendDocumentEnd(dst, index), nil
		}
		if c != ',' {
			return nil, newParseError(KindUnexpectedToken, d.offset, "expected ',' or '}' in object")
		}
	}
}

// convertArray assumes the current byte is '[' and appends a full BSON
// array (wire-identical to a document, with decimal-string keys) to dst.
func (d *Decoder) convertArray(dst []byte) ([]byte, error) {
	if d.depth >= d.maxDepth {
		return nil, newParseError(KindDepthExceeded, d.offset, "maximum nesting depth exceeded")
	}
	d.depth++
	defer func() { d.depth-- }()

	if err := d.expect('['); err != nil {
		return nil, err
	}
	index, dst := bsoncore.ReserveLength(dst)

	if err := d.skipWS(); err != nil {
		return nil, err
	}
	c, err := d.peek()
	if err != nil {
		return nil, newParseError(KindUnexpectedEOF, d.offset, "unterminated array")
	}
	if c == ']' {
		d.advance()
		return bsoncore.AppendDocumentEnd(dst, index), nil
	}

	idx := 0
	for {
		if err := d.skipWS(); err != nil {
			return nil, err
		}
		dst, err = d.convertValue(dst, strconv.Itoa(idx))
		if err != nil {
			return nil, err
		}
		idx++
		if err := d.skipWS(); err != nil {
			return nil, err
		}
		c, err := d.advance()
		if err != nil {
			return nil, newParseError(KindUnexpectedEOF, d.offset, "unterminated array")
		}
		if c == ']' {
			return bsoncore.AppendDocumentEnd(dst, index), nil
		}
		if c != ',' {
			return nil, newParseError(KindUnexpectedToken, d.offset, "expected ',' or ']' in array")
		}
	}
}

// convertValue appends one BSON element (header + payload) to dst, using
// key and dispatching on the next byte to decide the JSON value's shape.
// The type byte is reserved before the value's shape is known and
// overwritten once it is.
func (d *Decoder) convertValue(dst []byte, key string) ([]byte, error) {
	typeBytePos := len(dst)
	dst = append(dst, 0x00)
	dst = bsoncore.AppendKey(dst, key)

	c, err := d.peek()
	if err != nil {
		return nil, newParseError(KindUnexpectedEOF, d.offset, "expected a value")
	}

	var t bsoncore.Type
	switch {
	case c == '{':
		dst, err = d.convertObject(dst)
		t = bsoncore.TypeEmbeddedDocument
	case c == '[':
		dst, err = d.convertArray(dst)
		t = bsoncore.TypeArray
	case c == '"':
		var s string
		s, err = d.convertCString()
		dst = bsoncore.AppendString(dst, s)
		t = bsoncore.TypeString
	case c == 't' || c == 'f':
		var b bool
		b, err = d.convertBool()
		dst = bsoncore.AppendBoolean(dst, b)
		t = bsoncore.TypeBoolean
	case c == 'n':
		err = d.convertNull()
		t = bsoncore.TypeNull
	case c == '-' || (c >= '0' && c <= '9'):
		dst, t, err = d.convertNumber(dst)
	default:
		return nil, newParseError(KindUnexpectedToken, d.offset, "unexpected character at start of value")
	}
	if err != nil {
		return nil, err
	}
	dst[typeBytePos] = byte(t)
	return dst, nil
}

func (d *Decoder) convertBool() (bool, error) {
	c, _ := d.peek()
	if c == 't' {
		if err := d.expectLiteral("true"); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := d.expectLiteral("false"); err != nil {
		return false, err
	}
	return false, nil
}

func (d *Decoder) convertNull() error {
	return d.expectLiteral("null")
}

func (d *Decoder) expectLiteral(lit string) error {
	for i := 0; i < len(lit); i++ {
		c, err := d.advance()
		if err != nil || c != lit[i] {
			return newParseError(KindUnexpectedToken, d.offset, "invalid literal, expected "+lit)
		}
	}
	return nil
}

// convertNumber scans a JSON number token and appends its BSON payload.
// A number with a fraction or exponent is always a double; otherwise it
// is an int32 if it fits, else an int64 if it fits, else a double (the
// overflow case).
func (d *Decoder) convertNumber(dst []byte) ([]byte, bsoncore.Type, error) {
	start := d.offset
	var buf []byte
	isFloat := false

	peekAppend := func() (bool, error) {
		c, err := d.peek()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		switch {
		case c >= '0' && c <= '9':
			buf = append(buf, c)
			d.advance()
			return true, nil
		case c == '-' || c == '+':
			buf = append(buf, c)
			d.advance()
			return true, nil
		case c == '.' || c == 'e' || c == 'E':
			isFloat = true
			buf = append(buf, c)
			d.advance()
			return true, nil
		default:
			return false, nil
		}
	}

	for {
		more, err := peekAppend()
		if err != nil {
			return nil, 0, err
		}
		if !more {
			break
		}
	}
	if len(buf) == 0 {
		return nil, 0, newParseError(KindUnexpectedToken, start, "invalid number")
	}

	if isFloat {
		f, err := strconv.ParseFloat(string(buf), 64)
		if err != nil {
			return nil, 0, newParseError(KindNumberOutOfRange, start, "invalid floating point literal")
		}
		return bsoncore.AppendDouble(dst, f), bsoncore.TypeDouble, nil
	}

	i64, err := strconv.ParseInt(string(buf), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(buf), 64)
		if ferr != nil {
			return nil, 0, newParseError(KindNumberOutOfRange, start, "integer literal out of range")
		}
		return bsoncore.AppendDouble(dst, f), bsoncore.TypeDouble, nil
	}
	if i64 >= int64(-1<<31) && i64 <= int64(1<<31-1) {
		return bsoncore.AppendInt32(dst, int32(i64)), bsoncore.TypeInt32, nil
	}
	return bsoncore.AppendInt64(dst, i64), bsoncore.TypeInt64, nil
}

// convertCString reads a double-quoted JSON string (the current byte must
// be '"') and returns its decoded content, resolving \" \\ \/ \b \f \n \r
// \t and \uXXXX escapes (including surrogate pairs), per RFC 8259 §7.
func (d *Decoder) convertCString() (string, error) {
	if err := d.expect('"'); err != nil {
		return "", err
	}
	var buf []byte
	for {
		c, err := d.advance()
		if err != nil {
			return "", newParseError(KindUnterminatedString, d.offset, "unterminated string")
		}
		switch c {
		case '"':
			return string(buf), nil
		case '\\':
			r, err := d.readEscape()
			if err != nil {
				return "", err
			}
			buf = appendRune(buf, r)
		default:
			if c < 0x20 {
				return "", newParseError(KindInvalidUTF8, d.offset, "unescaped control character in string")
			}
			buf = append(buf, c)
		}
	}
}

func (d *Decoder) readEscape() (rune, error) {
	c, err := d.advance()
	if err != nil {
		return 0, newParseError(KindUnterminatedString, d.offset, "unterminated escape sequence")
	}
	switch c {
	case '"':
		return '"', nil
	case '\\':
		return '\\', nil
	case '/':
		return '/', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		r1, err := d.readHex4()
		if err != nil {
			return 0, err
		}
		if r1 >= 0xD800 && r1 <= 0xDBFF {
			if err := d.expect('\\'); err != nil {
				return 0, newParseError(KindInvalidEscape, d.offset, "unpaired UTF-16 surrogate")
			}
			if err := d.expect('u'); err != nil {
				return 0, newParseError(KindInvalidEscape, d.offset, "unpaired UTF-16 surrogate")
			}
			r2, err := d.readHex4()
			if err != nil {
				return 0, err
			}
			if r2 < 0xDC00 || r2 > 0xDFFF {
				return 0, newParseError(KindInvalidEscape, d.offset, "invalid low surrogate")
			}
			return ((r1 - 0xD800) << 10) + (r2 - 0xDC00) + 0x10000, nil
		}
		return r1, nil
	default:
		return 0, newParseError(KindInvalidEscape, d.offset, "invalid escape character")
	}
}

func (d *Decoder) readHex4() (rune, error) {
	var v rune
	for i := 0; i < 4; i++ {
		c, err := d.advance()
		if err != nil {
			return 0, newParseError(KindInvalidEscape, d.offset, "truncated \\u escape")
		}
		var digit rune
		switch {
		case c >= '0' && c <= '9':
			digit = rune(c - '0')
		case c >= 'a' && c <= 'f':
			digit = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			digit = rune(c-'A') + 10
		default:
			return 0, newParseError(KindInvalidEscape, d.offset, "invalid hex digit in \\u escape")
		}
		v = v<<4 | digit
	}
	return v, nil
}

func appendRune(buf []byte, r rune) []byte {
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	return append(buf, tmp[:n]...)
}
