// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonjson

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/njlr/bsonpath/bsoncore"
	"github.com/pkg/errors"
	"github.com/tidwall/pretty"
)

// Writer renders BSON documents as minified MongoDB Extended JSON v1
// text. Unlike bsoncore.Value's debug String method, Writer serializes
// non-finite doubles as JSON null rather than the non-JSON
// "NaN"/"Infinity" tokens, so its output always round-trips through a
// standards-compliant JSON parser.
type Writer struct{}

// NewWriter returns a Writer. It carries no state; its methods are safe
// to call concurrently.
func NewWriter() *Writer { return &Writer{} }

// WriteDocument renders doc as a minified JSON object.
func (w *Writer) WriteDocument(doc bsoncore.Document) (string, error) {
	var buf strings.Builder
	if err := w.writeDocument(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteValue renders a single value as JSON.
func (w *Writer) WriteValue(v bsoncore.Value) (string, error) {
	var buf strings.Builder
	if err := w.writeValue(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Pretty re-indents already-minified JSON for human inspection: a
// debugging helper, never used on the writer's own minified output path.
func Pretty(minified string) string {
	return string(pretty.Pretty([]byte(minified)))
}

func (w *Writer) writeDocument(buf *strings.Builder, doc bsoncore.Document) error {
	elems, err := doc.Elements()
	if err != nil {
		return errWrap(err)
	}
	buf.WriteByte('{')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(jsonEscape(e.Key()))
		buf.WriteString(`":`)
		if err := w.writeValue(buf, e.Value()); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func (w *Writer) writeArray(buf *strings.Builder, arr bsoncore.Array) error {
	values, err := arr.Values()
	if err != nil {
		return errWrap(err)
	}
	buf.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := w.writeValue(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func (w *Writer) writeValue(buf *strings.Builder, v bsoncore.Value) error {
	switch v.Type {
	case bsoncore.TypeDouble:
		f, ok := v.DoubleOK()
		if !ok {
			return errMalformed(v.Type)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(formatFiniteDouble(f))
	case bsoncore.TypeString:
		s, ok := v.StringValueOK()
		if !ok {
			return errMalformed(v.Type)
		}
		buf.WriteByte('"')
		buf.WriteString(jsonEscape(s))
		buf.WriteByte('"')
	case bsoncore.TypeEmbeddedDocument:
		doc, ok := v.DocumentOK()
		if !ok {
			return errMalformed(v.Type)
		}
		return w.writeDocument(buf, doc)
	case bsoncore.TypeArray:
		arr, ok := v.ArrayOK()
		if !ok {
			return errMalformed(v.Type)
		}
		return w.writeArray(buf, arr)
	case bsoncore.TypeBoolean:
		b, ok := v.BooleanOK()
		if !ok {
			return errMalformed(v.Type)
		}
		if b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case bsoncore.TypeNull:
		buf.WriteString("null")
	case bsoncore.TypeInt32:
		i32, ok := v.Int32OK()
		if !ok {
			return errMalformed(v.Type)
		}
		buf.WriteString(strconv.FormatInt(int64(i32), 10))
	case bsoncore.TypeInt64:
		i64, ok := v.Int64OK()
		if !ok {
			return errMalformed(v.Type)
		}
		buf.WriteString(strconv.FormatInt(i64, 10))
	case bsoncore.TypeDateTime:
		millis, ok := v.DateTimeOK()
		if !ok {
			return errMalformed(v.Type)
		}
		buf.WriteString(strconv.FormatInt(millis, 10))
	case bsoncore.TypeObjectID:
		oid, ok := v.ObjectIDOK()
		if !ok {
			return errMalformed(v.Type)
		}
		buf.WriteByte('"')
		buf.WriteString(hex.EncodeToString(oid[:]))
		buf.WriteByte('"')
	default:
		// All remaining BSON-only types (binary, undefined, regex,
		// dbPointer, javascript, symbol, codeWithScope, timestamp, min/max
		// key) keep their Extended JSON v1 wrapper shapes regardless of
		// the NaN/Infinity policy above, so delegate to the shared
		// renderer in bsoncore.
		buf.WriteString(v.String())
	}
	return nil
}

func formatFiniteDouble(f float64) string {
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if !strings.ContainsAny(s, ".E") {
		s += ".0"
	}
	return s
}

func jsonEscape(s string) string {
	var buf strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString("\\u00")
				const hextable = "0123456789abcdef"
				buf.WriteByte(hextable[(r>>4)&0xF])
				buf.WriteByte(hextable[r&0xF])
			} else {
				buf.WriteRune(r)
			}
		}
	}
	return buf.String()
}

func errMalformed(t bsoncore.Type) error {
	return newParseError(KindUnexpectedToken, 0, "malformed "+t.String()+" value cannot be rendered as JSON")
}

func errWrap(err error) error {
	return errors.Wrap(err, "bsonjson: rendering document as JSON")
}
