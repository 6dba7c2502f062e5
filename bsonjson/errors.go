// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bsonjson implements the JSON-to-BSON streaming reader and the
// BSON-to-JSON writer, using MongoDB Extended JSON v1 wrapper conventions
// for the BSON-only types.
package bsonjson

import "fmt"

// Kind classifies why a JSON document failed to parse.
type Kind string

// The recognized parse error kinds.
const (
	KindUnexpectedToken      Kind = "unexpected_token"
	KindUnterminatedString   Kind = "unterminated_string"
	KindInvalidEscape        Kind = "invalid_escape"
	KindInvalidUTF8          Kind = "invalid_utf8"
	KindNumberOutOfRange     Kind = "number_out_of_range"
	KindUnexpectedEOF        Kind = "unexpected_eof"
	KindGarbageAfterDocument Kind = "garbage_after_document"
	KindDepthExceeded        Kind = "depth_exceeded"
)

// ParseError reports a failure to decode a JSON document into BSON,
// carrying a Kind and byte offset instead of a bare message.
type ParseError struct {
	Kind   Kind
	Offset int64
	msg    string
}

// Error implements the error interface.
func (pe *ParseError) Error() string {
	return fmt.Sprintf("bsonjson: %s at offset %d: %s", pe.Kind, pe.Offset, pe.msg)
}

func newParseError(kind Kind, offset int64, msg string) error {
	return &ParseError{Kind: kind, Offset: offset, msg: msg}
}
