// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsoncore

import (
	"errors"
	"fmt"

	"github.com/go-stack/stack"
)

// Sentinel errors for the document/array/element structural invariants.
var (
	// ErrInvalidKey indicates an element could not be read (its key has no
	// null terminator, its type is unknown, or its payload is truncated),
	// or that an array element's key is not the expected decimal index.
	ErrInvalidKey = errors.New("bsoncore: invalid element key")
	// ErrMissingNull indicates a document or array is missing its trailing
	// 0x00 terminator, or that the terminator was not where the length
	// prefix said it would be.
	ErrMissingNull = errors.New("bsoncore: document missing null terminator")
	// ErrElementNotFound indicates Document.LookupErr found no element
	// with the requested key.
	ErrElementNotFound = errors.New("bsoncore: element not found")
	// ErrNameContainsNull is returned by Element.SetName when the
	// requested name contains an embedded 0x00 byte.
	ErrNameContainsNull = errors.New("bsoncore: element name contains a null byte")
)

// InsufficientBytesError is returned when a read operation runs out of
// input before a fixed-size or length-prefixed value finishes decoding.
type InsufficientBytesError struct {
	Src    []byte
	Offset int
	Stack  stack.CallStack
}

// NewInsufficientBytesError builds an InsufficientBytesError capturing the
// call site.
func NewInsufficientBytesError(original, remaining []byte) error {
	return InsufficientBytesError{
		Src:    original,
		Offset: len(original) - len(remaining),
		Stack:  stack.Trace().TrimRuntime(),
	}
}

// Error implements the error interface.
func (ibe InsufficientBytesError) Error() string {
	return fmt.Sprintf("bsoncore: insufficient bytes to read value at offset %d (have %d)",
		ibe.Offset, len(ibe.Src))
}

// ElementTypeError indicates a typed accessor (e.g. Value.Int32) was called
// against a tag that does not carry that representation.
type ElementTypeError struct {
	Method string
	Type   Type
}

// Error implements the error interface.
func (ete ElementTypeError) Error() string {
	return "bsoncore: call of " + ete.Method + " on " + ete.Type.String() + " type"
}

// InvalidElementTypeError indicates a tag byte was not in the recognized
// set, or that a conversion targeted an unknown tag.
type InvalidElementTypeError struct {
	Type  Type
	Stack stack.CallStack
}

func newInvalidElementTypeError(t Type) error {
	return InvalidElementTypeError{Type: t, Stack: stack.Trace().TrimRuntime()}
}

// Error implements the error interface.
func (e InvalidElementTypeError) Error() string {
	return fmt.Sprintf("bsoncore: invalid element type 0x%02X", byte(e.Type))
}

// IncompatibleTypeConversionError indicates a native Go value could not be
// encoded into the requested BSON tag.
type IncompatibleTypeConversionError struct {
	Target Type
	Source any
}

// Error implements the error interface.
func (e IncompatibleTypeConversionError) Error() string {
	return fmt.Sprintf("bsoncore: cannot encode %T as BSON %s", e.Source, e.Target)
}

// DocumentValidationError wraps a structural validation failure (length
// mismatch, missing terminator, bad element) with the byte offset it was
// detected at and the call stack at the point of detection.
type DocumentValidationError struct {
	Offset int
	Cause  error
	Stack  stack.CallStack
}

func newDocumentValidationError(offset int, cause error) error {
	return DocumentValidationError{Offset: offset, Cause: cause, Stack: stack.Trace().TrimRuntime()}
}

// Error implements the error interface.
func (e DocumentValidationError) Error() string {
	return fmt.Sprintf("bsoncore: invalid document at offset %d: %v", e.Offset, e.Cause)
}

// Unwrap allows errors.Is/errors.As to see through to the underlying cause.
func (e DocumentValidationError) Unwrap() error { return e.Cause }

// lengthError formats a size-prefix mismatch, used by both Document and
// Array validation.
func lengthError(kind string, length, rem int) error {
	return fmt.Errorf("bsoncore: %s length %d exceeds %d remaining bytes", kind, length, rem)
}
