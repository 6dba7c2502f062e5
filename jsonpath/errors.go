// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package jsonpath implements a JSONPath selector engine: a path
// tokenizer and selector driver over bsoncore documents, with
// `[?(...)]` and `[(...)]` subscripts delegated to the embedded
// expression compiler and VM in jsonpath/expr.
package jsonpath

import "fmt"

// SyntaxError reports a malformed path at a specific byte offset.
type SyntaxError struct {
	Offset int
	Msg    string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("jsonpath: syntax error at offset %d: %s", e.Offset, e.Msg)
}

func newSyntaxError(offset int, msg string) error {
	return &SyntaxError{Offset: offset, Msg: msg}
}
