// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package jsonpath

import (
	"strconv"

	"github.com/njlr/bsonpath/bsoncore"
	"github.com/njlr/bsonpath/jsonpath/expr"
)

// Select evaluates path against root and returns the matching values in
// document order, using a shared default Engine. Selecting a
// non-existent name yields an empty, non-error result; a malformed path
// is an error.
func Select(root bsoncore.Value, path string) ([]bsoncore.Value, error) {
	return defaultEngine.Select(root, path)
}

// Select evaluates path against root, tracing through e's logger and
// running embedded filter/plain-expression subscripts on a VM sized by
// e's configured stack depth.
//
// Results are zero-copy views into root's backing buffer: bsoncore.Value
// already carries no ownership, so no Element reconstruction (key +
// type + payload) is needed beyond what Value provides.
func (e *Engine) Select(root bsoncore.Value, path string) ([]bsoncore.Value, error) {
	segments, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	current := []bsoncore.Value{root}
	for _, seg := range segments {
		next, err := e.applySegment(current, seg)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// namedValue pairs a document field or array element with its key (a
// field name, or an array index rendered as a decimal string).
type namedValue struct {
	key   string
	value bsoncore.Value
}

func children(v bsoncore.Value) []namedValue {
	if doc, ok := v.DocumentOK(); ok {
		elems, err := doc.Elements()
		if err != nil {
			return nil
		}
		return namedValuesFromElements(elems)
	}
	if arr, ok := v.ArrayOK(); ok {
		elems, err := bsoncore.Document(arr).Elements()
		if err != nil {
			return nil
		}
		return namedValuesFromElements(elems)
	}
	return nil
}

func namedValuesFromElements(elems []bsoncore.Element) []namedValue {
	out := make([]namedValue, 0, len(elems))
	for _, e := range elems {
		out = append(out, namedValue{key: e.Key(), value: e.Value()})
	}
	return out
}

func lookupChild(kids []namedValue, key string) (bsoncore.Value, bool) {
	for _, k := range kids {
		if k.key == key {
			return k.value, true
		}
	}
	return bsoncore.Value{}, false
}

func (e *Engine) applySegment(current []bsoncore.Value, seg segment) ([]bsoncore.Value, error) {
	var out []bsoncore.Value
	for _, v := range current {
		var vs []bsoncore.Value
		var err error
		if seg.recursive {
			vs, err = e.recursiveCollect(v, seg.items)
		} else {
			vs, err = e.selectItems(v, seg.items)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, vs...)
	}
	return out, nil
}

// recursiveCollect implements "..X": it collects X at v's own level and
// then recurses into every document/array child of v, regardless of
// whether v itself yielded a match.
func (e *Engine) recursiveCollect(v bsoncore.Value, items []subscriptItem) ([]bsoncore.Value, error) {
	out, err := e.selectItems(v, items)
	if err != nil {
		return nil, err
	}
	for _, kid := range children(v) {
		more, err := e.recursiveCollect(kid.value, items)
		if err != nil {
			return nil, err
		}
		out = append(out, more...)
	}
	return out, nil
}

// selectItems applies one subscript's comma-list of items against v's
// immediate children, deduplicating by key so that repeated selectors
// in the same list ("[0,0,1]", "['a','a']") each contribute once, in
// first-occurrence order.
func (e *Engine) selectItems(v bsoncore.Value, items []subscriptItem) ([]bsoncore.Value, error) {
	kids := children(v)
	var out []bsoncore.Value
	seen := make(map[string]bool)

	take := func(key string, val bsoncore.Value) {
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, val)
	}

	for _, item := range items {
		switch item.kind {
		case subName:
			if val, ok := lookupChild(kids, item.name); ok {
				take(item.name, val)
			}
		case subIndex:
			key := strconv.Itoa(item.index)
			if val, ok := lookupChild(kids, key); ok {
				take(key, val)
			}
		case subWildcard:
			// Wildcard with remaining path descends into container
			// children only; scalars (no children) contribute nothing.
			for _, kid := range kids {
				take(kid.key, kid.value)
			}
		case subFilterExpr:
			prog, err := expr.CompileStringWithLogger(item.expr, e.logger)
			if err != nil {
				return nil, err
			}
			for _, kid := range kids {
				ok, err := e.runFilter(prog, kid.value)
				if err != nil {
					return nil, err
				}
				if ok {
					take(kid.key, kid.value)
				}
			}
		case subPlainExpr:
			prog, err := expr.CompileStringWithLogger(item.expr, e.logger)
			if err != nil {
				return nil, err
			}
			vm := expr.NewVM(v, e.evaluatorOf, e.vmOptions()...)
			slot, err := vm.RunValue(prog)
			if err != nil {
				return nil, err
			}
			if slot.Kind == expr.SlotElement {
				out = append(out, slot.V)
			} else {
				applyPlainExprResult(slot, kids, take)
			}
		}
	}
	return out, nil
}

// applyPlainExprResult implements the "[(expr)]" subscript's result
// mapping for string/int/bool results: string/int results name a child
// to select (int coerced to decimal string); boolean true selects every
// child. The element-view case (result pushed directly, bypassing child
// lookup) is handled by the caller, since a direct push isn't keyed by
// child name and so must not go through the take() dedup closure.
func applyPlainExprResult(slot expr.Slot, kids []namedValue, take func(string, bsoncore.Value)) {
	switch slot.Kind {
	case expr.SlotString:
		if val, ok := lookupChild(kids, slot.S); ok {
			take(slot.S, val)
		}
	case expr.SlotInt:
		key := strconv.FormatInt(slot.I, 10)
		if val, ok := lookupChild(kids, key); ok {
			take(key, val)
		}
	case expr.SlotBool:
		if slot.B {
			for _, kid := range kids {
				take(kid.key, kid.value)
			}
		}
	}
}

// runFilter evaluates a "[?(expr)]" filter with sibling as the
// expression's context root, so "@.field" inside expr resolves
// relative to sibling.
func (e *Engine) runFilter(prog []expr.Instruction, sibling bsoncore.Value) (bool, error) {
	vm := expr.NewVM(sibling, e.evaluatorOf, e.vmOptions()...)
	return vm.Run(prog)
}

// evaluatorOf adapts e.Select to expr.Evaluator, so the VM can resolve
// "@.path" loads without jsonpath/expr ever importing this package.
func (e *Engine) evaluatorOf(root bsoncore.Value, path string) ([]bsoncore.Value, error) {
	return e.Select(root, path)
}
