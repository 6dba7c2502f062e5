// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package expr

import (
	"io"

	"github.com/njlr/bsonpath/bsoncore"
	"github.com/sirupsen/logrus"
)

// maxStackDepth bounds the VM's operand stack to a fixed capacity. It is
// the default; callers may override it per-VM with WithStackDepth.
const maxStackDepth = 32

// discardLogger is the nil-safe default: WarnLevel to io.Discard, so
// VM.Run's Debug-level trace lines cost nothing unless a caller opts in
// with WithLogger.
var discardLogger logrus.FieldLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.WarnLevel)
	return l
}()

// SlotKind tags the dynamic type carried by a Slot.
type SlotKind int

// The recognized slot kinds.
const (
	SlotBool SlotKind = iota
	SlotInt
	SlotString
	SlotElement
)

// Slot is a tagged value living on the VM stack or in a scratch
// register: one of bool, i64, string, or element-view.
type Slot struct {
	Kind SlotKind
	B    bool
	I    int64
	S    string
	V    bsoncore.Value
}

func boolSlot(b bool) Slot   { return Slot{Kind: SlotBool, B: b} }
func intSlot(i int64) Slot   { return Slot{Kind: SlotInt, I: i} }
func strSlot(s string) Slot  { return Slot{Kind: SlotString, S: s} }
func elemSlot(v bsoncore.Value) Slot { return Slot{Kind: SlotElement, V: v} }

// Truthy reports the slot's boolean projection for boolean-only
// contexts (and, or, the final program result).
func (s Slot) Truthy() bool {
	return s.Kind == SlotBool && s.B
}

// Evaluator resolves a JSONPath expression against a document and
// returns the matching values. The VM depends on this function type
// rather than importing the jsonpath package directly, so that
// jsonpath (which must import expr to run `[?(...)]`/`[(...)]`
// subscripts) and expr never form an import cycle: jsonpath supplies
// its own Select-backed closure as the Evaluator when it compiles a
// filter.
type Evaluator func(root bsoncore.Value, path string) ([]bsoncore.Value, error)

// VM executes a compiled instruction stream against a root document,
// using eval to resolve "load" path references.
type VM struct {
	stack    []Slot
	slots    map[int]Slot
	eval     Evaluator
	root     bsoncore.Value
	logger   logrus.FieldLogger
	maxDepth int
}

// Option configures a VM at construction.
type Option func(*VM)

// WithLogger sets the VM's trace logger. Omit to get a nil-safe
// default that discards Debug-level output.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(vm *VM) { vm.logger = logger }
}

// WithStackDepth overrides the VM's operand stack capacity (default
// maxStackDepth).
func WithStackDepth(depth int) Option {
	return func(vm *VM) { vm.maxDepth = depth }
}

// NewVM returns a VM ready to run programs against root, resolving
// "@.path" references via eval.
func NewVM(root bsoncore.Value, eval Evaluator, opts ...Option) *VM {
	vm := &VM{
		slots:    make(map[int]Slot),
		eval:     eval,
		root:     root,
		logger:   discardLogger,
		maxDepth: maxStackDepth,
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.stack = make([]Slot, 0, vm.maxDepth)
	return vm
}

// Run executes program and returns its final boolean result: the
// single slot left on the stack at program end, projected to bool
// (non-bool final slots yield false). Used for filter subscripts
// ("[?(expr)]"), which only ever need a truthy/falsy verdict.
func (m *VM) Run(program []Instruction) (bool, error) {
	s, err := m.RunValue(program)
	if err != nil {
		return false, err
	}
	return s.Truthy(), nil
}

// RunValue executes program and returns the raw final slot, unprojected.
// Used for plain-expression subscripts ("[(expr)]"), whose result may be
// a string, int, bool, or element-view.
func (m *VM) RunValue(program []Instruction) (Slot, error) {
	m.stack = m.stack[:0]
	for i := 0; i < len(program); i++ {
		instr := program[i]
		m.logger.WithFields(logrus.Fields{
			"op":          opName(instr.Op),
			"stack_depth": len(m.stack),
		}).Debug("expr: executing instruction")
		switch instr.Op {
		case OpPushInt:
			if err := m.push(intSlot(instr.IntOp)); err != nil {
				return Slot{}, err
			}
		case OpPushString:
			if err := m.push(strSlot(instr.StrOp)); err != nil {
				return Slot{}, err
			}
		case OpPushTrue:
			if err := m.push(boolSlot(true)); err != nil {
				return Slot{}, err
			}
		case OpPushFalse:
			if err := m.push(boolSlot(false)); err != nil {
				return Slot{}, err
			}
		case OpLoad:
			matches, err := m.eval(m.root, instr.StrOp)
			if err != nil {
				return Slot{}, err
			}
			if len(matches) == 0 {
				return boolSlot(false), nil
			}
			for _, match := range matches {
				if err := m.push(elemSlot(match)); err != nil {
					return Slot{}, err
				}
			}
		case OpStore:
			v, err := m.pop()
			if err != nil {
				return Slot{}, err
			}
			m.slots[instr.SlotIdx] = v
		case OpNeg, OpPos, OpNot:
			v, err := m.pop()
			if err != nil {
				return Slot{}, err
			}
			r, err := m.unary(instr.Op, v)
			if err != nil {
				return Slot{}, err
			}
			if err := m.push(r); err != nil {
				return Slot{}, err
			}
		default:
			rhs, err := m.pop()
			if err != nil {
				return Slot{}, err
			}
			lhs, err := m.pop()
			if err != nil {
				return Slot{}, err
			}
			r, err := m.binary(instr.Op, lhs, rhs)
			if err != nil {
				return Slot{}, err
			}
			if err := m.push(r); err != nil {
				return Slot{}, err
			}
		}
	}
	if len(m.stack) != 1 {
		return boolSlot(false), nil
	}
	return m.stack[0], nil
}

func (m *VM) push(s Slot) error {
	if len(m.stack) >= m.maxDepth {
		return ErrStackOverflow
	}
	m.stack = append(m.stack, s)
	return nil
}

func (m *VM) pop() (Slot, error) {
	if len(m.stack) == 0 {
		return Slot{}, ErrUnexpectedEOF
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *VM) unary(op OpCode, v Slot) (Slot, error) {
	switch op {
	case OpNeg:
		i, ok := asInt(v)
		if !ok {
			return boolSlot(false), nil
		}
		return intSlot(-i), nil
	case OpPos:
		i, ok := asInt(v)
		if !ok {
			return boolSlot(false), nil
		}
		return intSlot(i), nil
	case OpNot:
		if v.Kind != SlotBool {
			return boolSlot(false), nil
		}
		return boolSlot(!v.B), nil
	}
	return boolSlot(false), nil
}

func (m *VM) binary(op OpCode, lhs, rhs Slot) (Slot, error) {
	switch op {
	case OpAnd:
		if lhs.Kind != SlotBool || rhs.Kind != SlotBool {
			return boolSlot(false), nil
		}
		return boolSlot(lhs.B && rhs.B), nil
	case OpOr:
		if lhs.Kind != SlotBool || rhs.Kind != SlotBool {
			return boolSlot(false), nil
		}
		return boolSlot(lhs.B || rhs.B), nil
	case OpEq:
		return boolSlot(slotsEqual(lhs, rhs)), nil
	case OpNeq:
		return boolSlot(!slotsEqual(lhs, rhs)), nil
	case OpLt, OpLte, OpGt, OpGte:
		return m.compare(op, lhs, rhs)
	case OpAdd, OpSub, OpMul, OpDiv:
		return m.arith(op, lhs, rhs)
	}
	return boolSlot(false), nil
}

func (m *VM) arith(op OpCode, lhs, rhs Slot) (Slot, error) {
	l, lok := asInt(lhs)
	r, rok := asInt(rhs)
	if !lok || !rok {
		return boolSlot(false), nil
	}
	switch op {
	case OpAdd:
		return intSlot(l + r), nil
	case OpSub:
		return intSlot(l - r), nil
	case OpMul:
		return intSlot(l * r), nil
	case OpDiv:
		if r == 0 {
			return boolSlot(false), ErrDivisionByZero
		}
		return intSlot(l / r), nil
	}
	return boolSlot(false), nil
}

func (m *VM) compare(op OpCode, lhs, rhs Slot) (Slot, error) {
	if li, lok := asInt(lhs); lok {
		if ri, rok := asInt(rhs); rok {
			return boolSlot(intCompare(op, li, ri)), nil
		}
	}
	if ls, lok := asString(lhs); lok {
		if rs, rok := asString(rhs); rok {
			return boolSlot(stringCompare(op, ls, rs)), nil
		}
	}
	return boolSlot(false), nil
}

func intCompare(op OpCode, l, r int64) bool {
	switch op {
	case OpLt:
		return l < r
	case OpLte:
		return l <= r
	case OpGt:
		return l > r
	case OpGte:
		return l >= r
	}
	return false
}

func stringCompare(op OpCode, l, r string) bool {
	switch op {
	case OpLt:
		return l < r
	case OpLte:
		return l <= r
	case OpGt:
		return l > r
	case OpGte:
		return l >= r
	}
	return false
}

// slotsEqual implements the language's equality rule: when either
// operand is an element-view, compare its primitive projection (bool
// for boolean, i64 for int32/int64, string for string) against the
// other operand; otherwise standard equality for compatible
// primitives, false for anything else.
func slotsEqual(lhs, rhs Slot) bool {
	if lhs.Kind == SlotElement || rhs.Kind == SlotElement {
		l, lok := projectElement(lhs)
		r, rok := projectElement(rhs)
		if !lok || !rok {
			return false
		}
		return slotsEqual(l, r)
	}
	switch {
	case lhs.Kind == SlotBool && rhs.Kind == SlotBool:
		return lhs.B == rhs.B
	case lhs.Kind == SlotInt && rhs.Kind == SlotInt:
		return lhs.I == rhs.I
	case lhs.Kind == SlotString && rhs.Kind == SlotString:
		return lhs.S == rhs.S
	default:
		return false
	}
}

// projectElement reduces an element-view slot to its primitive
// projection; non-element slots pass through unchanged.
func projectElement(s Slot) (Slot, bool) {
	if s.Kind != SlotElement {
		return s, true
	}
	switch s.V.Type {
	case bsoncore.TypeBoolean:
		b, ok := s.V.BooleanOK()
		return boolSlot(b), ok
	case bsoncore.TypeInt32:
		i, ok := s.V.Int32OK()
		return intSlot(int64(i)), ok
	case bsoncore.TypeInt64:
		i, ok := s.V.Int64OK()
		return intSlot(i), ok
	case bsoncore.TypeString:
		v, ok := s.V.StringValueOK()
		return strSlot(v), ok
	default:
		return Slot{}, false
	}
}

func asInt(s Slot) (int64, bool) {
	switch s.Kind {
	case SlotInt:
		return s.I, true
	case SlotElement:
		p, ok := projectElement(s)
		if !ok || p.Kind != SlotInt {
			return 0, false
		}
		return p.I, true
	default:
		return 0, false
	}
}

func asString(s Slot) (string, bool) {
	switch s.Kind {
	case SlotString:
		return s.S, true
	case SlotElement:
		p, ok := projectElement(s)
		if !ok || p.Kind != SlotString {
			return "", false
		}
		return p.S, true
	default:
		return "", false
	}
}
