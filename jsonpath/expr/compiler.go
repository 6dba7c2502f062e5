// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package expr

import "github.com/sirupsen/logrus"

// Compile lowers an expression AST into a flat instruction stream for
// the VM to execute.
func Compile(n Node) ([]Instruction, error) {
	var c compiler
	if err := c.emit(n); err != nil {
		return nil, err
	}
	return c.out, nil
}

// CompileString parses and compiles src in one step.
func CompileString(src string) ([]Instruction, error) {
	n, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return Compile(n)
}

// CompileStringWithLogger is CompileString, additionally emitting a
// Debug-level trace line reporting the compiled instruction count. logger
// may be nil, in which case tracing is discarded.
func CompileStringWithLogger(src string, logger logrus.FieldLogger) ([]Instruction, error) {
	prog, err := CompileString(src)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = discardLogger
	}
	logger.WithFields(logrus.Fields{
		"instructions": len(prog),
	}).Debug("expr: compiled filter expression")
	return prog, nil
}

type compiler struct {
	out []Instruction
}

func (c *compiler) emit(n Node) error {
	switch e := n.(type) {
	case *IntLiteral:
		c.out = append(c.out, Instruction{Op: OpPushInt, IntOp: e.Value})
		return nil
	case *StringLiteral:
		c.out = append(c.out, Instruction{Op: OpPushString, StrOp: e.Value})
		return nil
	case *BoolLiteral:
		if e.Value {
			c.out = append(c.out, Instruction{Op: OpPushTrue})
		} else {
			c.out = append(c.out, Instruction{Op: OpPushFalse})
		}
		return nil
	case *PathRefExpr:
		c.out = append(c.out, Instruction{Op: OpLoad, StrOp: e.Path})
		return nil
	case *UnaryExpr:
		if err := c.emit(e.X); err != nil {
			return err
		}
		switch e.Op {
		case OpNegate:
			c.out = append(c.out, Instruction{Op: OpNeg})
		case OpAffirm:
			c.out = append(c.out, Instruction{Op: OpPos})
		case OpNegateBool:
			c.out = append(c.out, Instruction{Op: OpNot})
		}
		return nil
	case *BinaryExpr:
		if err := c.emit(e.Left); err != nil {
			return err
		}
		if err := c.emit(e.Right); err != nil {
			return err
		}
		c.out = append(c.out, Instruction{Op: binaryOpcode(e.Op)})
		return nil
	default:
		return ErrTypeMismatch
	}
}

func binaryOpcode(op BinaryOp) OpCode {
	switch op {
	case OpOrB:
		return OpOr
	case OpAndB:
		return OpAnd
	case OpEqual:
		return OpEq
	case OpNotEqual:
		return OpNeq
	case OpLess:
		return OpLt
	case OpLessEq:
		return OpLte
	case OpGreater:
		return OpGt
	case OpGreaterEq:
		return OpGte
	case OpAddB:
		return OpAdd
	case OpSubB:
		return OpSub
	case OpMulB:
		return OpMul
	case OpDivB:
		return OpDiv
	}
	panic("expr: unreachable binary op")
}
