// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package expr

// OpCode is a single VM instruction opcode.
type OpCode int

// The complete instruction set. Every opcode except Load, Store, PushInt
// and PushString takes no operand.
const (
	OpNeg OpCode = iota
	OpPos
	OpNot

	OpAdd
	OpSub
	OpMul
	OpDiv

	OpEq
	OpNeq

	OpLt
	OpLte
	OpGt
	OpGte

	OpAnd
	OpOr

	// OpLoad evaluates the JSONPath named by Instruction.StrOp against the
	// current document and pushes the matching element-views. An empty
	// result short-circuits the whole program, which then evaluates to
	// false.
	OpLoad

	// OpStore assigns the stack top into the numbered scratch slot
	// named by Instruction.SlotIdx. Reserved for ISA fidelity: this
	// package's expression grammar has no assignment construct, so the
	// compiler never emits this opcode.
	OpStore

	OpPushInt
	OpPushString
	OpPushTrue
	OpPushFalse
)

// Instruction is one compiled bytecode instruction.
type Instruction struct {
	Op      OpCode
	IntOp   int64
	StrOp   string
	SlotIdx int
}

var opNames = map[OpCode]string{
	OpNeg: "neg", OpPos: "pos", OpNot: "not",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div",
	OpEq: "eq", OpNeq: "neq",
	OpLt: "lt", OpLte: "lte", OpGt: "gt", OpGte: "gte",
	OpAnd: "and", OpOr: "or",
	OpLoad: "load", OpStore: "store",
	OpPushInt: "push_int", OpPushString: "push_string",
	OpPushTrue: "push_true", OpPushFalse: "push_false",
}

// opName renders an opcode as its bytecode mnemonic, for VM trace
// logging.
func opName(op OpCode) string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "unknown"
}
