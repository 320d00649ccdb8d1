// Package code provides bytecode instruction definitions and utilities for the compiler and virtual machine.
//
// This package defines the bytecode instruction set used by the compiler to generate executable code
// and by the virtual machine to execute programs.
//
// It includes opcode definitions, instruction encoding
// and decoding functions, and utilities for working with bytecode instructions.
package code

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Instructions is a slice of bytes representing a sequence of instructions.
type Instructions []byte

// Opcode represents a single bytecode instruction used by the compiler and virtual machine.
type Opcode byte

// Bytecode instruction opcodes.
//
// Each opcode represents a specific operation that the virtual machine can execute.
// Instructions may have zero or more operands encoded after the opcode byte.
const (
	// OpConstant pushes a constant from the constant pool onto the stack.
	//
	// Operands: [constant_index:2] - 2-byte index into the constant pool.
	OpConstant Opcode = iota

	// OpAdd pops two values from the stack, adds them, and pushes the result.
	//
	// Stack: [a, b] -> [a + b]
	OpAdd

	// OpPop removes the top value from the stack and discards it.
	//
	// Stack: [value] -> []
	OpPop

	// OpSub pops two values from the stack, subtracts the second from the first, and pushes the result.
	//
	// Stack: [a, b] -> [a - b]
	OpSub

	// OpMul pops two values from the stack, multiplies them, and pushes the result.
	//
	// Stack: [a, b] -> [a * b]
	OpMul

	// OpDiv pops two values from the stack, divides the first by the second, and pushes the result.
	//
	// Stack: [a, b] -> [a / b]
	OpDiv

	// OpTrue pushes the boolean value true onto the stack.
	//
	// Stack: [] -> [true]
	OpTrue

	// OpFalse pushes the boolean value false onto the stack.
	//
	// Stack: [] -> [false]
	OpFalse

	// OpEqual pops two values from the stack, compares them for equality, and pushes the boolean result.
	//
	// Stack: [a, b] -> [a == b]
	OpEqual

	// OpNotEqual pops two values from the stack, compares them for inequality, and pushes the boolean result.
	//
	// Stack: [a, b] -> [a != b]
	OpNotEqual

	// OpGreaterThan pops two values from the stack, compares them, and pushes true if the first is greater.
	//
	// Stack: [a, b] -> [a > b]
	OpGreaterThan

	// OpMinus pops a value from the stack, negates it, and pushes the result.
	//
	// Stack: [value] -> [-value]
	OpMinus

	// OpBang pops a value from the stack, applies logical NOT, and pushes the boolean result.
	//
	// Stack: [value] -> [!value]
	OpBang

	// OpJumpNotTruthy pops a value from the stack and jumps to the specified position if the value is not truthy.
	//
	// Operands: [jump_position:2] - 2-byte absolute instruction position to jump to.
	OpJumpNotTruthy

	// OpJump unconditionally jumps to the specified instruction position.
	//
	// Operands: [jump_position:2] - 2-byte absolute instruction position to jump to.
	OpJump

	// OpNull pushes the null value onto the stack.
	//
	// Stack: [] -> [null]
	OpNull

	// OpGetGlobal retrieves a global variable by index and pushes its value onto the stack.
	//
	// Operands: [global_index:2] - 2-byte index into the global variables store.
	OpGetGlobal

	// OpSetGlobal pops a value from the stack and stores it in the global variable at the specified index.
	//
	// Operands: [global_index:2] - 2-byte index into the global variables store.
	//
	// Stack: [value] -> []
	OpSetGlobal

	// OpArray pops the specified number of elements from the stack and creates an array from them.
	//
	// Operands: [element_count:2] - 2-byte count of elements to pop.
	//
	// Stack: [elem1, elem2, ..., elemN] -> [array]
	OpArray

	// OpHash pops the specified number of stack items (keys and values together) and creates a hash map from them.
	//
	// Operands: [item_count:2] - 2-byte count of stack items, twice the number of key-value pairs (not the pair count).
	//
	// Stack: [key1, value1, key2, value2, ..., keyN, valueN] -> [hash]
	OpHash

	// OpIndex pops an index and a collection from the stack, retrieves the element at that index, and pushes it.
	//
	// Stack: [collection, index] -> [collection[index]]
	OpIndex

	// OpCall calls a function with the specified number of arguments.
	//
	// Operands: [num_args:1] - 1-byte count of arguments on the stack.
	//
	// Stack: [func, arg1, arg2, ..., argN] -> [return_value]
	OpCall

	// OpReturnValue pops a value from the stack and returns it from the current function.
	//
	// Stack: [return_value] -> []
	OpReturnValue

	// OpReturn returns from the current function without a return value (implicit null).
	//
	// Stack: [] -> []
	OpReturn

	// OpGetLocal retrieves a local variable by index and pushes its value onto the stack.
	//
	// Operands: [local_index:1] - 1-byte index into the current frame's local variables.
	OpGetLocal

	// OpSetLocal pops a value from the stack and stores it in the local variable at the specified index.
	//
	// Operands: [local_index:1] - 1-byte index into the current frame's local variables.
	//
	// Stack: [value] -> []
	OpSetLocal

	// OpGetBuiltin retrieves a builtin function by index and pushes it onto the stack.
	//
	// Operands: [builtin_index:1] - 1-byte index into the builtin functions table.
	OpGetBuiltin

	// OpClosure creates a closure from a compiled function and captures the specified number of free variables.
	//
	// Operands: [constant_index:2, num_free:1] - 2-byte index to the compiled function in the constant pool,
	// and 1-byte count of free variables to capture from the stack.
	//
	// Stack: [free1, free2, ..., freeN] -> [closure]
	OpClosure

	// OpGetFree retrieves a free variable (captured by a closure) by index and pushes its value onto the stack.
	//
	// Operands: [free_index:1] - 1-byte index into the current closure's free variables.
	OpGetFree

	// OpCurrentClosure pushes the currently executing closure onto the stack (used for recursion).
	//
	// Stack: [] -> [current_closure]
	OpCurrentClosure

	// OpLessThan pops two values from the stack, compares them, and pushes true if the first is less than the second.
	//
	// Stack: [a, b] -> [a < b]
	OpLessThan

	// OpLessEqual pops two values from the stack, compares them, and pushes true if the first is less than or equal to the second.
	//
	// Stack: [a, b] -> [a <= b]
	OpLessEqual

	// OpGreaterEqual pops two values from the stack, compares them, and pushes true if the first is greater than or equal to the second.
	//
	// Stack: [a, b] -> [a >= b]
	OpGreaterEqual

	// OpJumpIfNotLess is a fused comparison-and-branch form emitted in place of an
	// OpLessThan immediately followed by OpJumpNotTruthy, for the common "if x < y"
	// pattern. It pops two integers (right, then left) and jumps unless left < right.
	//
	// Operands: [jump_position:2] - 2-byte absolute instruction position to jump to.
	OpJumpIfNotLess

	// OpSetIndex pops a value, an index, and a collection from the stack (in that
	// order) and mutates the collection in place at the given index/key.
	//
	// Stack: [collection, index, value] -> []
	OpSetIndex

	// OpConstant0 pushes constants[0] onto the stack without an operand.
	OpConstant0

	// OpConstant1 pushes constants[1] onto the stack without an operand.
	OpConstant1

	// OpConstant2 pushes constants[2] onto the stack without an operand.
	OpConstant2

	// OpConstant3 pushes constants[3] onto the stack without an operand.
	OpConstant3

	// OpConstant4 pushes constants[4] onto the stack without an operand.
	OpConstant4

	// OpConstantOne pushes a constant from the pool using a 1-byte index, for pools
	// with up to 256 entries — a middle ground between the zero-operand short forms
	// and the full 2-byte OpConstant.
	//
	// Operands: [constant_index:1]
	OpConstantOne

	// OpGetGlobal0 retrieves global variable 0 without an operand.
	OpGetGlobal0

	// OpGetGlobal1 retrieves global variable 1 without an operand.
	OpGetGlobal1

	// OpGetGlobal2 retrieves global variable 2 without an operand.
	OpGetGlobal2

	// OpGetGlobal3 retrieves global variable 3 without an operand.
	OpGetGlobal3

	// OpGetGlobal4 retrieves global variable 4 without an operand.
	OpGetGlobal4

	// OpSetGlobal0 stores into global variable 0 without an operand.
	OpSetGlobal0

	// OpSetGlobal1 stores into global variable 1 without an operand.
	OpSetGlobal1

	// OpSetGlobal2 stores into global variable 2 without an operand.
	OpSetGlobal2

	// OpSetGlobal3 stores into global variable 3 without an operand.
	OpSetGlobal3

	// OpSetGlobal4 stores into global variable 4 without an operand.
	OpSetGlobal4

	// OpGetLocal0 retrieves local variable 0 without an operand.
	OpGetLocal0

	// OpGetLocal1 retrieves local variable 1 without an operand.
	OpGetLocal1

	// OpGetLocal2 retrieves local variable 2 without an operand.
	OpGetLocal2

	// OpGetLocal3 retrieves local variable 3 without an operand.
	OpGetLocal3

	// OpGetLocal4 retrieves local variable 4 without an operand.
	OpGetLocal4

	// OpSetLocal0 stores into local variable 0 without an operand.
	OpSetLocal0

	// OpSetLocal1 stores into local variable 1 without an operand.
	OpSetLocal1

	// OpSetLocal2 stores into local variable 2 without an operand.
	OpSetLocal2

	// OpSetLocal3 stores into local variable 3 without an operand.
	OpSetLocal3

	// OpSetLocal4 stores into local variable 4 without an operand.
	OpSetLocal4
)

// Definition represents an instruction definition with its name and operand widths.
type Definition struct {
	// The name of the instruction.
	Name string

	// OperandWidths specifies the number of bytes each operand of an instruction occupies.
	OperandWidths []int
}

// definitions is a map of opcodes to their definitions.
var definitions = map[Opcode]*Definition{
	OpConstant:       {"OpConstant", []int{2}},
	OpAdd:            {"OpAdd", []int{}},
	OpPop:            {"OpPop", []int{}},
	OpSub:            {"OpSub", []int{}},
	OpMul:            {"OpMul", []int{}},
	OpDiv:            {"OpDiv", []int{}},
	OpTrue:           {"OpTrue", []int{}},
	OpFalse:          {"OpFalse", []int{}},
	OpEqual:          {"OpEqual", []int{}},
	OpNotEqual:       {"OpNotEqual", []int{}},
	OpGreaterThan:    {"OpGreaterThan", []int{}},
	OpMinus:          {"OpMinus", []int{}},
	OpBang:           {"OpBang", []int{}},
	OpJumpNotTruthy:  {"OpJumpNotTruthy", []int{2}},
	OpJump:           {"OpJump", []int{2}},
	OpNull:           {"OpNull", []int{}},
	OpGetGlobal:      {"OpGetGlobal", []int{2}},
	OpSetGlobal:      {"OpSetGlobal", []int{2}},
	OpArray:          {"OpArray", []int{2}},
	OpHash:           {"OpHash", []int{2}},
	OpIndex:          {"OpIndex", []int{}},
	OpCall:           {"OpCall", []int{1}},
	OpReturnValue:    {"OpReturnValue", []int{}},
	OpReturn:         {"OpReturn", []int{}},
	OpGetLocal:       {"OpGetLocal", []int{1}},
	OpSetLocal:       {"OpSetLocal", []int{1}},
	OpGetBuiltin:     {"OpGetBuiltin", []int{1}},
	OpClosure:        {"OpClosure", []int{2, 1}},
	OpGetFree:        {"OpGetFree", []int{1}},
	OpCurrentClosure: {"OpCurrentClosure", []int{}},

	OpLessThan:      {"OpLessThan", []int{}},
	OpLessEqual:     {"OpLessEqual", []int{}},
	OpGreaterEqual:  {"OpGreaterEqual", []int{}},
	OpJumpIfNotLess: {"OpJumpIfNotLess", []int{2}},
	OpSetIndex:      {"OpSetIndex", []int{}},

	OpConstant0:   {"OpConstant0", []int{}},
	OpConstant1:   {"OpConstant1", []int{}},
	OpConstant2:   {"OpConstant2", []int{}},
	OpConstant3:   {"OpConstant3", []int{}},
	OpConstant4:   {"OpConstant4", []int{}},
	OpConstantOne: {"OpConstantOne", []int{1}},

	OpGetGlobal0: {"OpGetGlobal0", []int{}},
	OpGetGlobal1: {"OpGetGlobal1", []int{}},
	OpGetGlobal2: {"OpGetGlobal2", []int{}},
	OpGetGlobal3: {"OpGetGlobal3", []int{}},
	OpGetGlobal4: {"OpGetGlobal4", []int{}},

	OpSetGlobal0: {"OpSetGlobal0", []int{}},
	OpSetGlobal1: {"OpSetGlobal1", []int{}},
	OpSetGlobal2: {"OpSetGlobal2", []int{}},
	OpSetGlobal3: {"OpSetGlobal3", []int{}},
	OpSetGlobal4: {"OpSetGlobal4", []int{}},

	OpGetLocal0: {"OpGetLocal0", []int{}},
	OpGetLocal1: {"OpGetLocal1", []int{}},
	OpGetLocal2: {"OpGetLocal2", []int{}},
	OpGetLocal3: {"OpGetLocal3", []int{}},
	OpGetLocal4: {"OpGetLocal4", []int{}},

	OpSetLocal0: {"OpSetLocal0", []int{}},
	OpSetLocal1: {"OpSetLocal1", []int{}},
	OpSetLocal2: {"OpSetLocal2", []int{}},
	OpSetLocal3: {"OpSetLocal3", []int{}},
	OpSetLocal4: {"OpSetLocal4", []int{}},
}

// ConstantOp returns the opcode and operands to use for loading constant pool
// index i, preferring the short, zero-operand forms for the first five slots,
// the 1-byte OpConstantOne for indices up to 255, and falling back to the full
// 2-byte OpConstant otherwise.
func ConstantOp(i int) (Opcode, []int) {
	switch {
	case i >= 0 && i <= 4:
		return OpConstant0 + Opcode(i), nil
	case i <= 255:
		return OpConstantOne, []int{i}
	default:
		return OpConstant, []int{i}
	}
}

// GetGlobalOp returns the opcode/operands for reading global variable index i.
func GetGlobalOp(i int) (Opcode, []int) {
	if i >= 0 && i <= 4 {
		return OpGetGlobal0 + Opcode(i), nil
	}
	return OpGetGlobal, []int{i}
}

// SetGlobalOp returns the opcode/operands for writing global variable index i.
func SetGlobalOp(i int) (Opcode, []int) {
	if i >= 0 && i <= 4 {
		return OpSetGlobal0 + Opcode(i), nil
	}
	return OpSetGlobal, []int{i}
}

// GetLocalOp returns the opcode/operands for reading local variable index i.
func GetLocalOp(i int) (Opcode, []int) {
	if i >= 0 && i <= 4 {
		return OpGetLocal0 + Opcode(i), nil
	}
	return OpGetLocal, []int{i}
}

// SetLocalOp returns the opcode/operands for writing local variable index i.
func SetLocalOp(i int) (Opcode, []int) {
	if i >= 0 && i <= 4 {
		return OpSetLocal0 + Opcode(i), nil
	}
	return OpSetLocal, []int{i}
}

// Lookup returns the [Definition] for the given [Opcode].
func Lookup(op byte) (*Definition, error) {
	def, ok := definitions[Opcode(op)]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

// Make creates a byte slice representing an instruction using the provided opcode and operands.
func Make(op Opcode, operands ...int) []byte {
	def, ok := definitions[op]
	if !ok {
		return []byte{}
	}
	instructionLen := 1
	for _, w := range def.OperandWidths {
		instructionLen += w
	}
	instruction := make([]byte, instructionLen)
	instruction[0] = byte(op)
	offset := 1
	for i, operand := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 1:
			instruction[offset] = byte(operand)
		case 2:
			binary.BigEndian.PutUint16(instruction[offset:], uint16(operand))
		}
		offset += width
	}
	return instruction
}

// String provides a human-readable string representation of the [Instructions], formatted with opcodes and operands.
func (ins Instructions) String() string {
	var out strings.Builder

	i := 0
	for i < len(ins) {
		def, err := Lookup(ins[i])
		if err != nil {
			_, _ = fmt.Fprintf(&out, "ERROR: %s\n", err)
			continue
		}
		operands, read := ReadOperands(def, ins[i+1:])
		_, _ = fmt.Fprintf(&out, "%04d %s\n", i, ins.fmtInstruction(def, operands))
		i += read + 1
	}

	return out.String()
}

// fmtInstruction formats an instruction with its operands into a human-readable string representation.
func (ins Instructions) fmtInstruction(def *Definition, operands []int) string {
	operandCount := len(def.OperandWidths)

	if len(operands) != operandCount {
		return fmt.Sprintf("ERROR: operand len %d does not match defined %d\n", len(operands), operandCount)
	}

	switch operandCount {
	case 0:
		return def.Name
	case 1:
		return fmt.Sprintf("%s %d", def.Name, operands[0])
	case 2:
		return fmt.Sprintf("%s %d %d", def.Name, operands[0], operands[1])
	}
	return fmt.Sprintf("ERROR: unhandled operandCount for %s\n", def.Name)
}

// ReadOperands decodes operands from the specified instructions based
// on the definition and returns them with the total bytes read.
func ReadOperands(def *Definition, ins Instructions) ([]int, int) {
	operands := make([]int, len(def.OperandWidths))
	offset := 0

	for i, width := range def.OperandWidths {
		switch width {
		case 1:
			operands[i] = int(ReadUint8(ins[offset:]))
		case 2:
			operands[i] = int(ReadUint16(ins[offset:]))
		}
		offset += width
	}
	return operands, offset
}

// ReadUint16 decodes the first two bytes of the provided [Instructions] as uint16 in big-endian format.
func ReadUint16(ins Instructions) uint16 {
	return binary.BigEndian.Uint16(ins)
}

// ReadUint8 extracts the first byte from the provided [Instructions] slice and returns it as uint8.
func ReadUint8(ins Instructions) uint8 { return ins[0] }
