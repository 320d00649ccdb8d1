package code

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		op       Opcode
		operands []int
		expected []byte
	}{
		{OpConstant, []int{65534}, []byte{byte(OpConstant), 255, 254}},
		{OpAdd, []int{}, []byte{byte(OpAdd)}},
		{OpGetLocal, []int{255}, []byte{byte(OpGetLocal), 255}},
		{OpClosure, []int{65534, 255}, []byte{byte(OpClosure), 255, 254, 255}},
		{OpSetIndex, []int{}, []byte{byte(OpSetIndex)}},
		{OpJumpIfNotLess, []int{65534}, []byte{byte(OpJumpIfNotLess), 255, 254}},
	}

	for _, tt := range tests {
		instruction := Make(tt.op, tt.operands...)

		if len(instruction) != len(tt.expected) {
			t.Fatalf("instruction has wrong length. want=%d, got=%d", len(tt.expected), len(instruction))
		}

		for i, b := range tt.expected {
			if instruction[i] != b {
				t.Fatalf("wrong byte at pos %d. want=%d, got=%d", i, b, instruction[i])
			}
		}
	}
}

func TestInstructionsString(t *testing.T) {
	instructions := []Instructions{
		Make(OpAdd),
		Make(OpGetLocal, 1),
		Make(OpConstant, 2),
		Make(OpClosure, 65535, 255),
	}

	expected := `0000 OpAdd
0001 OpGetLocal 1
0003 OpConstant 2
0006 OpClosure 65535 255
`

	concatted := Instructions{}
	for _, ins := range instructions {
		concatted = append(concatted, ins...)
	}

	if concatted.String() != expected {
		t.Fatalf("instructions wrongly formatted.\nwant=%q\ngot=%q", expected, concatted.String())
	}
}

func TestReadOperands(t *testing.T) {
	tests := []struct {
		op        Opcode
		operands  []int
		bytesRead int
	}{
		{OpConstant, []int{65535}, 2},
		{OpGetLocal, []int{255}, 1},
		{OpClosure, []int{65535, 255}, 3},
	}

	for _, tt := range tests {
		instruction := Make(tt.op, tt.operands...)

		def, err := Lookup(byte(tt.op))
		if err != nil {
			t.Fatalf("definition not found: %s", err)
		}

		operandsRead, n := ReadOperands(def, instruction[1:])
		if n != tt.bytesRead {
			t.Fatalf("n wrong. want=%d, got=%d", tt.bytesRead, n)
		}

		for i, want := range tt.operands {
			if operandsRead[i] != want {
				t.Fatalf("operand wrong. want=%d, got=%d", want, operandsRead[i])
			}
		}
	}
}

func TestConstantOp(t *testing.T) {
	tests := []struct {
		index        int
		expectedOp   Opcode
		expectedOper []int
	}{
		{0, OpConstant0, nil},
		{4, OpConstant4, nil},
		{5, OpConstantOne, []int{5}},
		{255, OpConstantOne, []int{255}},
		{256, OpConstant, []int{256}},
	}

	for _, tt := range tests {
		op, operands := ConstantOp(tt.index)
		if op != tt.expectedOp {
			t.Fatalf("wrong opcode for index %d. want=%s, got=%s", tt.index, definitions[tt.expectedOp].Name, definitions[op].Name)
		}
		if len(operands) != len(tt.expectedOper) {
			t.Fatalf("wrong operand count for index %d. want=%v, got=%v", tt.index, tt.expectedOper, operands)
		}
		for i, want := range tt.expectedOper {
			if operands[i] != want {
				t.Fatalf("wrong operand for index %d. want=%d, got=%d", tt.index, want, operands[i])
			}
		}
	}
}

func TestGetSetGlobalAndLocalOp(t *testing.T) {
	shortOp, shortOperands := GetGlobalOp(3)
	if shortOp != OpGetGlobal3 || shortOperands != nil {
		t.Fatalf("GetGlobalOp(3) = %v, %v", shortOp, shortOperands)
	}

	longOp, longOperands := GetGlobalOp(10)
	if longOp != OpGetGlobal || len(longOperands) != 1 || longOperands[0] != 10 {
		t.Fatalf("GetGlobalOp(10) = %v, %v", longOp, longOperands)
	}

	setOp, setOperands := SetLocalOp(2)
	if setOp != OpSetLocal2 || setOperands != nil {
		t.Fatalf("SetLocalOp(2) = %v, %v", setOp, setOperands)
	}

	getLocalOp, getLocalOperands := GetLocalOp(9)
	if getLocalOp != OpGetLocal || len(getLocalOperands) != 1 || getLocalOperands[0] != 9 {
		t.Fatalf("GetLocalOp(9) = %v, %v", getLocalOp, getLocalOperands)
	}
}
