package compiler

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	prog := &Program{
		Values: []float64{3.5, -1, 0},
		Instructions: []Instruction{
			{Op: OpPUSH, Operand: 0},
			{Op: OpPUSH, Operand: 1},
			{Op: OpOP, Operator: OperatorAdd},
			{Op: OpFRAME, Operand: 2},
			{Op: OpCALL, Operand: 7, CallArgs: 2, ReturnsValue: true},
			{Op: OpPOP},
			{Op: OpHLT},
			{Op: OpLOAD_LOCAL, Operand: 0},
			{Op: OpPRINT, Operand: 1},
			{Op: OpRET, ReturnsValue: true},
		},
	}

	text := Encode(prog)
	got, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got.Values, prog.Values) {
		t.Errorf("values mismatch: got %v, want %v", got.Values, prog.Values)
	}
	if !reflect.DeepEqual(got.Instructions, prog.Instructions) {
		t.Errorf("instructions mismatch:\ngot  %+v\nwant %+v", got.Instructions, prog.Instructions)
	}

	// Round-tripping the decoded program must reproduce the same text (P6).
	if again := Encode(got); again != text {
		t.Errorf("second encode differs from first:\n--- first ---\n%s\n--- second ---\n%s", text, again)
	}
}

func TestDecodeIgnoresCommentsAndBlankLines(t *testing.T) {
	text := "# values\n\n# comment\n1\n\n# operators\nNONE\n\n# instructions\nPUSH 0\n"
	prog, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(prog.Values) != 1 || prog.Values[0] != 1 {
		t.Errorf("got values %v, want [1]", prog.Values)
	}
	if len(prog.Instructions) != 1 || prog.Instructions[0].Op != OpPUSH {
		t.Errorf("got instructions %v", prog.Instructions)
	}
}

func TestDecodeRejectsMismatchedSectionLengths(t *testing.T) {
	text := "# values\n\n# operators\nNONE\nNONE\n\n# instructions\nPUSH 0\n"
	if _, err := Decode(text); err == nil {
		t.Fatalf("expected an error for mismatched operator/instruction counts")
	}
}

func TestDecodeRejectsUnknownMnemonic(t *testing.T) {
	text := "# values\n\n# operators\nNONE\n\n# instructions\nBOGUS 0\n"
	if _, err := Decode(text); err == nil {
		t.Fatalf("expected an error for an unknown mnemonic")
	}
}
