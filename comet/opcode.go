package comet

import (
	"fmt"
	"strings"
)

// Form is an instruction addressing form.
type Form int

//go:generate go tool stringer -linecomment -type=Form
const (
	FORM_NOPR    = Form(0) // nopr
	FORM_R       = Form(1) // r
	FORM_R1_R2   = Form(2) // r1_r2
	FORM_ADR_X   = Form(3) // adr_x
	FORM_R_ADR_X = Form(4) // r_adr_x
)

// Size returns the instruction size in words for the form.
func (form Form) Size() int {
	switch form {
	case FORM_ADR_X, FORM_R_ADR_X:
		return 2
	}
	return 1
}

// Mnemonic is an instruction mnemonic.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	MN_NOP  = Mnemonic(iota) // NOP
	MN_LD                    // LD
	MN_ST                    // ST
	MN_LAD                   // LAD
	MN_ADDA                  // ADDA
	MN_SUBA                  // SUBA
	MN_ADDL                  // ADDL
	MN_SUBL                  // SUBL
	MN_AND                   // AND
	MN_OR                    // OR
	MN_XOR                   // XOR
	MN_CPA                   // CPA
	MN_CPL                   // CPL
	MN_SLA                   // SLA
	MN_SRA                   // SRA
	MN_SLL                   // SLL
	MN_SRL                   // SRL
	MN_JMI                   // JMI
	MN_JNZ                   // JNZ
	MN_JZE                   // JZE
	MN_JUMP                  // JUMP
	MN_JPL                   // JPL
	MN_JOV                   // JOV
	MN_PUSH                  // PUSH
	MN_POP                   // POP
	MN_CALL                  // CALL
	MN_RET                   // RET
	MN_SVC                   // SVC
	MN_DC                    // DC
)

// Op is one entry of the opcode table.
type Op struct {
	Mnemonic Mnemonic
	Form     Form
}

// OpTable maps the opcode byte to its mnemonic and addressing form.
// The opcode byte alone determines both.
var OpTable = map[uint8]Op{
	0x00: {MN_NOP, FORM_NOPR},
	0x10: {MN_LD, FORM_R_ADR_X},
	0x11: {MN_ST, FORM_R_ADR_X},
	0x12: {MN_LAD, FORM_R_ADR_X},
	0x14: {MN_LD, FORM_R1_R2},
	0x20: {MN_ADDA, FORM_R_ADR_X},
	0x21: {MN_SUBA, FORM_R_ADR_X},
	0x22: {MN_ADDL, FORM_R_ADR_X},
	0x23: {MN_SUBL, FORM_R_ADR_X},
	0x24: {MN_ADDA, FORM_R1_R2},
	0x25: {MN_SUBA, FORM_R1_R2},
	0x26: {MN_ADDL, FORM_R1_R2},
	0x27: {MN_SUBL, FORM_R1_R2},
	0x30: {MN_AND, FORM_R_ADR_X},
	0x31: {MN_OR, FORM_R_ADR_X},
	0x32: {MN_XOR, FORM_R_ADR_X},
	0x34: {MN_AND, FORM_R1_R2},
	0x35: {MN_OR, FORM_R1_R2},
	0x36: {MN_XOR, FORM_R1_R2},
	0x40: {MN_CPA, FORM_R_ADR_X},
	0x41: {MN_CPL, FORM_R_ADR_X},
	0x44: {MN_CPA, FORM_R1_R2},
	0x45: {MN_CPL, FORM_R1_R2},
	0x50: {MN_SLA, FORM_R_ADR_X},
	0x51: {MN_SRA, FORM_R_ADR_X},
	0x52: {MN_SLL, FORM_R_ADR_X},
	0x53: {MN_SRL, FORM_R_ADR_X},
	0x61: {MN_JMI, FORM_ADR_X},
	0x62: {MN_JNZ, FORM_ADR_X},
	0x63: {MN_JZE, FORM_ADR_X},
	0x64: {MN_JUMP, FORM_ADR_X},
	0x65: {MN_JPL, FORM_ADR_X},
	0x66: {MN_JOV, FORM_ADR_X},
	0x70: {MN_PUSH, FORM_ADR_X},
	0x71: {MN_POP, FORM_R},
	0x80: {MN_CALL, FORM_ADR_X},
	0x81: {MN_RET, FORM_NOPR},
	0xf0: {MN_SVC, FORM_ADR_X},
}

// mnemonicForms is the reverse of OpTable: mnemonic name to the opcode
// byte for each form it supports. Built once at init.
var mnemonicForms = func() map[string]map[Form]uint8 {
	table := make(map[string]map[Form]uint8, len(OpTable))
	for code, op := range OpTable {
		forms, ok := table[op.Mnemonic.String()]
		if !ok {
			forms = make(map[Form]uint8, 2)
			table[op.Mnemonic.String()] = forms
		}
		forms[op.Form] = code
	}
	return table
}()

// FormsOf returns the addressing forms a mnemonic supports, or nil for
// an unknown mnemonic.
func FormsOf(mnemonic string) (forms []Form) {
	for form := range mnemonicForms[mnemonic] {
		forms = append(forms, form)
	}
	return
}

// Encode returns the opcode byte for a mnemonic in a given form.
func Encode(mnemonic string, form Form) (code uint8, ok bool) {
	code, ok = mnemonicForms[mnemonic][form]
	return
}

// Inst is one decoded instruction.
type Inst struct {
	Addr     uint16
	Word     uint16
	Adr      uint16
	Op       uint8
	GR       uint8
	XR       uint8
	Mnemonic Mnemonic
	Form     Form
	Size     int
}

// Decode decodes the instruction at addr. The word after the opcode word
// is always fetched; it is meaningful only for the two-word forms. An
// unknown opcode byte decodes as a DC data constant of size one.
func (m *Machine) Decode(addr uint16) (in Inst) {
	word := m.Mem[addr]
	in = Inst{
		Addr: addr,
		Word: word,
		Adr:  m.Mem[addr+1],
		Op:   uint8(word >> 8),
		GR:   uint8((word >> 4) & 0xf),
		XR:   uint8(word & 0xf),
	}

	op, ok := OpTable[in.Op]
	if !ok {
		in.Mnemonic = MN_DC
		in.Form = FORM_NOPR
		in.Size = 1
		return
	}

	in.Mnemonic = op.Mnemonic
	in.Form = op.Form
	in.Size = op.Form.Size()
	return
}

// Operands renders the operand field of the instruction. The index
// register is omitted when its nibble is zero. When the address word
// matches an entry of labels, the label is appended as an annotation.
func (in Inst) Operands(labels map[uint16]string) string {
	adr := fmt.Sprintf("#%04x", in.Adr)
	if label, ok := labels[in.Adr]; ok {
		adr += " ; " + label
	}

	var fields []string
	switch in.Form {
	case FORM_NOPR:
		if in.Mnemonic == MN_DC {
			return fmt.Sprintf("#%04x", in.Word)
		}
	case FORM_R:
		fields = append(fields, fmt.Sprintf("GR%d", in.GR))
	case FORM_R1_R2:
		fields = append(fields, fmt.Sprintf("GR%d", in.GR), fmt.Sprintf("GR%d", in.XR))
	case FORM_ADR_X:
		fields = append(fields, adr)
		if in.XR != 0 {
			fields = append(fields, fmt.Sprintf("GR%d", in.XR))
		}
	case FORM_R_ADR_X:
		fields = append(fields, fmt.Sprintf("GR%d", in.GR), adr)
		if in.XR != 0 {
			fields = append(fields, fmt.Sprintf("GR%d", in.XR))
		}
	}

	return strings.Join(fields, ", ")
}

// String renders the instruction as "MNEMONIC operands".
func (in Inst) String() string {
	operands := in.Operands(nil)
	if operands == "" {
		return in.Mnemonic.String()
	}
	return in.Mnemonic.String() + "\t" + operands
}
