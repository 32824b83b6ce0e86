package comet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpTable(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Op{MN_NOP, FORM_NOPR}, OpTable[0x00])
	assert.Equal(Op{MN_LD, FORM_R_ADR_X}, OpTable[0x10])
	assert.Equal(Op{MN_LD, FORM_R1_R2}, OpTable[0x14])
	assert.Equal(Op{MN_RET, FORM_NOPR}, OpTable[0x81])
	assert.Equal(Op{MN_SVC, FORM_ADR_X}, OpTable[0xf0])

	_, unknown := OpTable[0x13]
	assert.False(unknown)
}

func TestFormSize(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(1, FORM_NOPR.Size())
	assert.Equal(1, FORM_R.Size())
	assert.Equal(1, FORM_R1_R2.Size())
	assert.Equal(2, FORM_ADR_X.Size())
	assert.Equal(2, FORM_R_ADR_X.Size())
}

func TestEncode(t *testing.T) {
	assert := assert.New(t)

	code, ok := Encode("ADDA", FORM_R_ADR_X)
	assert.True(ok)
	assert.Equal(uint8(0x20), code)

	code, ok = Encode("ADDA", FORM_R1_R2)
	assert.True(ok)
	assert.Equal(uint8(0x24), code)

	_, ok = Encode("ADDA", FORM_NOPR)
	assert.False(ok)

	_, ok = Encode("BOGUS", FORM_NOPR)
	assert.False(ok)

	assert.ElementsMatch([]Form{FORM_R_ADR_X, FORM_R1_R2}, FormsOf("LD"))
	assert.Nil(FormsOf("BOGUS"))
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Mem[0x10] = 0x1012 // LD GR1, adr, GR2
	m.Mem[0x11] = 0x1234

	in := m.Decode(0x10)
	assert.Equal(MN_LD, in.Mnemonic)
	assert.Equal(FORM_R_ADR_X, in.Form)
	assert.Equal(uint8(1), in.GR)
	assert.Equal(uint8(2), in.XR)
	assert.Equal(uint16(0x1234), in.Adr)
	assert.Equal(2, in.Size)
	assert.Equal("GR1, #1234, GR2", in.Operands(nil))

	m.Mem[0x20] = 0x8100 // RET
	in = m.Decode(0x20)
	assert.Equal(MN_RET, in.Mnemonic)
	assert.Equal(1, in.Size)
	assert.Equal("", in.Operands(nil))
}

func TestDecodeUnknownIsDC(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Mem[0] = 0xff12

	in := m.Decode(0)
	assert.Equal(MN_DC, in.Mnemonic)
	assert.Equal(1, in.Size)
	assert.Equal("#ff12", in.Operands(nil))
}

func TestOperandRendering(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	labels := map[uint16]string{0x0042: "LOOP"}

	m.Mem[0] = 0x6400 // JUMP adr
	m.Mem[1] = 0x0042
	in := m.Decode(0)
	assert.Equal("#0042 ; LOOP", in.Operands(labels))

	// Index register nibble omitted when zero.
	m.Mem[2] = 0x7001 // PUSH adr, GR1
	m.Mem[3] = 0x0000
	in = m.Decode(2)
	assert.Equal("#0000, GR1", in.Operands(nil))

	m.Mem[4] = 0x1410 // LD GR1, GR0
	in = m.Decode(4)
	assert.Equal("GR1, GR0", in.Operands(nil))

	m.Mem[5] = 0x7130 // POP GR3
	in = m.Decode(5)
	assert.Equal("GR3", in.Operands(nil))
}
