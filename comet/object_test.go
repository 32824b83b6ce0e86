package comet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleObject = `COMET 0000
CASL LISTING sample.cas
     2 0000 1010		LD	GR1,FIVE
     2      0004		LD	GR1,FIVE
     3 0002 8100		RET
     4 0003 0000	ZERO	DC	0
     5 0004 0005	FIVE	DC	5

DEFINED LABELS
               sample.cas:1	0000 MAIN
               sample.cas:4	0003 ZERO
               sample.cas:5	0004 FIVE
`

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	err := m.Load(strings.NewReader(sampleObject))
	require.NoError(t, err)

	assert.Equal(uint16(0), m.Start)
	assert.Equal(uint16(4), m.End)
	assert.Equal(uint16(0), m.PR)
	assert.Equal(uint16(SP_EMPTY), m.SP)

	assert.Equal(uint16(0x1010), m.Mem[0])
	assert.Equal(uint16(0x0004), m.Mem[1])
	assert.Equal(uint16(0x8100), m.Mem[2])
	assert.Equal(uint16(0x0000), m.Mem[3])
	assert.Equal(uint16(0x0005), m.Mem[4])

	assert.Equal("MAIN", m.Labels[0])
	assert.Equal("FIVE", m.Labels[4])
}

func TestLoadZeroesMemory(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Mem[0x1000] = 0xdead

	err := m.Load(strings.NewReader(sampleObject))
	require.NoError(t, err)
	assert.Equal(uint16(0), m.Mem[0x1000])
}

func TestLoadStartAddress(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	object := strings.Replace(sampleObject, "COMET 0000", "COMET 0002", 1)
	err := m.Load(strings.NewReader(object))
	require.NoError(t, err)

	assert.Equal(uint16(2), m.Start)
	assert.Equal(uint16(2), m.PR)
}

func TestLoadMissingHeader(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	assert.ErrorIs(m.Load(strings.NewReader("")), ErrNoHeader)
	assert.ErrorIs(m.Load(strings.NewReader("GARBAGE\n")), ErrNoHeader)
}

func TestLoadRunSample(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	require.NoError(t, m.Load(strings.NewReader(sampleObject)))

	run(t, m)
	assert.Equal(uint16(5), m.GR[1])
}
