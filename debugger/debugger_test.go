package debugger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsnl/casl/comet"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

// testDebugger wires a debugger to a machine with a small program and
// a captured output stream.
func testDebugger(words ...uint16) (*Debugger, *bytes.Buffer) {
	m := comet.NewMachine()
	copy(m.Mem[:], words)
	m.Start = 0
	m.End = uint16(len(words) - 1)
	m.Reset()

	out := &bytes.Buffer{}
	dbg := New(m)
	dbg.Out = out
	m.Output = out
	return dbg, out
}

func TestBreakSlots(t *testing.T) {
	assert := assert.New(t)

	dbg, _ := testDebugger(0x8100)

	slot, err := dbg.Break(0x0010)
	assert.NoError(err)
	assert.Equal(1, slot)

	slot, _ = dbg.Break(0x0020)
	assert.Equal(2, slot)

	slot, _ = dbg.Break(0x0030)
	assert.Equal(3, slot)

	// Deleting frees the slot; the lowest free slot wins next.
	dbg.Delete(2)
	slot, _ = dbg.Break(0x0040)
	assert.Equal(2, slot)

	// The same address may occupy several slots.
	slot, _ = dbg.Break(0x0010)
	assert.Equal(4, slot)
}

func TestBreakTableFull(t *testing.T) {
	assert := assert.New(t)

	dbg, _ := testDebugger(0x8100)

	for i := 0; i < BREAK_SLOTS; i++ {
		_, err := dbg.Break(uint16(i))
		require.NoError(t, err)
	}

	_, err := dbg.Break(0xffff)
	assert.ErrorIs(err, ErrBreakFull)
}

func TestDeleteIdempotent(t *testing.T) {
	assert := assert.New(t)

	dbg, _ := testDebugger(0x8100)

	dbg.Break(0x0010)
	dbg.Break(0x0020)

	dbg.Delete()
	assert.Empty(dbg.Breakpoints)

	// Deleting with nothing set is a no-op.
	dbg.Delete()
	dbg.Delete(1, 5, 99)
	assert.Empty(dbg.Breakpoints)
}

func TestContinueStopsAtBreakpoint(t *testing.T) {
	assert := assert.New(t)

	dbg, out := testDebugger(
		0x0000, // NOP
		0x0000, // NOP
		0x0000, // NOP
		0x8100, // RET
	)

	dbg.Break(0x0002)
	done, err := dbg.Continue()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(uint16(0x0002), dbg.Machine.PR)
	assert.Contains(out.String(), "Break at #0002")

	done, err = dbg.Continue()
	assert.NoError(err)
	assert.True(done)
	assert.Contains(out.String(), "Program terminated.")
}

func TestStep(t *testing.T) {
	assert := assert.New(t)

	dbg, _ := testDebugger(0x0000, 0x0000, 0x0000, 0x8100)

	done, err := dbg.Step(2)
	assert.NoError(err)
	assert.False(done)
	assert.Equal(uint16(0x0002), dbg.Machine.PR)

	done, err = dbg.Step(5)
	assert.NoError(err)
	assert.True(done)
}

func TestContinueReportsTrap(t *testing.T) {
	assert := assert.New(t)

	dbg, out := testDebugger(0xff00) // data word; refuses to execute

	done, err := dbg.Continue()
	assert.NoError(err)
	assert.False(done)
	assert.Contains(out.String(), "illegal instruction")
}

func TestPrintRegistersHighlightsChanges(t *testing.T) {
	assert := assert.New(t)

	dbg, out := testDebugger(0x1210, 0x0042, 0x8100) // LAD GR1, #0042
	dbg.Color = true

	dbg.PrintRegisters()
	out.Reset()

	dbg.Step(1)
	dbg.PrintRegisters()

	text := out.String()
	assert.Contains(text, "\033[1m#0042\033[0m", "changed GR1 is highlighted")
	assert.Contains(text, "GR0 #0000")
	assert.NotContains(text, "GR0 \033[1m")
}

func TestPrintRegistersPlain(t *testing.T) {
	assert := assert.New(t)

	dbg, out := testDebugger(0x8100)
	dbg.PrintRegisters()

	text := out.String()
	assert.Contains(text, "PR  #0000")
	assert.Contains(text, "SP  #ffff")
	assert.NotContains(text, "\033[1m")
	assert.Contains(text, "RET")
}

func TestDumpContinues(t *testing.T) {
	assert := assert.New(t)

	dbg, out := testDebugger(0x8100)
	dbg.Machine.Mem[0x0010] = uint16('A')

	dbg.Dump(0x0010, true)
	assert.Contains(out.String(), "#0010: 0041")
	assert.Contains(out.String(), "A.......")

	out.Reset()
	dbg.Dump(0, false)
	assert.Contains(out.String(), "#0090:", "second dump continues after the first")
}

func TestDumpStack(t *testing.T) {
	assert := assert.New(t)

	dbg, out := testDebugger(0x7000, 0x0042, 0x8100) // PUSH #0042
	dbg.Step(1)

	dbg.DumpStack()
	assert.Contains(out.String(), "#fffe: 0042")
}

func TestJumpAndSetMemory(t *testing.T) {
	assert := assert.New(t)

	dbg, _ := testDebugger(0x8100)

	dbg.Jump(0x0042)
	assert.Equal(uint16(0x0042), dbg.Machine.PR)

	dbg.SetMemory(0x0100, 0xbeef)
	assert.Equal(uint16(0xbeef), dbg.Machine.Mem[0x0100])
}

func TestDisasm(t *testing.T) {
	assert := assert.New(t)

	dbg, out := testDebugger(
		0x1010, 0x0004, // LD GR1, #0004
		0x6400, 0x0000, // JUMP #0000
		0x8100, // RET
	)
	dbg.Machine.Labels = map[uint16]string{0x0004: "DATA"}

	dbg.Disasm(0, true)
	text := out.String()
	assert.Contains(text, "#0000\tLD\tGR1, #0004 ; DATA")
	assert.Contains(text, "#0002\tJUMP")
	assert.Contains(text, "#0004\tRET")
}

func TestLabelsSorted(t *testing.T) {
	assert := assert.New(t)

	dbg, out := testDebugger(0x8100)
	dbg.Machine.Labels = map[uint16]string{
		0x0010: "B",
		0x0001: "A",
	}

	dbg.Labels()
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal("#0001\tA", lines[0])
	assert.Equal("#0010\tB", lines[1])
}

func TestLoadFileKeepsBreakpoints(t *testing.T) {
	assert := assert.New(t)

	object := "COMET 0000\n" +
		"CASL LISTING t.cas\n" +
		"     2 0000 8100\t	RET\n" +
		"\n" +
		"DEFINED LABELS\n" +
		"               t.cas:1\t0000 MAIN\n"

	dir := t.TempDir()
	path := dir + "/t.com"
	require.NoError(t, writeFile(path, object))

	dbg, _ := testDebugger(0x0000)
	dbg.Break(0x0004)

	require.NoError(t, dbg.LoadFile(path))
	assert.Equal(uint16(0x8100), dbg.Machine.Mem[0])
	assert.Len(dbg.Breakpoints, 1, "breakpoints survive a reload")

	done, err := dbg.Run()
	assert.NoError(err)
	assert.True(done)
}
