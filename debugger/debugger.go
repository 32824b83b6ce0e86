// Package debugger provides the debugging operations of the comet
// emulator: breakpoints, single stepping, register and memory dumps,
// and disassembly. Every operation is a plain transformation of the
// machine state; the interactive shell on top is not part of this
// package.
package debugger

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/lsnl/casl/comet"
)

// BREAK_SLOTS is the number of breakpoint slots, numbered from one.
const BREAK_SLOTS = 99

const (
	bold  = "\033[1m"
	reset = "\033[0m"
)

// snapshot records the register file for change highlighting.
type snapshot struct {
	PR, SP     uint16
	GR         [8]uint16
	OF, SF, ZF bool
}

func capture(m *comet.Machine) snapshot {
	return snapshot{PR: m.PR, SP: m.SP, GR: m.GR, OF: m.OF, SF: m.SF, ZF: m.ZF}
}

// Debugger drives a comet machine. Breakpoints survive program
// reloads; everything else is reset by LoadFile.
type Debugger struct {
	Machine *comet.Machine
	Path    string // Currently loaded object file.
	Color   bool   // Enable ANSI highlighting.

	Out io.Writer

	// Interrupt is polled between instructions during Continue; a
	// received signal suspends execution at the next boundary.
	Interrupt <-chan os.Signal

	Breakpoints map[int]uint16

	prev     snapshot
	dumpAddr uint16
	disAddr  uint16
}

// New creates a debugger over a machine.
func New(m *comet.Machine) *Debugger {
	return &Debugger{
		Machine:     m,
		Out:         os.Stdout,
		Breakpoints: make(map[int]uint16),
	}
}

// LoadFile loads an object file into the machine. Breakpoints are
// deliberately kept: the debugging session survives a reload.
func (dbg *Debugger) LoadFile(path string) (err error) {
	err = dbg.Machine.LoadFile(path)
	if err != nil {
		return
	}

	dbg.Path = path
	dbg.dumpAddr = 0
	dbg.disAddr = dbg.Machine.Start
	dbg.prev = capture(dbg.Machine)
	return
}

// Run reloads the current object file and continues from its entry.
func (dbg *Debugger) Run() (done bool, err error) {
	if dbg.Path == "" {
		err = ErrNoProgram
		return
	}
	err = dbg.LoadFile(dbg.Path)
	if err != nil {
		return
	}
	return dbg.Continue()
}

// Continue executes until a breakpoint, a trap, normal termination, or
// an interrupt. The interrupt is honored only between instructions;
// no instruction is ever partially executed.
func (dbg *Debugger) Continue() (done bool, err error) {
	// A ^C pressed at the prompt must not abort the fresh run.
	if dbg.Interrupt != nil {
	drain:
		for {
			select {
			case <-dbg.Interrupt:
			default:
				break drain
			}
		}
	}

	for {
		done, err = dbg.Machine.Step()
		if err != nil {
			fmt.Fprintf(dbg.Out, "%v\n", err)
			err = nil
			return
		}
		if done {
			fmt.Fprintln(dbg.Out, "Program terminated.")
			return
		}

		if slot, ok := dbg.hit(dbg.Machine.PR); ok {
			fmt.Fprintf(dbg.Out, "Break at #%04x (slot %d)\n", dbg.Machine.PR, slot)
			return
		}

		select {
		case <-dbg.Interrupt:
			fmt.Fprintf(dbg.Out, "Interrupted at #%04x\n", dbg.Machine.PR)
			return
		default:
		}
	}
}

// Step executes up to n single instructions.
func (dbg *Debugger) Step(n int) (done bool, err error) {
	for i := 0; i < n; i++ {
		done, err = dbg.Machine.Step()
		if err != nil {
			fmt.Fprintf(dbg.Out, "%v\n", err)
			err = nil
			return
		}
		if done {
			fmt.Fprintln(dbg.Out, "Program terminated.")
			return
		}
	}
	return
}

// hit scans the breakpoint table for an address match.
func (dbg *Debugger) hit(addr uint16) (slot int, ok bool) {
	for n, at := range dbg.Breakpoints {
		if at == addr && (!ok || n < slot) {
			slot, ok = n, true
		}
	}
	return
}

// Break sets a breakpoint in the lowest free slot. Multiple slots may
// carry the same address; each is independent.
func (dbg *Debugger) Break(addr uint16) (slot int, err error) {
	for slot = 1; slot <= BREAK_SLOTS; slot++ {
		if _, used := dbg.Breakpoints[slot]; !used {
			dbg.Breakpoints[slot] = addr
			return
		}
	}
	return 0, ErrBreakFull
}

// Delete removes the named slots, or every slot when none are named.
// Deleting a free slot is a no-op.
func (dbg *Debugger) Delete(slots ...int) {
	if len(slots) == 0 {
		clear(dbg.Breakpoints)
		return
	}
	for _, slot := range slots {
		delete(dbg.Breakpoints, slot)
	}
}

// Info lists the breakpoint table by slot.
func (dbg *Debugger) Info() {
	slots := make([]int, 0, len(dbg.Breakpoints))
	for slot := range dbg.Breakpoints {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	for _, slot := range slots {
		fmt.Fprintf(dbg.Out, "#%02d\t#%04x\n", slot, dbg.Breakpoints[slot])
	}
}

// mark wraps changed values in bold when highlighting is on.
func (dbg *Debugger) mark(changed bool, text string) string {
	if changed && dbg.Color {
		return bold + text + reset
	}
	return text
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// PrintRegisters dumps the register file, highlighting every value
// that changed since the previous dump, and shows the instruction at
// PR.
func (dbg *Debugger) PrintRegisters() {
	m := dbg.Machine
	prev := dbg.prev

	fmt.Fprintf(dbg.Out, "PR  %s  SP  %s  OF %s  SF %s  ZF %s\n",
		dbg.mark(m.PR != prev.PR, fmt.Sprintf("#%04x", m.PR)),
		dbg.mark(m.SP != prev.SP, fmt.Sprintf("#%04x", m.SP)),
		dbg.mark(m.OF != prev.OF, fmt.Sprintf("%d", flag(m.OF))),
		dbg.mark(m.SF != prev.SF, fmt.Sprintf("%d", flag(m.SF))),
		dbg.mark(m.ZF != prev.ZF, fmt.Sprintf("%d", flag(m.ZF))))

	for gr := 0; gr < len(m.GR); gr++ {
		fmt.Fprintf(dbg.Out, "GR%d %s", gr,
			dbg.mark(m.GR[gr] != prev.GR[gr], fmt.Sprintf("#%04x", m.GR[gr])))
		if gr == 3 || gr == 7 {
			fmt.Fprintln(dbg.Out)
		} else {
			fmt.Fprint(dbg.Out, "  ")
		}
	}

	in := m.Decode(m.PR)
	fmt.Fprintf(dbg.Out, "#%04x\t%v\n", m.PR, in)

	dbg.prev = capture(m)
}

// dumpRange prints rows of eight words with an ASCII gutter.
func (dbg *Debugger) dumpRange(addr uint16, rows int) uint16 {
	m := dbg.Machine
	for row := 0; row < rows; row++ {
		fmt.Fprintf(dbg.Out, "#%04x:", addr)
		ascii := make([]byte, 0, 8)
		for i := 0; i < 8; i++ {
			word := m.Mem[addr]
			fmt.Fprintf(dbg.Out, " %04x", word)
			ch := byte(word)
			if ch < 0x20 || ch > 0x7e {
				ch = '.'
			}
			ascii = append(ascii, ch)
			addr++
		}
		fmt.Fprintf(dbg.Out, "  %s\n", ascii)
	}
	return addr
}

// Dump prints sixteen rows of memory. Without an explicit address it
// continues where the previous dump stopped.
func (dbg *Debugger) Dump(addr uint16, explicit bool) {
	if !explicit {
		addr = dbg.dumpAddr
	}
	dbg.dumpAddr = dbg.dumpRange(addr, 16)
}

// DumpStack prints sixteen rows of memory starting at SP.
func (dbg *Debugger) DumpStack() {
	dbg.dumpRange(dbg.Machine.SP, 16)
}

// Jump moves PR.
func (dbg *Debugger) Jump(addr uint16) {
	dbg.Machine.PR = addr
	fmt.Fprintf(dbg.Out, "PR  #%04x\n", addr)
}

// SetMemory writes one memory word.
func (dbg *Debugger) SetMemory(addr, value uint16) {
	dbg.Machine.Mem[addr] = value
	dbg.dumpRange(addr&^7, 1)
}

// Disasm disassembles sixteen instructions. Without an explicit
// address it continues where the previous disassembly stopped.
func (dbg *Debugger) Disasm(addr uint16, explicit bool) {
	if !explicit {
		addr = dbg.disAddr
	}

	m := dbg.Machine
	for i := 0; i < 16; i++ {
		in := m.Decode(addr)
		fmt.Fprintf(dbg.Out, "#%04x\t%s", addr, in.Mnemonic)
		if operands := in.Operands(m.Labels); operands != "" {
			fmt.Fprintf(dbg.Out, "\t%s", operands)
		}
		fmt.Fprintln(dbg.Out)
		addr += uint16(in.Size)
	}

	dbg.disAddr = addr
}

// Labels lists the loaded label table sorted by address.
func (dbg *Debugger) Labels() {
	m := dbg.Machine

	addrs := make([]int, 0, len(m.Labels))
	for addr := range m.Labels {
		addrs = append(addrs, int(addr))
	}
	sort.Ints(addrs)

	for _, addr := range addrs {
		fmt.Fprintf(dbg.Out, "#%04x\t%s\n", addr, m.Labels[uint16(addr)])
	}
}
