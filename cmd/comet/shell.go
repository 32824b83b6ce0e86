package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp/v3"

	"github.com/lsnl/casl/debugger"
)

const helpText = `run             restart the current object file
continue        execute until breakpoint or termination
step [n]        execute n single instructions (default 1)
break a         set a breakpoint at address a
del [n...]      delete breakpoint slots, or all of them
info            list breakpoints
print           dump registers, changes highlighted
dump [a]        dump 128 words of memory
stack           dump 128 words from SP
file path       load an object file
jump a          set PR to a
memory a v      write v at address a
disasm [a]      disassemble 16 instructions
label           list loaded labels
help            this text
quit            leave the emulator

Addresses and values are hexadecimal; a leading # is accepted.`

// parseAddr reads a hexadecimal address or value, with an optional
// leading #.
func parseAddr(s string) (v uint16, err error) {
	s = strings.TrimPrefix(s, "#")
	u, err := strconv.ParseUint(s, 16, 16)
	v = uint16(u)
	return
}

// shell is the interactive command loop. An empty input line repeats
// the previous command.
func shell(dbg *debugger.Debugger, debug bool) {
	scanner := bufio.NewScanner(os.Stdin)

	var lastcmd []string

	for {
		fmt.Print("comet> ")

		if !scanner.Scan() {
			fmt.Println()
			os.Exit(1)
		}

		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = args
		}

		cmd := args[0]
		args = args[1:]

		var done bool

		switch cmd {
		case "r", "run":
			var err error
			done, err = dbg.Run()
			if err != nil {
				fmt.Println(err)
			}

		case "c", "cont", "continue":
			done, _ = dbg.Continue()

		case "s", "step":
			n := 1
			if len(args) == 1 {
				var err error
				n, err = strconv.Atoi(args[0])
				if err != nil || n < 1 {
					fmt.Println("step [n]")
					continue
				}
			}
			done, _ = dbg.Step(n)
			if !done {
				dbg.PrintRegisters()
			}

		case "b", "break":
			if len(args) != 1 {
				fmt.Println("break a")
				continue
			}
			addr, err := parseAddr(args[0])
			if err != nil {
				fmt.Println(err)
				continue
			}
			slot, err := dbg.Break(addr)
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("Breakpoint #%02d at #%04x\n", slot, addr)

		case "d", "del":
			slots := make([]int, 0, len(args))
			bad := false
			for _, arg := range args {
				slot, err := strconv.Atoi(arg)
				if err != nil {
					fmt.Println("del [n...]")
					bad = true
					break
				}
				slots = append(slots, slot)
			}
			if !bad {
				dbg.Delete(slots...)
			}

		case "i", "info":
			dbg.Info()

		case "p", "print":
			dbg.PrintRegisters()

		case "du", "dump":
			addr, explicit, err := optionalAddr(args)
			if err != nil {
				fmt.Println("dump [a]")
				continue
			}
			dbg.Dump(addr, explicit)

		case "st", "stack":
			dbg.DumpStack()

		case "f", "file":
			if len(args) != 1 {
				fmt.Println("file path")
				continue
			}
			if err := dbg.LoadFile(args[0]); err != nil {
				fmt.Println(err)
			}

		case "j", "jump":
			if len(args) != 1 {
				fmt.Println("jump a")
				continue
			}
			addr, err := parseAddr(args[0])
			if err != nil {
				fmt.Println(err)
				continue
			}
			dbg.Jump(addr)

		case "m", "memory":
			if len(args) != 2 {
				fmt.Println("memory a v")
				continue
			}
			addr, err := parseAddr(args[0])
			if err != nil {
				fmt.Println(err)
				continue
			}
			value, err := parseAddr(args[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			dbg.SetMemory(addr, value)

		case "di", "disasm":
			addr, explicit, err := optionalAddr(args)
			if err != nil {
				fmt.Println("disasm [a]")
				continue
			}
			dbg.Disasm(addr, explicit)

		case "l", "label":
			dbg.Labels()

		case "h", "help", "?":
			fmt.Println(helpText)

		case "q", "quit":
			os.Exit(1)

		default:
			fmt.Printf("unknown command '%v' (try 'help')\n", cmd)
		}

		if debug {
			pp.Fprintln(os.Stderr, dbg.Machine.Decode(dbg.Machine.PR))
		}

		if done {
			os.Exit(0)
		}
	}
}

// optionalAddr parses the optional single address argument form.
func optionalAddr(args []string) (addr uint16, explicit bool, err error) {
	switch len(args) {
	case 0:
		return
	case 1:
		addr, err = parseAddr(args[0])
		explicit = true
		return
	}
	err = strconv.ErrSyntax
	return
}
