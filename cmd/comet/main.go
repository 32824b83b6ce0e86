package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/lsnl/casl/comet"
	"github.com/lsnl/casl/debugger"
)

const version = "1.0.0"

func main() {
	var quiet bool
	var debug bool

	flag.BoolVar(&quiet, "q", false, "suppress the startup banner")
	flag.BoolVar(&debug, "d", false, "debug tracing to stderr")
	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("usage: %v [-qd] [object-file]", os.Args[0])
	}

	mach := comet.NewMachine()
	mach.Verbose = debug

	dbg := debugger.New(mach)
	dbg.Color = term.IsTerminal(int(os.Stdout.Fd()))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	dbg.Interrupt = interrupt

	if !quiet {
		fmt.Printf("This is COMET, version %v.\n", version)
		fmt.Println("Type 'help' for a command summary.")
	}

	if flag.NArg() == 1 {
		if err := dbg.LoadFile(flag.Arg(0)); err != nil {
			log.Fatalf("comet: %v", err)
		}
	}

	shell(dbg, debug)
}
