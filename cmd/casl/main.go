package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/k0kubun/pp/v3"

	"github.com/lsnl/casl/casl"
)

const version = "1.0.0"

// outputPath derives the object file name from the source name: a
// .cas extension (any case) is replaced by .com, anything else gets
// .com appended.
func outputPath(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".cas") {
		return path[:len(path)-len(ext)] + ".com"
	}
	return path + ".com"
}

func main() {
	var listing bool
	var printVersion bool
	var debug bool

	flag.BoolVar(&listing, "a", false, "write the listing to stdout")
	flag.BoolVar(&printVersion, "v", false, "print version and exit")
	flag.BoolVar(&debug, "d", false, "debug tracing to stderr")
	flag.Parse()

	if printVersion {
		fmt.Printf("casl version %v\n", version)
		return
	}

	if flag.NArg() == 0 {
		log.Fatalf("usage: %v [-avd] file...", os.Args[0])
	}

	for _, path := range flag.Args() {
		asm := &casl.Assembler{Verbose: debug}

		if err := asm.AssembleFile(path); err != nil {
			log.Fatalf("casl: %v", err)
		}

		if debug {
			pp.Fprintln(os.Stderr, asm.Labels.Names())
		}

		out := outputPath(path)
		ouf, err := os.Create(out)
		if err != nil {
			log.Fatalf("casl: %v: %v", out, err)
		}
		if err = asm.WriteObject(ouf); err != nil {
			log.Fatalf("casl: %v: %v", out, err)
		}
		if err = ouf.Close(); err != nil {
			log.Fatalf("casl: %v: %v", out, err)
		}

		if listing {
			asm.WriteObject(os.Stdout)
		}
	}
}
