package casl

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/lsnl/casl/comet"
)

// Word is one emitted word of the program image. Until pass two a word
// may be Pending: its payload is a label or literal spelling instead of
// a resolved value.
type Word struct {
	Value   uint16
	Pending string
	Pos     SourcePos
	Text    string
	First   bool
}

// Resolved reports whether the word no longer awaits pass two.
func (w Word) Resolved() bool {
	return w.Pending == ""
}

// Assembler is the two-pass CASL assembler. The zero value is ready to
// use; Assemble may be called once per Assembler.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	File     string   // Input name recorded in the object file.
	Words    []Word   // Emitted program image, in emission order.
	Warnings []string // Non-fatal diagnostics.

	Labels *LabelTable

	start    Word
	started  bool
	ended    bool
	literals []string
	litPos   map[string]SourcePos
}

// StartAddr returns the resolved entry point.
func (asm *Assembler) StartAddr() uint16 {
	return asm.start.Value
}

// AssembleFile assembles one source file.
func (asm *Assembler) AssembleFile(path string) (err error) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	return asm.Assemble(file, path)
}

// Assemble runs both passes over the source. After a successful return
// the program image is fully resolved and WriteObject may be called.
func (asm *Assembler) Assemble(input io.Reader, name string) (err error) {
	asm.File = name
	asm.Words = asm.Words[:0]
	asm.Labels = NewLabelTable()
	asm.litPos = make(map[string]SourcePos)
	asm.literals = asm.literals[:0]
	asm.started = false
	asm.ended = false

	scanner := bufio.NewScanner(input)

	var lineno int
	var line string

	defer func() {
		if err != nil {
			if _, located := err.(*ErrSyntax); !located {
				err = &ErrSyntax{File: name, LineNo: lineno, Line: line, Err: err}
			}
		}
	}()

	for scanner.Scan() {
		line = scanner.Text()
		lineno++

		if asm.Verbose {
			log.Printf("casl: %v: %v", lineno, line)
		}

		pos := SourcePos{File: name, LineNo: lineno}
		st, ok, perr := parseStatement(pos, line)
		if perr != nil {
			err = perr
			return
		}
		if !ok {
			continue
		}

		if asm.ended {
			err = ErrAfterEnd
			return
		}

		err = asm.statement(st)
		if err != nil {
			return
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}

	if !asm.started {
		err = ErrNoStart
		return
	}
	if !asm.ended {
		err = ErrNoEnd
		return
	}

	err = asm.allocateLiterals()
	if err != nil {
		return
	}

	return asm.resolve()
}

// cursor is the next emission address. The image is append-only, so
// the cursor is monotonic by construction.
func (asm *Assembler) cursor() uint16 {
	return uint16(len(asm.Words))
}

// emit appends words for one statement, stamping their source origin.
func (asm *Assembler) emit(st Statement, words ...Word) error {
	if len(asm.Words)+len(words) > comet.MEMORY_SIZE {
		return ErrAddressRange
	}

	for _, w := range words {
		w.Pos = st.Pos
		w.Text = st.Text
		w.First = len(asm.Words) == 0 || asm.Words[len(asm.Words)-1].Pos != st.Pos
		asm.Words = append(asm.Words, w)
	}
	return nil
}

// warn records a non-fatal diagnostic.
func (asm *Assembler) warn(st Statement, msg string) {
	w := f("%v:%d: warning: %v", st.Pos.File, st.Pos.LineNo, msg)
	asm.Warnings = append(asm.Warnings, w)
	log.Printf("casl: %v", w)
}

// statement assembles one tokenized source line.
func (asm *Assembler) statement(st Statement) (err error) {
	defer func() {
		if err != nil {
			err = &ErrSyntax{File: st.Pos.File, LineNo: st.Pos.LineNo, Line: st.Text, Err: err}
		}
	}()

	if !asm.started && st.Op != "START" {
		return ErrNoStart
	}

	if st.Label != "" {
		err = asm.Labels.Define(st.Label, asm.cursor(), st.Pos)
		if err != nil {
			return
		}
	}

	switch st.Op {
	case "START":
		return asm.directiveStart(st)
	case "END":
		if len(st.Operands) != 0 {
			return ErrOperandCount
		}
		asm.ended = true
		return nil
	case "DS":
		return asm.directiveDS(st)
	case "DC":
		return asm.directiveDC(st)
	case "RPUSH":
		return asm.macroRPUSH(st)
	case "RPOP":
		return asm.macroRPOP(st)
	case "IN":
		return asm.macroIO(st, comet.SVC_IN)
	case "OUT":
		return asm.macroIO(st, comet.SVC_OUT)
	}

	return asm.instruction(st)
}

// directiveStart marks the entry point. START must come first, carries
// a mandatory label, and an optional operand label overrides the entry.
func (asm *Assembler) directiveStart(st Statement) error {
	if asm.started {
		return ErrStartTwice
	}
	if st.Label == "" {
		return ErrStartLabel
	}

	switch len(st.Operands) {
	case 0:
		asm.start = Word{Value: asm.cursor()}
	case 1:
		if !IsLabel(st.Operands[0]) {
			return ErrBadOperand
		}
		asm.start = Word{Pending: st.Operands[0]}
	default:
		return ErrOperandCount
	}

	asm.started = true
	return nil
}

// directiveDS reserves zero words.
func (asm *Assembler) directiveDS(st Statement) error {
	if len(st.Operands) != 1 {
		return ErrOperandCount
	}

	count, err := ParseNumber(st.Operands[0])
	if err != nil {
		return err
	}

	words := make([]Word, count)
	return asm.emit(st, words...)
}

// directiveDC emits constants: quoted strings one character per word,
// numbers, or deferred label references.
func (asm *Assembler) directiveDC(st Statement) error {
	if len(st.Operands) == 0 {
		return ErrOperandCount
	}

	var words []Word
	for _, operand := range st.Operands {
		if strings.HasPrefix(operand, "'") {
			text, err := unquote(operand)
			if err != nil {
				return err
			}
			for i := 0; i < len(text); i++ {
				words = append(words, Word{Value: uint16(text[i])})
			}
			continue
		}

		if m := parenRe.FindStringSubmatch(operand); m != nil {
			value, err := asm.parenEval(m[1])
			if err != nil {
				return err
			}
			words = append(words, Word{Value: value})
			continue
		}

		if IsLabel(operand) {
			words = append(words, Word{Pending: operand})
			continue
		}

		value, err := ParseNumber(operand)
		if err != nil {
			return err
		}
		words = append(words, Word{Value: value})
	}

	return asm.emit(st, words...)
}

// unquote decodes a single-quoted DC string; `''` is the quote escape.
func unquote(s string) (text string, err error) {
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		err = ErrBadString
		return
	}
	return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), nil
}

// literal records a `=` operand in the pool.
func (asm *Assembler) literal(spelling string, pos SourcePos) {
	if _, ok := asm.litPos[spelling]; ok {
		return
	}
	asm.litPos[spelling] = pos
	asm.literals = append(asm.literals, spelling)
}

// parseAdr builds the address word of a two-word instruction: a
// literal, a $() expression, a label reference, or a number.
func (asm *Assembler) parseAdr(st Statement, operand string) (w Word, err error) {
	if IsLiteral(operand) {
		asm.literal(operand, st.Pos)
		w = Word{Pending: operand}
		return
	}

	if m := parenRe.FindStringSubmatch(operand); m != nil {
		var value uint16
		value, err = asm.parenEval(m[1])
		w = Word{Value: value}
		return
	}

	if IsLabel(operand) {
		w = Word{Pending: operand}
		return
	}

	value, err := ParseNumber(operand)
	w = Word{Value: value}
	return
}

// index parses the optional index register operand. GR0 is wired to
// zero and cannot index.
func index(operand string) (xr uint8, err error) {
	xr, ok := Register(operand)
	if !ok {
		return 0, ErrBadOperand
	}
	if xr == 0 {
		return 0, ErrGR0Index
	}
	return
}

// instruction assembles one machine instruction.
func (asm *Assembler) instruction(st Statement) error {
	if comet.FormsOf(st.Op) == nil {
		return ErrBadMnemonic
	}

	form, err := inferForm(st.Op, st.Operands)
	if err != nil {
		return err
	}
	code, _ := comet.Encode(st.Op, form)

	first := func(gr, xr uint8) Word {
		return Word{Value: uint16(code)<<8 | uint16(gr)<<4 | uint16(xr)}
	}

	switch form {
	case comet.FORM_NOPR:
		return asm.emit(st, first(0, 0))

	case comet.FORM_R:
		gr, ok := Register(st.Operands[0])
		if !ok {
			return ErrBadOperand
		}
		return asm.emit(st, first(gr, 0))

	case comet.FORM_R1_R2:
		r1, ok := Register(st.Operands[0])
		if !ok {
			return ErrBadOperand
		}
		r2, _ := Register(st.Operands[1])
		return asm.emit(st, first(r1, r2))

	case comet.FORM_ADR_X:
		var xr uint8
		if len(st.Operands) == 2 {
			if xr, err = index(st.Operands[1]); err != nil {
				return err
			}
		}
		adr, err := asm.parseAdr(st, st.Operands[0])
		if err != nil {
			return err
		}
		return asm.emit(st, first(0, xr), adr)

	case comet.FORM_R_ADR_X:
		gr, ok := Register(st.Operands[0])
		if !ok {
			return ErrBadOperand
		}
		var xr uint8
		if len(st.Operands) == 3 {
			if xr, err = index(st.Operands[2]); err != nil {
				return err
			}
		}
		if st.Op == "LD" && len(st.Operands) == 2 &&
			!strings.ContainsAny(st.Operands[1], "=abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") {
			asm.warn(st, f("LD with a numeric address; did you mean LAD?"))
		}
		adr, err := asm.parseAdr(st, st.Operands[1])
		if err != nil {
			return err
		}
		return asm.emit(st, first(gr, xr), adr)
	}

	return ErrBadForm
}

// macroRPUSH pushes GR1 through GR7.
func (asm *Assembler) macroRPUSH(st Statement) error {
	if len(st.Operands) != 0 {
		return ErrOperandCount
	}

	push, _ := comet.Encode("PUSH", comet.FORM_ADR_X)
	var words []Word
	for gr := uint16(1); gr <= 7; gr++ {
		words = append(words, Word{Value: uint16(push)<<8 | gr}, Word{})
	}
	return asm.emit(st, words...)
}

// macroRPOP pops GR7 through GR1.
func (asm *Assembler) macroRPOP(st Statement) error {
	if len(st.Operands) != 0 {
		return ErrOperandCount
	}

	pop, _ := comet.Encode("POP", comet.FORM_R)
	var words []Word
	for gr := uint16(7); gr >= 1; gr-- {
		words = append(words, Word{Value: uint16(pop)<<8 | gr<<4})
	}
	return asm.emit(st, words...)
}

// macroIO expands IN and OUT: save GR1/GR2, point them at the buffer
// and length words, issue the supervisor call, restore.
func (asm *Assembler) macroIO(st Statement, svc uint16) error {
	if len(st.Operands) != 2 {
		return ErrOperandCount
	}

	buf, err := asm.parseAdr(st, st.Operands[0])
	if err != nil {
		return err
	}
	length, err := asm.parseAdr(st, st.Operands[1])
	if err != nil {
		return err
	}

	push, _ := comet.Encode("PUSH", comet.FORM_ADR_X)
	pop, _ := comet.Encode("POP", comet.FORM_R)
	lad, _ := comet.Encode("LAD", comet.FORM_R_ADR_X)
	call, _ := comet.Encode("SVC", comet.FORM_ADR_X)

	return asm.emit(st,
		Word{Value: uint16(push)<<8 | 1}, Word{},
		Word{Value: uint16(push)<<8 | 2}, Word{},
		Word{Value: uint16(lad)<<8 | 1<<4}, buf,
		Word{Value: uint16(lad)<<8 | 2<<4}, length,
		Word{Value: uint16(call) << 8}, Word{Value: svc},
		Word{Value: uint16(pop)<<8 | 2<<4},
		Word{Value: uint16(pop)<<8 | 1<<4},
	)
}

// allocateLiterals appends one word per distinct literal after the
// program body and defines the spelling as its label.
func (asm *Assembler) allocateLiterals() (err error) {
	for _, spelling := range asm.literals {
		pos := asm.litPos[spelling]

		value, nerr := ParseNumber(spelling[1:])
		if nerr != nil {
			return &ErrSyntax{File: pos.File, LineNo: pos.LineNo, Line: spelling, Err: nerr}
		}

		err = asm.Labels.Define(spelling, asm.cursor(), pos)
		if err != nil {
			return &ErrSyntax{File: pos.File, LineNo: pos.LineNo, Line: spelling, Err: err}
		}

		if len(asm.Words) >= comet.MEMORY_SIZE {
			return ErrAddressRange
		}
		asm.Words = append(asm.Words, Word{
			Value: value,
			Pos:   pos,
			Text:  spelling,
			First: true,
		})
	}
	return nil
}

// resolve is pass two: every Pending payload is reduced to a value via
// the label table.
func (asm *Assembler) resolve() (err error) {
	for i := range asm.Words {
		w := &asm.Words[i]
		if w.Resolved() {
			continue
		}
		addr, ok := asm.Labels.Lookup(w.Pending)
		if !ok {
			return &ErrSyntax{File: w.Pos.File, LineNo: w.Pos.LineNo, Line: w.Text,
				Err: ErrUnresolvedLabel(w.Pending)}
		}
		w.Value = addr
		w.Pending = ""
	}

	if !asm.start.Resolved() {
		addr, ok := asm.Labels.Lookup(asm.start.Pending)
		if !ok {
			return ErrUnresolvedLabel(asm.start.Pending)
		}
		asm.start = Word{Value: addr}
	}
	return nil
}

// parenEval evaluates a compile-time $(...) constant expression.
func (asm *Assembler) parenEval(expr string) (word uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, starlark.StringDict{})
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}

	rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok := rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	v64, ok := value.Int64()
	if !ok || v64 > 0xffff || v64 < comet.MinSigned {
		err = ErrParseExpression(expr)
		return
	}

	word = comet.ToUnsigned(int(v64))
	return
}

// WriteObject writes the resolved program as a textual object file.
func (asm *Assembler) WriteObject(w io.Writer) (err error) {
	out := bufio.NewWriter(w)

	fmt.Fprintf(out, "COMET %04x\n", asm.start.Value)
	fmt.Fprintf(out, "CASL LISTING %s\n", asm.File)

	for addr, word := range asm.Words {
		if word.First {
			fmt.Fprintf(out, "  %4d %04x %04x\t%s\n", word.Pos.LineNo, addr, word.Value, word.Text)
		} else {
			fmt.Fprintf(out, "  %4d      %04x\t%s\n", word.Pos.LineNo, word.Value, word.Text)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "DEFINED LABELS")
	for _, name := range asm.Labels.Names() {
		addr, _ := asm.Labels.Lookup(name)
		pos := asm.Labels.Pos(name)
		fmt.Fprintf(out, "               %s:%d\t%04x %s\n", pos.File, pos.LineNo, addr, name)
	}

	return out.Flush()
}
