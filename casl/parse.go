package casl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lsnl/casl/comet"
)

var (
	labelRe    = regexp.MustCompile(`^[A-Z][0-9A-Za-z]{0,7}$`)
	mnemonicRe = regexp.MustCompile(`^[A-Z]+$`)
	registerRe = regexp.MustCompile(`^GR([0-7])$`)
	parenRe    = regexp.MustCompile(`^\$\((.*)\)$`)
)

// SourcePos is the file and line a word or label was defined at.
type SourcePos struct {
	File   string
	LineNo int
}

// Statement is one tokenized source line: an optional label, an
// uppercase operator, and its comma-separated operands.
type Statement struct {
	Label    string
	Op       string
	Operands []string
	Pos      SourcePos
	Text     string
}

// IsLabel reports whether s is a well-formed label name.
func IsLabel(s string) bool {
	return labelRe.MatchString(s)
}

// IsLiteral reports whether s is a `=` literal operand.
func IsLiteral(s string) bool {
	return strings.HasPrefix(s, "=")
}

// Register parses a GR0..GR7 register name.
func Register(s string) (gr uint8, ok bool) {
	fields := registerRe.FindStringSubmatch(s)
	if fields == nil {
		return
	}
	gr = s[2] - '0'
	ok = true
	return
}

// ParseNumber parses a decimal or `#xxxx` hexadecimal operand into a
// word. Negative decimals take their two's complement representation.
func ParseNumber(s string) (word uint16, err error) {
	if rest, ok := strings.CutPrefix(s, "#"); ok {
		var v uint64
		v, err = strconv.ParseUint(rest, 16, 16)
		if err != nil {
			err = ErrParseNumber(s)
			return
		}
		word = uint16(v)
		return
	}

	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil || v > 0xffff || v < comet.MinSigned {
		err = ErrParseNumber(s)
		return
	}
	word = comet.ToUnsigned(int(v))
	return
}

// stripComment removes a trailing `;` comment. Semicolons inside a
// single-quoted string do not start a comment; `''` is the embedded
// quote escape.
func stripComment(line string) string {
	quoted := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'':
			quoted = !quoted
		case ';':
			if !quoted {
				return line[:i]
			}
		}
	}
	return line
}

// splitOperands splits a comma-separated operand field. Commas inside a
// single-quoted string are part of the operand.
func splitOperands(s string) (operands []string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}

	quoted := false
	field := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			quoted = !quoted
		case ',':
			if !quoted {
				operands = append(operands, strings.TrimSpace(s[field:i]))
				field = i + 1
			}
		}
	}
	if quoted {
		err = ErrBadString
		return
	}
	operands = append(operands, strings.TrimSpace(s[field:]))
	return
}

// parseStatement tokenizes one source line. ok is false for a line
// that is empty after comment stripping.
func parseStatement(pos SourcePos, raw string) (st Statement, ok bool, err error) {
	text := stripComment(raw)
	if strings.TrimSpace(text) == "" {
		return
	}

	st = Statement{Pos: pos, Text: raw}

	rest := text
	if rest[0] != ' ' && rest[0] != '\t' {
		st.Label = strings.Fields(rest)[0]
		if !IsLabel(st.Label) {
			err = ErrBadLabel
			return
		}
		rest = strings.TrimSpace(rest[len(st.Label):])
	} else {
		rest = strings.TrimSpace(rest)
	}

	if rest == "" {
		err = ErrBadMnemonic
		return
	}

	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		st.Op = rest[:i]
		rest = strings.TrimSpace(rest[i+1:])
	} else {
		st.Op = rest
		rest = ""
	}
	if !mnemonicRe.MatchString(st.Op) {
		err = ErrBadMnemonic
		return
	}

	st.Operands, err = splitOperands(rest)
	if err != nil {
		return
	}

	ok = true
	return
}

// candidateForms infers the possible addressing forms from the operand
// count and shape alone.
func candidateForms(operands []string) []comet.Form {
	switch len(operands) {
	case 0:
		return []comet.Form{comet.FORM_NOPR}
	case 1:
		return []comet.Form{comet.FORM_R, comet.FORM_ADR_X}
	case 2:
		if _, ok := Register(operands[1]); ok {
			return []comet.Form{comet.FORM_R1_R2, comet.FORM_ADR_X}
		}
		return []comet.Form{comet.FORM_R_ADR_X}
	case 3:
		return []comet.Form{comet.FORM_R_ADR_X}
	}
	return nil
}

// inferForm intersects the shape candidates with the forms the opcode
// table lists for the mnemonic. The result must be unique.
func inferForm(op string, operands []string) (form comet.Form, err error) {
	var matched []comet.Form
	for _, candidate := range candidateForms(operands) {
		for _, supported := range comet.FormsOf(op) {
			if candidate == supported {
				matched = append(matched, candidate)
			}
		}
	}

	if len(matched) != 1 {
		err = ErrBadForm
		return
	}
	form = matched[0]
	return
}
