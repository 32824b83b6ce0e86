// Package casl implements the two-pass CASL assembler for the COMET
// machine.
//
// Pass one reads the source line by line, registers labels at the
// current address, and emits words whose address operands may still be
// unresolved label or literal references. After the literal pool is
// allocated, pass two substitutes every pending reference and the
// result is written as a textual object file with a listing body and a
// DEFINED LABELS section.
//
// The assembler supports the CASL directives (START, END, DS, DC), the
// RPUSH, RPOP, IN and OUT macros, `=` literals, and compile-time
// $( ... ) constant expressions evaluated by Starlark.
package casl
