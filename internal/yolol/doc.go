// Package yolol parses, compiles and steps Yolol scripts.
//
// It is the collaborator the harness drives, not part of the harness itself.
// The pipeline is:
//
//	script, err := yolol.Parse(source)
//	externals := yolol.NewExternalsMap()
//	prog, err := yolol.Compile(script, externals, yolol.Limits{...})
//	used, err := prog.Run(internals, externalBuf, ticks, watch)
//
// A compiled Program keeps no state of its own. Variable slots live in two
// caller-owned buffers and internal slot 0 holds the program counter, so a
// program can be resumed any number of times from its buffers alone.
//
// Each executed line costs one tick. Runtime errors (type mismatches,
// division by zero) abort the remainder of the current line, as on a real
// chip; only structural faults are returned from Run.
package yolol
