// Package convert implements the conversion pipeline between the HTTP
// boundary and the external ChordPro engine.
//
// A request flows through three pure stages and one effectful one:
// ParseRequest turns a raw JSON body into a validated Request (no I/O),
// the preset catalog resolves client-facing preset names to engine
// configuration references, BuildArgs deterministically maps a Request to the
// engine argument list, and Runner owns the per-request temp files and the
// bounded engine invocation.
//
// The runner guarantees that both temporary files are removed on every exit
// path, including timeout and unexpected failure, and that no local
// filesystem detail or raw system error ever appears in a Result a client
// can see.
package convert
