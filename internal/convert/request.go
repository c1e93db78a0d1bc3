package convert

// Request is a fully validated conversion request. Instances are only
// produced by ParseRequest, so downstream stages can rely on every field
// being in range and every preset reference being resolvable.
type Request struct {
	Content string
	Format  Format
	Options Options
}

// Options carries the validated engine options.
type Options struct {
	// Transpose in semitones; nil when the client did not ask for one.
	Transpose *int
	// Meta holds directive overrides passed to the engine one flag per pair.
	Meta map[string]string
	// Diagrams controls chord diagram rendering. The engine default is on,
	// so only the disabled state emits a flag.
	Diagrams bool
	// Configs holds engine configuration references in the order supplied by
	// the client. Later references override earlier ones inside the engine,
	// so order is preserved exactly.
	Configs []string
}
