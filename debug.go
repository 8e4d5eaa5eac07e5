package tplscript

// Artifact records every intermediate stage of one script's compilation.
// Stages are filled in order, so a failed compilation yields an artifact
// populated up to the stage that failed.
type Artifact struct {
	// ScriptID and Source identify the compiled script.
	ScriptID string `json:"scriptId"`
	Source   string `json:"source"`

	// Tokens is the lexer output, terminating EOF token included.
	Tokens []Token `json:"tokens,omitempty"`

	// Program is the parsed source.
	Program *Program `json:"program,omitempty"`

	// Resolved is the tree after identifier resolution and evaluation,
	// ready for bytecode generation.
	Resolved *ResolvedScript `json:"resolved,omitempty"`

	// Bytecode is the generated output.
	Bytecode []byte `json:"bytecode,omitempty"`

	// Trace lists each identifier and evaluation of this script in the
	// order it was resolved.
	Trace []TraceEntry `json:"trace,omitempty"`

	// ReferencedScripts holds the artifacts of every script compiled
	// while resolving this one, keyed by script id. Only the top-level
	// artifact carries this map.
	ReferencedScripts map[string]*Artifact `json:"referencedScripts,omitempty"`
}

// TraceEntry records how one identifier or evaluation resolved.
type TraceEntry struct {
	Span Span `json:"span"`

	// Identifier is the source spelling, or "$(...)" for an evaluation.
	Identifier string `json:"identifier"`

	// Disposition names what the identifier turned out to be: "opcode",
	// "variable", "script" or "evaluation".
	Disposition string `json:"disposition"`

	// Bytes is what the step contributed to the resolved tree. For an
	// opcode this is the single instruction byte.
	Bytes []byte `json:"bytes"`
}
