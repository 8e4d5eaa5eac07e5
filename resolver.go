package tplscript

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// ResolvedNode is an element of a resolved script tree. Identifiers and
// evaluations never survive resolution; what remains is opcodes, literals
// and pushes over them.
type ResolvedNode interface {
	Span() Span
	resolvedNode()
}

// ResolvedOpcode is a single instruction byte. Name keeps the source
// spelling for diagnostics.
type ResolvedOpcode struct {
	Name    string
	Opcode  byte
	SpanVal Span
}

// Span returns the node's source range.
func (n *ResolvedOpcode) Span() Span    { return n.SpanVal }
func (n *ResolvedOpcode) resolvedNode() {}

// ResolvedBytes holds bytes spliced into the script verbatim: operation
// outputs, evaluation results and referenced script bytecode.
type ResolvedBytes struct {
	Bytes   []byte
	SpanVal Span
}

// Span returns the node's source range.
func (n *ResolvedBytes) Span() Span    { return n.SpanVal }
func (n *ResolvedBytes) resolvedNode() {}

// ResolvedInt is an integer literal awaiting script-number encoding.
type ResolvedInt struct {
	Value   *big.Int
	SpanVal Span
}

// Span returns the node's source range.
func (n *ResolvedInt) Span() Span    { return n.SpanVal }
func (n *ResolvedInt) resolvedNode() {}

// ResolvedHex is a hex literal awaiting decoding. Decoding is deferred so
// an odd digit count surfaces as an encoding failure with this span.
type ResolvedHex struct {
	Digits  string
	SpanVal Span
}

// Span returns the node's source range.
func (n *ResolvedHex) Span() Span    { return n.SpanVal }
func (n *ResolvedHex) resolvedNode() {}

// ResolvedString is a string literal awaiting UTF-8 byte emission.
type ResolvedString struct {
	Value   string
	SpanVal Span
}

// Span returns the node's source range.
func (n *ResolvedString) Span() Span    { return n.SpanVal }
func (n *ResolvedString) resolvedNode() {}

// ResolvedPush wraps resolved contents to be emitted as a stack push.
type ResolvedPush struct {
	Nodes   []ResolvedNode
	SpanVal Span
}

// Span returns the node's source range, brackets included.
func (n *ResolvedPush) Span() Span    { return n.SpanVal }
func (n *ResolvedPush) resolvedNode() {}

// ResolvedScript is the resolved tree of one script.
type ResolvedScript struct {
	ScriptID string
	Nodes    []ResolvedNode
}

// compilation carries the state of one GenerateBytecode invocation. The
// compiler itself stays stateless so concurrent compilations never share
// mutable state.
type compilation struct {
	compiler *Compiler
	ctx      context.Context
	data     *Data

	// path holds the ids of scripts currently being compiled, outermost
	// first. Revisiting an id on this path is a circular reference.
	path []string

	// debug toggles artifact collection.
	debug     bool
	artifacts map[string]*Artifact
}

// compileScript runs the full pipeline for one script id and returns its
// bytecode. Referenced scripts recurse through resolveIdentifier.
func (comp *compilation) compileScript(scriptID string) ([]byte, *CompileError) {
	source, ok := comp.compiler.env.Scripts[scriptID]
	if !ok {
		return nil, &CompileError{ScriptID: scriptID, Errors: []*Error{
			scriptError(ErrUnknownScript, Span{}, fmt.Sprintf("unknown script id %q", scriptID)),
		}}
	}

	comp.path = append(comp.path, scriptID)
	defer func() {
		comp.path = comp.path[:len(comp.path)-1]
	}()

	var artifact *Artifact
	if comp.debug {
		artifact = &Artifact{ScriptID: scriptID, Source: source}
		comp.artifacts[scriptID] = artifact
	}

	tokens, lexErr := Tokenize(source)
	if lexErr != nil {
		return nil, &CompileError{ScriptID: scriptID, Errors: []*Error{lexErr}}
	}
	if comp.debug {
		artifact.Tokens = tokens
	}

	program, parseErrs := Parse(tokens)
	if len(parseErrs) > 0 {
		return nil, &CompileError{ScriptID: scriptID, Errors: parseErrs}
	}
	if comp.debug {
		artifact.Program = program
	}

	nodes, resolveErrs := comp.resolveStatements(program.Statements)
	if len(resolveErrs) > 0 {
		return nil, &CompileError{ScriptID: scriptID, Errors: resolveErrs}
	}
	if comp.debug {
		artifact.Resolved = &ResolvedScript{ScriptID: scriptID, Nodes: nodes}
	}

	bytecode, encodeErrs := Generate(nodes)
	if len(encodeErrs) > 0 {
		return nil, &CompileError{ScriptID: scriptID, Errors: encodeErrs}
	}
	if comp.debug {
		artifact.Bytecode = bytecode
	}
	return bytecode, nil
}

func (comp *compilation) resolveStatements(statements []Statement) ([]ResolvedNode, []*Error) {
	var nodes []ResolvedNode
	var errs []*Error
	for _, statement := range statements {
		node, statementErrs := comp.resolveStatement(statement)
		if len(statementErrs) > 0 {
			errs = append(errs, statementErrs...)
			continue
		}
		nodes = append(nodes, node)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return nodes, nil
}

func (comp *compilation) resolveStatement(statement Statement) (ResolvedNode, []*Error) {
	switch node := statement.(type) {
	case *IntLiteral:
		return &ResolvedInt{Value: node.Value, SpanVal: node.SpanVal}, nil

	case *HexLiteral:
		return &ResolvedHex{Digits: node.Digits, SpanVal: node.SpanVal}, nil

	case *UTF8Literal:
		return &ResolvedString{Value: node.Value, SpanVal: node.SpanVal}, nil

	case *Push:
		inner, errs := comp.resolveStatements(node.Statements)
		if len(errs) > 0 {
			return nil, errs
		}
		return &ResolvedPush{Nodes: inner, SpanVal: node.SpanVal}, nil

	case *Identifier:
		return comp.resolveIdentifier(node)

	case *Evaluation:
		return comp.resolveEvaluation(node)

	default:
		return nil, []*Error{scriptError(ErrOperationFailed, statement.Span(),
			fmt.Sprintf("internal: unhandled statement type %T", statement))}
	}
}

// resolveIdentifier looks a name up as an opcode, then a variable, then a
// script. Exact matches only.
func (comp *compilation) resolveIdentifier(node *Identifier) (ResolvedNode, []*Error) {
	env := comp.compiler.env

	if opcode, ok := env.Opcodes[node.Name]; ok {
		comp.traceStep(node, "opcode", []byte{opcode})
		return &ResolvedOpcode{Name: node.Name, Opcode: opcode, SpanVal: node.SpanVal}, nil
	}

	if variable, ok := env.Variables[node.Name]; ok {
		return comp.resolveVariable(node, variable)
	}

	if _, ok := env.Scripts[node.Name]; ok {
		return comp.resolveScriptReference(node)
	}

	return nil, []*Error{scriptError(ErrUnknownIdentifier, node.SpanVal,
		fmt.Sprintf("unknown identifier %q", node.Name))}
}

func (comp *compilation) resolveVariable(node *Identifier, variable *Variable) (ResolvedNode, []*Error) {
	operation := comp.compiler.env.Operations.operation(variable.Kind)
	if operation == nil {
		return nil, []*Error{scriptError(ErrMissingCapability, node.SpanVal,
			fmt.Sprintf("no operation bound for %s variable %q", variable.Kind, node.Name))}
	}

	resolved, err := operation(comp.ctx, variable, comp.data, comp.compiler.env)
	if err != nil {
		code := ErrOperationFailed
		var missing *MissingDataError
		if errors.As(err, &missing) {
			code = ErrMissingData
		}
		return nil, []*Error{scriptErrorWithCause(code, node.SpanVal,
			fmt.Sprintf("variable %q: %s", node.Name, err), err)}
	}
	comp.traceStep(node, "variable", resolved)
	return &ResolvedBytes{Bytes: resolved, SpanVal: node.SpanVal}, nil
}

// resolveScriptReference compiles the referenced script under the same
// environment and data and splices its bytecode in place of the reference.
func (comp *compilation) resolveScriptReference(node *Identifier) (ResolvedNode, []*Error) {
	for _, id := range comp.path {
		if id == node.Name {
			chain := strings.Join(append(append([]string{}, comp.path...), node.Name), " -> ")
			return nil, []*Error{scriptError(ErrCircularReference, node.SpanVal,
				fmt.Sprintf("circular script reference: %s", chain))}
		}
	}

	bytecode, compileErr := comp.compileScript(node.Name)
	if compileErr != nil {
		code := ErrUnknownScript
		description := fmt.Sprintf("in referenced script %q: compilation failed", node.Name)
		if len(compileErr.Errors) > 0 {
			code = compileErr.Errors[0].Code
			description = fmt.Sprintf("in referenced script %q: %s", node.Name, compileErr.Errors[0])
		}
		return nil, []*Error{scriptErrorWithCause(code, node.SpanVal, description, compileErr)}
	}
	comp.traceStep(node, "script", bytecode)
	return &ResolvedBytes{Bytes: bytecode, SpanVal: node.SpanVal}, nil
}

// resolveEvaluation compiles the evaluation's body, executes it on the
// bound virtual machine and folds the top stack item into a bytes literal.
// Nested evaluations fold innermost first through the recursion.
func (comp *compilation) resolveEvaluation(node *Evaluation) (ResolvedNode, []*Error) {
	if comp.compiler.vm == nil {
		return nil, []*Error{scriptError(ErrMissingCapability, node.SpanVal,
			"no virtual machine bound for evaluations")}
	}

	inner, errs := comp.resolveStatements(node.Statements)
	if len(errs) > 0 {
		return nil, errs
	}
	bytecode, encodeErrs := Generate(inner)
	if len(encodeErrs) > 0 {
		return nil, encodeErrs
	}

	stack, err := comp.compiler.vm.Execute(comp.ctx, bytecode)
	if err != nil {
		return nil, []*Error{scriptErrorWithCause(ErrEvaluationFailed, node.SpanVal,
			fmt.Sprintf("evaluation failed: %s", err), err)}
	}
	if len(stack) == 0 {
		return nil, []*Error{scriptError(ErrEvaluationFailed, node.SpanVal,
			"evaluation left an empty stack")}
	}
	result := stack[len(stack)-1]
	comp.traceStep(node, "evaluation", result)
	return &ResolvedBytes{Bytes: result, SpanVal: node.SpanVal}, nil
}

func (comp *compilation) traceStep(node Node, disposition string, resolved []byte) {
	if !comp.debug || len(comp.path) == 0 {
		return
	}
	artifact := comp.artifacts[comp.path[len(comp.path)-1]]
	if artifact == nil {
		return
	}
	var name string
	switch n := node.(type) {
	case *Identifier:
		name = n.Name
	case *Evaluation:
		name = "$(...)"
	}
	artifact.Trace = append(artifact.Trace, TraceEntry{
		Span:        node.Span(),
		Identifier:  name,
		Disposition: disposition,
		Bytes:       resolved,
	})
}
