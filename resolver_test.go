package tplscript

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func testEnv(scripts map[string]string, variables map[string]*Variable,
	operations OperationTable) *Environment {

	return &Environment{
		Opcodes:    DefaultOpcodes(),
		Scripts:    scripts,
		Variables:  variables,
		Operations: operations,
	}
}

// walletDataOperation returns data values verbatim, like the production
// wallet data operation, reporting missing entries as missing data.
func walletDataOperation(_ context.Context, variable *Variable, data *Data,
	_ *Environment) ([]byte, error) {

	if data == nil || data.Values[variable.ID] == nil {
		return nil, &MissingDataError{VariableID: variable.ID, What: "value"}
	}
	return data.Values[variable.ID], nil
}

func TestCompileOpcodes(t *testing.T) {
	env := testEnv(map[string]string{"lock": "OP_1 OP_2 OP_ADD"}, nil, OperationTable{})
	compiler := NewCompiler(env, nil)

	bytecode, err := compiler.GenerateBytecode("lock", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := hexToBytes("515293"); !bytes.Equal(bytecode, want) {
		t.Errorf("bytecode is %x, want %x", bytecode, want)
	}
}

func TestIdentifierLookupOrder(t *testing.T) {
	// OP_DUP is an opcode, a variable and a script here; the opcode must
	// win and neither the operation nor the script may be consulted.
	operationCalled := false
	env := testEnv(
		map[string]string{
			"lock":   "OP_DUP",
			"OP_DUP": "OP_RETURN",
		},
		map[string]*Variable{
			"OP_DUP": {ID: "OP_DUP", Kind: WalletDataVariable},
		},
		OperationTable{
			WalletData: func(context.Context, *Variable, *Data, *Environment) ([]byte, error) {
				operationCalled = true
				return []byte{0xff}, nil
			},
		},
	)
	compiler := NewCompiler(env, nil)

	bytecode, err := compiler.GenerateBytecode("lock", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []byte{OpDup}; !bytes.Equal(bytecode, want) {
		t.Errorf("bytecode is %x, want %x", bytecode, want)
	}
	if operationCalled {
		t.Error("operation was invoked for a name that resolves to an opcode")
	}

	// A name that is both a variable and a script resolves as a variable.
	env = testEnv(
		map[string]string{
			"lock":   "both",
			"both":   "OP_RETURN",
			"spends": "both",
		},
		map[string]*Variable{
			"both": {ID: "both", Kind: WalletDataVariable},
		},
		OperationTable{WalletData: walletDataOperation},
	)
	compiler = NewCompiler(env, nil)

	data := &Data{Values: map[string][]byte{"both": hexToBytes("beef")}}
	bytecode, err = compiler.GenerateBytecode("lock", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := hexToBytes("beef"); !bytes.Equal(bytecode, want) {
		t.Errorf("bytecode is %x, want %x", bytecode, want)
	}
}

func TestResolveWalletDataVariable(t *testing.T) {
	env := testEnv(
		map[string]string{"lock": "secret <secret>"},
		map[string]*Variable{
			"secret": {ID: "secret", Kind: WalletDataVariable},
		},
		OperationTable{WalletData: walletDataOperation},
	)
	compiler := NewCompiler(env, nil)

	data := &Data{Values: map[string][]byte{"secret": hexToBytes("deadbeef")}}
	bytecode, err := compiler.GenerateBytecode("lock", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Bare emission is verbatim; the push adds a length prefix.
	if want := hexToBytes("deadbeef04deadbeef"); !bytes.Equal(bytecode, want) {
		t.Errorf("bytecode is %x, want %x", bytecode, want)
	}
}

func TestResolveVariableErrors(t *testing.T) {
	failingOperation := func(context.Context, *Variable, *Data, *Environment) ([]byte, error) {
		return nil, errors.New("hardware signer unreachable")
	}

	tests := []struct {
		name       string
		operations OperationTable
		data       *Data
		code       ErrorCode
	}{
		{
			name:       "missing data",
			operations: OperationTable{WalletData: walletDataOperation},
			data:       nil,
			code:       ErrMissingData,
		},
		{
			name:       "operation failure",
			operations: OperationTable{WalletData: failingOperation},
			data:       nil,
			code:       ErrOperationFailed,
		},
		{
			name:       "no operation bound",
			operations: OperationTable{},
			data:       nil,
			code:       ErrMissingCapability,
		},
	}

	for _, test := range tests {
		env := testEnv(
			map[string]string{"lock": "secret"},
			map[string]*Variable{
				"secret": {ID: "secret", Kind: WalletDataVariable},
			},
			test.operations,
		)
		compiler := NewCompiler(env, nil)

		_, err := compiler.GenerateBytecode("lock", test.data)
		if err == nil {
			t.Errorf("%s: expected error, got none", test.name)
			continue
		}
		if !IsErrorCode(err, test.code) {
			t.Errorf("%s: got %v, want code %v", test.name, err, test.code)
		}
		var compileErr *CompileError
		if !errors.As(err, &compileErr) {
			t.Errorf("%s: error is %T, want *CompileError", test.name, err)
			continue
		}
		if compileErr.Kind() != KindResolution {
			t.Errorf("%s: kind is %v, want %v", test.name, compileErr.Kind(), KindResolution)
		}
	}
}

func TestUnknownIdentifier(t *testing.T) {
	env := testEnv(map[string]string{"lock": "OP_1 nonsense"}, nil, OperationTable{})
	compiler := NewCompiler(env, nil)

	_, err := compiler.GenerateBytecode("lock", nil)
	if !IsErrorCode(err, ErrUnknownIdentifier) {
		t.Fatalf("got %v, want code %v", err, ErrUnknownIdentifier)
	}
	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("error is %T, want *CompileError", err)
	}
	if !strings.Contains(compileErr.Errors[0].Description, `"nonsense"`) {
		t.Errorf("description %q does not name the identifier",
			compileErr.Errors[0].Description)
	}
}

func TestUnknownScript(t *testing.T) {
	env := testEnv(map[string]string{"lock": "OP_1"}, nil, OperationTable{})
	compiler := NewCompiler(env, nil)

	_, err := compiler.GenerateBytecode("nope", nil)
	if !IsErrorCode(err, ErrUnknownScript) {
		t.Fatalf("got %v, want code %v", err, ErrUnknownScript)
	}
}

func TestScriptComposition(t *testing.T) {
	env := testEnv(
		map[string]string{
			"redeem": "OP_1",
			"lock":   "<redeem> OP_HASH160",
		},
		nil, OperationTable{},
	)
	compiler := NewCompiler(env, nil)

	bytecode, err := compiler.GenerateBytecode("lock", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := hexToBytes("0151a9"); !bytes.Equal(bytecode, want) {
		t.Errorf("bytecode is %x, want %x", bytecode, want)
	}
}

func TestCircularReference(t *testing.T) {
	tests := []struct {
		name    string
		scripts map[string]string
		start   string
	}{
		{
			name:    "self reference",
			scripts: map[string]string{"a": "a"},
			start:   "a",
		},
		{
			name: "transitive cycle",
			scripts: map[string]string{
				"a": "b",
				"b": "c",
				"c": "a",
			},
			start: "a",
		},
		{
			name: "cycle below the entry script",
			scripts: map[string]string{
				"lock": "a",
				"a":    "b",
				"b":    "a",
			},
			start: "lock",
		},
	}

	for _, test := range tests {
		env := testEnv(test.scripts, nil, OperationTable{})
		compiler := NewCompiler(env, nil)

		_, err := compiler.GenerateBytecode(test.start, nil)
		if err == nil {
			t.Errorf("%s: expected error, got none", test.name)
			continue
		}
		if !IsErrorCode(err, ErrCircularReference) {
			t.Errorf("%s: got %v, want code %v", test.name, err, ErrCircularReference)
		}
	}
}

func TestReferencedScriptErrorChain(t *testing.T) {
	env := testEnv(
		map[string]string{
			"lock":  "inner",
			"inner": "<OP_1",
		},
		nil, OperationTable{},
	)
	compiler := NewCompiler(env, nil)

	_, err := compiler.GenerateBytecode("lock", nil)
	if err == nil {
		t.Fatal("expected error, got none")
	}

	// The outer error keeps the inner code so the taxonomy survives
	// propagation through referencing scripts.
	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("error is %T, want *CompileError", err)
	}
	if compileErr.ScriptID != "lock" {
		t.Errorf("script id is %q, want %q", compileErr.ScriptID, "lock")
	}
	if compileErr.Kind() != KindParse {
		t.Errorf("kind is %v, want %v", compileErr.Kind(), KindParse)
	}
	if !IsErrorCode(err, ErrUnmatchedPushOpen) {
		t.Errorf("got %v, want code %v", err, ErrUnmatchedPushOpen)
	}
	if !strings.Contains(compileErr.Errors[0].Description, `in referenced script "inner"`) {
		t.Errorf("description %q does not name the referenced script",
			compileErr.Errors[0].Description)
	}

	// The inner script's own CompileError stays reachable as the cause.
	var innerErr *CompileError
	if !errors.As(compileErr.Errors[0].Unwrap(), &innerErr) {
		t.Fatalf("cause is %T, want *CompileError", compileErr.Errors[0].Unwrap())
	}
	if innerErr.ScriptID != "inner" {
		t.Errorf("inner script id is %q, want %q", innerErr.ScriptID, "inner")
	}
}

func TestEvaluation(t *testing.T) {
	var executed []byte
	machine := VirtualMachineFunc(func(_ context.Context, program []byte) ([][]byte, error) {
		executed = append([]byte{}, program...)
		return [][]byte{hexToBytes("0102"), hexToBytes("beef")}, nil
	})

	env := testEnv(map[string]string{"lock": "$(OP_1 OP_2 OP_ADD)"}, nil, OperationTable{})
	compiler := NewCompiler(env, machine)

	bytecode, err := compiler.GenerateBytecode("lock", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The machine received the compiled evaluation body and the top of
	// its final stack was spliced in.
	if want := hexToBytes("515293"); !bytes.Equal(executed, want) {
		t.Errorf("executed program is %x, want %x", executed, want)
	}
	if want := hexToBytes("beef"); !bytes.Equal(bytecode, want) {
		t.Errorf("bytecode is %x, want %x", bytecode, want)
	}
}

func TestEvaluationErrors(t *testing.T) {
	tests := []struct {
		name    string
		machine VirtualMachine
		code    ErrorCode
		kind    ErrorKind
	}{
		{
			name: "execution failure",
			machine: VirtualMachineFunc(func(context.Context, []byte) ([][]byte, error) {
				return nil, errors.New("verify failed")
			}),
			code: ErrEvaluationFailed,
			kind: KindEvaluation,
		},
		{
			name: "empty final stack",
			machine: VirtualMachineFunc(func(context.Context, []byte) ([][]byte, error) {
				return nil, nil
			}),
			code: ErrEvaluationFailed,
			kind: KindEvaluation,
		},
		{
			name:    "no machine bound",
			machine: nil,
			code:    ErrMissingCapability,
			kind:    KindResolution,
		},
	}

	for _, test := range tests {
		env := testEnv(map[string]string{"lock": "$(OP_1)"}, nil, OperationTable{})
		compiler := NewCompiler(env, test.machine)

		_, err := compiler.GenerateBytecode("lock", nil)
		if err == nil {
			t.Errorf("%s: expected error, got none", test.name)
			continue
		}
		if !IsErrorCode(err, test.code) {
			t.Errorf("%s: got %v, want code %v", test.name, err, test.code)
		}
		var compileErr *CompileError
		if !errors.As(err, &compileErr) {
			t.Errorf("%s: error is %T, want *CompileError", test.name, err)
			continue
		}
		if compileErr.Kind() != test.kind {
			t.Errorf("%s: kind is %v, want %v", test.name, compileErr.Kind(), test.kind)
		}
	}
}

func TestMultipleResolutionErrorsCollected(t *testing.T) {
	env := testEnv(map[string]string{"lock": "foo OP_1 bar"}, nil, OperationTable{})
	compiler := NewCompiler(env, nil)

	_, err := compiler.GenerateBytecode("lock", nil)
	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("error is %T, want *CompileError", err)
	}
	if len(compileErr.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(compileErr.Errors), compileErr.Errors)
	}
	for i, collected := range compileErr.Errors {
		if collected.Code != ErrUnknownIdentifier {
			t.Errorf("error %d code is %v, want %v",
				i, collected.Code, ErrUnknownIdentifier)
		}
	}
}

func TestOperationContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	blockedOperation := func(opCtx context.Context, _ *Variable, _ *Data,
		_ *Environment) ([]byte, error) {

		select {
		case <-opCtx.Done():
			return nil, opCtx.Err()
		default:
			return []byte{0x01}, nil
		}
	}

	env := testEnv(
		map[string]string{"lock": "secret"},
		map[string]*Variable{
			"secret": {ID: "secret", Kind: WalletDataVariable},
		},
		OperationTable{WalletData: blockedOperation},
	)
	compiler := NewCompiler(env, nil)

	_, err := compiler.GenerateBytecodeContext(ctx, "lock", nil)
	if !IsErrorCode(err, ErrOperationFailed) {
		t.Fatalf("got %v, want code %v", err, ErrOperationFailed)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error chain does not surface context.Canceled: %v", err)
	}
}

func TestGenerateArtifact(t *testing.T) {
	machine := VirtualMachineFunc(func(_ context.Context, program []byte) ([][]byte, error) {
		return [][]byte{{0x09}}, nil
	})
	env := testEnv(
		map[string]string{
			"lock":  "<inner> key1 OP_1 $(OP_2)",
			"inner": "OP_3",
		},
		map[string]*Variable{
			"key1": {ID: "key1", Kind: WalletDataVariable},
		},
		OperationTable{WalletData: walletDataOperation},
	)
	compiler := NewCompiler(env, machine)

	data := &Data{Values: map[string][]byte{"key1": hexToBytes("beef")}}
	artifact, err := compiler.GenerateArtifact(context.Background(), "lock", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if artifact.ScriptID != "lock" {
		t.Errorf("script id is %q, want %q", artifact.ScriptID, "lock")
	}
	if artifact.Source != env.Scripts["lock"] {
		t.Errorf("source is %q, want %q", artifact.Source, env.Scripts["lock"])
	}
	if len(artifact.Tokens) == 0 {
		t.Error("artifact has no tokens")
	}
	if artifact.Program == nil {
		t.Error("artifact has no program")
	}
	if artifact.Resolved == nil {
		t.Error("artifact has no resolved tree")
	}
	if want := hexToBytes("0153beef5109"); !bytes.Equal(artifact.Bytecode, want) {
		t.Errorf("bytecode is %x, want %x", artifact.Bytecode, want)
	}

	wantTrace := []struct {
		identifier  string
		disposition string
		bytes       string
	}{
		{"inner", "script", "53"},
		{"key1", "variable", "beef"},
		{"OP_1", "opcode", "51"},
		{"OP_2", "opcode", "52"},
		{"$(...)", "evaluation", "09"},
	}
	if len(artifact.Trace) != len(wantTrace) {
		t.Fatalf("got %d trace entries, want %d: %+v",
			len(artifact.Trace), len(wantTrace), artifact.Trace)
	}
	for i, want := range wantTrace {
		entry := artifact.Trace[i]
		if entry.Identifier != want.identifier {
			t.Errorf("trace %d identifier is %q, want %q", i, entry.Identifier, want.identifier)
		}
		if entry.Disposition != want.disposition {
			t.Errorf("trace %d disposition is %q, want %q", i, entry.Disposition, want.disposition)
		}
		if !bytes.Equal(entry.Bytes, hexToBytes(want.bytes)) {
			t.Errorf("trace %d bytes are %x, want %s", i, entry.Bytes, want.bytes)
		}
	}

	referenced, ok := artifact.ReferencedScripts["inner"]
	if !ok {
		t.Fatal("artifact is missing the referenced script")
	}
	if !bytes.Equal(referenced.Bytecode, hexToBytes("53")) {
		t.Errorf("referenced bytecode is %x, want 53", referenced.Bytecode)
	}
	if len(referenced.Trace) != 1 || referenced.Trace[0].Identifier != "OP_3" {
		t.Errorf("referenced trace is %+v, want a single OP_3 entry", referenced.Trace)
	}
}

func TestGenerateArtifactOnFailure(t *testing.T) {
	env := testEnv(map[string]string{"lock": "OP_1 nonsense"}, nil, OperationTable{})
	compiler := NewCompiler(env, nil)

	artifact, err := compiler.GenerateArtifact(context.Background(), "lock", nil)
	if !IsErrorCode(err, ErrUnknownIdentifier) {
		t.Fatalf("got %v, want code %v", err, ErrUnknownIdentifier)
	}
	if artifact == nil {
		t.Fatal("expected a partial artifact")
	}
	if len(artifact.Tokens) == 0 {
		t.Error("partial artifact has no tokens")
	}
	if artifact.Program == nil {
		t.Error("partial artifact has no program")
	}
	if artifact.Resolved != nil {
		t.Error("partial artifact has a resolved tree despite the resolution failure")
	}
	if artifact.Bytecode != nil {
		t.Error("partial artifact has bytecode despite the failure")
	}
}
