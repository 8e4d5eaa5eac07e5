package tplscript

import "context"

// VariableKind is the closed set of variable capabilities a template may
// declare. Script composition is the remaining capability and is handled by
// the resolver itself.
type VariableKind int

// Variable kinds.
const (
	// KeyVariable resolves to the serialized public key derived from the
	// variable's key material.
	KeyVariable VariableKind = iota + 1

	// SignatureVariable resolves to a signature over the compilation's
	// signing hash.
	SignatureVariable

	// HashVariable resolves to a digest of the variable's preimage bytes.
	HashVariable

	// WalletDataVariable resolves to caller-provided bytes, verbatim.
	WalletDataVariable

	// TransactionContextVariable resolves to the script-number encoding
	// of a transaction context field.
	TransactionContextVariable
)

var variableKindStrings = map[VariableKind]string{
	KeyVariable:                "key",
	SignatureVariable:          "signature",
	HashVariable:               "hash",
	WalletDataVariable:         "wallet_data",
	TransactionContextVariable: "transaction_context",
}

// String returns the variable kind's template-document name.
func (kind VariableKind) String() string {
	return variableKindStrings[kind]
}

// VariableKindFromString returns the kind named by a template document
// string. If the input names no kind, false is returned.
func VariableKindFromString(s string) (VariableKind, bool) {
	for kind, name := range variableKindStrings {
		if name == s {
			return kind, true
		}
	}
	return 0, false
}

// ContextField selects a transaction context value.
type ContextField int

// Transaction context fields.
const (
	LockTimeField ContextField = iota + 1
	SequenceNumberField
)

var contextFieldStrings = map[ContextField]string{
	LockTimeField:       "lock_time",
	SequenceNumberField: "sequence_number",
}

// String returns the field's template-document name.
func (field ContextField) String() string {
	return contextFieldStrings[field]
}

// ContextFieldFromString returns the field named by a template document
// string. If the input names no field, false is returned.
func ContextFieldFromString(s string) (ContextField, bool) {
	for field, name := range contextFieldStrings {
		if name == s {
			return field, true
		}
	}
	return 0, false
}

// Variable declares a runtime-parametrized value owned by a template entity.
// Kind-specific fields are consumed only by the matching operation.
type Variable struct {
	ID          string
	Name        string
	Description string
	Kind        VariableKind

	// Algorithm selects the digest for hash variables.
	Algorithm string

	// DerivationPath selects the child key for key and signature
	// variables backed by entity key material.
	DerivationPath string

	// SigHashType is appended to signatures when nonzero.
	SigHashType byte

	// Field selects the transaction value for transaction context
	// variables.
	Field ContextField
}

// OperationFunc computes the bytes a variable resolves to. Operations are
// pure functions of the variable definition, the compilation's runtime data
// and the environment; the context is honored for cancellation.
type OperationFunc func(ctx context.Context, variable *Variable, data *Data,
	env *Environment) ([]byte, error)

// OperationTable binds an operation to each variable kind. The set of kinds
// is closed. A nil entry means the capability is unavailable and variables
// of that kind fail to resolve.
type OperationTable struct {
	Key                OperationFunc
	Signature          OperationFunc
	Hash               OperationFunc
	WalletData         OperationFunc
	TransactionContext OperationFunc
}

func (t OperationTable) operation(kind VariableKind) OperationFunc {
	switch kind {
	case KeyVariable:
		return t.Key
	case SignatureVariable:
		return t.Signature
	case HashVariable:
		return t.Hash
	case WalletDataVariable:
		return t.WalletData
	case TransactionContextVariable:
		return t.TransactionContext
	default:
		return nil
	}
}

// Environment is the read-only compilation context: the opcode vocabulary,
// script sources, variable definitions and capability bindings shared by
// every compilation of a template. An Environment must not be mutated once
// handed to a Compiler; it is then safe for concurrent compilations.
type Environment struct {
	// Opcodes maps source-language opcode names to byte values.
	Opcodes map[string]byte

	// Scripts maps script ids to script source text.
	Scripts map[string]string

	// Variables maps variable ids to their definitions.
	Variables map[string]*Variable

	// EntityOwnership maps variable ids to the id of the entity that owns
	// them.
	EntityOwnership map[string]string

	// UnlockingScripts maps unlocking script ids to the id of the locking
	// script they unlock.
	UnlockingScripts map[string]string

	// LockingScriptTypes maps locking script ids to their declared type.
	LockingScriptTypes map[string]string

	// UnlockingScriptTimeLockTypes maps unlocking script ids to their
	// declared time lock type.
	UnlockingScriptTimeLockTypes map[string]string

	// Operations binds variable kinds to their implementations.
	Operations OperationTable
}
