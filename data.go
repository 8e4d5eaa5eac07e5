package tplscript

// Data carries the runtime values one compilation may consume. All fields
// are optional; operations report missing entries for the variables that
// need them. A nil *Data behaves like an empty one.
type Data struct {
	// Values maps variable ids to raw bytes. Wallet data variables emit
	// these verbatim; hash variables digest them.
	Values map[string][]byte

	// PrivateKeys maps variable ids to 32-byte private keys used directly
	// by key and signature variables.
	PrivateKeys map[string][]byte

	// ExtendedKeys maps entity ids to serialized extended private keys.
	// Key and signature variables that declare a derivation path derive
	// from their owning entity's extended key.
	ExtendedKeys map[string]string

	// Mnemonics maps entity ids to mnemonic sentences. When an entity has
	// no extended key, a master key derived from the mnemonic's seed backs
	// derivation instead.
	Mnemonics map[string]string

	// SigningHash is the digest signature variables sign.
	SigningHash []byte

	// LockTime and SequenceNumber carry transaction context fields; nil
	// means the field was not provided.
	LockTime       *uint64
	SequenceNumber *uint64
}
