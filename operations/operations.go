/*
Package operations implements the standard variable capabilities: schnorr
keys and signatures over secp256k1, hierarchical key derivation for entity
key material, preimage digests, verbatim wallet data and transaction context
fields.
*/
package operations

import (
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"math/big"

	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"

	"github.com/walletauth/tplscript"
	"github.com/walletauth/tplscript/util/hashes"
)

// Standard returns the operation table templates compile against.
func Standard() tplscript.OperationTable {
	return tplscript.OperationTable{
		Key:                keyOperation,
		Signature:          signatureOperation,
		Hash:               hashOperation,
		WalletData:         walletDataOperation,
		TransactionContext: transactionContextOperation,
	}
}

// orEmpty lets operations read a nil *Data as if it carried nothing.
func orEmpty(data *tplscript.Data) *tplscript.Data {
	if data == nil {
		return &tplscript.Data{}
	}
	return data
}

func keyOperation(ctx context.Context, variable *tplscript.Variable,
	data *tplscript.Data, env *tplscript.Environment) ([]byte, error) {

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	keyPair, err := keyPairFor(variable, orEmpty(data), env)
	if err != nil {
		return nil, err
	}

	publicKey, err := keyPair.SchnorrPublicKey()
	if err != nil {
		return nil, errors.Wrapf(err, "variable %q public key", variable.ID)
	}
	serialized, err := publicKey.Serialize()
	if err != nil {
		return nil, errors.Wrapf(err, "variable %q public key", variable.ID)
	}
	return serialized[:], nil
}

func signatureOperation(ctx context.Context, variable *tplscript.Variable,
	data *tplscript.Data, env *tplscript.Environment) ([]byte, error) {

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	data = orEmpty(data)

	if data.SigningHash == nil {
		return nil, &tplscript.MissingDataError{VariableID: variable.ID, What: "signing hash"}
	}
	if len(data.SigningHash) != secp256k1.HashSize {
		return nil, errors.Errorf("signing hash is %d bytes, want %d",
			len(data.SigningHash), secp256k1.HashSize)
	}

	keyPair, err := keyPairFor(variable, data, env)
	if err != nil {
		return nil, err
	}

	var signingHash secp256k1.Hash
	copy(signingHash[:], data.SigningHash)
	signature, err := keyPair.SchnorrSign(&signingHash)
	if err != nil {
		return nil, errors.Wrapf(err, "variable %q", variable.ID)
	}

	serialized := signature.Serialize()[:]
	if variable.SigHashType != 0 {
		serialized = append(serialized, variable.SigHashType)
	}
	return serialized, nil
}

func hashOperation(ctx context.Context, variable *tplscript.Variable,
	data *tplscript.Data, env *tplscript.Environment) ([]byte, error) {

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	preimage, ok := orEmpty(data).Values[variable.ID]
	if !ok {
		return nil, &tplscript.MissingDataError{VariableID: variable.ID, What: "preimage"}
	}

	digest, err := computeDigest(variable.Algorithm, preimage)
	if err != nil {
		return nil, errors.Wrapf(err, "variable %q", variable.ID)
	}
	return digest, nil
}

func walletDataOperation(ctx context.Context, variable *tplscript.Variable,
	data *tplscript.Data, env *tplscript.Environment) ([]byte, error) {

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	value, ok := orEmpty(data).Values[variable.ID]
	if !ok {
		return nil, &tplscript.MissingDataError{VariableID: variable.ID, What: "value"}
	}
	return value, nil
}

func transactionContextOperation(ctx context.Context, variable *tplscript.Variable,
	data *tplscript.Data, env *tplscript.Environment) ([]byte, error) {

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	data = orEmpty(data)

	switch variable.Field {
	case tplscript.LockTimeField:
		if data.LockTime == nil {
			return nil, &tplscript.MissingDataError{VariableID: variable.ID, What: "lock time"}
		}
		return tplscript.ScriptNumBytes(new(big.Int).SetUint64(*data.LockTime)), nil

	case tplscript.SequenceNumberField:
		if data.SequenceNumber == nil {
			return nil, &tplscript.MissingDataError{VariableID: variable.ID, What: "sequence number"}
		}
		return tplscript.ScriptNumBytes(new(big.Int).SetUint64(*data.SequenceNumber)), nil

	default:
		return nil, errors.Errorf("variable %q has unknown transaction context field %d",
			variable.ID, variable.Field)
	}
}

// keyPairFor returns the signing key a variable resolves against. A raw
// private key provided for the variable itself wins; otherwise the key is
// derived along the variable's path from the owning entity's extended key,
// or from a master key built out of the entity's mnemonic.
func keyPairFor(variable *tplscript.Variable, data *tplscript.Data,
	env *tplscript.Environment) (*secp256k1.SchnorrKeyPair, error) {

	if raw, ok := data.PrivateKeys[variable.ID]; ok {
		keyPair, err := secp256k1.DeserializeSchnorrPrivateKeyFromSlice(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "variable %q private key", variable.ID)
		}
		return keyPair, nil
	}

	master, err := masterKeyFor(variable, data, env)
	if err != nil {
		return nil, err
	}

	derived := master
	if variable.DerivationPath != "" {
		derived, err = master.DerivePath(variable.DerivationPath)
		if err != nil {
			return nil, errors.Wrapf(err, "variable %q", variable.ID)
		}
	}

	keyPair, err := secp256k1.DeserializeSchnorrPrivateKeyFromSlice(derived.PrivateKeyBytes())
	if err != nil {
		return nil, errors.Wrapf(err, "variable %q derived key", variable.ID)
	}
	return keyPair, nil
}

func masterKeyFor(variable *tplscript.Variable, data *tplscript.Data,
	env *tplscript.Environment) (*ExtendedKey, error) {

	entityID, ok := env.EntityOwnership[variable.ID]
	if !ok {
		return nil, &tplscript.MissingDataError{VariableID: variable.ID, What: "key material"}
	}

	if serialized, ok := data.ExtendedKeys[entityID]; ok {
		key, err := DeserializeExtendedKey(serialized)
		if err != nil {
			return nil, errors.Wrapf(err, "entity %q", entityID)
		}
		return key, nil
	}

	if mnemonic, ok := data.Mnemonics[entityID]; ok {
		return NewMasterKey(bip39.NewSeed(mnemonic, ""))
	}

	return nil, &tplscript.MissingDataError{VariableID: variable.ID, What: "key material"}
}

// computeDigest hashes preimage with the named algorithm. An empty name
// selects sha256.
func computeDigest(algorithm string, preimage []byte) ([]byte, error) {
	switch algorithm {
	case "", "sha256":
		sum := sha256.Sum256(preimage)
		return sum[:], nil
	case "hash256":
		return hashes.DoubleSha256(preimage), nil
	case "sha1":
		sum := sha1.Sum(preimage)
		return sum[:], nil
	case "ripemd160":
		return hashes.HashRipemd160(preimage), nil
	case "hash160":
		return hashes.Hash160(preimage), nil
	case "blake2b":
		return hashes.HashBlake2b(preimage), nil
	default:
		return nil, errors.Errorf("unknown hash algorithm %q", algorithm)
	}
}
