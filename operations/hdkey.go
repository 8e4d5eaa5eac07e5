package operations

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"hash"
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"

	"github.com/walletauth/tplscript/util/hashes"
)

// hardenedIndexStart is the first hardened child index.
const hardenedIndexStart = 0x80000000

const (
	versionLen     = 4
	depthLen       = 1
	fingerprintLen = 4
	childNumberLen = 4
	chainCodeLen   = 32
	keyLen         = 33
	checksumLen    = 4

	extendedKeySerializedLen = versionLen + depthLen + fingerprintLen +
		childNumberLen + chainCodeLen + keyLen + checksumLen
)

// extendedKeyVersion is the serialization version prefix used for new master
// keys. Deserialized keys keep the version they were serialized with.
var extendedKeyVersion = [4]byte{0x04, 0x88, 0xad, 0xe4}

// ExtendedKey is a private key with a chain code, supporting hierarchical
// child derivation. Entity key material is handed around in its serialized
// base58 form and turned back into an ExtendedKey when a variable needs it.
type ExtendedKey struct {
	privateKey  *secp256k1.ECDSAPrivateKey
	version     [4]byte
	depth       uint8
	fingerprint [4]byte
	childNumber uint32
	chainCode   [32]byte
}

// NewMasterKey returns the root of the derivation tree seeded by seed.
func NewMasterKey(seed []byte) (*ExtendedKey, error) {
	mac := newHMACWriter([]byte("Bitcoin seed"))
	mac.infallibleWrite(seed)
	i := mac.Sum(nil)

	privateKey, err := secp256k1.DeserializeECDSAPrivateKeyFromSlice(i[:32])
	if err != nil {
		return nil, errors.Wrap(err, "master key")
	}

	key := &ExtendedKey{
		privateKey: privateKey,
		version:    extendedKeyVersion,
	}
	copy(key.chainCode[:], i[32:])
	return key, nil
}

// Child derives the child key at index. Indexes at or above
// hardenedIndexStart are hardened.
func (k *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	i, err := k.calcI(index)
	if err != nil {
		return nil, err
	}

	var tweak, chainCode [32]byte
	copy(tweak[:], i[:32])
	copy(chainCode[:], i[32:])

	childKey := *k.privateKey
	if err := childKey.Add(tweak); err != nil {
		return nil, errors.Wrapf(err, "deriving child %d", index)
	}

	fingerprint, err := k.calcFingerprint()
	if err != nil {
		return nil, err
	}

	return &ExtendedKey{
		privateKey:  &childKey,
		version:     k.version,
		depth:       k.depth + 1,
		fingerprint: fingerprint,
		childNumber: index,
		chainCode:   chainCode,
	}, nil
}

// DerivePath derives the descendant key named by a path like "m/44'/0'/1".
// An apostrophe or h suffix marks a hardened index. The path "m" returns the
// key itself.
func (k *ExtendedKey) DerivePath(pathString string) (*ExtendedKey, error) {
	indexes, err := parsePath(pathString)
	if err != nil {
		return nil, err
	}

	derived := k
	for _, index := range indexes {
		derived, err = derived.Child(index)
		if err != nil {
			return nil, err
		}
	}
	return derived, nil
}

// PrivateKeyBytes returns the raw 32-byte private key.
func (k *ExtendedKey) PrivateKeyBytes() []byte {
	return k.privateKey.Serialize()[:]
}

// String returns the serialized base58 form of the key.
func (k *ExtendedKey) String() string {
	return base58.Encode(k.serialize())
}

// DeserializeExtendedKey parses the serialized base58 form of a private
// extended key.
func DeserializeExtendedKey(encoded string) (*ExtendedKey, error) {
	serialized := base58.Decode(encoded)
	if len(serialized) != extendedKeySerializedLen {
		return nil, errors.Errorf("extended key decodes to %d bytes, want %d",
			len(serialized), extendedKeySerializedLen)
	}

	payload := serialized[:len(serialized)-checksumLen]
	if !bytes.Equal(checksum(payload), serialized[len(serialized)-checksumLen:]) {
		return nil, errors.New("extended key checksum mismatch")
	}

	key := &ExtendedKey{}
	cursor := 0
	copy(key.version[:], serialized[cursor:cursor+versionLen])
	cursor += versionLen
	key.depth = serialized[cursor]
	cursor += depthLen
	copy(key.fingerprint[:], serialized[cursor:cursor+fingerprintLen])
	cursor += fingerprintLen
	key.childNumber = binary.BigEndian.Uint32(serialized[cursor:])
	cursor += childNumberLen
	copy(key.chainCode[:], serialized[cursor:cursor+chainCodeLen])
	cursor += chainCodeLen

	if serialized[cursor] != 0 {
		return nil, errors.New("extended key carries no private key")
	}
	cursor++

	privateKey, err := secp256k1.DeserializeECDSAPrivateKeyFromSlice(
		serialized[cursor : cursor+keyLen-1])
	if err != nil {
		return nil, errors.Wrap(err, "extended key private key")
	}
	key.privateKey = privateKey
	return key, nil
}

func (k *ExtendedKey) serialize() []byte {
	serialized := make([]byte, 0, extendedKeySerializedLen)
	serialized = append(serialized, k.version[:]...)
	serialized = append(serialized, k.depth)
	serialized = append(serialized, k.fingerprint[:]...)

	var childNumber [4]byte
	binary.BigEndian.PutUint32(childNumber[:], k.childNumber)
	serialized = append(serialized, childNumber[:]...)

	serialized = append(serialized, k.chainCode[:]...)
	serialized = append(serialized, 0x00)
	serialized = append(serialized, k.privateKey.Serialize()[:]...)
	return append(serialized, checksum(serialized)...)
}

// calcI computes the HMAC-SHA512 block child derivation splits into the key
// tweak and the child chain code.
func (k *ExtendedKey) calcI(index uint32) ([]byte, error) {
	mac := newHMACWriter(k.chainCode[:])
	if index >= hardenedIndexStart {
		mac.infallibleWrite([]byte{0x00})
		mac.infallibleWrite(k.privateKey.Serialize()[:])
	} else {
		publicKey, err := k.publicKeyBytes()
		if err != nil {
			return nil, err
		}
		mac.infallibleWrite(publicKey)
	}

	var serializedIndex [4]byte
	binary.BigEndian.PutUint32(serializedIndex[:], index)
	mac.infallibleWrite(serializedIndex[:])
	return mac.Sum(nil), nil
}

func (k *ExtendedKey) publicKeyBytes() ([]byte, error) {
	publicKey, err := k.privateKey.ECDSAPublicKey()
	if err != nil {
		return nil, errors.Wrap(err, "calculating public key")
	}
	serialized, err := publicKey.Serialize()
	if err != nil {
		return nil, errors.Wrap(err, "serializing public key")
	}
	return serialized[:], nil
}

func (k *ExtendedKey) calcFingerprint() ([4]byte, error) {
	publicKey, err := k.publicKeyBytes()
	if err != nil {
		return [4]byte{}, err
	}

	var fingerprint [4]byte
	copy(fingerprint[:], hashes.Hash160(publicKey)[:fingerprintLen])
	return fingerprint, nil
}

func parsePath(pathString string) ([]uint32, error) {
	parts := strings.Split(pathString, "/")
	if parts[0] != "m" && parts[0] != "M" {
		return nil, errors.Errorf("derivation path %q does not begin with m", pathString)
	}

	indexes := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := false
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") {
			hardened = true
			part = part[:len(part)-1]
		}

		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "derivation path component %q", part)
		}
		if index >= hardenedIndexStart {
			return nil, errors.Errorf("derivation path index %d is out of range", index)
		}
		if hardened {
			index += hardenedIndexStart
		}
		indexes = append(indexes, uint32(index))
	}
	return indexes, nil
}

func checksum(data []byte) []byte {
	return hashes.DoubleSha256(data)[:checksumLen]
}

func newHMACWriter(key []byte) hmacWriter {
	return hmacWriter{Hash: hmac.New(sha512.New, key)}
}

type hmacWriter struct {
	hash.Hash
}

func (hw hmacWriter) infallibleWrite(p []byte) {
	if _, err := hw.Write(p); err != nil {
		panic(errors.Wrap(err, "writing to hmac should never fail"))
	}
}
