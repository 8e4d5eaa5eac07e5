package operations

import (
	"encoding/hex"
	"testing"
)

// hexToBytes converts the passed hex string into bytes and will panic if
// there is an error. This is only provided for the hard-coded constants so
// errors in the source code can be detected. It will only (and must only) be
// called with hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

const (
	testSeed1 = "000102030405060708090a0b0c0d0e0f"
	testSeed2 = "fffcf9f6f3f0edeae7e4e1dedbd8d5d2cfccc9c6c3c0bdbab7b4b1aeab" +
		"a8a5a29f9c999693908d8a8784817e7b7875726f6c696663605d5a5754514e4b484542"

	testSeed1Master = "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqji" +
		"ChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi"
)

func TestDerivationVectors(t *testing.T) {
	tests := []struct {
		name string
		seed string
		path string
		want string
	}{
		{
			name: "master key",
			seed: testSeed1,
			path: "m",
			want: testSeed1Master,
		},
		{
			name: "hardened child",
			seed: testSeed1,
			path: "m/0'",
			want: "xprv9uHRZZhk6KAJC1avXpDAp4MDc3sQKNxDiPvvkX8Br5ngLNv1TxvUxt4" +
				"cV1rGL5hj6KCesnDYUhd7oWgT11eZG7XnxHrnYeSvkzY7d2bhkJ7",
		},
		{
			name: "h suffix marks hardened",
			seed: testSeed1,
			path: "m/0h",
			want: "xprv9uHRZZhk6KAJC1avXpDAp4MDc3sQKNxDiPvvkX8Br5ngLNv1TxvUxt4" +
				"cV1rGL5hj6KCesnDYUhd7oWgT11eZG7XnxHrnYeSvkzY7d2bhkJ7",
		},
		{
			name: "normal child",
			seed: testSeed1,
			path: "m/0'/1",
			want: "xprv9wTYmMFdV23N2TdNG573QoEsfRrWKQgWeibmLntzniatZvR9BmLnvSx" +
				"qu53Kw1UmYPxLgboyZQaXwTCg8MSY3H2EU4pWcQDnRnrVA1xe8fs",
		},
		{
			name: "deeper hardened child",
			seed: testSeed1,
			path: "m/0'/1/2'",
			want: "xprv9z4pot5VBttmtdRTWfWQmoH1taj2axGVzFqSb8C9xaxKymcFzXBDptW" +
				"mT7FwuEzG3ryjH4ktypQSAewRiNMjANTtpgP4mLTj34bhnZX7UiM",
		},
		{
			name: "five levels",
			seed: testSeed1,
			path: "m/0'/1/2'/2/1000000000",
			want: "xprvA41z7zogVVwxVSgdKUHDy1SKmdb533PjDz7J6N6mV6uS3ze1ai8FHa8" +
				"kmHScGpWmj4WggLyQjgPie1rFSruoUihUZREPSL39UNdE3BBDu76",
		},
		{
			name: "second seed master key",
			seed: testSeed2,
			path: "m",
			want: "xprv9s21ZrQH143K31xYSDQpPDxsXRTUcvj2iNHm5NUtrGiGG5e2DtALGds" +
				"o3pGz6ssrdK4PFmM8NSpSBHNqPqm55Qn3LqFtT2emdEXVYsCzC2U",
		},
		{
			name: "second seed normal child",
			seed: testSeed2,
			path: "m/0",
			want: "xprv9vHkqa6EV4sPZHYqZznhT2NPtPCjKuDKGY38FBWLvgaDx45zo9WQRUT" +
				"3dKYnjwih2yJD9mkrocEZXo1ex8G81dwSM1fwqWpWkeS3v86pgKt",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			master, err := NewMasterKey(hexToBytes(test.seed))
			if err != nil {
				t.Fatalf("NewMasterKey: unexpected error: %v", err)
			}

			derived, err := master.DerivePath(test.path)
			if err != nil {
				t.Fatalf("DerivePath(%q): unexpected error: %v", test.path, err)
			}
			if got := derived.String(); got != test.want {
				t.Errorf("DerivePath(%q): got %s, want %s", test.path, got, test.want)
			}
		})
	}
}

func TestDeserializeRoundTrip(t *testing.T) {
	key, err := DeserializeExtendedKey(testSeed1Master)
	if err != nil {
		t.Fatalf("DeserializeExtendedKey: unexpected error: %v", err)
	}
	if got := key.String(); got != testSeed1Master {
		t.Errorf("String: got %s, want %s", got, testSeed1Master)
	}

	// A deserialized key must keep deriving the same descendants.
	derived, err := key.DerivePath("m/0'/1")
	if err != nil {
		t.Fatalf("DerivePath: unexpected error: %v", err)
	}
	want := "xprv9wTYmMFdV23N2TdNG573QoEsfRrWKQgWeibmLntzniatZvR9BmLnvSx" +
		"qu53Kw1UmYPxLgboyZQaXwTCg8MSY3H2EU4pWcQDnRnrVA1xe8fs"
	if got := derived.String(); got != want {
		t.Errorf("DerivePath after deserialize: got %s, want %s", got, want)
	}
}

func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"not an extended key", "xprv"},
		{"empty", ""},
		{
			// The last character carries checksum bits.
			"corrupted checksum",
			testSeed1Master[:len(testSeed1Master)-1] + "j",
		},
		{
			// A public extended key has no private key padding byte.
			"public key only",
			"xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2" +
				"gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := DeserializeExtendedKey(test.encoded); err == nil {
				t.Fatal("DeserializeExtendedKey: expected an error")
			}
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"missing m prefix", "44'/0"},
		{"component is not a number", "m/abc"},
		{"index out of range", "m/2147483648"},
		{"empty component", "m/"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			master, err := NewMasterKey(hexToBytes(testSeed1))
			if err != nil {
				t.Fatalf("NewMasterKey: unexpected error: %v", err)
			}
			if _, err := master.DerivePath(test.path); err == nil {
				t.Fatalf("DerivePath(%q): expected an error", test.path)
			}
		})
	}
}
