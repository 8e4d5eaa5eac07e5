package main

import (
	"fmt"

	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"github.com/walletauth/tplscript/operations"
	"github.com/walletauth/tplscript/util/panics"
)

func main() {
	defer panics.HandlePanic(log, nil)

	cfg, err := parseCommandLine()
	if err != nil {
		printErrorAndExit(err)
	}

	if !cfg.RawOnly {
		err = printMnemonicAndMasterKey()
		if err != nil {
			printErrorAndExit(err)
		}
	}

	err = printSchnorrKeyPair()
	if err != nil {
		printErrorAndExit(err)
	}
}

func printMnemonicAndMasterKey() error {
	mnemonic, err := createMnemonic()
	if err != nil {
		return errors.Wrap(err, "Failed to generate mnemonic")
	}

	passphrase, err := promptPassphrase()
	if err != nil {
		return err
	}

	seed := bip39.NewSeed(mnemonic, string(passphrase))
	masterKey, err := operations.NewMasterKey(seed)
	if err != nil {
		return errors.Wrap(err, "Failed to derive master key")
	}

	fmt.Println("This mnemonic grants access to every key derived from it. Keep it safe.")
	fmt.Printf("Mnemonic:\t%s\n\n", mnemonic)

	if len(passphrase) > 0 {
		fmt.Println("A passphrase changes every derived key. Templates holding only the mnemonic derive " +
			"with an empty passphrase, so hand them the extended key below instead.")
	}
	fmt.Printf("Master extended private key:\t%s\n\n", masterKey)

	return nil
}

func createMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

func printSchnorrKeyPair() error {
	keyPair, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return errors.Wrap(err, "Failed to generate private key")
	}

	publicKey, err := keyPair.SchnorrPublicKey()
	if err != nil {
		return errors.Wrap(err, "Failed to generate public key")
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		return errors.Wrap(err, "Failed to serialize public key")
	}

	fmt.Println("This key pair backs direct-key variables. The private key belongs in the data file, never in the template.")
	fmt.Printf("Private key (hex):\t%x\n", keyPair.Serialize()[:])
	fmt.Printf("Public key (hex):\t%x\n", serializedPublicKey[:])

	return nil
}
