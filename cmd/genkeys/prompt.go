package main

import (
	"crypto/subtle"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// promptPassphrase reads an optional seed passphrase with terminal echo
// turned off. An empty first answer means no passphrase.
func promptPassphrase() ([]byte, error) {
	passphrase := getPassword("Passphrase (leave empty for none): ")
	if len(passphrase) == 0 {
		return nil, nil
	}

	confirm := getPassword("Confirm passphrase: ")
	if subtle.ConstantTimeCompare(passphrase, confirm) != 1 {
		return nil, errors.New("passphrases are not identical")
	}
	return passphrase, nil
}

func getPassword(prompt string) []byte {
	// Get the initial state of the terminal.
	initialTermState, err := term.GetState(int(syscall.Stdin))
	if err != nil {
		panic(err)
	}

	// Restore it in the event of an interrupt.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		_ = term.Restore(int(syscall.Stdin), initialTermState)
		os.Exit(1)
	}()

	fmt.Print(prompt)
	p, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		panic(err)
	}

	// Stop looking for ^C on the channel.
	signal.Stop(c)

	return p
}
