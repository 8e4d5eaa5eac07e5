package main

import (
	"encoding/hex"
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/walletauth/tplscript"
)

// dataDocument is the on-disk form of tplscript.Data. Byte values are hex
// encoded.
type dataDocument struct {
	Values         map[string]string `json:"values"`
	PrivateKeys    map[string]string `json:"private_keys"`
	ExtendedKeys   map[string]string `json:"extended_keys"`
	Mnemonics      map[string]string `json:"mnemonics"`
	SigningHash    string            `json:"signing_hash"`
	LockTime       *uint64           `json:"lock_time"`
	SequenceNumber *uint64           `json:"sequence_number"`
}

func readDataFile(path string) (*tplscript.Data, error) {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading data file %s", path)
	}

	document := &dataDocument{}
	err = json.Unmarshal(content, document)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding data file %s", path)
	}

	data := &tplscript.Data{
		ExtendedKeys:   document.ExtendedKeys,
		Mnemonics:      document.Mnemonics,
		LockTime:       document.LockTime,
		SequenceNumber: document.SequenceNumber,
	}
	data.Values, err = decodeHexMap(document.Values, "values")
	if err != nil {
		return nil, err
	}
	data.PrivateKeys, err = decodeHexMap(document.PrivateKeys, "private_keys")
	if err != nil {
		return nil, err
	}
	if document.SigningHash != "" {
		data.SigningHash, err = hex.DecodeString(document.SigningHash)
		if err != nil {
			return nil, errors.Wrap(err, "decoding signing_hash")
		}
	}

	return data, nil
}

func decodeHexMap(encoded map[string]string, section string) (map[string][]byte, error) {
	if encoded == nil {
		return nil, nil
	}
	decoded := make(map[string][]byte, len(encoded))
	for id, value := range encoded {
		valueBytes, err := hex.DecodeString(value)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s[%q]", section, id)
		}
		decoded[id] = valueBytes
	}
	return decoded, nil
}
