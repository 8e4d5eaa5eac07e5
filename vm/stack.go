package vm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/walletauth/tplscript"
)

// asBool interprets stack bytes as a boolean: false is empty, all zero
// bytes, or negative zero (zero bytes under a lone sign bit).
func asBool(data []byte) bool {
	for i, b := range data {
		if b != 0 {
			if i == len(data)-1 && b == 0x80 {
				return false
			}
			return true
		}
	}
	return false
}

// fromBool returns the canonical stack encoding of a boolean.
func fromBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return nil
}

// stack holds execution values, index 0 at the bottom.
type stack struct {
	items [][]byte
}

func (s *stack) depth() int {
	return len(s.items)
}

func (s *stack) push(data []byte) {
	s.items = append(s.items, data)
}

func (s *stack) pushInt(v *big.Int) {
	s.push(tplscript.ScriptNumBytes(v))
}

func (s *stack) pushBool(v bool) {
	s.push(fromBool(v))
}

func (s *stack) pop() ([]byte, error) {
	if len(s.items) == 0 {
		return nil, errors.WithStack(ErrStackUnderflow)
	}
	data := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return data, nil
}

func (s *stack) popInt() (*big.Int, error) {
	data, err := s.pop()
	if err != nil {
		return nil, err
	}
	return tplscript.ParseScriptNum(data), nil
}

func (s *stack) popBool() (bool, error) {
	data, err := s.pop()
	if err != nil {
		return false, err
	}
	return asBool(data), nil
}

// peek returns the item idx entries from the top without removing it.
func (s *stack) peek(idx int) ([]byte, error) {
	if idx < 0 || idx >= len(s.items) {
		return nil, errors.WithStack(ErrStackUnderflow)
	}
	return s.items[len(s.items)-1-idx], nil
}

// dropN removes the top n items.
func (s *stack) dropN(n int) error {
	if n > len(s.items) {
		return errors.WithStack(ErrStackUnderflow)
	}
	s.items = s.items[:len(s.items)-n]
	return nil
}

// dupN duplicates the top n items in place: with n=2, x1 x2 becomes
// x1 x2 x1 x2.
func (s *stack) dupN(n int) error {
	if n > len(s.items) {
		return errors.WithStack(ErrStackUnderflow)
	}
	copies := s.items[len(s.items)-n:]
	for _, data := range copies {
		s.push(data)
	}
	return nil
}

// removeAt removes and returns the item idx entries from the top.
func (s *stack) removeAt(idx int) ([]byte, error) {
	if idx < 0 || idx >= len(s.items) {
		return nil, errors.WithStack(ErrStackUnderflow)
	}
	pos := len(s.items) - 1 - idx
	data := s.items[pos]
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	return data, nil
}

// rotN rotates the top 3n items upwards: with n=1, x1 x2 x3 becomes
// x2 x3 x1.
func (s *stack) rotN(n int) error {
	entry := 3*n - 1
	for i := 0; i < n; i++ {
		data, err := s.removeAt(entry)
		if err != nil {
			return err
		}
		s.push(data)
	}
	return nil
}

// swapN swaps the top n items with the n below them: with n=2,
// x1 x2 x3 x4 becomes x3 x4 x1 x2.
func (s *stack) swapN(n int) error {
	entry := 2*n - 1
	for i := 0; i < n; i++ {
		data, err := s.removeAt(entry)
		if err != nil {
			return err
		}
		s.push(data)
	}
	return nil
}

// overN copies the n items below the top n to the top: with n=1, x1 x2
// becomes x1 x2 x1.
func (s *stack) overN(n int) error {
	entry := 2*n - 1
	for i := 0; i < n; i++ {
		data, err := s.peek(entry)
		if err != nil {
			return err
		}
		s.push(data)
	}
	return nil
}

// pickN copies the item n entries from the top to the top.
func (s *stack) pickN(n int) error {
	data, err := s.peek(n)
	if err != nil {
		return err
	}
	s.push(data)
	return nil
}

// rollN moves the item n entries from the top to the top.
func (s *stack) rollN(n int) error {
	data, err := s.removeAt(n)
	if err != nil {
		return err
	}
	s.push(data)
	return nil
}

// nipN removes the item n entries from the top.
func (s *stack) nipN(n int) error {
	_, err := s.removeAt(n)
	return err
}

// tuck copies the top item below the second: x1 x2 becomes x2 x1 x2.
func (s *stack) tuck() error {
	top, err := s.pop()
	if err != nil {
		return err
	}
	second, err := s.pop()
	if err != nil {
		return err
	}
	s.push(top)
	s.push(second)
	s.push(top)
	return nil
}
