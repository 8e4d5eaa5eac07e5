package tplscript

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
)

// Generate emits bytecode for a resolved tree. Bare literals emit raw bytes
// (integers as minimal script numbers, hex decoded, strings as UTF-8) and
// opcodes emit their byte; pushes wrap their contents in the canonical
// minimal push encoding. All encoding errors found are returned together.
func Generate(nodes []ResolvedNode) ([]byte, []*Error) {
	var buf bytes.Buffer
	var errs []*Error
	for _, node := range nodes {
		generated, nodeErrs := generateNode(node)
		if len(nodeErrs) > 0 {
			errs = append(errs, nodeErrs...)
			continue
		}
		buf.Write(generated)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return buf.Bytes(), nil
}

func generateNode(node ResolvedNode) ([]byte, []*Error) {
	switch n := node.(type) {
	case *ResolvedOpcode:
		return []byte{n.Opcode}, nil

	case *ResolvedBytes:
		return n.Bytes, nil

	case *ResolvedInt:
		return ScriptNumBytes(n.Value), nil

	case *ResolvedString:
		return []byte(n.Value), nil

	case *ResolvedHex:
		if len(n.Digits)%2 != 0 {
			return nil, []*Error{scriptError(ErrOddLengthHex, n.SpanVal,
				fmt.Sprintf("hex literal has an odd number of digits (%d)", len(n.Digits)))}
		}
		decoded, err := hex.DecodeString(n.Digits)
		if err != nil {
			return nil, []*Error{scriptError(ErrMalformedHexLiteral, n.SpanVal,
				fmt.Sprintf("invalid hex literal: %s", err))}
		}
		return decoded, nil

	case *ResolvedPush:
		content, errs := Generate(n.Nodes)
		if len(errs) > 0 {
			return nil, errs
		}
		encoded, err := pushBytecode(content)
		if err != nil {
			return nil, []*Error{scriptErrorWithCause(ErrPushTooLarge, n.SpanVal,
				err.Error(), err)}
		}
		return encoded, nil

	default:
		return nil, []*Error{scriptError(ErrOperationFailed, node.Span(),
			fmt.Sprintf("internal: unhandled resolved node type %T", node))}
	}
}

// pushBytecode encodes data as a canonical minimal stack push: the dedicated
// empty, small-integer and negative-one opcodes where the contents equal
// their script-number encodings, a bare length prefix up to 75 bytes, and
// the smallest OP_PUSHDATA form above that. A single zero byte is pushed as
// a length-prefixed byte, never as the empty push.
func pushBytecode(data []byte) ([]byte, error) {
	dataLen := len(data)
	switch {
	case dataLen == 0:
		return []byte{Op0}, nil
	case dataLen == 1 && data[0] == 0x81:
		return []byte{Op1Negate}, nil
	case dataLen == 1 && data[0] >= 1 && data[0] <= 16:
		return []byte{Op1 + data[0] - 1}, nil
	case dataLen <= int(OpData75):
		return append([]byte{byte(dataLen)}, data...), nil
	case dataLen <= 0xff:
		return append([]byte{OpPushData1, byte(dataLen)}, data...), nil
	case dataLen <= 0xffff:
		return append([]byte{OpPushData2, byte(dataLen), byte(dataLen >> 8)}, data...), nil
	case int64(dataLen) <= 0xffffffff:
		prefix := []byte{OpPushData4, byte(dataLen), byte(dataLen >> 8),
			byte(dataLen >> 16), byte(dataLen >> 24)}
		return append(prefix, data...), nil
	default:
		return nil, errors.Errorf("push of %d bytes exceeds the maximum push encoding", dataLen)
	}
}
