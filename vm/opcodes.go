package vm

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/walletauth/tplscript"
	"github.com/walletauth/tplscript/util/hashes"
)

// opcode describes one instruction. length is the full encoded size for
// fixed-size instructions, including inline push data; the OP_PUSHDATA
// family uses -1, -2 or -4 for the width of its length prefix.
type opcode struct {
	value  byte
	name   string
	length int
	opfunc func(pop *parsedOpcode, e *engine) error
}

// parsedOpcode is a decoded instruction with its inline push data.
type parsedOpcode struct {
	op   *opcode
	data []byte
}

// isDisabled returns whether the opcode fails the program even when it sits
// on an unexecuted branch.
func (pop *parsedOpcode) isDisabled() bool {
	switch pop.op.value {
	case tplscript.OpSubStr, tplscript.OpLeft, tplscript.OpRight,
		tplscript.OpInvert, tplscript.Op2Mul, tplscript.Op2Div,
		tplscript.OpLShift, tplscript.OpRShift:

		return true
	default:
		return false
	}
}

// isAlwaysIllegal returns whether the opcode fails the program regardless of
// branch state without being disabled for encoding purposes.
func (pop *parsedOpcode) isAlwaysIllegal() bool {
	switch pop.op.value {
	case tplscript.OpVerIf, tplscript.OpVerNotIf:
		return true
	default:
		return false
	}
}

// isConditional returns whether the opcode manipulates the branch state and
// therefore executes even on unexecuted branches.
func (pop *parsedOpcode) isConditional() bool {
	switch pop.op.value {
	case tplscript.OpIf, tplscript.OpNotIf, tplscript.OpElse, tplscript.OpEndIf:
		return true
	default:
		return false
	}
}

var opcodeArray [256]opcode

func init() {
	for value := int(tplscript.OpData1); value <= int(tplscript.OpData75); value++ {
		opcodeArray[value] = opcode{byte(value),
			fmt.Sprintf("OP_DATA_%d", value), value + 1, opcodePushData}
	}
	for value := int(tplscript.Op1); value <= int(tplscript.Op16); value++ {
		opcodeArray[value] = opcode{byte(value),
			fmt.Sprintf("OP_%d", value-int(tplscript.Op1)+1), 1, opcodeN}
	}
	for value := int(tplscript.OpNop1); value <= int(tplscript.OpNop10); value++ {
		opcodeArray[value] = opcode{byte(value),
			fmt.Sprintf("OP_NOP%d", value-int(tplscript.OpNop1)+1), 1, opcodeNop}
	}

	for _, op := range []opcode{
		{tplscript.Op0, "OP_0", 1, opcodeFalse},
		{tplscript.OpPushData1, "OP_PUSHDATA1", -1, opcodePushData},
		{tplscript.OpPushData2, "OP_PUSHDATA2", -2, opcodePushData},
		{tplscript.OpPushData4, "OP_PUSHDATA4", -4, opcodePushData},
		{tplscript.Op1Negate, "OP_1NEGATE", 1, opcode1Negate},
		{tplscript.OpReserved, "OP_RESERVED", 1, opcodeReserved},

		{tplscript.OpNop, "OP_NOP", 1, opcodeNop},
		{tplscript.OpVer, "OP_VER", 1, opcodeReserved},
		{tplscript.OpIf, "OP_IF", 1, opcodeIf},
		{tplscript.OpNotIf, "OP_NOTIF", 1, opcodeNotIf},
		{tplscript.OpVerIf, "OP_VERIF", 1, opcodeReserved},
		{tplscript.OpVerNotIf, "OP_VERNOTIF", 1, opcodeReserved},
		{tplscript.OpElse, "OP_ELSE", 1, opcodeElse},
		{tplscript.OpEndIf, "OP_ENDIF", 1, opcodeEndIf},
		{tplscript.OpVerify, "OP_VERIFY", 1, opcodeVerify},
		{tplscript.OpReturn, "OP_RETURN", 1, opcodeReturn},

		{tplscript.OpToAltStack, "OP_TOALTSTACK", 1, opcodeToAltStack},
		{tplscript.OpFromAltStack, "OP_FROMALTSTACK", 1, opcodeFromAltStack},
		{tplscript.Op2Drop, "OP_2DROP", 1, opcode2Drop},
		{tplscript.Op2Dup, "OP_2DUP", 1, opcode2Dup},
		{tplscript.Op3Dup, "OP_3DUP", 1, opcode3Dup},
		{tplscript.Op2Over, "OP_2OVER", 1, opcode2Over},
		{tplscript.Op2Rot, "OP_2ROT", 1, opcode2Rot},
		{tplscript.Op2Swap, "OP_2SWAP", 1, opcode2Swap},
		{tplscript.OpIfDup, "OP_IFDUP", 1, opcodeIfDup},
		{tplscript.OpDepth, "OP_DEPTH", 1, opcodeDepth},
		{tplscript.OpDrop, "OP_DROP", 1, opcodeDrop},
		{tplscript.OpDup, "OP_DUP", 1, opcodeDup},
		{tplscript.OpNip, "OP_NIP", 1, opcodeNip},
		{tplscript.OpOver, "OP_OVER", 1, opcodeOver},
		{tplscript.OpPick, "OP_PICK", 1, opcodePick},
		{tplscript.OpRoll, "OP_ROLL", 1, opcodeRoll},
		{tplscript.OpRot, "OP_ROT", 1, opcodeRot},
		{tplscript.OpSwap, "OP_SWAP", 1, opcodeSwap},
		{tplscript.OpTuck, "OP_TUCK", 1, opcodeTuck},

		{tplscript.OpCat, "OP_CAT", 1, opcodeCat},
		{tplscript.OpSubStr, "OP_SUBSTR", 1, opcodeDisabled},
		{tplscript.OpLeft, "OP_LEFT", 1, opcodeDisabled},
		{tplscript.OpRight, "OP_RIGHT", 1, opcodeDisabled},
		{tplscript.OpSize, "OP_SIZE", 1, opcodeSize},

		{tplscript.OpInvert, "OP_INVERT", 1, opcodeDisabled},
		{tplscript.OpAnd, "OP_AND", 1, opcodeAnd},
		{tplscript.OpOr, "OP_OR", 1, opcodeOr},
		{tplscript.OpXor, "OP_XOR", 1, opcodeXor},
		{tplscript.OpEqual, "OP_EQUAL", 1, opcodeEqual},
		{tplscript.OpEqualVerify, "OP_EQUALVERIFY", 1, opcodeEqualVerify},
		{tplscript.OpReserved1, "OP_RESERVED1", 1, opcodeReserved},
		{tplscript.OpReserved2, "OP_RESERVED2", 1, opcodeReserved},

		{tplscript.Op1Add, "OP_1ADD", 1, opcode1Add},
		{tplscript.Op1Sub, "OP_1SUB", 1, opcode1Sub},
		{tplscript.Op2Mul, "OP_2MUL", 1, opcodeDisabled},
		{tplscript.Op2Div, "OP_2DIV", 1, opcodeDisabled},
		{tplscript.OpNegate, "OP_NEGATE", 1, opcodeNegate},
		{tplscript.OpAbs, "OP_ABS", 1, opcodeAbs},
		{tplscript.OpNot, "OP_NOT", 1, opcodeNot},
		{tplscript.Op0NotEqual, "OP_0NOTEQUAL", 1, opcode0NotEqual},
		{tplscript.OpAdd, "OP_ADD", 1, opcodeAdd},
		{tplscript.OpSub, "OP_SUB", 1, opcodeSub},
		{tplscript.OpMul, "OP_MUL", 1, opcodeMul},
		{tplscript.OpDiv, "OP_DIV", 1, opcodeDiv},
		{tplscript.OpMod, "OP_MOD", 1, opcodeMod},
		{tplscript.OpLShift, "OP_LSHIFT", 1, opcodeDisabled},
		{tplscript.OpRShift, "OP_RSHIFT", 1, opcodeDisabled},
		{tplscript.OpBoolAnd, "OP_BOOLAND", 1, opcodeBoolAnd},
		{tplscript.OpBoolOr, "OP_BOOLOR", 1, opcodeBoolOr},

		{tplscript.OpNumEqual, "OP_NUMEQUAL", 1, opcodeNumEqual},
		{tplscript.OpNumEqualVerify, "OP_NUMEQUALVERIFY", 1, opcodeNumEqualVerify},
		{tplscript.OpNumNotEqual, "OP_NUMNOTEQUAL", 1, opcodeNumNotEqual},
		{tplscript.OpLessThan, "OP_LESSTHAN", 1, opcodeLessThan},
		{tplscript.OpGreaterThan, "OP_GREATERTHAN", 1, opcodeGreaterThan},
		{tplscript.OpLessThanOrEqual, "OP_LESSTHANOREQUAL", 1, opcodeLessThanOrEqual},
		{tplscript.OpGreaterThanOrEqual, "OP_GREATERTHANOREQUAL", 1, opcodeGreaterThanOrEqual},
		{tplscript.OpMin, "OP_MIN", 1, opcodeMin},
		{tplscript.OpMax, "OP_MAX", 1, opcodeMax},
		{tplscript.OpWithin, "OP_WITHIN", 1, opcodeWithin},

		{tplscript.OpRipeMD160, "OP_RIPEMD160", 1, opcodeRipemd160},
		{tplscript.OpSHA1, "OP_SHA1", 1, opcodeSha1},
		{tplscript.OpSHA256, "OP_SHA256", 1, opcodeSha256},
		{tplscript.OpHash160, "OP_HASH160", 1, opcodeHash160},
		{tplscript.OpHash256, "OP_HASH256", 1, opcodeHash256},
		{tplscript.OpCodeSeparator, "OP_CODESEPARATOR", 1, opcodeUnsupported},

		{tplscript.OpCheckSig, "OP_CHECKSIG", 1, opcodeUnsupported},
		{tplscript.OpCheckSigVerify, "OP_CHECKSIGVERIFY", 1, opcodeUnsupported},
		{tplscript.OpCheckMultiSig, "OP_CHECKMULTISIG", 1, opcodeUnsupported},
		{tplscript.OpCheckMultiSigVerify, "OP_CHECKMULTISIGVERIFY", 1, opcodeUnsupported},
	} {
		opcodeArray[op.value] = op
	}
}

func opcodeDisabled(pop *parsedOpcode, e *engine) error {
	return errors.Wrapf(ErrDisabledOpcode, "%s", pop.op.name)
}

func opcodeReserved(pop *parsedOpcode, e *engine) error {
	return errors.Wrapf(ErrReservedOpcode, "%s", pop.op.name)
}

func opcodeUnsupported(pop *parsedOpcode, e *engine) error {
	return errors.Wrapf(ErrUnsupportedOpcode, "%s", pop.op.name)
}

func opcodeFalse(pop *parsedOpcode, e *engine) error {
	e.dstack.push(nil)
	return nil
}

func opcodePushData(pop *parsedOpcode, e *engine) error {
	e.dstack.push(pop.data)
	return nil
}

func opcode1Negate(pop *parsedOpcode, e *engine) error {
	e.dstack.pushInt(big.NewInt(-1))
	return nil
}

func opcodeN(pop *parsedOpcode, e *engine) error {
	e.dstack.pushInt(big.NewInt(int64(pop.op.value - tplscript.Op1 + 1)))
	return nil
}

func opcodeNop(pop *parsedOpcode, e *engine) error {
	return nil
}

func opcodeIf(pop *parsedOpcode, e *engine) error {
	condVal := opCondFalse
	if e.isBranchExecuting() {
		ok, err := e.dstack.popBool()
		if err != nil {
			return err
		}
		if ok {
			condVal = opCondTrue
		}
	} else {
		condVal = opCondSkip
	}
	e.condStack = append(e.condStack, condVal)
	return nil
}

func opcodeNotIf(pop *parsedOpcode, e *engine) error {
	condVal := opCondFalse
	if e.isBranchExecuting() {
		ok, err := e.dstack.popBool()
		if err != nil {
			return err
		}
		if !ok {
			condVal = opCondTrue
		}
	} else {
		condVal = opCondSkip
	}
	e.condStack = append(e.condStack, condVal)
	return nil
}

func opcodeElse(pop *parsedOpcode, e *engine) error {
	if len(e.condStack) == 0 {
		return errors.Wrapf(ErrUnbalancedConditional, "%s with no matching OP_IF", pop.op.name)
	}
	switch e.condStack[len(e.condStack)-1] {
	case opCondTrue:
		e.condStack[len(e.condStack)-1] = opCondFalse
	case opCondFalse:
		e.condStack[len(e.condStack)-1] = opCondTrue
	}
	return nil
}

func opcodeEndIf(pop *parsedOpcode, e *engine) error {
	if len(e.condStack) == 0 {
		return errors.Wrapf(ErrUnbalancedConditional, "%s with no matching OP_IF", pop.op.name)
	}
	e.condStack = e.condStack[:len(e.condStack)-1]
	return nil
}

// verify pops the top item and fails with the calling opcode's name when it
// is false.
func verify(pop *parsedOpcode, e *engine) error {
	ok, err := e.dstack.popBool()
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrVerifyFailed, "%s", pop.op.name)
	}
	return nil
}

func opcodeVerify(pop *parsedOpcode, e *engine) error {
	return verify(pop, e)
}

func opcodeReturn(pop *parsedOpcode, e *engine) error {
	return errors.WithStack(ErrEarlyReturn)
}

func opcodeToAltStack(pop *parsedOpcode, e *engine) error {
	data, err := e.dstack.pop()
	if err != nil {
		return err
	}
	e.astack.push(data)
	return nil
}

func opcodeFromAltStack(pop *parsedOpcode, e *engine) error {
	data, err := e.astack.pop()
	if err != nil {
		return err
	}
	e.dstack.push(data)
	return nil
}

func opcode2Drop(pop *parsedOpcode, e *engine) error {
	return e.dstack.dropN(2)
}

func opcode2Dup(pop *parsedOpcode, e *engine) error {
	return e.dstack.dupN(2)
}

func opcode3Dup(pop *parsedOpcode, e *engine) error {
	return e.dstack.dupN(3)
}

func opcode2Over(pop *parsedOpcode, e *engine) error {
	return e.dstack.overN(2)
}

func opcode2Rot(pop *parsedOpcode, e *engine) error {
	return e.dstack.rotN(2)
}

func opcode2Swap(pop *parsedOpcode, e *engine) error {
	return e.dstack.swapN(2)
}

func opcodeIfDup(pop *parsedOpcode, e *engine) error {
	data, err := e.dstack.peek(0)
	if err != nil {
		return err
	}
	if asBool(data) {
		e.dstack.push(data)
	}
	return nil
}

func opcodeDepth(pop *parsedOpcode, e *engine) error {
	e.dstack.pushInt(big.NewInt(int64(e.dstack.depth())))
	return nil
}

func opcodeDrop(pop *parsedOpcode, e *engine) error {
	return e.dstack.dropN(1)
}

func opcodeDup(pop *parsedOpcode, e *engine) error {
	return e.dstack.dupN(1)
}

func opcodeNip(pop *parsedOpcode, e *engine) error {
	return e.dstack.nipN(1)
}

func opcodeOver(pop *parsedOpcode, e *engine) error {
	return e.dstack.overN(1)
}

// popIndex pops a stack index operand for OP_PICK and OP_ROLL.
func popIndex(pop *parsedOpcode, e *engine) (int, error) {
	n, err := e.dstack.popInt()
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() {
		return 0, errors.Wrapf(ErrInvalidStackIndex, "%s index %s", pop.op.name, n)
	}
	idx := n.Int64()
	if idx < 0 || idx >= int64(e.dstack.depth()) {
		return 0, errors.Wrapf(ErrInvalidStackIndex,
			"%s index %d with depth %d", pop.op.name, idx, e.dstack.depth())
	}
	return int(idx), nil
}

func opcodePick(pop *parsedOpcode, e *engine) error {
	idx, err := popIndex(pop, e)
	if err != nil {
		return err
	}
	return e.dstack.pickN(idx)
}

func opcodeRoll(pop *parsedOpcode, e *engine) error {
	idx, err := popIndex(pop, e)
	if err != nil {
		return err
	}
	return e.dstack.rollN(idx)
}

func opcodeRot(pop *parsedOpcode, e *engine) error {
	return e.dstack.rotN(1)
}

func opcodeSwap(pop *parsedOpcode, e *engine) error {
	return e.dstack.swapN(1)
}

func opcodeTuck(pop *parsedOpcode, e *engine) error {
	return e.dstack.tuck()
}

func opcodeCat(pop *parsedOpcode, e *engine) error {
	b, err := e.dstack.pop()
	if err != nil {
		return err
	}
	a, err := e.dstack.pop()
	if err != nil {
		return err
	}
	combined := make([]byte, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)
	if len(combined) > maxElementSize {
		return errors.Wrapf(ErrElementTooBig,
			"%s result of %d bytes", pop.op.name, len(combined))
	}
	e.dstack.push(combined)
	return nil
}

func opcodeSize(pop *parsedOpcode, e *engine) error {
	data, err := e.dstack.peek(0)
	if err != nil {
		return err
	}
	e.dstack.pushInt(big.NewInt(int64(len(data))))
	return nil
}

// popBitwiseOperands pops two operands for OP_AND, OP_OR and OP_XOR, which
// require equal sizes.
func popBitwiseOperands(pop *parsedOpcode, e *engine) ([]byte, []byte, error) {
	b, err := e.dstack.pop()
	if err != nil {
		return nil, nil, err
	}
	a, err := e.dstack.pop()
	if err != nil {
		return nil, nil, err
	}
	if len(a) != len(b) {
		return nil, nil, errors.Wrapf(ErrOperandSizeMismatch,
			"%s with %d and %d bytes", pop.op.name, len(a), len(b))
	}
	return a, b, nil
}

func opcodeAnd(pop *parsedOpcode, e *engine) error {
	a, b, err := popBitwiseOperands(pop, e)
	if err != nil {
		return err
	}
	result := make([]byte, len(a))
	for i := range a {
		result[i] = a[i] & b[i]
	}
	e.dstack.push(result)
	return nil
}

func opcodeOr(pop *parsedOpcode, e *engine) error {
	a, b, err := popBitwiseOperands(pop, e)
	if err != nil {
		return err
	}
	result := make([]byte, len(a))
	for i := range a {
		result[i] = a[i] | b[i]
	}
	e.dstack.push(result)
	return nil
}

func opcodeXor(pop *parsedOpcode, e *engine) error {
	a, b, err := popBitwiseOperands(pop, e)
	if err != nil {
		return err
	}
	result := make([]byte, len(a))
	for i := range a {
		result[i] = a[i] ^ b[i]
	}
	e.dstack.push(result)
	return nil
}

func opcodeEqual(pop *parsedOpcode, e *engine) error {
	b, err := e.dstack.pop()
	if err != nil {
		return err
	}
	a, err := e.dstack.pop()
	if err != nil {
		return err
	}
	e.dstack.pushBool(bytes.Equal(a, b))
	return nil
}

func opcodeEqualVerify(pop *parsedOpcode, e *engine) error {
	err := opcodeEqual(pop, e)
	if err == nil {
		err = verify(pop, e)
	}
	return err
}

func opcode1Add(pop *parsedOpcode, e *engine) error {
	v, err := e.dstack.popInt()
	if err != nil {
		return err
	}
	e.dstack.pushInt(v.Add(v, big.NewInt(1)))
	return nil
}

func opcode1Sub(pop *parsedOpcode, e *engine) error {
	v, err := e.dstack.popInt()
	if err != nil {
		return err
	}
	e.dstack.pushInt(v.Sub(v, big.NewInt(1)))
	return nil
}

func opcodeNegate(pop *parsedOpcode, e *engine) error {
	v, err := e.dstack.popInt()
	if err != nil {
		return err
	}
	e.dstack.pushInt(v.Neg(v))
	return nil
}

func opcodeAbs(pop *parsedOpcode, e *engine) error {
	v, err := e.dstack.popInt()
	if err != nil {
		return err
	}
	e.dstack.pushInt(v.Abs(v))
	return nil
}

func opcodeNot(pop *parsedOpcode, e *engine) error {
	v, err := e.dstack.popInt()
	if err != nil {
		return err
	}
	e.dstack.pushBool(v.Sign() == 0)
	return nil
}

func opcode0NotEqual(pop *parsedOpcode, e *engine) error {
	v, err := e.dstack.popInt()
	if err != nil {
		return err
	}
	e.dstack.pushBool(v.Sign() != 0)
	return nil
}

// popTwoInts pops b then a, so that a was pushed first.
func popTwoInts(e *engine) (a, b *big.Int, err error) {
	b, err = e.dstack.popInt()
	if err != nil {
		return nil, nil, err
	}
	a, err = e.dstack.popInt()
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func opcodeAdd(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	e.dstack.pushInt(new(big.Int).Add(a, b))
	return nil
}

func opcodeSub(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	e.dstack.pushInt(new(big.Int).Sub(a, b))
	return nil
}

func opcodeMul(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	e.dstack.pushInt(new(big.Int).Mul(a, b))
	return nil
}

func opcodeDiv(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	if b.Sign() == 0 {
		return errors.Wrapf(ErrDivideByZero, "%s", pop.op.name)
	}
	e.dstack.pushInt(new(big.Int).Quo(a, b))
	return nil
}

func opcodeMod(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	if b.Sign() == 0 {
		return errors.Wrapf(ErrDivideByZero, "%s", pop.op.name)
	}
	e.dstack.pushInt(new(big.Int).Rem(a, b))
	return nil
}

func opcodeBoolAnd(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	e.dstack.pushBool(a.Sign() != 0 && b.Sign() != 0)
	return nil
}

func opcodeBoolOr(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	e.dstack.pushBool(a.Sign() != 0 || b.Sign() != 0)
	return nil
}

func opcodeNumEqual(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	e.dstack.pushBool(a.Cmp(b) == 0)
	return nil
}

func opcodeNumEqualVerify(pop *parsedOpcode, e *engine) error {
	err := opcodeNumEqual(pop, e)
	if err == nil {
		err = verify(pop, e)
	}
	return err
}

func opcodeNumNotEqual(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	e.dstack.pushBool(a.Cmp(b) != 0)
	return nil
}

func opcodeLessThan(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	e.dstack.pushBool(a.Cmp(b) < 0)
	return nil
}

func opcodeGreaterThan(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	e.dstack.pushBool(a.Cmp(b) > 0)
	return nil
}

func opcodeLessThanOrEqual(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	e.dstack.pushBool(a.Cmp(b) <= 0)
	return nil
}

func opcodeGreaterThanOrEqual(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	e.dstack.pushBool(a.Cmp(b) >= 0)
	return nil
}

func opcodeMin(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	if a.Cmp(b) > 0 {
		a = b
	}
	e.dstack.pushInt(a)
	return nil
}

func opcodeMax(pop *parsedOpcode, e *engine) error {
	a, b, err := popTwoInts(e)
	if err != nil {
		return err
	}
	if a.Cmp(b) < 0 {
		a = b
	}
	e.dstack.pushInt(a)
	return nil
}

func opcodeWithin(pop *parsedOpcode, e *engine) error {
	maxVal, err := e.dstack.popInt()
	if err != nil {
		return err
	}
	minVal, err := e.dstack.popInt()
	if err != nil {
		return err
	}
	x, err := e.dstack.popInt()
	if err != nil {
		return err
	}
	e.dstack.pushBool(x.Cmp(minVal) >= 0 && x.Cmp(maxVal) < 0)
	return nil
}

func opcodeRipemd160(pop *parsedOpcode, e *engine) error {
	data, err := e.dstack.pop()
	if err != nil {
		return err
	}
	e.dstack.push(hashes.HashRipemd160(data))
	return nil
}

func opcodeSha1(pop *parsedOpcode, e *engine) error {
	data, err := e.dstack.pop()
	if err != nil {
		return err
	}
	sum := sha1.Sum(data)
	e.dstack.push(sum[:])
	return nil
}

func opcodeSha256(pop *parsedOpcode, e *engine) error {
	data, err := e.dstack.pop()
	if err != nil {
		return err
	}
	sum := sha256.Sum256(data)
	e.dstack.push(sum[:])
	return nil
}

func opcodeHash160(pop *parsedOpcode, e *engine) error {
	data, err := e.dstack.pop()
	if err != nil {
		return err
	}
	e.dstack.push(hashes.Hash160(data))
	return nil
}

func opcodeHash256(pop *parsedOpcode, e *engine) error {
	data, err := e.dstack.pop()
	if err != nil {
		return err
	}
	e.dstack.push(hashes.DoubleSha256(data))
	return nil
}
