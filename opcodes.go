package tplscript

import "fmt"

// These constants are the values of the script opcodes in the default
// vocabulary. Pushes below OpPushData1 carry their length as the opcode
// value, so OpData1 through OpData75 double as length prefixes.
const (
	Op0         byte = 0x00 // OP_FALSE
	OpData1     byte = 0x01
	OpData20    byte = 0x14
	OpData32    byte = 0x20
	OpData45    byte = 0x2d
	OpData75    byte = 0x4b
	OpPushData1 byte = 0x4c
	OpPushData2 byte = 0x4d
	OpPushData4 byte = 0x4e
	Op1Negate   byte = 0x4f
	OpReserved  byte = 0x50
	Op1         byte = 0x51 // OP_TRUE
	Op2         byte = 0x52
	Op3         byte = 0x53
	Op4         byte = 0x54
	Op5         byte = 0x55
	Op6         byte = 0x56
	Op7         byte = 0x57
	Op8         byte = 0x58
	Op9         byte = 0x59
	Op10        byte = 0x5a
	Op11        byte = 0x5b
	Op12        byte = 0x5c
	Op13        byte = 0x5d
	Op14        byte = 0x5e
	Op15        byte = 0x5f
	Op16        byte = 0x60

	OpNop      byte = 0x61
	OpVer      byte = 0x62
	OpIf       byte = 0x63
	OpNotIf    byte = 0x64
	OpVerIf    byte = 0x65
	OpVerNotIf byte = 0x66
	OpElse     byte = 0x67
	OpEndIf    byte = 0x68
	OpVerify   byte = 0x69
	OpReturn   byte = 0x6a

	OpToAltStack   byte = 0x6b
	OpFromAltStack byte = 0x6c
	Op2Drop        byte = 0x6d
	Op2Dup         byte = 0x6e
	Op3Dup         byte = 0x6f
	Op2Over        byte = 0x70
	Op2Rot         byte = 0x71
	Op2Swap        byte = 0x72
	OpIfDup        byte = 0x73
	OpDepth        byte = 0x74
	OpDrop         byte = 0x75
	OpDup          byte = 0x76
	OpNip          byte = 0x77
	OpOver         byte = 0x78
	OpPick         byte = 0x79
	OpRoll         byte = 0x7a
	OpRot          byte = 0x7b
	OpSwap         byte = 0x7c
	OpTuck         byte = 0x7d

	OpCat    byte = 0x7e
	OpSubStr byte = 0x7f
	OpLeft   byte = 0x80
	OpRight  byte = 0x81
	OpSize   byte = 0x82

	OpInvert      byte = 0x83
	OpAnd         byte = 0x84
	OpOr          byte = 0x85
	OpXor         byte = 0x86
	OpEqual       byte = 0x87
	OpEqualVerify byte = 0x88
	OpReserved1   byte = 0x89
	OpReserved2   byte = 0x8a

	Op1Add      byte = 0x8b
	Op1Sub      byte = 0x8c
	Op2Mul      byte = 0x8d
	Op2Div      byte = 0x8e
	OpNegate    byte = 0x8f
	OpAbs       byte = 0x90
	OpNot       byte = 0x91
	Op0NotEqual byte = 0x92
	OpAdd       byte = 0x93
	OpSub       byte = 0x94
	OpMul       byte = 0x95
	OpDiv       byte = 0x96
	OpMod       byte = 0x97
	OpLShift    byte = 0x98
	OpRShift    byte = 0x99
	OpBoolAnd   byte = 0x9a
	OpBoolOr    byte = 0x9b

	OpNumEqual           byte = 0x9c
	OpNumEqualVerify     byte = 0x9d
	OpNumNotEqual        byte = 0x9e
	OpLessThan           byte = 0x9f
	OpGreaterThan        byte = 0xa0
	OpLessThanOrEqual    byte = 0xa1
	OpGreaterThanOrEqual byte = 0xa2
	OpMin                byte = 0xa3
	OpMax                byte = 0xa4
	OpWithin             byte = 0xa5

	OpRipeMD160     byte = 0xa6
	OpSHA1          byte = 0xa7
	OpSHA256        byte = 0xa8
	OpHash160       byte = 0xa9
	OpHash256       byte = 0xaa
	OpCodeSeparator byte = 0xab

	OpCheckSig            byte = 0xac
	OpCheckSigVerify      byte = 0xad
	OpCheckMultiSig       byte = 0xae
	OpCheckMultiSigVerify byte = 0xaf

	OpNop1  byte = 0xb0
	OpNop2  byte = 0xb1 // OP_CHECKLOCKTIMEVERIFY
	OpNop3  byte = 0xb2 // OP_CHECKSEQUENCEVERIFY
	OpNop4  byte = 0xb3
	OpNop5  byte = 0xb4
	OpNop6  byte = 0xb5
	OpNop7  byte = 0xb6
	OpNop8  byte = 0xb7
	OpNop9  byte = 0xb8
	OpNop10 byte = 0xb9
)

// opcodeNames maps the source-language names of the default vocabulary to
// their byte values. The patterned OP_DATA_N and OP_N names are filled in
// by init below.
var opcodeNames = map[string]byte{
	"OP_0":         Op0,
	"OP_FALSE":     Op0,
	"OP_TRUE":      Op1,
	"OP_PUSHDATA1": OpPushData1,
	"OP_PUSHDATA2": OpPushData2,
	"OP_PUSHDATA4": OpPushData4,
	"OP_1NEGATE":   Op1Negate,
	"OP_RESERVED":  OpReserved,

	"OP_NOP":      OpNop,
	"OP_VER":      OpVer,
	"OP_IF":       OpIf,
	"OP_NOTIF":    OpNotIf,
	"OP_VERIF":    OpVerIf,
	"OP_VERNOTIF": OpVerNotIf,
	"OP_ELSE":     OpElse,
	"OP_ENDIF":    OpEndIf,
	"OP_VERIFY":   OpVerify,
	"OP_RETURN":   OpReturn,

	"OP_TOALTSTACK":   OpToAltStack,
	"OP_FROMALTSTACK": OpFromAltStack,
	"OP_2DROP":        Op2Drop,
	"OP_2DUP":         Op2Dup,
	"OP_3DUP":         Op3Dup,
	"OP_2OVER":        Op2Over,
	"OP_2ROT":         Op2Rot,
	"OP_2SWAP":        Op2Swap,
	"OP_IFDUP":        OpIfDup,
	"OP_DEPTH":        OpDepth,
	"OP_DROP":         OpDrop,
	"OP_DUP":          OpDup,
	"OP_NIP":          OpNip,
	"OP_OVER":         OpOver,
	"OP_PICK":         OpPick,
	"OP_ROLL":         OpRoll,
	"OP_ROT":          OpRot,
	"OP_SWAP":         OpSwap,
	"OP_TUCK":         OpTuck,

	"OP_CAT":    OpCat,
	"OP_SUBSTR": OpSubStr,
	"OP_LEFT":   OpLeft,
	"OP_RIGHT":  OpRight,
	"OP_SIZE":   OpSize,

	"OP_INVERT":      OpInvert,
	"OP_AND":         OpAnd,
	"OP_OR":          OpOr,
	"OP_XOR":         OpXor,
	"OP_EQUAL":       OpEqual,
	"OP_EQUALVERIFY": OpEqualVerify,
	"OP_RESERVED1":   OpReserved1,
	"OP_RESERVED2":   OpReserved2,

	"OP_1ADD":      Op1Add,
	"OP_1SUB":      Op1Sub,
	"OP_2MUL":      Op2Mul,
	"OP_2DIV":      Op2Div,
	"OP_NEGATE":    OpNegate,
	"OP_ABS":       OpAbs,
	"OP_NOT":       OpNot,
	"OP_0NOTEQUAL": Op0NotEqual,
	"OP_ADD":       OpAdd,
	"OP_SUB":       OpSub,
	"OP_MUL":       OpMul,
	"OP_DIV":       OpDiv,
	"OP_MOD":       OpMod,
	"OP_LSHIFT":    OpLShift,
	"OP_RSHIFT":    OpRShift,
	"OP_BOOLAND":   OpBoolAnd,
	"OP_BOOLOR":    OpBoolOr,

	"OP_NUMEQUAL":           OpNumEqual,
	"OP_NUMEQUALVERIFY":     OpNumEqualVerify,
	"OP_NUMNOTEQUAL":        OpNumNotEqual,
	"OP_LESSTHAN":           OpLessThan,
	"OP_GREATERTHAN":        OpGreaterThan,
	"OP_LESSTHANOREQUAL":    OpLessThanOrEqual,
	"OP_GREATERTHANOREQUAL": OpGreaterThanOrEqual,
	"OP_MIN":                OpMin,
	"OP_MAX":                OpMax,
	"OP_WITHIN":             OpWithin,

	"OP_RIPEMD160":     OpRipeMD160,
	"OP_SHA1":          OpSHA1,
	"OP_SHA256":        OpSHA256,
	"OP_HASH160":       OpHash160,
	"OP_HASH256":       OpHash256,
	"OP_CODESEPARATOR": OpCodeSeparator,

	"OP_CHECKSIG":            OpCheckSig,
	"OP_CHECKSIGVERIFY":      OpCheckSigVerify,
	"OP_CHECKMULTISIG":       OpCheckMultiSig,
	"OP_CHECKMULTISIGVERIFY": OpCheckMultiSigVerify,

	"OP_NOP1":                OpNop1,
	"OP_NOP2":                OpNop2,
	"OP_CHECKLOCKTIMEVERIFY": OpNop2,
	"OP_NOP3":                OpNop3,
	"OP_CHECKSEQUENCEVERIFY": OpNop3,
	"OP_NOP4":                OpNop4,
	"OP_NOP5":                OpNop5,
	"OP_NOP6":                OpNop6,
	"OP_NOP7":                OpNop7,
	"OP_NOP8":                OpNop8,
	"OP_NOP9":                OpNop9,
	"OP_NOP10":               OpNop10,
}

// opcodeValueNames maps byte values back to a canonical name for diagnostics.
// Aliased values keep their primary name.
var opcodeValueNames = make(map[byte]string)

func init() {
	for value := OpData1; value <= OpData75; value++ {
		opcodeNames[fmt.Sprintf("OP_DATA_%d", value)] = value
	}
	for small := byte(1); small <= 16; small++ {
		opcodeNames[fmt.Sprintf("OP_%d", small)] = Op1 + small - 1
	}
	for name, value := range opcodeNames {
		existing, ok := opcodeValueNames[value]
		if !ok || len(name) < len(existing) ||
			(len(name) == len(existing) && name < existing) {
			opcodeValueNames[value] = name
		}
	}
}

// DefaultOpcodes returns a fresh copy of the default opcode vocabulary,
// mapping source-language opcode names to their byte values. Callers may
// extend or restrict the copy before handing it to an Environment.
func DefaultOpcodes() map[string]byte {
	ops := make(map[string]byte, len(opcodeNames))
	for name, value := range opcodeNames {
		ops[name] = value
	}
	return ops
}

// OpcodeName returns the canonical source-language name for the given opcode
// value, or an OP_UNKNOWN form for values outside the default vocabulary.
func OpcodeName(opcode byte) string {
	if name, ok := opcodeValueNames[opcode]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN%d", opcode)
}
