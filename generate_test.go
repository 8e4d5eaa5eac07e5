package tplscript

import (
	"bytes"
	"math/big"
	"testing"
)

func TestGenerateLiterals(t *testing.T) {
	tests := []struct {
		name  string
		nodes []ResolvedNode
		want  string
	}{
		{
			name:  "opcode byte",
			nodes: []ResolvedNode{&ResolvedOpcode{Name: "OP_ADD", Opcode: OpAdd}},
			want:  "93",
		},
		{
			name: "opcodes concatenate in order",
			nodes: []ResolvedNode{
				&ResolvedOpcode{Name: "OP_1", Opcode: Op1},
				&ResolvedOpcode{Name: "OP_2", Opcode: Op2},
				&ResolvedOpcode{Name: "OP_ADD", Opcode: OpAdd},
			},
			want: "515293",
		},
		{
			name:  "raw bytes pass through",
			nodes: []ResolvedNode{&ResolvedBytes{Bytes: hexToBytes("deadbeef")}},
			want:  "deadbeef",
		},
		{
			name: "bare integers emit raw script numbers",
			nodes: []ResolvedNode{
				&ResolvedInt{Value: big.NewInt(42)},
				&ResolvedInt{Value: big.NewInt(-42)},
				&ResolvedInt{Value: big.NewInt(2147483647)},
				&ResolvedInt{Value: big.NewInt(-2147483647)},
			},
			want: "2aaaffffff7fffffffff",
		},
		{
			name:  "bare zero emits nothing",
			nodes: []ResolvedNode{&ResolvedInt{Value: big.NewInt(0)}},
			want:  "",
		},
		{
			name:  "string emits utf8 bytes",
			nodes: []ResolvedNode{&ResolvedString{Value: `abc"` + "`" + `👍`}},
			want:  "6162632260f09f918d",
		},
		{
			name:  "empty string emits nothing",
			nodes: []ResolvedNode{&ResolvedString{Value: ""}},
			want:  "",
		},
		{
			name:  "hex literal decodes",
			nodes: []ResolvedNode{&ResolvedHex{Digits: "00ff"}},
			want:  "00ff",
		},
		{
			name:  "empty program",
			nodes: nil,
			want:  "",
		},
	}

	for _, test := range tests {
		got, errs := Generate(test.nodes)
		if len(errs) > 0 {
			t.Errorf("%s: unexpected errors: %v", test.name, errs)
			continue
		}
		if !bytes.Equal(got, hexToBytes(test.want)) {
			t.Errorf("%s: got %x, want %s", test.name, got, test.want)
		}
	}
}

func TestGeneratePushMinimization(t *testing.T) {
	push := func(nodes ...ResolvedNode) []ResolvedNode {
		return []ResolvedNode{&ResolvedPush{Nodes: nodes}}
	}
	intNode := func(v int64) ResolvedNode {
		return &ResolvedInt{Value: big.NewInt(v)}
	}

	tests := []struct {
		name  string
		nodes []ResolvedNode
		want  string
	}{
		{
			name:  "empty push",
			nodes: push(),
			want:  "00",
		},
		{
			name:  "push of zero is the empty push",
			nodes: push(intNode(0)),
			want:  "00",
		},
		{
			name:  "push of negative one",
			nodes: push(intNode(-1)),
			want:  "4f",
		},
		{
			name:  "push of one",
			nodes: push(intNode(1)),
			want:  "51",
		},
		{
			name:  "push of sixteen",
			nodes: push(intNode(16)),
			want:  "60",
		},
		{
			name:  "push of seventeen needs a length prefix",
			nodes: push(intNode(17)),
			want:  "0111",
		},
		{
			name:  "push of negative two needs a length prefix",
			nodes: push(intNode(-2)),
			want:  "0182",
		},
		{
			name:  "single zero byte is length prefixed",
			nodes: push(&ResolvedHex{Digits: "00"}),
			want:  "0100",
		},
		{
			name:  "push of opcode byte zero",
			nodes: push(&ResolvedOpcode{Name: "OP_0", Opcode: Op0}),
			want:  "0100",
		},
		{
			name:  "push of opcode byte one",
			nodes: push(&ResolvedOpcode{Name: "OP_1", Opcode: Op1}),
			want:  "0151",
		},
		{
			name:  "push of string",
			nodes: push(&ResolvedString{Value: "abc"}),
			want:  "03616263",
		},
		{
			name:  "push concatenates children before encoding",
			nodes: push(intNode(1), intNode(2)),
			want:  "020102",
		},
		{
			name:  "nested pushes minimize innermost first",
			nodes: push(&ResolvedPush{Nodes: []ResolvedNode{&ResolvedPush{Nodes: []ResolvedNode{&ResolvedPush{Nodes: []ResolvedNode{intNode(1)}}}}}}),
			want:  "03020151",
		},
	}

	for _, test := range tests {
		got, errs := Generate(test.nodes)
		if len(errs) > 0 {
			t.Errorf("%s: unexpected errors: %v", test.name, errs)
			continue
		}
		if !bytes.Equal(got, hexToBytes(test.want)) {
			t.Errorf("%s: got %x, want %s", test.name, got, test.want)
		}
	}
}

func TestPushBytecodeBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		dataLen    int
		wantPrefix string
	}{
		{name: "75 bytes uses bare length", dataLen: 75, wantPrefix: "4b"},
		{name: "76 bytes uses pushdata1", dataLen: 76, wantPrefix: "4c4c"},
		{name: "255 bytes uses pushdata1", dataLen: 255, wantPrefix: "4cff"},
		{name: "256 bytes uses pushdata2", dataLen: 256, wantPrefix: "4d0001"},
		{name: "65535 bytes uses pushdata2", dataLen: 65535, wantPrefix: "4dffff"},
		{name: "65536 bytes uses pushdata4", dataLen: 65536, wantPrefix: "4e00000100"},
	}

	for _, test := range tests {
		data := make([]byte, test.dataLen)
		for i := range data {
			data[i] = 0xaa
		}
		got, err := pushBytecode(data)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		prefix := hexToBytes(test.wantPrefix)
		if !bytes.Equal(got[:len(prefix)], prefix) {
			t.Errorf("%s: prefix is %x, want %s", test.name, got[:len(prefix)], test.wantPrefix)
		}
		if !bytes.Equal(got[len(prefix):], data) {
			t.Errorf("%s: payload does not round trip", test.name)
		}
	}
}

func TestGenerateOddLengthHex(t *testing.T) {
	_, errs := Generate([]ResolvedNode{&ResolvedHex{Digits: "abc"}})
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Code != ErrOddLengthHex {
		t.Errorf("error code is %v, want %v", errs[0].Code, ErrOddLengthHex)
	}
	if errs[0].Code.Kind() != KindEncoding {
		t.Errorf("error kind is %v, want %v", errs[0].Code.Kind(), KindEncoding)
	}
}

func TestGenerateCollectsAllErrors(t *testing.T) {
	_, errs := Generate([]ResolvedNode{
		&ResolvedHex{Digits: "a"},
		&ResolvedInt{Value: big.NewInt(1)},
		&ResolvedHex{Digits: "abc"},
	})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	for i, err := range errs {
		if err.Code != ErrOddLengthHex {
			t.Errorf("error %d code is %v, want %v", i, err.Code, ErrOddLengthHex)
		}
	}
}

func TestGenerateOddLengthHexInsidePush(t *testing.T) {
	_, errs := Generate([]ResolvedNode{
		&ResolvedPush{Nodes: []ResolvedNode{&ResolvedHex{Digits: "abc"}}},
	})
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Code != ErrOddLengthHex {
		t.Errorf("error code is %v, want %v", errs[0].Code, ErrOddLengthHex)
	}
}
