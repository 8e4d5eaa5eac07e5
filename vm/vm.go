/*
Package vm provides a stack machine for running compile-time programs.

The machine has no transaction context. Signature checks and other
introspection opcodes fail with ErrUnsupportedOpcode, while the remaining
data, flow, arithmetic and hashing opcodes behave as they do during script
validation. Numbers are arbitrary precision.
*/
package vm

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/walletauth/tplscript"
)

const (
	// maxProgramSize is the largest program Execute accepts, in bytes.
	maxProgramSize = 10000

	// maxStackSize is the combined element limit of the data and alt stacks.
	maxStackSize = 1000

	// maxOperationsPerProgram limits non-push opcodes per program.
	maxOperationsPerProgram = 201

	// maxElementSize is the largest stack element an opcode may produce.
	maxElementSize = 520
)

// Branch states tracked by the conditional stack.
const (
	opCondFalse = 0
	opCondTrue  = 1
	opCondSkip  = 2
)

// VM executes programs produced by the compiler. The zero value is ready to
// use and a single VM is safe for concurrent use, as every Execute call runs
// on its own engine.
type VM struct{}

// New returns a VM.
func New() *VM {
	return &VM{}
}

var _ tplscript.VirtualMachine = (*VM)(nil)

// engine holds the mutable state of a single program run.
type engine struct {
	dstack    stack
	astack    stack
	condStack []int
	numOps    int
}

// isBranchExecuting returns whether the current conditional branch is live.
// Opcodes other than OP_IF, OP_NOTIF, OP_ELSE and OP_ENDIF are skipped on
// dead branches.
func (e *engine) isBranchExecuting() bool {
	return len(e.condStack) == 0 || e.condStack[len(e.condStack)-1] == opCondTrue
}

func (e *engine) executeOpcode(pop *parsedOpcode) error {
	if pop.isDisabled() {
		return errors.Wrapf(ErrDisabledOpcode, "%s", pop.op.name)
	}
	if pop.isAlwaysIllegal() {
		return errors.Wrapf(ErrReservedOpcode, "%s", pop.op.name)
	}

	if pop.op.value > tplscript.Op16 {
		e.numOps++
		if e.numOps > maxOperationsPerProgram {
			return errors.Wrapf(ErrTooManyOperations,
				"more than %d operations", maxOperationsPerProgram)
		}
	}

	if len(pop.data) > maxElementSize {
		return errors.Wrapf(ErrElementTooBig,
			"%s pushes %d bytes with a limit of %d",
			pop.op.name, len(pop.data), maxElementSize)
	}

	if !e.isBranchExecuting() && !pop.isConditional() {
		return nil
	}

	return pop.op.opfunc(pop, e)
}

// parseProgram decodes program into opcodes with their inline push data. The
// whole program must decode, even parts on dead branches.
func parseProgram(program []byte) ([]parsedOpcode, error) {
	parsed := make([]parsedOpcode, 0, len(program))
	for i := 0; i < len(program); {
		op := &opcodeArray[program[i]]
		if op.name == "" {
			return nil, errors.Wrapf(ErrUnknownOpcode,
				"opcode 0x%02x at offset %d", program[i], i)
		}

		pop := parsedOpcode{op: op}
		switch {
		case op.length == 1:
			i++

		case op.length > 1:
			if len(program)-i < op.length {
				return nil, errors.Wrapf(ErrMalformedPush,
					"%s at offset %d pushes %d bytes but only %d remain",
					op.name, i, op.length-1, len(program)-i-1)
			}
			pop.data = program[i+1 : i+op.length]
			i += op.length

		default:
			prefixLen := -op.length
			offset := i + 1
			if len(program)-offset < prefixLen {
				return nil, errors.Wrapf(ErrMalformedPush,
					"%s at offset %d is missing its length prefix", op.name, i)
			}

			var dataLen int64
			switch prefixLen {
			case 1:
				dataLen = int64(program[offset])
			case 2:
				dataLen = int64(binary.LittleEndian.Uint16(program[offset:]))
			case 4:
				dataLen = int64(binary.LittleEndian.Uint32(program[offset:]))
			}

			offset += prefixLen
			if dataLen > int64(len(program)-offset) || dataLen > math.MaxInt32 {
				return nil, errors.Wrapf(ErrMalformedPush,
					"%s at offset %d pushes %d bytes but only %d remain",
					op.name, i, dataLen, len(program)-offset)
			}
			pop.data = program[offset : offset+int(dataLen)]
			i = offset + int(dataLen)
		}

		parsed = append(parsed, pop)
	}
	return parsed, nil
}

// Execute runs program on a fresh engine and returns the final data stack
// with the bottom element first. The returned slices do not alias program.
func (vm *VM) Execute(ctx context.Context, program []byte) ([][]byte, error) {
	if len(program) > maxProgramSize {
		return nil, errors.Wrapf(ErrProgramTooBig,
			"%d bytes with a limit of %d", len(program), maxProgramSize)
	}
	parsed, err := parseProgram(program)
	if err != nil {
		return nil, err
	}

	e := &engine{}
	for i := range parsed {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}
		if err := e.executeOpcode(&parsed[i]); err != nil {
			return nil, err
		}
		if depth := e.dstack.depth() + e.astack.depth(); depth > maxStackSize {
			return nil, errors.Wrapf(ErrStackOverflow,
				"%d elements with a limit of %d", depth, maxStackSize)
		}
	}
	if len(e.condStack) != 0 {
		return nil, errors.Wrapf(ErrUnbalancedConditional,
			"%d unterminated conditional blocks", len(e.condStack))
	}

	result := make([][]byte, len(e.dstack.items))
	for i, item := range e.dstack.items {
		result[i] = make([]byte, len(item))
		copy(result[i], item)
	}
	log.Tracef("program of %d bytes left %d stack elements",
		len(program), len(result))
	return result, nil
}
