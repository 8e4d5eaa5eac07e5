package vm

import "github.com/pkg/errors"

// Execution failures. Errors returned by Execute wrap one of these and can
// be tested with errors.Is.
var (
	// ErrProgramTooBig is returned when a program exceeds the maximum
	// allowed size before execution starts.
	ErrProgramTooBig = errors.New("program exceeds the maximum program size")

	// ErrMalformedPush is returned when a push opcode declares more data
	// than the program contains.
	ErrMalformedPush = errors.New("push opcode exceeds the program bounds")

	// ErrUnknownOpcode is returned for byte values outside the
	// instruction set.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrDisabledOpcode is returned when a program contains a disabled
	// opcode. Disabled opcodes fail the program even on unexecuted
	// branches.
	ErrDisabledOpcode = errors.New("disabled opcode")

	// ErrReservedOpcode is returned when a reserved opcode is executed.
	ErrReservedOpcode = errors.New("reserved opcode")

	// ErrUnsupportedOpcode is returned for opcodes that need a
	// transaction to operate on, which evaluations do not have.
	ErrUnsupportedOpcode = errors.New("opcode requires transaction context")

	// ErrStackUnderflow is returned when an opcode needs more stack
	// items than are present.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrStackOverflow is returned when the combined stack depth exceeds
	// the maximum.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrElementTooBig is returned when a stack element exceeds the
	// maximum element size.
	ErrElementTooBig = errors.New("element exceeds the maximum element size")

	// ErrTooManyOperations is returned when a program executes more than
	// the maximum number of non-push operations.
	ErrTooManyOperations = errors.New("too many operations")

	// ErrUnbalancedConditional is returned when a program ends inside an
	// open conditional block, or closes one that was never opened.
	ErrUnbalancedConditional = errors.New("unbalanced conditional")

	// ErrVerifyFailed is returned when an OP_VERIFY style opcode pops a
	// false value.
	ErrVerifyFailed = errors.New("verify failed")

	// ErrEarlyReturn is returned when OP_RETURN executes.
	ErrEarlyReturn = errors.New("script returned early")

	// ErrDivideByZero is returned when OP_DIV or OP_MOD pops a zero
	// divisor.
	ErrDivideByZero = errors.New("division by zero")

	// ErrOperandSizeMismatch is returned when a bitwise opcode pops
	// operands of different lengths.
	ErrOperandSizeMismatch = errors.New("bitwise operands differ in size")

	// ErrInvalidStackIndex is returned when OP_PICK or OP_ROLL pops an
	// index outside the stack.
	ErrInvalidStackIndex = errors.New("stack index out of range")
)
