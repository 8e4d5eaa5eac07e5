package tplscript

import "context"

// VirtualMachine executes a compiled program during an evaluation and
// returns the final stack, bottom first. The compiler takes the top item as
// the evaluation's result; execution failures and empty final stacks are
// reported as evaluation errors against the evaluation's source span.
//
// Implementations must be safe for concurrent use and must not retain the
// program slice after Execute returns.
type VirtualMachine interface {
	Execute(ctx context.Context, program []byte) ([][]byte, error)
}

// VirtualMachineFunc is an adapter to allow the use of ordinary functions as
// virtual machines.
type VirtualMachineFunc func(ctx context.Context, program []byte) ([][]byte, error)

// Execute calls f(ctx, program).
func (f VirtualMachineFunc) Execute(ctx context.Context, program []byte) ([][]byte, error) {
	return f(ctx, program)
}
