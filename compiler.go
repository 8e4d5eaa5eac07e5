package tplscript

import (
	"context"

	"github.com/walletauth/tplscript/logger"
)

// Compiler turns script ids from one environment into bytecode. A Compiler
// holds no per-compilation state, so a single instance may serve any number
// of concurrent GenerateBytecode calls.
//
// The environment must not be mutated once handed to NewCompiler.
type Compiler struct {
	env *Environment
	vm  VirtualMachine
}

// NewCompiler returns a compiler over env. machine executes compile-time
// evaluations; passing nil is allowed and makes any script containing an
// evaluation fail with a missing-capability resolution error.
func NewCompiler(env *Environment, machine VirtualMachine) *Compiler {
	return &Compiler{env: env, vm: machine}
}

// GenerateBytecode compiles the script registered under scriptID, resolving
// variables against data. A nil data behaves like an empty one. On failure
// the returned error is a *CompileError carrying every error found.
func (c *Compiler) GenerateBytecode(scriptID string, data *Data) ([]byte, error) {
	return c.GenerateBytecodeContext(context.Background(), scriptID, data)
}

// GenerateBytecodeContext is GenerateBytecode with a context. Cancellation
// is observed by operations and by the virtual machine; a cancelled
// compilation fails with the stage the cancellation surfaced in.
func (c *Compiler) GenerateBytecodeContext(ctx context.Context, scriptID string, data *Data) ([]byte, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "GenerateBytecodeContext")
	defer onEnd()

	comp := &compilation{compiler: c, ctx: ctx, data: data}
	bytecode, compileErr := comp.compileScript(scriptID)
	if compileErr != nil {
		log.Tracef("compilation of %q failed: %s", scriptID, compileErr)
		return nil, compileErr
	}
	log.Tracef("compiled %q to %d bytes", scriptID, len(bytecode))
	return bytecode, nil
}

// GenerateArtifact compiles like GenerateBytecodeContext but records every
// intermediate stage. The artifact is returned even when compilation fails,
// populated up to the failing stage, alongside the *CompileError.
func (c *Compiler) GenerateArtifact(ctx context.Context, scriptID string, data *Data) (*Artifact, error) {
	comp := &compilation{
		compiler:  c,
		ctx:       ctx,
		data:      data,
		debug:     true,
		artifacts: make(map[string]*Artifact),
	}
	_, compileErr := comp.compileScript(scriptID)

	artifact := comp.artifacts[scriptID]
	if artifact == nil {
		artifact = &Artifact{ScriptID: scriptID}
	}
	for id, referenced := range comp.artifacts {
		if id == scriptID {
			continue
		}
		if artifact.ReferencedScripts == nil {
			artifact.ReferencedScripts = make(map[string]*Artifact)
		}
		artifact.ReferencedScripts[id] = referenced
	}
	if compileErr != nil {
		return artifact, compileErr
	}
	return artifact, nil
}
