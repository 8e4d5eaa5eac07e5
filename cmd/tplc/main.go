package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/walletauth/tplscript"
	"github.com/walletauth/tplscript/operations"
	"github.com/walletauth/tplscript/template"
	"github.com/walletauth/tplscript/util/panics"
	"github.com/walletauth/tplscript/util/profiling"
	"github.com/walletauth/tplscript/vm"
)

func main() {
	defer panics.HandlePanic(log, nil)

	cfg, err := parseCommandLine()
	if err != nil {
		printErrorAndExit(err)
	}

	// Enable http profiling server if requested.
	if cfg.Profile != "" {
		profiling.Start(cfg.Profile, log)
	}

	doc, err := readTemplateFile(cfg.TemplateFile)
	if err != nil {
		printErrorAndExit(err)
	}

	var data *tplscript.Data
	if cfg.DataFile != "" {
		data, err = readDataFile(cfg.DataFile)
		if err != nil {
			printErrorAndExit(err)
		}
	}

	env := template.Derive(doc)
	env.Operations = operations.Standard()
	compiler := tplscript.NewCompiler(env, vm.New())

	switch {
	case cfg.All:
		err = compileAll(compiler, doc, data)
	case cfg.Debug:
		err = compileDebug(compiler, cfg.Script, data)
	default:
		err = compileOne(compiler, cfg.Script, data)
	}
	if err != nil {
		printErrorAndExit(err)
	}
}

func readTemplateFile(path string) (*template.Template, error) {
	templateFile, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening template file %s", path)
	}
	defer templateFile.Close()

	doc, err := template.Parse(templateFile)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing template file %s", path)
	}
	return doc, nil
}

func compileOne(compiler *tplscript.Compiler, scriptID string, data *tplscript.Data) error {
	bytecode, err := compiler.GenerateBytecode(scriptID, data)
	if err != nil {
		return err
	}
	fmt.Printf("%x\n", bytecode)
	return nil
}

// compileDebug prints the artifact even when compilation fails, so the
// stages leading up to the failure stay inspectable.
func compileDebug(compiler *tplscript.Compiler, scriptID string, data *tplscript.Data) error {
	artifact, compileErr := compiler.GenerateArtifact(context.Background(), scriptID, data)

	encoded, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding artifact")
	}
	fmt.Printf("%s\n", encoded)

	return compileErr
}

type compileResult struct {
	scriptID string
	bytecode []byte
	err      error
}

func compileAll(compiler *tplscript.Compiler, doc *template.Template, data *tplscript.Data) error {
	// The compiler is safe for concurrent use, so every script gets its
	// own goroutine. Results are reported in document order.
	results := make([]compileResult, len(doc.Scripts))
	var wg sync.WaitGroup
	for i, script := range doc.Scripts {
		i, scriptID := i, script.ID
		wg.Add(1)
		spawn(func() {
			defer wg.Done()
			bytecode, err := compiler.GenerateBytecode(scriptID, data)
			results[i] = compileResult{scriptID: scriptID, bytecode: bytecode, err: err}
		})
	}
	wg.Wait()

	failures := 0
	for _, result := range results {
		if result.err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s: %s\n", result.scriptID, result.err)
			continue
		}
		fmt.Printf("%s: %x\n", result.scriptID, result.bytecode)
	}
	if failures > 0 {
		return errors.Errorf("%d of %d scripts failed to compile", failures, len(doc.Scripts))
	}
	return nil
}
