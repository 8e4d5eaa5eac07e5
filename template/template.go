/*
Package template models authentication template documents and derives the
compilation environment a template describes.

A template names the entities taking part in an authentication scheme, the
variables each entity owns and the scripts spending between them. Documents
are authored as JSON; Parse decodes one and Derive turns it into a
tplscript.Environment ready for a Compiler. The capability operations and the
virtual machine are wired by the caller.
*/
package template

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/walletauth/tplscript"
)

// Template is an authentication template document.
type Template struct {
	Name        string
	Description string
	Entities    []*Entity
	Scripts     []*Script
}

// Entity is one participant in the authentication scheme together with the
// variables it owns. Entities and their variables are ordered; when two
// entities declare the same variable id, the later one wins.
type Entity struct {
	ID        string
	Name      string
	Variables []*tplscript.Variable
}

// Script is one script of the template. Unlocks names the locking script an
// unlocking script spends. LockingType and TimeLockType carry the document's
// declared tags and are empty when undeclared.
type Script struct {
	ID           string
	Name         string
	Script       string
	Unlocks      string
	LockingType  string
	TimeLockType string
}

// Derive builds the compilation environment the template describes: its
// script sources, the variables merged across entities in document order,
// variable ownership, the unlocking relationships and script type tags, all
// over the default opcode vocabulary.
func Derive(t *Template) *tplscript.Environment {
	env := &tplscript.Environment{
		Opcodes:                      tplscript.DefaultOpcodes(),
		Scripts:                      make(map[string]string, len(t.Scripts)),
		Variables:                    make(map[string]*tplscript.Variable),
		EntityOwnership:              make(map[string]string),
		UnlockingScripts:             make(map[string]string),
		LockingScriptTypes:           make(map[string]string),
		UnlockingScriptTimeLockTypes: make(map[string]string),
	}

	for _, entity := range t.Entities {
		for _, variable := range entity.Variables {
			env.Variables[variable.ID] = variable
			env.EntityOwnership[variable.ID] = entity.ID
		}
	}

	for _, script := range t.Scripts {
		env.Scripts[script.ID] = script.Script
		if script.Unlocks != "" {
			env.UnlockingScripts[script.ID] = script.Unlocks
		}
		if script.LockingType != "" {
			env.LockingScriptTypes[script.ID] = script.LockingType
		}
		if script.TimeLockType != "" {
			env.UnlockingScriptTimeLockTypes[script.ID] = script.TimeLockType
		}
	}
	return env
}

// Parse decodes a JSON template document. Variable kinds and transaction
// context fields are given by name in documents and are checked here; the
// script sources themselves are not compiled until a Compiler asks for them.
func Parse(r io.Reader) (*Template, error) {
	var doc jsonTemplate
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding template document")
	}
	return doc.toTemplate()
}

type jsonTemplate struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Entities    []*jsonEntity `json:"entities"`
	Scripts     []*jsonScript `json:"scripts"`
}

type jsonEntity struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Variables []*jsonVariable `json:"variables"`
}

type jsonVariable struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Kind           string `json:"kind"`
	Algorithm      string `json:"algorithm"`
	DerivationPath string `json:"derivation_path"`
	SigHashType    byte   `json:"sighash_type"`
	Field          string `json:"field"`
}

type jsonScript struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Script       string `json:"script"`
	Unlocks      string `json:"unlocks"`
	LockingType  string `json:"locking_type"`
	TimeLockType string `json:"time_lock_type"`
}

func (doc *jsonTemplate) toTemplate() (*Template, error) {
	t := &Template{
		Name:        doc.Name,
		Description: doc.Description,
		Entities:    make([]*Entity, 0, len(doc.Entities)),
		Scripts:     make([]*Script, 0, len(doc.Scripts)),
	}

	for _, entity := range doc.Entities {
		variables := make([]*tplscript.Variable, 0, len(entity.Variables))
		for _, variable := range entity.Variables {
			converted, err := variable.toVariable()
			if err != nil {
				return nil, err
			}
			variables = append(variables, converted)
		}
		t.Entities = append(t.Entities, &Entity{
			ID:        entity.ID,
			Name:      entity.Name,
			Variables: variables,
		})
	}

	for _, script := range doc.Scripts {
		t.Scripts = append(t.Scripts, &Script{
			ID:           script.ID,
			Name:         script.Name,
			Script:       script.Script,
			Unlocks:      script.Unlocks,
			LockingType:  script.LockingType,
			TimeLockType: script.TimeLockType,
		})
	}
	return t, nil
}

func (v *jsonVariable) toVariable() (*tplscript.Variable, error) {
	kind, ok := tplscript.VariableKindFromString(v.Kind)
	if !ok {
		return nil, errors.Errorf("variable %q has unknown kind %q", v.ID, v.Kind)
	}

	variable := &tplscript.Variable{
		ID:             v.ID,
		Name:           v.Name,
		Description:    v.Description,
		Kind:           kind,
		Algorithm:      v.Algorithm,
		DerivationPath: v.DerivationPath,
		SigHashType:    v.SigHashType,
	}

	if kind == tplscript.TransactionContextVariable {
		if v.Field == "" {
			return nil, errors.Errorf("transaction context variable %q declares no field", v.ID)
		}
		field, ok := tplscript.ContextFieldFromString(v.Field)
		if !ok {
			return nil, errors.Errorf("variable %q has unknown field %q", v.ID, v.Field)
		}
		variable.Field = field
	}
	return variable, nil
}
