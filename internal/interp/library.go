package interp

import (
	"os"
	"regexp"
	"strings"

	"github.com/cwbudde/go-rexx/internal/ast"
	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/internal/parser"
)

// RegisteredFunction is the signature of an externally registered
// function: positional arguments in, value out.
type RegisteredFunction func(args []runtime.Value) (runtime.Value, error)

// LibraryLoader resolves a library name to registrations. How the loader
// finds the library (filesystem, cache, network) is opaque to the engine;
// REQUIRE only hands it the name and the AS clause.
type LibraryLoader interface {
	Load(name string, engine *Interpreter, as string) error
}

// ScriptSource resolves external script names to source text.
type ScriptSource interface {
	Read(name string) (string, error)
}

type osScriptSource struct{}

func (osScriptSource) Read(name string) (string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RegisterFunction registers an external function under name, applying
// the optional AS rename. A literal AS replaces the name outright; a
// pattern containing "(.*)" expands with the original name substituted,
// which is how prefixed imports are written (AS "sql_(.*)").
func (i *Interpreter) RegisterFunction(name string, fn RegisteredFunction, as string) error {
	final, err := applyFunctionRename(name, as)
	if err != nil {
		return err
	}
	if i.builtins.Has(final) {
		return newError(CodeHost, "cannot register %q: a built-in of that name exists and built-ins always win", final)
	}
	i.external.Set(final, fn)
	return nil
}

// RegisterAddressTarget registers an ADDRESS target. Target renames must
// be literal; regex AS clauses are rejected by the registry.
func (i *Interpreter) RegisterAddressTarget(name string, handler AddressHandler, methods []string, meta TargetMetadata, as string) error {
	return i.addresses.Register(name, handler, methods, meta, as)
}

// RegisterParamOrder extends the named-to-positional conversion table for
// an externally registered function.
func (i *Interpreter) RegisterParamOrder(name string, params []string) {
	i.paramOrder[strings.ToLower(name)] = params
}

func applyFunctionRename(name, as string) (string, error) {
	if as == "" {
		return name, nil
	}
	if strings.Contains(as, "(.*)") {
		return strings.Replace(as, "(.*)", name, 1), nil
	}
	if !isPlainName(as) {
		if _, err := regexp.Compile(as); err != nil {
			return "", newError(CodeHost, "invalid AS clause %q: %v", as, err)
		}
		// A regex without a capture slot cannot produce a name.
		return "", newError(CodeHost, "AS pattern %q must contain (.*) to receive the function name", as)
	}
	return as, nil
}

// execRequire delegates library resolution to the configured loader.
func (i *Interpreter) execRequire(node *ast.Require) (execResult, error) {
	if i.loader == nil {
		return execResult{}, newError(CodeHost, "REQUIRE %q: no library loader is configured", node.Name)
	}
	if err := i.loader.Load(node.Name, i, node.As); err != nil {
		return execResult{}, newError(CodeHost, "REQUIRE %q failed: %v", node.Name, err)
	}
	return execResult{}, nil
}

// ScriptLibraryLoader resolves library names to REXX script files on
// disk: every label of the script becomes a callable function that runs
// the labelled subroutine in a fresh engine sharing the parent's
// registries.
type ScriptLibraryLoader struct {
	Source ScriptSource
}

// NewScriptLibraryLoader creates a loader reading from the filesystem.
func NewScriptLibraryLoader() *ScriptLibraryLoader {
	return &ScriptLibraryLoader{Source: osScriptSource{}}
}

// Load implements LibraryLoader.
func (l *ScriptLibraryLoader) Load(name string, engine *Interpreter, as string) error {
	src := l.Source
	if src == nil {
		src = osScriptSource{}
	}
	source, err := src.Read(name)
	if err != nil {
		return err
	}
	instrs, err := parser.Parse(source)
	if err != nil {
		return err
	}

	for idx, ins := range instrs {
		lbl, ok := ins.(*ast.Label)
		if !ok {
			continue
		}
		start := idx
		fn := func(args []runtime.Value) (runtime.Value, error) {
			child := engine.newChild()
			child.filename = name
			child.program = instrs
			child.discoverLabels()
			child.argv = args
			res, err := child.runRange(start, true)
			if err != nil {
				return nil, err
			}
			if res.value == nil {
				return NewString(""), nil
			}
			return res.value, nil
		}
		if err := engine.RegisterFunction(lbl.Name, fn, as); err != nil {
			return err
		}
	}
	return nil
}
