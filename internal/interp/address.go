package interp

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/pkg/ident"
	xgxerror "github.com/xgx-io/xgx-error"
)

// DefaultTarget is the target active before any ADDRESS instruction.
// It has no handler: command strings sent to it echo to the output sink.
const DefaultTarget = "default"

// SourceContext tells an ADDRESS handler where the command came from.
type SourceContext struct {
	Line       int
	SourceLine string
	Filename   string
	Command    string
}

// HandlerContext is the context payload passed to an ADDRESS handler.
// Variables is a snapshot clone; mutating it does not affect the program.
// Params carries method-call parameters and is empty for command strings.
type HandlerContext struct {
	Variables map[string]runtime.Value
	Params    map[string]runtime.Value
	Source    SourceContext
}

// AddressHandler executes one command string (or method call) for a
// target. The result may be a plain Go value, a runtime.Value, or a
// mapping shaped as {success, errorCode, errorMessage, rexxVariables, ...}.
type AddressHandler func(command string, ctx *HandlerContext) (any, error)

// TargetMetadata describes the library that registered a target.
type TargetMetadata struct {
	LibraryName     string
	LibraryMetadata map[string]string
	ExportName      string
	// InterpreterHandlesInterpolation asks the engine to interpolate
	// {name} placeholders in the command string before dispatch.
	InterpreterHandlesInterpolation bool
}

// AddressTarget is one registered ADDRESS destination.
type AddressTarget struct {
	Name     string
	Handler  AddressHandler
	Methods  *ident.Map[struct{}]
	Metadata TargetMetadata
}

// HasMethod reports whether the target declares the named method.
func (t *AddressTarget) HasMethod(name string) bool {
	return t.Methods != nil && t.Methods.Has(name)
}

// AddressRegistry owns the ADDRESS handler records. Registration happens
// through REQUIRE (via the library loader) or host setup; after that the
// records are read-only from the engine's perspective.
type AddressRegistry struct {
	targets *ident.Map[*AddressTarget]
}

// NewAddressRegistry creates an empty registry.
func NewAddressRegistry() *AddressRegistry {
	return &AddressRegistry{targets: ident.NewMap[*AddressTarget]()}
}

// Register adds a target under name, applying the optional AS rename.
// Target renames must be literal: a regex AS clause is rejected.
func (r *AddressRegistry) Register(name string, handler AddressHandler, methods []string, meta TargetMetadata, as string) error {
	if as != "" {
		if !isPlainName(as) {
			return newError(CodeHost, "ADDRESS target rename must be a literal name, got %q", as)
		}
		name = as
	}
	if r.targets.Has(name) {
		return newError(CodeHost, "ADDRESS target %q is already registered", name)
	}
	t := &AddressTarget{Name: name, Handler: handler, Metadata: meta, Methods: ident.NewMap[struct{}]()}
	for _, m := range methods {
		t.Methods.Set(m, struct{}{})
	}
	r.targets.Set(name, t)
	return nil
}

// Get returns the target registered under name.
func (r *AddressRegistry) Get(name string) (*AddressTarget, bool) {
	return r.targets.Get(name)
}

var plainNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func isPlainName(s string) bool {
	return plainNameRE.MatchString(s)
}

// resultExclusions lists targets whose handler results never populate
// RESULT. The expectations target is a test-framework convention: its
// handlers assert rather than produce values.
var resultExclusions = map[string]bool{
	"expectations": true,
}

// dispatchCommand sends a command string to the active ADDRESS target and
// propagates RC, RESULT, ERRORTEXT and any returned rexxVariables.
func (i *Interpreter) dispatchCommand(command string, doubleQuoted bool, line int, sourceLine string) error {
	return i.dispatchCommandTo(i.activeTarget, command, doubleQuoted, line, sourceLine)
}

// dispatchCommandTo sends one command to a named target. A target without
// a handler (the default target included) echoes the command SAY-style.
func (i *Interpreter) dispatchCommandTo(targetName, command string, doubleQuoted bool, line int, sourceLine string) error {
	target, ok := i.addresses.Get(targetName)
	if !ok || target.Handler == nil {
		if doubleQuoted {
			command = i.interpolate(command)
		}
		i.output.WriteLine(command)
		i.setRC(0)
		return nil
	}
	return i.invokeHandler(target, command, nil, doubleQuoted, line, sourceLine)
}

// dispatchMethod invokes an ADDRESS method with an empty command string
// and the given parameter payload, returning the method result.
func (i *Interpreter) dispatchMethod(target *AddressTarget, method string, params map[string]runtime.Value, line int, sourceLine string) (runtime.Value, error) {
	ctx := &HandlerContext{
		Variables: i.vars.Snapshot(),
		Params:    params,
		Source: SourceContext{
			Line:       line,
			SourceLine: sourceLine,
			Filename:   i.filename,
			Command:    method,
		},
	}
	i.currentCommand = method
	res, err := target.Handler(method, ctx)
	if err != nil {
		return nil, i.handlerFailure(target, err)
	}
	value := i.applyHandlerResult(target, fromNative(res))
	return value, nil
}

func (i *Interpreter) invokeHandler(target *AddressTarget, command string, params map[string]runtime.Value, doubleQuoted bool, line int, sourceLine string) error {
	if target.Metadata.InterpreterHandlesInterpolation && doubleQuoted {
		command = i.interpolate(command)
	}
	ctx := &HandlerContext{
		Variables: i.vars.Snapshot(),
		Params:    params,
		Source: SourceContext{
			Line:       line,
			SourceLine: sourceLine,
			Filename:   i.filename,
			Command:    command,
		},
	}
	i.currentCommand = command
	res, err := target.Handler(command, ctx)
	if err != nil {
		return i.handlerFailure(target, err)
	}
	i.applyHandlerResult(target, fromNative(res))
	return nil
}

// handlerFailure propagates a handler error into RC/ERRORTEXT and raises
// the ADDRESS failure so SIGNAL ON ERROR can trap it.
func (i *Interpreter) handlerFailure(target *AddressTarget, err error) error {
	rc := 1
	if v, ok := errorField(err, "rc"); ok {
		if n, isInt := v.(int); isInt {
			rc = n
		}
	}
	i.setRC(rc)
	i.vars.Set("ERRORTEXT", NewString(err.Error()))
	return xgxerror.BadRequest(err.Error()).
		Code(CodeAddressFailure).
		With("rc", rc).
		With("target", target.Name)
}

// applyHandlerResult interprets a handler's return value per the handler
// contract and updates RC, RESULT, ERRORTEXT and rexxVariables. It
// returns the value RESULT was (or would have been) set to.
func (i *Interpreter) applyHandlerResult(target *AddressTarget, value runtime.Value) runtime.Value {
	shaped, isShaped := value.(*runtime.MappingValue)
	if isShaped && shaped.Has("success") {
		success, _ := shaped.Get("success")
		if runtime.IsTruthy(success) {
			i.setRC(0)
		} else {
			rc := 1
			if codeVal, ok := shaped.Get("errorCode"); ok {
				if f, numeric := runtime.NumericParse(codeVal); numeric {
					rc = int(f)
				}
			}
			i.setRC(rc)
			if msg, ok := shaped.Get("errorMessage"); ok {
				i.vars.Set("ERRORTEXT", NewString(msg.String()))
			}
		}
		if vars, ok := shaped.Get("rexxVariables"); ok {
			if m, isMap := vars.(*runtime.MappingValue); isMap {
				for _, k := range m.Keys() {
					v, _ := m.Get(k)
					i.vars.Set(k, v)
				}
			}
		}
	} else {
		i.setRC(0)
	}

	if !resultExclusions[ident.Normalize(target.Name)] {
		i.vars.Set("RESULT", value)
	}
	return value
}

// fromNative converts a handler-returned Go value into a runtime value.
func fromNative(v any) runtime.Value {
	switch val := v.(type) {
	case nil:
		return NewString("")
	case runtime.Value:
		return val
	case string:
		return NewString(val)
	case bool:
		return Bool(val)
	case float64:
		return runtime.NewNumber(val)
	case int:
		return runtime.NewNumber(float64(val))
	case int64:
		return runtime.NewNumber(float64(val))
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		// Shaped keys first so {success, result} renders predictably,
		// remaining keys sorted for determinism.
		ordered := orderShapedKeys(keys)
		m := runtime.NewMapping()
		for _, k := range ordered {
			m.Set(k, fromNative(val[k]))
		}
		return m
	case []any:
		seq := &runtime.SequenceValue{}
		for _, e := range val {
			seq.Elements = append(seq.Elements, fromNative(e))
		}
		return seq
	}
	return &runtime.OpaqueValue{Native: v}
}

var shapedKeyOrder = []string{"success", "errorCode", "errorMessage", "result", "rexxVariables"}

func orderShapedKeys(keys []string) []string {
	var ordered []string
	seen := map[string]bool{}
	for _, want := range shapedKeyOrder {
		for _, k := range keys {
			if k == want {
				ordered = append(ordered, k)
				seen[k] = true
			}
		}
	}
	rest := make([]string, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

// interpolate replaces {name} placeholders with the string form of the
// named variable. Unknown names are left as-is.
func (i *Interpreter) interpolate(text string) string {
	var sb strings.Builder
	for {
		start := strings.IndexByte(text, '{')
		if start < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		end := strings.IndexByte(text[start:], '}')
		if end < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		end += start
		name := text[start+1 : end]
		sb.WriteString(text[:start])
		if val, ok := i.vars.ResolveDotted(name); ok {
			sb.WriteString(val.String())
		} else {
			sb.WriteString(text[start : end+1])
		}
		text = text[end+1:]
	}
}
