// Package tools adapts platform client functions into LLM-callable tools:
// a name, a description, a JSON schema for the arguments, and a handler
// that always answers with an Outcome.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler runs a tool with raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) Outcome

// Tool is one registered tool.
type Tool struct {
	Name        string
	Description string
	Schema      json.RawMessage
	handler     Handler
}

// MCP returns the tool definition in MCP form.
func (t *Tool) MCP() mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Schema)
}

// Registry is an ordered set of tools. It is built once at startup and
// read-only afterwards.
type Registry struct {
	tools  []*Tool
	byName map[string]*Tool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Tool)}
}

var (
	validate  = validator.New(validator.WithRequiredStructEnabled())
	reflector = &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	// inlineReflector serves unnamed argument types, which have no
	// definition entry to expand.
	inlineReflector = &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
)

// SchemaFor reflects the JSON schema of an argument struct.
func SchemaFor[T any]() json.RawMessage {
	var zero T
	r := reflector
	if reflect.TypeOf(zero).Name() == "" {
		r = inlineReflector
	}
	s := r.Reflect(&zero)
	s.Version = ""
	s.ID = ""
	data, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("tools: reflecting schema for %T: %v", zero, err))
	}
	// Function-calling runtimes reject object schemas without properties.
	var m map[string]any
	if err := json.Unmarshal(data, &m); err == nil {
		if _, ok := m["properties"]; !ok {
			m["properties"] = map[string]any{}
			if patched, err := json.Marshal(m); err == nil {
				data = patched
			}
		}
	}
	return data
}

// Register adds fn under name. The argument schema is reflected from T;
// arguments are decoded strictly and validated before fn runs. Registering
// a name twice panics.
func Register[T any](r *Registry, name, description string, fn func(ctx context.Context, args T) (any, error)) {
	handler := func(ctx context.Context, raw json.RawMessage) Outcome {
		var args T
		if err := decodeArgs(raw, &args); err != nil {
			return Failed(&ValidationError{Msg: fmt.Sprintf("invalid arguments for %s: %v", name, err)})
		}
		if err := validate.Struct(args); err != nil {
			if _, ok := err.(*validator.InvalidValidationError); !ok {
				return Failed(&ValidationError{Msg: fmt.Sprintf("invalid arguments for %s: %v", name, err)})
			}
		}
		data, err := fn(ctx, args)
		if err != nil {
			return Failed(err)
		}
		return Succeeded(data)
	}
	r.add(&Tool{Name: name, Description: description, Schema: SchemaFor[T](), handler: handler})
}

func (r *Registry) add(t *Tool) {
	if _, dup := r.byName[t.Name]; dup {
		panic("tools: duplicate tool " + t.Name)
	}
	r.tools = append(r.tools, t)
	r.byName[t.Name] = t
}

func decodeArgs(raw json.RawMessage, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.Decode(&struct{}{}) != io.EOF {
		return fmt.Errorf("trailing data after arguments")
	}
	return nil
}

// Call runs the named tool. Unknown tools fail with a validation outcome.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) Outcome {
	t, ok := r.byName[name]
	if !ok {
		return Failed(&ValidationError{Msg: fmt.Sprintf("unknown tool %q", name)})
	}
	return t.handler(ctx, args)
}

// Get returns the named tool.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// List returns the tools in registration order.
func (r *Registry) List() []*Tool {
	return append([]*Tool(nil), r.tools...)
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for _, t := range r.tools {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// Filter returns a registry holding the tools whose names match any
// include pattern and no exclude pattern. An empty include list keeps
// everything. Patterns use doublestar syntax.
func (r *Registry) Filter(include, exclude []string) (*Registry, error) {
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid tool pattern %q", p)
		}
	}
	out := NewRegistry()
	for _, t := range r.tools {
		if len(include) > 0 && !matchAny(include, t.Name) {
			continue
		}
		if matchAny(exclude, t.Name) {
			continue
		}
		out.add(t)
	}
	return out, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(strings.TrimSpace(p), name); ok {
			return true
		}
	}
	return false
}
