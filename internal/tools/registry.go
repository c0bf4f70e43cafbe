package tools

import (
	"fmt"
	"sort"

	openai "github.com/sashabaranov/go-openai"
)

// Handler executes a tool with its parsed arguments. It returns plain text;
// a returned error is converted to an "error: ..." result by Dispatch.
type Handler func(params map[string]interface{}, workingDir string) (string, error)

// Param describes a single tool parameter.
type Param struct {
	Type     string // "string", "number", or "boolean"
	Optional bool
}

// Definition declares a tool: its schema as shown to the model, and the
// handler that runs it.
type Definition struct {
	Name        string
	Description string
	Params      map[string]Param
	Handler     Handler
}

// Registry holds the fixed set of available tools. It is built once at
// startup and never mutated afterwards.
type Registry struct {
	defs  map[string]Definition
	order []string
}

func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]Definition)}

	r.register(Definition{
		Name:        "read",
		Description: "Read a file as text with 1-based line numbers. Optionally limit to a line range.",
		Params: map[string]Param{
			"path":   {Type: "string"},
			"offset": {Type: "number", Optional: true},
			"limit":  {Type: "number", Optional: true},
		},
		Handler: Read,
	})
	r.register(Definition{
		Name:        "write",
		Description: "Create or overwrite a file with the given content.",
		Params: map[string]Param{
			"path":    {Type: "string"},
			"content": {Type: "string"},
		},
		Handler: Write,
	})
	r.register(Definition{
		Name:        "edit",
		Description: "Replace an exact text match in a file. Set all=true to replace every occurrence.",
		Params: map[string]Param{
			"path": {Type: "string"},
			"old":  {Type: "string"},
			"new":  {Type: "string"},
			"all":  {Type: "boolean", Optional: true},
		},
		Handler: Edit,
	})
	r.register(Definition{
		Name:        "glob",
		Description: "Find files matching a glob pattern (* ? **), most recently modified first.",
		Params: map[string]Param{
			"pattern": {Type: "string"},
			"path":    {Type: "string", Optional: true},
		},
		Handler: Glob,
	})
	r.register(Definition{
		Name:        "grep",
		Description: "Search file contents for a regular expression. Returns path:line:content matches.",
		Params: map[string]Param{
			"pattern": {Type: "string"},
			"path":    {Type: "string", Optional: true},
		},
		Handler: Grep,
	})
	r.register(Definition{
		Name:        "bash",
		Description: "Run a shell command and return its output. Times out after 30 seconds.",
		Params: map[string]Param{
			"cmd": {Type: "string"},
		},
		Handler: Bash,
	})
	r.register(Definition{
		Name:        "diff",
		Description: "Show uncommitted changes, optionally scoped to one path.",
		Params: map[string]Param{
			"path": {Type: "string", Optional: true},
		},
		Handler: Diff,
	})
	r.register(Definition{
		Name:        "undo",
		Description: "Discard uncommitted changes to a file, restoring the committed version.",
		Params: map[string]Param{
			"path": {Type: "string"},
		},
		Handler: Undo,
	})

	return r
}

func (r *Registry) register(def Definition) {
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Get returns the definition for a tool name.
func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Definitions serializes every tool into the request schema format. The
// registry is immutable, so the output is identical on every call; it is
// regenerated rather than cached to keep that property obvious.
func (r *Registry) Definitions() []openai.Tool {
	out := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		def := r.defs[name]
		props := make(map[string]interface{}, len(def.Params))
		// Initialized so an all-optional tool marshals "required" as [],
		// not null.
		required := []string{}
		for pname, p := range def.Params {
			typ := p.Type
			if typ == "number" {
				typ = "integer"
			}
			props[pname] = map[string]interface{}{"type": typ}
			if !p.Optional {
				required = append(required, pname)
			}
		}
		sort.Strings(required)
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters: map[string]interface{}{
					"type":       "object",
					"properties": props,
					"required":   required,
				},
			},
		})
	}
	return out
}

// Dispatch looks up and runs a tool. Failures never propagate: an unknown
// tool or a handler error becomes an "error: ..." result so the model sees
// the failure as ordinary tool output.
func (r *Registry) Dispatch(name string, params map[string]interface{}, workingDir string) string {
	def, ok := r.defs[name]
	if !ok {
		return fmt.Sprintf("error: unknown tool %q", name)
	}
	result, err := def.Handler(params, workingDir)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return result
}
