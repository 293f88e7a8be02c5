package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/jonwraymond/dotools/exec"
	"github.com/jonwraymond/dotools/workspace"
)

// Namespace is the catalog namespace of every tool in the set.
const Namespace = "stata"

// Tool names.
const (
	ToolBrowse      = "browse_do_files"
	ToolRead        = "read_do_file"
	ToolWrite       = "write_do_file"
	ToolEdit        = "edit_do_file"
	ToolTemplate    = "generate_do_template"
	ToolRun         = "run_do_file"
	ToolRunSelected = "run_do_selected_lines"
)

// Extension is the file extension browse_do_files lists.
const Extension = ".do"

// Errors returned by Options validation.
var (
	ErrWorkspaceRequired = errors.New("tools: Workspace is required")
	ErrExecutorRequired  = errors.New("tools: Executor is required")
)

// Options configures a Toolset.
type Options struct {
	// Workspace resolves and accesses do-files.
	// Required.
	Workspace *workspace.Workspace

	// Executor runs whole files and selected lines.
	// Required.
	Executor *exec.Executor

	// Locks serializes mutations of one path. Pass the executor's Locks.
	// Default: a private Locks.
	Locks *workspace.Locks

	// Logger receives one entry per tool call.
	// Default: no-op logger.
	Logger *zap.Logger

	// Now dates generated templates.
	// Default: time.Now
	Now func() time.Time
}

func (o *Options) validate() error {
	if o.Workspace == nil {
		return ErrWorkspaceRequired
	}
	if o.Executor == nil {
		return ErrExecutorRequired
	}
	return nil
}

func (o *Options) applyDefaults() {
	if o.Locks == nil {
		o.Locks = &workspace.Locks{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// entry pairs a catalog record with the closure that installs its handler.
type entry struct {
	tool     model.Tool
	register func(*mcp.Server)
}

// Toolset is the catalog of do-file tools and their handlers.
//
// Contract:
// - Concurrency: safe for concurrent use once constructed.
// - Errors: handlers report failures as IsError text results, never as
//   transport errors.
type Toolset struct {
	opts    Options
	entries map[string]entry
}

// New creates a Toolset with the given options.
func New(opts Options) (*Toolset, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	ts := &Toolset{opts: opts, entries: make(map[string]entry)}
	ts.define()
	return ts, nil
}

// addTool records a typed handler under def's name. The input schema is
// inferred from In for the catalog; arguments are decoded by the handler so
// that malformed values come back as validation failures.
func addTool[In any](ts *Toolset, def mcp.Tool, tags []string, h toolFunc[In]) {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("tools: input schema for %s: %v", def.Name, err))
	}
	def.InputSchema = schema

	tool := model.Tool{
		Tool:      def,
		Namespace: Namespace,
		Tags:      model.NormalizeTags(tags),
	}
	ts.entries[def.Name] = entry{
		tool: tool,
		register: func(s *mcp.Server) {
			t := tool.Tool
			s.AddTool(&t, logged(ts.opts.Logger, def.Name, handler(h)))
		},
	}
}

// toolFunc is the typed form of a tool handler. A non-nil out becomes the
// structured content of the result.
type toolFunc[In any] func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error)

// handler adapts h to the raw handler signature.
func handler[In any](h toolFunc[In]) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := decode[In](req.Params.Arguments)
		if err != nil {
			return failure(err), nil
		}
		res, out, err := h(ctx, req, in)
		if err != nil {
			return failure(err), nil
		}
		if res == nil {
			res = &mcp.CallToolResult{}
		}
		if out != nil {
			res.StructuredContent = out
		}
		return res, nil
	}
}

// decode unmarshals tool arguments into In. A value of the wrong JSON type is
// reported against the parameter that carried it.
func decode[In any](args json.RawMessage) (In, error) {
	var in In
	if len(args) == 0 || string(args) == "null" {
		return in, nil
	}
	if err := json.Unmarshal(args, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			param := typeErr.Field
			if param == "" {
				param = "arguments"
			}
			return in, invalid(param, "want %s, got %s", jsonKind(typeErr.Type), typeErr.Value)
		}
		return in, invalid("arguments", "%v", err)
	}
	return in, nil
}

// jsonKind names t the way a JSON schema would.
func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.String()
	}
}

// Tools returns the catalog sorted by name.
func (ts *Toolset) Tools() []model.Tool {
	out := make([]model.Tool, 0, len(ts.entries))
	for _, e := range ts.entries {
		out = append(out, e.tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Register installs every tool on server.
func (ts *Toolset) Register(server *mcp.Server) {
	for _, t := range ts.Tools() {
		ts.entries[t.Name].register(server)
	}
}

// logged wraps h with a debug entry per call and a warning per failure.
func logged(log *zap.Logger, name string, h mcp.ToolHandler) mcp.ToolHandler {
	log = log.With(zap.String("tool", name))
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		res, err := h(ctx, req)
		fields := []zap.Field{zap.Duration("duration", time.Since(start))}
		switch {
		case err != nil:
			log.Warn("tool call failed", append(fields, zap.Error(err))...)
		case res != nil && res.IsError:
			log.Warn("tool call returned failure", append(fields, zap.String("result", resultText(res)))...)
		default:
			log.Debug("tool call", fields...)
		}
		return res, err
	}
}

// resultText joins the text content of res.
func resultText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
