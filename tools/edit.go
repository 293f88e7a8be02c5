package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/dotools/script"
	"github.com/jonwraymond/dotools/template"
)

// Edit operations accepted by edit_do_file.
const (
	OpAddVariable   = "add_variable"
	OpAddAnalysis   = "add_analysis"
	OpInsertSection = "insert_section"
)

// EditInput is the input of edit_do_file.
type EditInput struct {
	FilePath  string     `json:"file_path,omitempty" jsonschema:"path of the do-file to edit"`
	Operation string     `json:"operation,omitempty" jsonschema:"one of add_variable, add_analysis, insert_section"`
	Params    EditParams `json:"params,omitempty" jsonschema:"operation parameters"`
}

// EditParams holds the parameters of every edit operation; each operation
// reads its own subset.
type EditParams struct {
	// add_variable
	VariableName string `json:"variable_name,omitempty" jsonschema:"add_variable: name of the new variable"`
	Definition   string `json:"definition,omitempty" jsonschema:"add_variable: statement that creates the variable"`
	Label        string `json:"label,omitempty" jsonschema:"add_variable: optional variable label"`

	// add_analysis
	AnalysisType  string `json:"analysis_type,omitempty" jsonschema:"add_analysis: short name of the analysis"`
	Specification string `json:"specification,omitempty" jsonschema:"add_analysis: estimation commands"`

	// insert_section
	Section  string `json:"section,omitempty" jsonschema:"insert_section: setup, data_load, preprocessing, descriptive, analysis or output"`
	Content  string `json:"content,omitempty" jsonschema:"insert_section: lines to insert"`
	Position string `json:"position,omitempty" jsonschema:"insert_section: before or after the marker; defaults to after"`
}

// TemplateInput is the input of generate_do_template.
type TemplateInput struct {
	Description string `json:"description,omitempty" jsonschema:"what the analysis is about; used for the title and command hints"`
	OutputPath  string `json:"output_path,omitempty" jsonschema:"where to write the generated do-file"`
}

// editFunc applies one edit to the text of a do-file.
type editFunc func(text string) (string, error)

// editFor validates the parameters of op and returns the edit to apply.
func editFor(op string, p EditParams) (editFunc, error) {
	switch op {
	case OpAddVariable:
		if strings.TrimSpace(p.VariableName) == "" {
			return nil, missing("params.variable_name")
		}
		if strings.TrimSpace(p.Definition) == "" {
			return nil, missing("params.definition")
		}
		return func(text string) (string, error) {
			return script.AddVariable(text, p.VariableName, p.Definition, p.Label)
		}, nil

	case OpAddAnalysis:
		if strings.TrimSpace(p.AnalysisType) == "" {
			return nil, missing("params.analysis_type")
		}
		if strings.TrimSpace(p.Specification) == "" {
			return nil, missing("params.specification")
		}
		return func(text string) (string, error) {
			return script.AddAnalysis(text, p.AnalysisType, p.Specification)
		}, nil

	case OpInsertSection:
		if strings.TrimSpace(p.Section) == "" {
			return nil, missing("params.section")
		}
		if strings.TrimSpace(p.Content) == "" {
			return nil, missing("params.content")
		}
		section, err := script.ParseSection(p.Section)
		if err != nil {
			return nil, err
		}
		pos, err := script.ParsePosition(p.Position)
		if err != nil {
			return nil, invalid("params.position", "%v", err)
		}
		return func(text string) (string, error) {
			return script.InsertSection(text, section, p.Content, pos)
		}, nil

	case "":
		return nil, missing("operation")
	default:
		return nil, invalid("operation", "unknown operation %q (want %s, %s or %s)", op, OpAddVariable, OpAddAnalysis, OpInsertSection)
	}
}

func (ts *Toolset) edit(_ context.Context, _ *mcp.CallToolRequest, in EditInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.FilePath) == "" {
		return failure(missing("file_path")), nil, nil
	}
	apply, err := editFor(in.Operation, in.Params)
	if err != nil {
		return failure(err), nil, nil
	}

	ws := ts.opts.Workspace
	full := ws.Resolve(in.FilePath)

	unlock := ts.opts.Locks.Lock(full)
	defer unlock()

	before, err := ws.ReadText(full)
	if err != nil {
		return failure(err), nil, nil
	}
	after, err := apply(before)
	if err != nil {
		return failure(err), nil, nil
	}
	backupPath, err := ws.SaveWithBackup(full, after, true)
	if err != nil {
		return failure(err), nil, nil
	}

	msg := saved(fmt.Sprintf("Applied %s to", in.Operation), full, backupPath)
	return text(msg + "\n\n" + after), nil, nil
}

func (ts *Toolset) generate(_ context.Context, _ *mcp.CallToolRequest, in TemplateInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.Description) == "" {
		return failure(missing("description")), nil, nil
	}
	if strings.TrimSpace(in.OutputPath) == "" {
		return failure(missing("output_path")), nil, nil
	}

	ws := ts.opts.Workspace
	full := ws.Resolve(in.OutputPath)
	content := template.Generate(in.Description, ts.opts.Now())

	unlock := ts.opts.Locks.Lock(full)
	defer unlock()

	backupPath, err := ws.SaveWithBackup(full, content, true)
	if err != nil {
		return failure(err), nil, nil
	}
	return text(saved("Generated template", full, backupPath) + "\n\n" + content), nil, nil
}
