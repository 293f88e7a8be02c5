package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func boolPtr(b bool) *bool { return &b }

// define fills the catalog.
func (ts *Toolset) define() {
	addTool(ts, mcp.Tool{
		Name:        ToolBrowse,
		Title:       "Browse do-files",
		Description: "List the Stata do-files in a directory with their size and modification time.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, []string{"files", "read"}, ts.browse)

	addTool(ts, mcp.Tool{
		Name:        ToolRead,
		Title:       "Read do-file",
		Description: "Return the full text of a Stata do-file.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true, OpenWorldHint: boolPtr(false)},
	}, []string{"files", "read"}, ts.read)

	addTool(ts, mcp.Tool{
		Name:        ToolWrite,
		Title:       "Write do-file",
		Description: "Write a Stata do-file. The previous version is backed up unless create_backup is false.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: boolPtr(true), IdempotentHint: true, OpenWorldHint: boolPtr(false)},
	}, []string{"files", "write"}, ts.write)

	addTool(ts, mcp.Tool{
		Name:  ToolEdit,
		Title: "Edit do-file",
		Description: "Insert code into a section of a Stata do-file. Operations: " +
			"add_variable (variable_name, definition, label?) inserts after the data preprocessing marker; " +
			"add_analysis (analysis_type, specification) inserts after the analysis marker; " +
			"insert_section (section, content, position?) inserts before or after any section marker. " +
			"The file is backed up before it is changed.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: boolPtr(false), OpenWorldHint: boolPtr(false)},
	}, []string{"edit", "sections", "write"}, ts.edit)

	addTool(ts, mcp.Tool{
		Name:        ToolTemplate,
		Title:       "Generate do-file template",
		Description: "Write a skeleton do-file with setup, logging and every section marker, with command hints drawn from the description.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: boolPtr(true), OpenWorldHint: boolPtr(false)},
	}, []string{"template", "write"}, ts.generate)

	addTool(ts, mcp.Tool{
		Name:        ToolRun,
		Title:       "Run do-file",
		Description: "Run a whole do-file in Stata batch mode and return its log output. A non-zero exit is reported with success=false.",
		Annotations: &mcp.ToolAnnotations{OpenWorldHint: boolPtr(true)},
	}, []string{"execute", "stata"}, ts.runFile)

	addTool(ts, mcp.Tool{
		Name:  ToolRunSelected,
		Title: "Run selected lines",
		Description: "Run lines start_line through end_line (1-based, inclusive) of a do-file. " +
			"The lines are copied into a temporary do-file with baseline setup if needed, run, and the temporary files removed.",
		Annotations: &mcp.ToolAnnotations{OpenWorldHint: boolPtr(true)},
	}, []string{"execute", "stata", "selection"}, ts.runSelected)
}
