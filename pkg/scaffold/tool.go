package scaffold

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ToolResult describes a generated MCP tool stub.
type ToolResult struct {
	Name     string `json:"tool_name"`
	TypeName string `json:"type_name"`
	Package  string `json:"package"`
	Path     string `json:"output_path"`
}

// CreateMCPTool writes <name>_tool.go into outDir (the working directory
// when empty). The Go package name is taken from the directory when it is a
// valid identifier, otherwise "tools". The file is made executable.
func CreateMCPTool(name, outDir string) (*ToolResult, error) {
	if name == "" {
		return nil, errors.Wrap(ErrInvalidName, "tool name cannot be empty")
	}
	if !toolNamePattern.MatchString(name) {
		return nil, errors.Wrapf(ErrInvalidName, "'%s'", name)
	}

	if outDir == "" {
		outDir = "."
	}
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve output directory")
	}

	pkg := filepath.Base(abs)
	if !packagePattern.MatchString(pkg) {
		pkg = "tools"
	}

	result := &ToolResult{
		Name:     name,
		TypeName: Pascal(name) + "Tool",
		Package:  pkg,
	}

	content, err := render("mcp_tool.go.tmpl", result)
	if err != nil {
		return nil, err
	}

	result.Path, err = writeOutput(outDir, name+"_tool.go", content, 0o755)
	if err != nil {
		return nil, err
	}
	// WriteFile only applies the mode when it creates the file.
	if err := os.Chmod(result.Path, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to make %s executable", result.Path)
	}
	return result, nil
}
