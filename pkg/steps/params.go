package steps

// InitParams are the arguments of the init step.
type InitParams struct {
	ProjectRoot string `json:"project_root,omitempty" jsonschema:"description=Project root directory (defaults to the working directory)"`
	GitEnabled  bool   `json:"git_enabled,omitempty" jsonschema:"description=Enable git integration for proposals and archiving"`
	BaseBranch  string `json:"base_branch,omitempty" jsonschema:"description=Branch to return to when a change is archived"`
}

// PrinciplesParams are the arguments of the define_principles step.
type PrinciplesParams struct {
	PrinciplesContent string `json:"principles_content" jsonschema:"description=Markdown content of the project constitution"`
	ProjectRoot       string `json:"project_root,omitempty" jsonschema:"description=Project root directory"`
}

// ProposalParams are the arguments of the proposal step.
type ProposalParams struct {
	ChangeID    string `json:"change_id" jsonschema:"description=Identifier of the change"`
	Description string `json:"proposed_changes_description" jsonschema:"description=Description of the proposed changes"`
	ProjectRoot string `json:"project_root,omitempty" jsonschema:"description=Project root directory"`
	Force       bool   `json:"force,omitempty" jsonschema:"description=Overwrite an existing proposal"`
}

// ChangeParams are the arguments of steps that act on one change.
type ChangeParams struct {
	ChangeID    string `json:"change_id" jsonschema:"description=Identifier of the change"`
	ProjectRoot string `json:"project_root,omitempty" jsonschema:"description=Project root directory"`
}

// ImplementParams are the arguments of the implement step.
type ImplementParams struct {
	ChangeID    string `json:"change_id" jsonschema:"description=Identifier of the change"`
	ProjectRoot string `json:"project_root,omitempty" jsonschema:"description=Project root directory"`
	Mode        string `json:"mode,omitempty" jsonschema:"description=Leave empty to run every task in one call or use next and done to drive one task at a time and reset to drop an outstanding task"`
	SessionID   string `json:"session_id,omitempty" jsonschema:"description=Session returned by mode next; checked by mode done"`
}

// FetchParams are the arguments of the fetch step.
type FetchParams struct {
	SourcePath string `json:"source_path" jsonschema:"description=Local path or http(s) URL of the API document"`
	SpecFormat string `json:"spec_format,omitempty" jsonschema:"description=Format hint such as json or yaml"`
}

// SpecParams are the arguments of the parse and validate steps.
type SpecParams struct {
	SpecContent string `json:"spec_content" jsonschema:"description=API document in JSON or YAML"`
	SpecFormat  string `json:"spec_format,omitempty" jsonschema:"description=Format hint such as json or yaml"`
}

// CompareParams are the arguments of the compare step.
type CompareParams struct {
	SpecContentA string `json:"spec_content_a" jsonschema:"description=Old API document"`
	SpecContentB string `json:"spec_content_b" jsonschema:"description=New API document"`
	SpecFormat   string `json:"spec_format,omitempty" jsonschema:"description=Format hint such as json or yaml"`
}

// CodegenParams are the arguments of the generate_code step.
type CodegenParams struct {
	SpecContent    string `json:"spec_content" jsonschema:"description=API document in JSON or YAML"`
	TargetLanguage string `json:"target_language" jsonschema:"description=Language of the skeleton (go or python)"`
	CodeType       string `json:"code_type,omitempty" jsonschema:"description=Kind of skeleton such as client or server"`
	OutputDir      string `json:"output_dir,omitempty" jsonschema:"description=Directory for the generated file"`
}

// DocsParams are the arguments of the generate_docs step.
type DocsParams struct {
	SpecContent string `json:"spec_content" jsonschema:"description=API document in JSON or YAML"`
	DocFormat   string `json:"doc_format,omitempty" jsonschema:"description=Markdown or HTML"`
	OutputDir   string `json:"output_dir,omitempty" jsonschema:"description=Directory for the generated file"`
}

// ProjectsParams are the arguments of the list_projects step.
type ProjectsParams struct {
	BaseDirectory string `json:"base_directory,omitempty" jsonschema:"description=Directory to scan for projects"`
}

// AnalyzeParams are the arguments of the analyze_prompt step.
type AnalyzeParams struct {
	Prompt string `json:"prompt" jsonschema:"description=Prompt to analyze"`
}

// ToolParams are the arguments of the create_mcp_tool step.
type ToolParams struct {
	ToolName  string `json:"tool_name" jsonschema:"description=Snake case tool name"`
	OutputDir string `json:"output_dir,omitempty" jsonschema:"description=Directory for the generated file"`
}

// ArticleParams are the arguments of the Markdown article prompt steps.
type ArticleParams struct {
	FilePath   string   `json:"file_path" jsonschema:"description=Markdown article"`
	Categories []string `json:"categories,omitempty" jsonschema:"description=Suggested categories for categorize_article"`
	Language   string   `json:"language,omitempty" jsonschema:"description=Target language for article_code"`
}

// OrganizeParams are the arguments of the organize_article step.
type OrganizeParams struct {
	FilePath string `json:"file_path" jsonschema:"description=Markdown article to move"`
	Category string `json:"category" jsonschema:"description=Category directory name"`
	BaseDir  string `json:"base_dir,omitempty" jsonschema:"description=Directory holding the category directories"`
}

// SearchParams are the arguments of the search_articles step.
type SearchParams struct {
	Query    string   `json:"query" jsonschema:"description=Case-insensitive text to look for"`
	BaseDir  string   `json:"base_dir,omitempty" jsonschema:"description=Directory to search"`
	Excludes []string `json:"excludes,omitempty" jsonschema:"description=Glob patterns of paths to skip"`
}
