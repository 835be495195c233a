package steps

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/apispec"
	"github.com/jingkaihe/skillbox/pkg/implement"
	"github.com/jingkaihe/skillbox/pkg/openspec"
	"github.com/jingkaihe/skillbox/pkg/organizer"
	"github.com/jingkaihe/skillbox/pkg/promptcheck"
	"github.com/jingkaihe/skillbox/pkg/scaffold"
)

// Implement modes.
const (
	ModeAll   = ""
	ModeNext  = "next"
	ModeDone  = "done"
	ModeReset = "reset"
)

func (d *Dispatcher) root(dir string) string {
	if dir == "" {
		return d.workDir
	}
	return dir
}

func (d *Dispatcher) registerBuiltins() {
	register(d, "init", "Initialize an OpenSpec project", d.initProject)
	register(d, "define_principles", "Replace the project constitution", d.definePrinciples)
	register(d, "proposal", "Create a change proposal", d.proposal)
	register(d, "plan", "Write a plan placeholder and return the planning prompt", d.plan)
	register(d, "tasks", "Write a task list placeholder and return the breakdown prompt", d.tasks)
	register(d, "implement", "Walk the pending tasks of a change", d.implement)
	register(d, "archive", "Archive a change and merge its spec delta", d.archive)
	register(d, "clarify", "Return a prompt asking clarifying questions about a proposal", d.clarify)
	register(d, "list_projects", "List OpenSpec projects under a directory", d.listProjects)
	register(d, "fetch", "Fetch an API document from a path or URL", d.fetch)
	register(d, "parse", "Extract info and endpoints from an API document", d.parse)
	register(d, "validate", "Check the structure of an API document", d.validate)
	register(d, "compare", "Diff two API documents", d.compare)
	register(d, "generate_code", "Render a client or server skeleton from an API document", d.generateCode)
	register(d, "generate_docs", "Render documentation from an API document", d.generateDocs)
	register(d, "analyze_prompt", "Score a prompt for a tool-using agent", d.analyzePrompt)
	register(d, "create_mcp_tool", "Write a Go MCP tool stub", d.createMCPTool)
	register(d, "categorize_article", "Return a prompt to categorize a Markdown article", d.categorizeArticle)
	register(d, "summarize_article", "Return a prompt to summarize a Markdown article", d.summarizeArticle)
	register(d, "article_code", "Return a prompt to implement the concept of a Markdown article", d.articleCode)
	register(d, "organize_article", "Move a Markdown article into a category directory", d.organizeArticle)
	register(d, "search_articles", "Find Markdown articles containing a text", d.searchArticles)
}

func (d *Dispatcher) initProject(_ context.Context, p InitParams) (any, error) {
	return openspec.InitProject(d.root(p.ProjectRoot), openspec.InitOptions{
		GitEnabled: p.GitEnabled,
		BaseBranch: p.BaseBranch,
	})
}

func (d *Dispatcher) definePrinciples(_ context.Context, p PrinciplesParams) (any, error) {
	path, err := openspec.DefinePrinciples(d.root(p.ProjectRoot), p.PrinciplesContent)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"success": true,
		"message": "Project principles updated in " + path,
	}, nil
}

func (d *Dispatcher) store(root string) *openspec.Store {
	return openspec.NewStore(d.root(root), d.prompts)
}

func (d *Dispatcher) proposal(ctx context.Context, p ProposalParams) (any, error) {
	return d.store(p.ProjectRoot).Create(ctx, openspec.CreateOptions{
		ChangeID:    p.ChangeID,
		Description: p.Description,
		Force:       p.Force,
	})
}

func (d *Dispatcher) plan(ctx context.Context, p ChangeParams) (any, error) {
	return d.store(p.ProjectRoot).GeneratePlan(ctx, p.ChangeID)
}

func (d *Dispatcher) tasks(ctx context.Context, p ChangeParams) (any, error) {
	return d.store(p.ProjectRoot).BreakdownTasks(ctx, p.ChangeID)
}

func (d *Dispatcher) clarify(ctx context.Context, p ChangeParams) (any, error) {
	return d.store(p.ProjectRoot).Clarify(ctx, p.ChangeID)
}

func (d *Dispatcher) implement(ctx context.Context, p ImplementParams) (any, error) {
	layout := openspec.NewLayout(d.root(p.ProjectRoot))
	opt := implement.WithPrompts(d.prompts)

	switch strings.ToLower(p.Mode) {
	case ModeAll:
		return implement.Events(ctx, layout, p.ChangeID, opt), nil
	case ModeNext:
		return implement.NextStep(ctx, layout, p.ChangeID, opt)
	case ModeDone:
		return implement.CompleteStep(ctx, layout, p.ChangeID, p.SessionID)
	case ModeReset:
		return implement.ResetStep(ctx, layout, p.ChangeID)
	default:
		return nil, errors.Errorf("unknown implement mode %q", p.Mode)
	}
}

func (d *Dispatcher) archive(ctx context.Context, p ChangeParams) (any, error) {
	return openspec.NewArchiver(d.root(p.ProjectRoot)).Archive(ctx, p.ChangeID)
}

func (d *Dispatcher) listProjects(_ context.Context, p ProjectsParams) (any, error) {
	base := d.root(p.BaseDirectory)
	projects, err := openspec.ListProjects(base)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"success":        true,
		"projects":       projects,
		"base_directory": base,
	}, nil
}

func (d *Dispatcher) fetch(ctx context.Context, p FetchParams) (any, error) {
	if err := required("source_path", p.SourcePath); err != nil {
		return nil, err
	}
	return apispec.Fetch(ctx, p.SourcePath, p.SpecFormat)
}

func (d *Dispatcher) parse(_ context.Context, p SpecParams) (any, error) {
	parsed, err := apispec.Parse(p.SpecContent, p.SpecFormat)
	if err != nil {
		return nil, err
	}
	return map[string]any{"parsed_data": parsed}, nil
}

func (d *Dispatcher) validate(_ context.Context, p SpecParams) (any, error) {
	return apispec.Validate(p.SpecContent, p.SpecFormat), nil
}

func (d *Dispatcher) compare(_ context.Context, p CompareParams) (any, error) {
	diff, err := apispec.Compare(p.SpecContentA, p.SpecContentB, p.SpecFormat)
	if err != nil {
		return nil, err
	}
	return map[string]any{"diff_report": diff}, nil
}

func (d *Dispatcher) generateCode(ctx context.Context, p CodegenParams) (any, error) {
	if err := required("target_language", p.TargetLanguage); err != nil {
		return nil, err
	}
	parsed, err := apispec.Parse(p.SpecContent, "")
	if err != nil {
		return nil, err
	}
	return scaffold.NewGenerator(d.prompts).GenerateCode(ctx, parsed, p.TargetLanguage, p.CodeType, p.OutputDir)
}

func (d *Dispatcher) generateDocs(ctx context.Context, p DocsParams) (any, error) {
	parsed, err := apispec.Parse(p.SpecContent, "")
	if err != nil {
		return nil, err
	}
	return scaffold.NewGenerator(d.prompts).GenerateDocs(ctx, parsed, p.DocFormat, p.OutputDir)
}

func (d *Dispatcher) analyzePrompt(_ context.Context, p AnalyzeParams) (any, error) {
	if err := required("prompt", p.Prompt); err != nil {
		return nil, err
	}
	return promptcheck.Analyze(p.Prompt), nil
}

func (d *Dispatcher) createMCPTool(_ context.Context, p ToolParams) (any, error) {
	return scaffold.CreateMCPTool(p.ToolName, p.OutputDir)
}

func (d *Dispatcher) categorizeArticle(ctx context.Context, p ArticleParams) (any, error) {
	if err := required("file_path", p.FilePath); err != nil {
		return nil, err
	}
	return organizer.New(d.prompts).CategorizePrompt(ctx, p.FilePath, p.Categories)
}

func (d *Dispatcher) summarizeArticle(ctx context.Context, p ArticleParams) (any, error) {
	if err := required("file_path", p.FilePath); err != nil {
		return nil, err
	}
	return organizer.New(d.prompts).SummarizePrompt(ctx, p.FilePath)
}

func (d *Dispatcher) articleCode(ctx context.Context, p ArticleParams) (any, error) {
	if err := required("file_path", p.FilePath); err != nil {
		return nil, err
	}
	return organizer.New(d.prompts).CodegenPrompt(ctx, p.FilePath, p.Language)
}

func (d *Dispatcher) organizeArticle(ctx context.Context, p OrganizeParams) (any, error) {
	path, err := organizer.Organize(ctx, p.FilePath, p.Category, d.root(p.BaseDir))
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "new_file_path": path}, nil
}

func (d *Dispatcher) searchArticles(ctx context.Context, p SearchParams) (any, error) {
	results, err := organizer.Search(ctx, p.Query, d.root(p.BaseDir), p.Excludes)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []string{}
	}
	return map[string]any{"results": results}, nil
}
