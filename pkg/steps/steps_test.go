package steps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillbox/pkg/apispec"
	"github.com/jingkaihe/skillbox/pkg/implement"
	"github.com/jingkaihe/skillbox/pkg/openspec"
	"github.com/jingkaihe/skillbox/pkg/promptcheck"
)

func newDispatcher(t *testing.T) (*Dispatcher, string) {
	t.Helper()
	root := t.TempDir()
	return New(WithWorkDir(root)), root
}

func mustRun(t *testing.T, d *Dispatcher, step string, kwargs map[string]any) any {
	t.Helper()
	result := d.Run(context.Background(), step, kwargs)
	if f, ok := result.(Failure); ok {
		t.Fatalf("step %s failed: %s", step, f.Message)
	}
	return result
}

func TestRunUnknownStep(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.Run(context.Background(), "nope", nil)
	assert.Equal(t, Failure{Success: false, Message: "Unknown step: nope"}, result)
}

func TestRunRejectsUnknownArguments(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.Run(context.Background(), "init", map[string]any{"bogus": 1})
	f, ok := result.(Failure)
	require.True(t, ok)
	assert.Contains(t, f.Message, "Error executing step 'init': invalid arguments")
}

func TestRunReportsStepErrors(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.Run(context.Background(), "archive", map[string]any{"change_id": "missing"})
	f, ok := result.(Failure)
	require.True(t, ok)
	assert.Contains(t, f.Message, "Error executing step 'archive':")
	assert.Contains(t, f.Message, "not found")
}

func TestInitDefaultsToWorkDirAndDecodesLooseTypes(t *testing.T) {
	d, root := newDispatcher(t)

	result := mustRun(t, d, "init", map[string]any{"git_enabled": "true"})
	res, ok := result.(*openspec.InitResult)
	require.True(t, ok)
	assert.True(t, res.Success)
	assert.Contains(t, res.Created, openspec.NewLayout(root).ConfigPath())

	cfg, err := openspec.LoadConfig(root)
	require.NoError(t, err)
	assert.True(t, cfg.GitIntegration.Enabled)
}

func TestProposalWorkflow(t *testing.T) {
	d, root := newDispatcher(t)
	layout := openspec.NewLayout(root)

	mustRun(t, d, "init", nil)
	mustRun(t, d, "define_principles", map[string]any{"principles_content": "# Rules\n\nKeep it small.\n"})

	created := mustRun(t, d, "proposal", map[string]any{
		"change_id":                    "add-login",
		"proposed_changes_description": "Add a login page",
	}).(*openspec.CreateResult)
	assert.Equal(t, layout.ChangeDir("add-login"), created.Path)

	require.NoError(t, os.WriteFile(layout.TasksPath("add-login"), []byte("- [ ] Build form\n- [ ] Write unit tests\n"), 0o644))

	events := mustRun(t, d, "implement", map[string]any{"change_id": "add-login"}).([]implement.Event)
	require.Len(t, events, 6)
	assert.Equal(t, "Starting implementation of 2 pending tasks for change_id 'add-login'.", events[0].Message)
	assert.Equal(t, "Build form", events[1].Task)
	assert.Contains(t, events[1].Prompt, "Keep it small.")
	assert.Equal(t, "Task 'Build form' marked as complete.", events[2].Message)
	assert.Equal(t, "All tasks for change_id 'add-login' have been completed.", events[5].Message)

	archived := mustRun(t, d, "archive", map[string]any{"change_id": "add-login"}).(*openspec.ArchiveResult)
	assert.True(t, archived.Success)
	assert.FileExists(t, layout.MainSpecPath("add-login"))
	assert.NoDirExists(t, layout.ChangeDir("add-login"))
}

func TestImplementStepModes(t *testing.T) {
	d, root := newDispatcher(t)
	layout := openspec.NewLayout(root)

	mustRun(t, d, "init", nil)
	mustRun(t, d, "proposal", map[string]any{"change_id": "c1", "proposed_changes_description": "x"})
	require.NoError(t, os.WriteFile(layout.TasksPath("c1"), []byte("- [ ] One\n"), 0o644))

	next := mustRun(t, d, "implement", map[string]any{"change_id": "c1", "mode": "next"}).(*implement.StepResult)
	require.NotNil(t, next.Payload)
	assert.Equal(t, "One", next.Payload.Task)

	again := d.Run(context.Background(), "implement", map[string]any{"change_id": "c1", "mode": "next"})
	assert.IsType(t, Failure{}, again)

	done := mustRun(t, d, "implement", map[string]any{
		"change_id":  "c1",
		"mode":       "done",
		"session_id": next.SessionID,
	}).(*implement.StepResult)
	assert.True(t, done.Finished)
	assert.Equal(t, 0, done.Remaining)

	bad := d.Run(context.Background(), "implement", map[string]any{"change_id": "c1", "mode": "later"})
	f, ok := bad.(Failure)
	require.True(t, ok)
	assert.Contains(t, f.Message, `unknown implement mode "later"`)
}

func TestImplementStepResetAfterRewordedTask(t *testing.T) {
	d, root := newDispatcher(t)
	layout := openspec.NewLayout(root)

	mustRun(t, d, "init", nil)
	mustRun(t, d, "proposal", map[string]any{"change_id": "c1", "proposed_changes_description": "x"})
	require.NoError(t, os.WriteFile(layout.TasksPath("c1"), []byte("- [ ] Write login\n"), 0o644))

	next := mustRun(t, d, "implement", map[string]any{"change_id": "c1", "mode": "next"}).(*implement.StepResult)
	require.NoError(t, os.WriteFile(layout.TasksPath("c1"), []byte("- [ ] Write login page\n"), 0o644))

	stuck := d.Run(context.Background(), "implement", map[string]any{"change_id": "c1", "mode": "done", "session_id": next.SessionID})
	assert.IsType(t, Failure{}, stuck)
	assert.IsType(t, Failure{}, d.Run(context.Background(), "implement", map[string]any{"change_id": "c1", "mode": "next"}))

	reset := mustRun(t, d, "implement", map[string]any{"change_id": "c1", "mode": "reset"}).(*implement.StepResult)
	assert.True(t, reset.Success)

	again := mustRun(t, d, "implement", map[string]any{"change_id": "c1", "mode": "next"}).(*implement.StepResult)
	require.NotNil(t, again.Payload)
	assert.Equal(t, "Write login page", again.Payload.Task)

	done := mustRun(t, d, "implement", map[string]any{"change_id": "c1", "mode": "done", "session_id": again.SessionID}).(*implement.StepResult)
	assert.True(t, done.Finished)
}

func TestListProjects(t *testing.T) {
	d, root := newDispatcher(t)
	_, err := openspec.InitProject(filepath.Join(root, "svc"), openspec.InitOptions{})
	require.NoError(t, err)

	result := mustRun(t, d, "list_projects", nil).(map[string]any)
	assert.Equal(t, true, result["success"])
	assert.Equal(t, root, result["base_directory"])
	assert.Equal(t, []openspec.Project{{Name: "svc", Root: filepath.Join(root, "svc")}}, result["projects"])
}

func TestSpecSteps(t *testing.T) {
	d, root := newDispatcher(t)
	doc := `{"openapi": "3.0.0", "info": {"title": "Demo", "version": "1"}, "paths": {"/a": {"get": {"summary": "A"}}}}`

	parsed := mustRun(t, d, "parse", map[string]any{"spec_content": doc}).(map[string]any)
	assert.Contains(t, parsed["parsed_data"].(*apispec.Parsed).Endpoints, "/a")

	v := mustRun(t, d, "validate", map[string]any{"spec_content": doc}).(*apispec.Validation)
	assert.True(t, v.Valid)

	diff := mustRun(t, d, "compare", map[string]any{"spec_content_a": doc, "spec_content_b": doc}).(map[string]any)
	assert.False(t, diff["diff_report"].(*apispec.Diff).HasChanges)

	out := filepath.Join(root, "gen")
	mustRun(t, d, "generate_code", map[string]any{"spec_content": doc, "target_language": "go", "output_dir": out})
	assert.FileExists(t, filepath.Join(out, "demo_client.go"))

	mustRun(t, d, "generate_docs", map[string]any{"spec_content": doc, "output_dir": out})
	assert.FileExists(t, filepath.Join(out, "demo_docs.markdown"))

	missing := d.Run(context.Background(), "generate_code", map[string]any{"spec_content": doc})
	assert.IsType(t, Failure{}, missing)
}

func TestAnalyzeAndScaffoldSteps(t *testing.T) {
	d, root := newDispatcher(t)

	a := mustRun(t, d, "analyze_prompt", map[string]any{"prompt": "Run the build script"}).(*promptcheck.Analysis)
	assert.Equal(t, "3/3", a.Score)

	mustRun(t, d, "create_mcp_tool", map[string]any{"tool_name": "ping", "output_dir": root})
	assert.FileExists(t, filepath.Join(root, "ping_tool.go"))
}

func TestArticleSteps(t *testing.T) {
	d, root := newDispatcher(t)
	article := filepath.Join(root, "heap.md")
	require.NoError(t, os.WriteFile(article, []byte("# Heaps\n\nA priority queue.\n"), 0o644))

	found := mustRun(t, d, "search_articles", map[string]any{"query": "PRIORITY"}).(map[string]any)
	assert.Equal(t, []string{article}, found["results"])

	mustRun(t, d, "categorize_article", map[string]any{"file_path": article, "categories": []any{"Data Structures"}})
	mustRun(t, d, "summarize_article", map[string]any{"file_path": article})
	mustRun(t, d, "article_code", map[string]any{"file_path": article, "language": "Go"})

	moved := mustRun(t, d, "organize_article", map[string]any{"file_path": article, "category": "DS"}).(map[string]any)
	assert.Equal(t, filepath.Join(root, "DS", "heap.md"), moved["new_file_path"])
}

func TestStepsAndSchemas(t *testing.T) {
	d, _ := newDispatcher(t)

	names := []string{}
	for _, s := range d.Steps() {
		names = append(names, s.Name)
		assert.NotEmpty(t, s.Description, s.Name)
	}
	for _, want := range []string{
		"init", "define_principles", "proposal", "plan", "tasks", "implement", "archive",
		"fetch", "parse", "validate", "generate_code", "generate_docs", "compare", "clarify",
		"list_projects", "analyze_prompt", "create_mcp_tool",
	} {
		assert.Contains(t, names, want)
	}

	s, ok := d.Lookup("proposal")
	require.True(t, ok)
	schema := s.Schema()
	assert.ElementsMatch(t, []string{"change_id", "proposed_changes_description"}, schema.Required)
	_, hasRoot := schema.Properties.Get("project_root")
	assert.True(t, hasRoot)
}
