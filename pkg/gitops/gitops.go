// Package gitops runs the handful of git subcommands used to keep a feature
// branch in step with a change proposal. Every command shells out to the
// system git binary; a non-zero exit is reported as a *SoftFailure so callers
// can surface it without aborting their own work.
package gitops

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/logger"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 30 * time.Second

// FeatureBranchPrefix is prepended to a change id to form its branch name.
const FeatureBranchPrefix = "feature/"

var (
	// ErrGitNotFound is returned when no git binary is on PATH.
	ErrGitNotFound = errors.New("git executable not found")
	// ErrNotRepository is returned when the directory is not inside a work tree.
	ErrNotRepository = errors.New("not a git repository")
)

// SoftFailure describes a git command that exited non-zero.
type SoftFailure struct {
	Command string
	Stderr  string
	Err     error
}

func (f *SoftFailure) Error() string {
	if f.Stderr == "" {
		return fmt.Sprintf("git %s: %v", f.Command, f.Err)
	}
	return fmt.Sprintf("git %s: %s", f.Command, f.Stderr)
}

func (f *SoftFailure) Unwrap() error { return f.Err }

// IsSoftFailure reports whether err came from a failed git command.
func IsSoftFailure(err error) bool {
	var sf *SoftFailure
	return errors.As(err, &sf)
}

// Runner executes git inside Dir.
type Runner struct {
	Dir     string
	Timeout time.Duration
}

// New returns a Runner rooted at dir.
func New(dir string) *Runner {
	return &Runner{Dir: dir, Timeout: DefaultTimeout}
}

// Open returns a Runner for dir after checking that git is installed and dir
// is inside a work tree.
func Open(ctx context.Context, dir string) (*Runner, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, ErrGitNotFound
	}
	r := New(dir)
	if !r.IsRepo(ctx) {
		return nil, errors.Wrapf(ErrNotRepository, "%s", dir)
	}
	return r, nil
}

func (r *Runner) run(ctx context.Context, args ...string) (string, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return "", ErrGitNotFound
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"LC_ALL=C",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := logger.G(ctx).WithField("args", strings.Join(args, " "))
	log.Debug("running git")

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = errors.Errorf("timed out after %s", timeout)
		}
		failure := &SoftFailure{
			Command: strings.Join(args, " "),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
		log.WithError(failure).Debug("git command failed")
		return "", failure
	}

	return strings.TrimRight(stdout.String(), "\n\r"), nil
}

// IsRepo reports whether Dir is inside a git work tree.
func (r *Runner) IsRepo(ctx context.Context) bool {
	out, err := r.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when detached.
func (r *Runner) CurrentBranch(ctx context.Context) (string, error) {
	return r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// BranchExists reports whether a local branch called name exists.
func (r *Runner) BranchExists(ctx context.Context, name string) bool {
	_, err := r.run(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// CreateAndSwitch checks out name, creating it from HEAD if necessary.
func (r *Runner) CreateAndSwitch(ctx context.Context, name string) error {
	if r.BranchExists(ctx, name) {
		return r.Switch(ctx, name)
	}
	_, err := r.run(ctx, "checkout", "-b", name)
	return err
}

// Switch checks out an existing branch.
func (r *Runner) Switch(ctx context.Context, name string) error {
	_, err := r.run(ctx, "checkout", name)
	return err
}

// Add stages paths.
func (r *Runner) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	_, err := r.run(ctx, args...)
	return err
}

// Commit records the staged changes with message.
func (r *Runner) Commit(ctx context.Context, message string) error {
	_, err := r.run(ctx, "commit", "-m", message)
	return err
}

// DeleteBranch removes a local branch. Unmerged branches are kept and the
// refusal is returned as a SoftFailure.
func (r *Runner) DeleteBranch(ctx context.Context, name string) error {
	_, err := r.run(ctx, "branch", "-d", name)
	return err
}

// ForceDeleteBranch removes a local branch whether or not it is merged.
func (r *Runner) ForceDeleteBranch(ctx context.Context, name string) error {
	_, err := r.run(ctx, "branch", "-D", name)
	return err
}

// DefaultBaseBranch returns configured when set, otherwise the first of
// "main" or "master" that exists, falling back to "main".
func (r *Runner) DefaultBaseBranch(ctx context.Context, configured string) string {
	if configured != "" {
		return configured
	}
	for _, candidate := range []string{"main", "master"} {
		if r.BranchExists(ctx, candidate) {
			return candidate
		}
	}
	return "main"
}
