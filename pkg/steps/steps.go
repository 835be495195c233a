// Package steps dispatches named workflow steps with loosely typed keyword
// arguments, the form used by the `run` command and the MCP server.
package steps

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jingkaihe/skillbox/pkg/logger"
	"github.com/jingkaihe/skillbox/pkg/prompts"
)

// Failure is the result of a step that could not run.
type Failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Step is a registered workflow step.
type Step struct {
	Name        string
	Description string
	schema      func() *jsonschema.Schema
	call        func(ctx context.Context, kwargs map[string]any) (any, error)
}

// Schema returns the JSON schema of the step's keyword arguments.
func (s Step) Schema() *jsonschema.Schema {
	return s.schema()
}

// Dispatcher runs steps by name.
type Dispatcher struct {
	workDir string
	prompts *prompts.Renderer
	steps   map[string]Step
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkDir sets the directory used when a step gets no project_root.
func WithWorkDir(dir string) Option {
	return func(d *Dispatcher) {
		d.workDir = dir
	}
}

// WithPrompts sets the prompt renderer passed to steps.
func WithPrompts(r *prompts.Renderer) Option {
	return func(d *Dispatcher) {
		d.prompts = r
	}
}

// New returns a Dispatcher with every builtin step registered.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{steps: map[string]Step{}}
	for _, opt := range opts {
		opt(d)
	}
	if d.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			d.workDir = wd
		} else {
			d.workDir = "."
		}
	}
	if d.prompts == nil {
		d.prompts = prompts.Builtin()
	}
	d.registerBuiltins()
	return d
}

// Steps returns the registered steps sorted by name.
func (d *Dispatcher) Steps() []Step {
	out := make([]Step, 0, len(d.steps))
	for _, s := range d.steps {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the named step.
func (d *Dispatcher) Lookup(name string) (Step, bool) {
	s, ok := d.steps[name]
	return s, ok
}

// Run executes step with kwargs. It never fails: an unknown step or an error
// is reported as a Failure value.
func (d *Dispatcher) Run(ctx context.Context, step string, kwargs map[string]any) any {
	ctx = logger.WithFields(ctx, logrus.Fields{"step": step})
	log := logger.G(ctx)
	log.WithField("kwargs", kwargs).Debug("dispatching step")

	s, ok := d.steps[step]
	if !ok {
		return Failure{Success: false, Message: fmt.Sprintf("Unknown step: %s", step)}
	}

	if kwargs == nil {
		kwargs = map[string]any{}
	}
	start := time.Now()
	result, err := s.call(ctx, kwargs)
	log = log.WithField("duration", time.Since(start))
	if err != nil {
		log.WithError(err).Debug("step failed")
		return Failure{Success: false, Message: fmt.Sprintf("Error executing step '%s': %s", step, err)}
	}
	log.Debug("step finished")
	return result
}

// register adds a step whose keyword arguments decode into P.
func register[P any](d *Dispatcher, name, description string, fn func(context.Context, P) (any, error)) {
	d.steps[name] = Step{
		Name:        name,
		Description: description,
		schema: func() *jsonschema.Schema {
			reflector := jsonschema.Reflector{
				AllowAdditionalProperties: false,
				DoNotReference:            true,
			}
			var v P
			return reflector.Reflect(v)
		},
		call: func(ctx context.Context, kwargs map[string]any) (any, error) {
			var params P
			if err := decode(kwargs, &params); err != nil {
				return nil, err
			}
			return fn(ctx, params)
		},
	}
}

// decode maps kwargs onto out by json tag. Strings such as "true" or "3"
// convert to the field type; unknown keys are rejected.
func decode(kwargs map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(kwargs); err != nil {
		return errors.Wrap(err, "invalid arguments")
	}
	return nil
}

func required(name, value string) error {
	if value == "" {
		return errors.Errorf("%s is required", name)
	}
	return nil
}
