package runner

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"conveyor/pkg/api"
	"conveyor/pkg/util/context"

	"github.com/pkg/errors"
)

// Invoker executes one inline command step on behalf of a unit. The engine
// only observes the exit status: a nil error is success, anything else fails
// the unit.
type Invoker interface {
	Invoke(ctx context.Context, step api.StepSpec, unit Unit, out io.Writer) error
}

// Action is an external action referenced by a step through `uses`. The
// engine forwards the step inputs and the unit context opaquely.
type Action interface {
	Run(ctx context.Context, with map[string]string, unit Unit, out io.Writer) error
}

// CommandInvoker runs inline commands in a shell, with the unit's resolved
// matrix values exported as MATRIX_<AXIS> environment variables and secrets
// forwarded opaquely.
type CommandInvoker struct {
	// Shell used to interpret commands, "sh" if empty.
	Shell string
}

// Invoke implements Invoker.
func (iv CommandInvoker) Invoke(ctx context.Context, step api.StepSpec, unit Unit, out io.Writer) error {
	shell := iv.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", step.Run)
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.Env = unitEnv(step, unit)

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "step %s", step.Label())
	}
	return nil
}

// unitEnv builds the step environment: the process environment, the unit's
// matrix parameters, job and step env, and secrets. Secret values are passed
// through without ever being logged.
func unitEnv(step api.StepSpec, unit Unit) []string {
	env := os.Environ()
	for k, v := range unit.Params {
		env = append(env, fmt.Sprintf("MATRIX_%s=%s", sanitizeEnvKey(k), v))
	}
	if unit.RunsOn != "" {
		env = append(env, "RUNS_ON="+unit.RunsOn)
	}
	for k, v := range unit.Env {
		env = append(env, k+"="+v)
	}
	for k, v := range step.Env {
		env = append(env, k+"="+v)
	}
	for k, v := range unit.Secrets {
		env = append(env, k+"="+v)
	}
	return env
}

func sanitizeEnvKey(k string) string {
	k = strings.ToUpper(k)
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, k)
}
