// Package shell runs external tools with inherited standard streams.
//
// Commands are plain values built by pure functions; the Runner interface
// separates what to run from how to run it, so tests can record planned
// invocations without spawning processes.
package shell

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"github.com/qiniu/x/log"
	"golang.org/x/sys/unix"
)

// Command is one planned external tool invocation.
type Command struct {
	Tool string
	Args []string
	Dir  string   // working directory; empty means the process cwd
	Env  []string // full environment; nil inherits the process env
}

// New builds a Command for tool with the given arguments.
func New(tool string, args ...string) Command {
	return Command{Tool: tool, Args: args}
}

// In returns a copy of the command with the working directory set.
func (c Command) In(dir string) Command {
	c.Dir = dir
	return c
}

// WithEnv returns a copy of the command with the environment set.
func (c Command) WithEnv(env []string) Command {
	c.Env = env
	return c
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Tool
	}
	return c.Tool + " " + strings.Join(c.Args, " ")
}

// Runner executes commands. The production implementation is ExecRunner;
// tests substitute a recording fake.
type Runner interface {
	Run(cmd Command) error
}

// ToolError reports a tool that exited with a non-zero status. The exit
// code is propagated as the process exit status of the whole run.
type ToolError struct {
	Tool string
	Code int
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

// ErrInterrupted reports that an interrupt arrived while a child process
// was running. The run stops without being treated as a tool failure.
var ErrInterrupted = errors.New("interrupted")

// ExecRunner runs commands synchronously with inherited stdio, so tool
// output streams live in whatever order the tools produce it.
type ExecRunner struct{}

func (ExecRunner) Run(cmd Command) error {
	log.Infof("Running: %s", cmd)

	c := exec.Command(cmd.Tool, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, unix.SIGINT, unix.SIGTERM)
	defer signal.Stop(sigc)

	if err := c.Start(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Tool, err)
	}

	done := make(chan error, 1)
	go func() { done <- c.Wait() }()

	select {
	case <-sigc:
		// The terminal delivers the signal to the child as well; it is
		// already on its way down. Stop waiting and surface the outcome.
		return ErrInterrupted
	case err := <-done:
		if err == nil {
			return nil
		}
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			return &ToolError{Tool: cmd.Tool, Code: exit.ExitCode()}
		}
		return fmt.Errorf("%s: %w", cmd.Tool, err)
	}
}
