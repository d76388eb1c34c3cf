package build

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"
	"time"

	"github.com/apex/log"
	"github.com/eldev/eldev/cli/util"
	"github.com/otiai10/copy"
)

const (
	// envEnvironment is set for the build command to the build environment.
	envEnvironment = "ELDEV_ENVIRONMENT"
	// envOutputPath is set for the build command to the output directory.
	envOutputPath = "ELDEV_OUTPUT_PATH"
)

// Builder describes how an application is built and watched.
// A Builder is a template: every Start produces an independent WatchedBuild.
type Builder struct {
	// ProjectDir is the build command working directory.
	ProjectDir string
	// Command is the build command. Each element is a text/template with
	// {{.Environment}} and {{.OutputPath}} fields. A single element
	// containing spaces is executed by the shell.
	Command []string
	// WatchDirs are directories watched for changes. Missing ones are skipped.
	WatchDirs []string
	// Ignore is a list of glob patterns matched against project-relative
	// slash-separated paths with a leading slash.
	Ignore []string
	// Debounce is a quiet period after the last change before a rebuild.
	Debounce time.Duration
	// AssetsDir is copied into the output directory after each build pass.
	AssetsDir string
	// ShowOutput streams build command output instead of capturing it.
	ShowOutput bool
	// OnRebuild is called after every rebuild pass triggered by a change.
	OnRebuild func(err error)
}

// templateData is the build command template context.
type templateData struct {
	Environment string
	OutputPath  string
}

// Error is a failed build pass.
type Error struct {
	// Output is the captured build command output.
	Output []byte
	// Err is the cause.
	Err error
}

// Error returns error message.
func (e *Error) Error() string {
	return fmt.Sprintf("build failed: %s", e.Err)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// expandCommand instantiates the build command templates.
func expandCommand(command []string, data templateData) ([]string, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("build command is not set")
	}

	args := make([]string, 0, len(command))
	for _, arg := range command {
		tmpl, err := template.New("command").Option("missingkey=error").Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse build command %q: %w", arg, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("failed to instantiate build command %q: %w", arg, err)
		}
		args = append(args, buf.String())
	}
	return args, nil
}

// newCommand creates an exec.Cmd for the build command.
func newCommand(args []string) *exec.Cmd {
	if len(args) == 1 && strings.ContainsAny(args[0], " \t") {
		return exec.Command("sh", "-c", args[0])
	}
	return exec.Command(args[0], args[1:]...)
}

// runPass runs the build command once and copies the assets into the output.
func (b *Builder) runPass(args []string, data templateData) error {
	cmd := newCommand(args)
	cmd.Env = append(os.Environ(),
		envEnvironment+"="+data.Environment,
		envOutputPath+"="+data.OutputPath)

	log.Debugf("Running build command: %s", cmd.String())
	output, err := util.RunCommand(cmd, b.ProjectDir, b.ShowOutput)
	if err != nil {
		return &Error{Output: output, Err: err}
	}

	if b.AssetsDir != "" && util.IsDir(b.AssetsDir) {
		log.Debugf("Copying %q to %q", b.AssetsDir, data.OutputPath)
		if err := copy.Copy(b.AssetsDir, data.OutputPath); err != nil {
			return &Error{Err: fmt.Errorf("assets copying failed: %w", err)}
		}
	}

	return nil
}
