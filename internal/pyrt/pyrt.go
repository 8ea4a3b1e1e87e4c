// Package pyrt drives a Python interpreter to load modules and probe
// methods. Each operation runs the embedded helper script in a fresh child
// process, so every module executes in its own namespace.
package pyrt

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/phobologic/docsgen/internal/discover"
	"github.com/phobologic/docsgen/internal/model"
	"github.com/phobologic/docsgen/internal/probe"
)

//go:embed helper.py
var helperSource string

// ErrNoInterpreter is returned by Find when no usable Python is installed.
var ErrNoInterpreter = errors.New("no Python 3 interpreter found")

// Minimum supported interpreter version.
const (
	minMajor = 3
	minMinor = 8
)

// DefaultLoadTimeout bounds the execution of one module.
const DefaultLoadTimeout = 30 * time.Second

// ScriptError is a Python exception reported by the helper.
type ScriptError struct {
	Op  string
	Msg string
}

func (e *ScriptError) Error() string {
	return e.Msg
}

// Find returns the interpreter to use. An explicit python command is checked
// as given; otherwise python3 and then python are tried.
func Find(ctx context.Context, python string) (string, error) {
	candidates := []string{"python3", "python"}
	if python != "" {
		candidates = []string{python}
	}

	var found []string
	for _, c := range candidates {
		path, err := exec.LookPath(c)
		if err != nil {
			continue
		}
		out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
		if err != nil {
			continue
		}
		version := strings.TrimSpace(string(out))
		if supported(version) {
			return path, nil
		}
		found = append(found, version)
	}
	if len(found) > 0 {
		return "", fmt.Errorf("%w: need Python %d.%d or later, found %s", ErrNoInterpreter, minMajor, minMinor, strings.Join(found, ", "))
	}
	return "", ErrNoInterpreter
}

func supported(version string) bool {
	var major, minor int
	if _, err := fmt.Sscanf(version, "Python %d.%d", &major, &minor); err != nil {
		return false
	}
	return major > minMajor || (major == minMajor && minor >= minMinor)
}

// Runtime runs the helper with one interpreter.
type Runtime struct {
	Python      string
	LoadTimeout time.Duration
}

// New returns a Runtime for the interpreter at python.
func New(python string) *Runtime {
	return &Runtime{Python: python, LoadTimeout: DefaultLoadTimeout}
}

type response struct {
	OK       bool            `json:"ok"`
	Error    string          `json:"error"`
	Bindings []model.Binding `json:"bindings"`
	Sample   *model.Sample   `json:"sample"`
}

// Load executes root/rel and returns its top-level bindings in namespace
// order.
func (r *Runtime) Load(ctx context.Context, root, rel string) ([]model.Binding, error) {
	timeout := r.LoadTimeout
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := r.call(ctx, "load", root, rel, discover.ModuleName(rel))
	if err != nil {
		return nil, err
	}
	return resp.Bindings, nil
}

// Probe invokes one method as described by req. The deadline comes from ctx.
func (r *Runtime) Probe(ctx context.Context, req probe.Request) (*model.Sample, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := r.call(ctx, "probe", string(data))
	if err != nil {
		return nil, err
	}
	return resp.Sample, nil
}

func (r *Runtime) call(ctx context.Context, op string, args ...string) (*response, error) {
	cmd := exec.CommandContext(ctx, r.Python, append([]string{"-c", helperSource, op}, args...)...)
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("python %s: %w", op, ctx.Err())
	}

	resp, err := decode(stdout.Bytes())
	if err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("python %s: %w: %s", op, runErr, lastLine(stderr.Bytes()))
		}
		return nil, fmt.Errorf("python %s: %w", op, err)
	}
	if !resp.OK {
		return nil, &ScriptError{Op: op, Msg: resp.Error}
	}
	return resp, nil
}

// decode parses the last line of helper output.
func decode(out []byte) (*response, error) {
	line := lastLine(out)
	if line == "" {
		return nil, errors.New("no output from helper")
	}
	var resp response
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return nil, fmt.Errorf("decoding helper output: %w", err)
	}
	return &resp, nil
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
