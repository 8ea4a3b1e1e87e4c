// Package probe samples the return value of a method by invoking it once
// with synthesized arguments.
//
// Sampling is best effort. The probed code runs for real and may have side
// effects; callers accept that in exchange for illustrative output. Every
// failure degrades to "no sample" and never escapes Sample.
package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phobologic/docsgen/internal/docstring"
	"github.com/phobologic/docsgen/internal/model"
	"github.com/phobologic/docsgen/internal/signature"
)

// Arg is one synthesized argument. Keyword is set for keyword-only
// parameters; Literal is Python source for a literal value.
type Arg struct {
	Keyword string `json:"keyword,omitempty"`
	Literal string `json:"literal"`
}

// Request identifies the method to invoke and the arguments to pass.
type Request struct {
	// Root is the scan root; Path is the module file relative to it.
	Root   string `json:"root"`
	Path   string `json:"path"`
	Module string `json:"module"`
	Class  string `json:"class"`
	Method string `json:"method"`
	// Receiver is set when the method takes an implicit receiver, which the
	// prober must synthesize.
	Receiver bool  `json:"receiver"`
	Args     []Arg `json:"args"`
}

// Prober invokes a method and reports the shape of its return value. A nil
// sample with a nil error means the method returned None.
type Prober interface {
	Probe(ctx context.Context, req Request) (*model.Sample, error)
}

// DefaultTimeout bounds a single probe when the Sampler has none set.
const DefaultTimeout = 10 * time.Second

// Sampler runs at most one probe per method.
type Sampler struct {
	Prober  Prober
	Filler  Filler
	Timeout time.Duration
	// Warn receives one message per failed probe. May be nil.
	Warn func(format string, args ...any)
}

// Sample invokes fn on a dummy instance of cls and returns the shape of its
// result. ok is false when no sample is available, either because sampling
// is disabled, the invocation failed, or the method returned None.
func (s *Sampler) Sample(ctx context.Context, mod *model.Module, cls *model.Class, fn *model.Function) (sample *model.Sample, ok bool) {
	if s == nil || s.Prober == nil || mod == nil || cls == nil || fn == nil {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			s.warn(cls, fn, fmt.Errorf("panic: %v", r))
			sample, ok = nil, false
		}
	}()

	req := s.Request(mod, cls, fn)

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := s.Prober.Probe(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			err = fmt.Errorf("timed out after %s", timeout)
		}
		s.warn(cls, fn, err)
		return nil, false
	}
	if res == nil || res.Type == "NoneType" {
		return nil, false
	}
	return res, true
}

// Request builds the probe request for fn: one filler literal per declared
// parameter, receiver excluded. Variadic parameters receive nothing and
// keyword-only parameters are passed by name.
func (s *Sampler) Request(mod *model.Module, cls *model.Class, fn *model.Function) Request {
	filler := s.Filler
	if filler == nil {
		filler = TypedFiller{}
	}

	req := Request{
		Root:     mod.Root,
		Path:     mod.Path,
		Module:   mod.Name,
		Class:    cls.Name,
		Method:   fn.Name,
		Receiver: fn.HasReceiver(),
	}
	declared := signature.Parameters(fn)
	described := signature.Extract(fn, docstring.Docstring{})
	for i, p := range declared {
		switch p.Kind {
		case model.VarPositional, model.VarKeyword:
			continue
		case model.KeywordOnly:
			req.Args = append(req.Args, Arg{Keyword: p.Name, Literal: filler.Fill(described[i].Resolved)})
		default:
			req.Args = append(req.Args, Arg{Literal: filler.Fill(described[i].Resolved)})
		}
	}
	return req
}

func (s *Sampler) warn(cls *model.Class, fn *model.Function, err error) {
	if s.Warn == nil {
		return
	}
	s.Warn("could not get sample return value for %s.%s: %v", cls.Name, fn.Name, err)
}
