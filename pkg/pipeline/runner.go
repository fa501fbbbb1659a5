package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cytopush/pkg/containment"
	"github.com/matzehuels/cytopush/pkg/cyjs"
	"github.com/matzehuels/cytopush/pkg/cyrest"
	"github.com/matzehuels/cytopush/pkg/errors"
	"github.com/matzehuels/cytopush/pkg/observability"
	"github.com/matzehuels/cytopush/pkg/style"
)

// API is the subset of the CyREST surface a push run needs.
// [*cyrest.Client] implements it.
type API interface {
	CreateNetwork(ctx context.Context, doc *cyjs.Document) (int64, error)
	ApplyLayout(ctx context.Context, layout string, suid int64) error
	DeleteStyles(ctx context.Context) error
	CreateStyle(ctx context.Context, s style.Document) (string, error)
	ApplyStyle(ctx context.Context, title string, suid int64) error
}

// Result describes a push run. On failure it holds whatever was reached.
type Result struct {
	RunID       string
	NetworkSUID int64  // Zero until the network is created
	StyleTitle  string // Title assigned by the server
	Completed   []State
	State       State // StateStyleApplied, StateFailed, or StateIdle if nothing was sent
	Filter      containment.Result
	Duration    time.Duration
}

// Final returns the last state reached.
func (r *Result) Final() State {
	if len(r.Completed) == 0 {
		return StateIdle
	}
	return r.Completed[len(r.Completed)-1]
}

// Runner executes push runs against one server with one configuration.
type Runner struct {
	cfg    Config
	api    API
	logger *log.Logger
}

// New creates a Runner backed by a [cyrest.Client] for cfg.BaseURL.
func New(cfg Config, logger *log.Logger, opts ...cyrest.Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	opts = append([]cyrest.Option{cyrest.WithLogger(logger)}, opts...)
	client, err := cyrest.NewClient(cfg.BaseURL, opts...)
	if err != nil {
		return nil, err
	}
	return NewRunner(client, cfg, logger)
}

// NewRunner creates a Runner using api. The config is deep-copied; later
// changes to the caller's value, including its style, have no effect.
func NewRunner(api API, cfg Config, logger *log.Logger) (*Runner, error) {
	if api == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "nil API")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	cfg.Style = cfg.Style.Clone()
	return &Runner{cfg: cfg, api: api, logger: logger}, nil
}

// Config returns a copy of the runner's configuration.
func (r *Runner) Config() Config {
	cfg := r.cfg
	cfg.Style = cfg.Style.Clone()
	return cfg
}

// Run loads the document at path and pushes it. Load and validation errors
// are returned before any request is sent.
func (r *Runner) Run(ctx context.Context, path string) (*Result, error) {
	doc, err := cyjs.ImportJSON(path)
	if err != nil {
		return nil, err
	}
	return r.Push(ctx, doc)
}

// Push filters doc to the configured target and publishes the result.
//
// An empty filter result fails with NOTHING_TO_RENDER and sends nothing.
// A failing step returns a [*StepError] together with the partial Result.
func (r *Runner) Push(ctx context.Context, doc *cyjs.Document) (*Result, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil document")
	}

	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logger := r.logger.With("run", res.RunID[:8])

	filtered, err := r.cfg.Filter(doc)
	res.Filter = filtered
	nodes, edges := filtered.Size()
	observability.Push().OnFilter(ctx, res.RunID, r.cfg.Target, nodes, edges)
	if err != nil {
		return res, err
	}
	logger.Info("filtered", "target", r.cfg.Target, "nodes", nodes, "edges", edges)

	ctx = cyrest.WithRequestID(ctx, res.RunID)
	s := &session{runner: r, res: res, logger: logger}

	c, err := s.createNetwork(ctx, res.Filter.Doc)
	if err != nil {
		return s.fail(start, err)
	}
	if c, err = s.applyLayout(ctx, c); err != nil {
		return s.fail(start, err)
	}
	if c, err = s.clearStyles(ctx, c); err != nil {
		return s.fail(start, err)
	}
	reg, err := s.registerStyle(ctx, c)
	if err != nil {
		return s.fail(start, err)
	}
	if _, err = s.applyStyle(ctx, reg); err != nil {
		return s.fail(start, err)
	}

	res.Duration = time.Since(start)
	logger.Info("push complete", "suid", res.NetworkSUID, "style", res.StyleTitle, "duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// session carries the state of a single run between transitions.
type session struct {
	runner *Runner
	res    *Result
	logger *log.Logger
}

// step runs one transition into next, emitting hooks and recording it.
func (s *session) step(ctx context.Context, next State, fn func() error) error {
	name := next.String()
	observability.Push().OnStepStart(ctx, s.res.RunID, name)
	s.logger.Debug("step", "state", name)

	start := time.Now()
	err := fn()
	observability.Push().OnStepComplete(ctx, s.res.RunID, name, time.Since(start), err)
	if err != nil {
		return &StepError{State: next, Completed: append([]State(nil), s.res.Completed...), Err: err}
	}
	s.res.State = next
	s.res.Completed = append(s.res.Completed, next)
	return nil
}

func (s *session) fail(start time.Time, err error) (*Result, error) {
	s.res.State = StateFailed
	s.res.Duration = time.Since(start)
	if se, ok := err.(*StepError); ok && se.Reached() != StateIdle {
		s.logger.Warn("push aborted, earlier steps are not rolled back",
			"failed", se.State, "reached", se.Reached(), "suid", s.res.NetworkSUID)
	}
	return s.res, err
}

func (s *session) createNetwork(ctx context.Context, doc *cyjs.Document) (created, error) {
	var out created
	err := s.step(ctx, StateNetworkCreated, func() error {
		suid, err := s.runner.api.CreateNetwork(ctx, doc)
		if err != nil {
			return err
		}
		out.suid = suid
		s.res.NetworkSUID = suid
		s.logger.Info("network created", "suid", suid)
		return nil
	})
	return out, err
}

func (s *session) applyLayout(ctx context.Context, in created) (created, error) {
	layout := s.runner.cfg.Layout
	err := s.step(ctx, StateLayoutApplied, func() error {
		if err := s.runner.api.ApplyLayout(ctx, layout, in.suid); err != nil {
			return err
		}
		s.logger.Info("layout applied", "layout", layout, "suid", in.suid)
		return nil
	})
	return in, err
}

func (s *session) clearStyles(ctx context.Context, in created) (created, error) {
	err := s.step(ctx, StateStylesCleared, func() error {
		return s.runner.api.DeleteStyles(ctx)
	})
	return in, err
}

func (s *session) registerStyle(ctx context.Context, in created) (registered, error) {
	out := registered{suid: in.suid}
	err := s.step(ctx, StateStyleRegistered, func() error {
		title, err := s.runner.api.CreateStyle(ctx, s.runner.cfg.Style)
		if err != nil {
			return err
		}
		if title != s.runner.cfg.Style.Title {
			s.logger.Debug("server renamed style", "requested", s.runner.cfg.Style.Title, "title", title)
		}
		out.title = title
		s.res.StyleTitle = title
		return nil
	})
	return out, err
}

func (s *session) applyStyle(ctx context.Context, in registered) (registered, error) {
	err := s.step(ctx, StateStyleApplied, func() error {
		if err := s.runner.api.ApplyStyle(ctx, in.title, in.suid); err != nil {
			return err
		}
		s.logger.Info("style applied", "style", in.title, "suid", in.suid)
		return nil
	})
	return in, err
}
