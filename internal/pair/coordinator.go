// Package pair runs two image generations side by side and joins them.
package pair

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmorgan81/pairgen/internal/image"
	"github.com/dmorgan81/pairgen/internal/log"
)

type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// State is what the presentation layer sees.
type State struct {
	Left      []byte
	Right     []byte
	Busy      bool
	LastError string
}

type Option func(*Coordinator)

// WithObserver registers fn to receive a snapshot after every state change.
// Snapshots arrive in mutation order; fn must not call back into the Coordinator.
func WithObserver(fn func(State)) Option {
	return func(c *Coordinator) {
		c.observers = append(c.observers, fn)
	}
}

type Coordinator struct {
	generator image.Generator
	observers []func(State)

	mu     sync.Mutex
	state  State
	rounds int
}

func New(generator image.Generator, opts ...Option) *Coordinator {
	c := &Coordinator{generator: generator}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate starts one round and returns a channel closed once both sides have
// finished, successfully or not. Overlapping rounds are not rejected; Busy stays
// set until every started round has finished.
func (c *Coordinator) Generate(ctx context.Context, left, right string) <-chan struct{} {
	logger := log.FromContextOrDiscard(ctx).WithGroup("pair").With("left", left, "right", right)
	logger.Info("starting round")

	c.update(func(s *State) {
		c.rounds++
		s.Busy = true
	})

	done := make(chan struct{})
	j := newJoin(2, func() {
		c.update(func(s *State) {
			c.rounds--
			s.Busy = c.rounds > 0
		})
		logger.Info("round finished")
		close(done)
	})

	prompts := [...]string{Left: left, Right: right}
	for side, prompt := range prompts {
		go func(side Side, prompt string) {
			defer j.arrive()
			resp, err := c.generator.Generate(ctx, prompt)
			c.complete(logger.With("side", side.String()), side, resp, err)
		}(Side(side), prompt)
	}
	return done
}

func (c *Coordinator) complete(logger *slog.Logger, side Side, resp *image.Response, err error) {
	if err != nil {
		logger.Error("generation failed", "error", err)
		c.update(func(s *State) {
			s.LastError = err.Error()
		})
		return
	}

	data, ok := resp.FirstImage()
	if !ok {
		logger.Warn("response carried no decodable image")
		return
	}
	c.update(func(s *State) {
		if side == Left {
			s.Left = data
		} else {
			s.Right = data
		}
	})
}

// State returns a copy of the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Busy reports whether any started round has yet to finish.
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Busy
}

func (c *Coordinator) update(fn func(*State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
	if len(c.observers) == 0 {
		return
	}
	snap := c.snapshot()
	for _, o := range c.observers {
		o(snap)
	}
}

func (c *Coordinator) snapshot() State {
	return State{
		Left:      slices.Clone(c.state.Left),
		Right:     slices.Clone(c.state.Right),
		Busy:      c.state.Busy,
		LastError: c.state.LastError,
	}
}
