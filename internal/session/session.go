package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-headshot-pro/internal/generation"
	"github.com/fpang/ai-headshot-pro/internal/ingest"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("session closed")

// Submitter performs a generation. *generation.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req *generation.Request) (*generation.Image, error)
}

// Session runs a Machine for one user. Events are applied one at a time;
// dispatches run on their own goroutine and report back as completion events.
// Superseding an attempt (new image, reset) cancels its context, and its late
// completion is discarded.
type Session struct {
	submitter Submitter
	onChange  func(State)

	mu       sync.Mutex
	machine  *Machine
	changed  chan struct{}
	inflight string
	cancel   context.CancelFunc
	closed   bool
	wg       sync.WaitGroup

	// Snapshots waiting for the delivery goroutine, in change order.
	pending    []State
	wake       chan struct{}
	delivered  chan struct{}
	stopNotify sync.Once
}

// New creates a session in the idle state. onChange, if non-nil, is called
// with a snapshot after every state change, in order, from a single delivery
// goroutine. It may call any Session method except Close.
func New(submitter Submitter, onChange func(State)) *Session {
	s := &Session{
		submitter: submitter,
		onChange:  onChange,
		machine:   NewMachine(),
		changed:   make(chan struct{}),
	}
	if onChange != nil {
		s.wake = make(chan struct{}, 1)
		s.delivered = make(chan struct{})
		go s.deliver()
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// Send applies ev and starts a dispatch if the transition calls for one.
func (s *Session) Send(ev Event) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	dispatch, err := s.machine.Handle(ev)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.supersede()
	if dispatch != nil {
		s.start(dispatch)
	}
	s.bump()
	s.mu.Unlock()
	return nil
}

// Ingest replaces the session's image.
func (s *Session) Ingest(asset *ingest.ImageAsset) error {
	return s.Send(ImageIngested{Asset: asset})
}

// SelectStyle picks a preset by ID.
func (s *Session) SelectStyle(id string) error {
	return s.Send(SelectStyle{ID: id})
}

// SetCustomPrompt stores the custom style description.
func (s *Session) SetCustomPrompt(text string) error {
	return s.Send(SetCustomPrompt{Text: text})
}

// Generate starts a generation. It returns without waiting for the result.
func (s *Session) Generate() error {
	return s.Send(StartGenerate{})
}

// Dismiss clears the current result or error and keeps the image.
func (s *Session) Dismiss() error {
	return s.Send(DismissResult{})
}

// Reset clears everything and cancels any in-flight generation.
func (s *Session) Reset() error {
	return s.Send(Reset{})
}

// Wait blocks until the session is not processing and returns that state.
func (s *Session) Wait(ctx context.Context) (State, error) {
	for {
		s.mu.Lock()
		st := s.machine.State()
		ch := s.changed
		s.mu.Unlock()

		if !st.Busy() {
			return st, nil
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// Close cancels any in-flight generation, waits for its goroutine and
// flushes pending change notifications.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()

	if s.wake != nil {
		s.stopNotify.Do(func() { close(s.wake) })
		<-s.delivered
	}
}

// start launches d. Caller holds s.mu.
func (s *Session) start(d *Dispatch) {
	ctx, cancel := context.WithCancel(context.Background())
	s.inflight = d.Attempt
	s.cancel = cancel

	log.Info().
		Str("attempt", d.Attempt).
		Str("style", d.Request.StyleID).
		Msg("Dispatching headshot generation")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		start := time.Now()
		img, err := s.submitter.Submit(ctx, d.Request)

		var ev Event = GenerationSucceeded{Attempt: d.Attempt, Image: img}
		if err != nil {
			ev = GenerationFailed{Attempt: d.Attempt, Err: err}
		}
		s.complete(d.Attempt, ev, time.Since(start))
	}()
}

func (s *Session) complete(attempt string, ev Event, elapsed time.Duration) {
	s.mu.Lock()
	_, err := s.machine.Handle(ev)
	if s.inflight == attempt {
		s.cancel()
		s.inflight = ""
		s.cancel = nil
	}
	if err != nil {
		s.mu.Unlock()
		log.Debug().
			Err(err).
			Str("attempt", attempt).
			Dur("elapsed", elapsed).
			Msg("Discarded generation result")
		return
	}
	snapshot := s.bump()
	s.mu.Unlock()

	log.Info().
		Str("attempt", attempt).
		Str("phase", snapshot.Phase.String()).
		Dur("elapsed", elapsed).
		Msg("Headshot generation finished")
}

// supersede cancels the in-flight dispatch if the machine has moved on from
// it. Caller holds s.mu.
func (s *Session) supersede() {
	if s.inflight == "" || s.machine.State().Attempt == s.inflight {
		return
	}
	log.Info().Str("attempt", s.inflight).Msg("Canceling superseded generation")
	s.cancel()
	s.inflight = ""
	s.cancel = nil
}

// bump wakes waiters and queues the new snapshot for onChange. Caller holds
// s.mu.
func (s *Session) bump() State {
	close(s.changed)
	s.changed = make(chan struct{})
	st := s.machine.State()
	if s.wake != nil {
		s.pending = append(s.pending, st)
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
	return st
}

// deliver runs onChange for queued snapshots without holding any session
// lock, so the callback can send events of its own.
func (s *Session) deliver() {
	defer close(s.delivered)
	for range s.wake {
		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, st := range batch {
			s.onChange(st)
		}
	}
}
