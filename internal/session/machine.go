package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-headshot-pro/internal/generation"
	"github.com/fpang/ai-headshot-pro/internal/presets"
)

// User-facing messages set on the error phase.
const (
	MsgEmptyCustomPrompt = "Please enter a description for your custom style."
	MsgGenerationFailed  = "Failed to generate image. Please try again."
)

var (
	// ErrBusy is returned for input changes while a generation is in flight.
	ErrBusy = errors.New("a generation is already in progress")

	// ErrStaleAttempt is returned for a completion whose attempt has been
	// superseded. The event is discarded.
	ErrStaleAttempt = errors.New("completion for a superseded attempt")
)

// Dispatch is a request the caller must submit. The result comes back as
// GenerationSucceeded or GenerationFailed carrying the same Attempt.
type Dispatch struct {
	Attempt string
	Request *generation.Request
}

// Machine is the pure transition function of a session. It performs no I/O
// and is not safe for concurrent use; Session serialises access to it.
type Machine struct {
	state State
	newID func() string
}

// NewMachine returns a machine in the initial idle state.
func NewMachine() *Machine {
	return &Machine{
		state: initialState(),
		newID: uuid.NewString,
	}
}

func initialState() State {
	return State{
		Phase:   PhaseIdle,
		StyleID: presets.Default().ID,
	}
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	return m.state
}

// Handle applies ev. A non-nil Dispatch means a generation must be started.
// An error means ev was rejected and the state is unchanged.
func (m *Machine) Handle(ev Event) (*Dispatch, error) {
	switch ev := ev.(type) {
	case ImageIngested:
		if ev.Asset == nil {
			return nil, generation.ErrMissingImage
		}
		m.state.Asset = ev.Asset
		m.toIdle()
		return nil, nil

	case SelectStyle:
		if m.state.Busy() {
			return nil, ErrBusy
		}
		p, ok := presets.Find(ev.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", generation.ErrUnknownStyle, ev.ID)
		}
		m.state.StyleID = p.ID
		return nil, nil

	case SetCustomPrompt:
		if m.state.Busy() {
			return nil, ErrBusy
		}
		m.state.CustomPrompt = ev.Text
		return nil, nil

	case StartGenerate:
		return m.startGenerate()

	case GenerationSucceeded:
		if err := m.checkAttempt(ev.Attempt); err != nil {
			return nil, err
		}
		if ev.Image == nil {
			m.toError(MsgGenerationFailed)
			return nil, nil
		}
		m.state.Phase = PhaseCompleted
		m.state.ErrorMessage = ""
		m.state.Result = ev.Image
		return nil, nil

	case GenerationFailed:
		if err := m.checkAttempt(ev.Attempt); err != nil {
			return nil, err
		}
		m.toError(FailureMessage(ev.Err))
		return nil, nil

	case DismissResult:
		if m.state.Phase == PhaseCompleted || m.state.Phase == PhaseError {
			m.toIdle()
		}
		return nil, nil

	case Reset:
		m.state = initialState()
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown event %T", ev)
	}
}

func (m *Machine) startGenerate() (*Dispatch, error) {
	if m.state.Busy() {
		log.Debug().Str("attempt", m.state.Attempt).Msg("Generate ignored: already processing")
		return nil, nil
	}
	if m.state.Asset == nil {
		log.Debug().Msg("Generate ignored: no image selected")
		return nil, nil
	}

	req, err := generation.Build(m.state.Asset, m.state.StyleID, m.state.CustomPrompt)
	switch {
	case errors.Is(err, generation.ErrEmptyCustomPrompt):
		m.toError(MsgEmptyCustomPrompt)
		return nil, nil
	case err != nil:
		m.toError(err.Error())
		return nil, nil
	}

	m.state.Phase = PhaseProcessing
	m.state.ErrorMessage = ""
	m.state.Result = nil
	m.state.Attempt = m.newID()

	return &Dispatch{Attempt: m.state.Attempt, Request: req}, nil
}

func (m *Machine) checkAttempt(attempt string) error {
	if m.state.Phase != PhaseProcessing || attempt == "" || attempt != m.state.Attempt {
		return fmt.Errorf("%w: %s", ErrStaleAttempt, attempt)
	}
	return nil
}

func (m *Machine) toIdle() {
	m.state.Phase = PhaseIdle
	m.state.ErrorMessage = ""
	m.state.Result = nil
	m.state.Attempt = ""
}

func (m *Machine) toError(msg string) {
	if strings.TrimSpace(msg) == "" {
		msg = MsgGenerationFailed
	}
	m.state.Phase = PhaseError
	m.state.ErrorMessage = msg
	m.state.Result = nil
}

// FailureMessage is the text shown for a failed generation.
func FailureMessage(err error) string {
	if err == nil || errors.Is(err, generation.ErrNoImageReturned) {
		return MsgGenerationFailed
	}
	var te *generation.TransportError
	if errors.As(err, &te) {
		if strings.TrimSpace(te.Reason) == "" {
			return MsgGenerationFailed
		}
		return te.Reason
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MsgGenerationFailed
}
