// Package session holds the state of one experiment run and the keyboard
// state machine that drives it. Nothing here touches the display; the engine
// maps SDL events to Keys and draws whatever the Session reports.
package session

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/NavuFrank/The-Quantized-Observer/trial"
)

// MinFrequency is the floor applied when the frequency is nudged down.
const MinFrequency = 1.0

type Key int

const (
	KeyNone Key = iota
	KeyQuit
	KeyUp
	KeyDown
	KeyStartTrial
	KeyToggleLoad
	KeyYes
	KeyNo
	KeyManual
	KeyLog
	KeyBackspace
	KeyNewProblem
)

type EventKind int

const (
	EventQuit EventKind = iota
	EventFrequencyChanged
	EventTrialStarted
	EventBlindExited
	EventLogged
	EventLoadChanged
	EventProblemChanged
)

type Event struct {
	Kind   EventKind
	Record trial.Record
}

type Settings struct {
	StartFrequency float64
	Step           float64
	BlindMin       float64
	BlindMax       float64
}

func DefaultSettings() Settings {
	return Settings{
		StartFrequency: 30.0,
		Step:           1.0,
		BlindMin:       25.0,
		BlindMax:       75.0,
	}
}

type Session struct {
	Frequency  float64
	Blind      bool
	LoadActive bool
	Problem    Problem
	Input      string
	Running    bool
	Timer      *Timer

	settings Settings
	results  *trial.Log
	rng      *rand.Rand
	now      func() time.Time
}

// New starts a session in Manual mode. now supplies wall-clock time for the
// flicker timer and record timestamps.
func New(settings Settings, results *trial.Log, rng *rand.Rand, now func() time.Time) *Session {
	s := &Session{
		Frequency: settings.StartFrequency,
		Running:   true,
		Timer:     NewTimer(now()),
		settings:  settings,
		results:   results,
		rng:       rng,
		now:       now,
	}
	s.newProblem()
	return s
}

func (s *Session) Mode() trial.Mode {
	if s.Blind {
		return trial.Blind
	}
	return trial.Manual
}

func (s *Session) Results() *trial.Log {
	return s.results
}

// Tick advances the flicker timer to the current time.
func (s *Session) Tick() bool {
	return s.Timer.Update(s.now(), s.Frequency)
}

// Handle applies one key press and returns what happened, in order.
func (s *Session) Handle(k Key) []Event {
	var events []Event

	switch k {
	case KeyQuit:
		s.Running = false
		return append(events, Event{Kind: EventQuit})
	case KeyToggleLoad:
		s.LoadActive = !s.LoadActive
		events = append(events, Event{Kind: EventLoadChanged})
		if s.LoadActive {
			s.newProblem()
			events = append(events, Event{Kind: EventProblemChanged})
		}
		return events
	case KeyBackspace:
		if s.LoadActive && len(s.Input) > 0 {
			s.Input = s.Input[:len(s.Input)-1]
		}
		return events
	case KeyNewProblem:
		if s.LoadActive {
			s.newProblem()
			events = append(events, Event{Kind: EventProblemChanged})
		}
		return events
	}

	if s.Blind {
		switch k {
		case KeyYes, KeyNo:
			events = append(events, s.log(k == KeyYes))
			events = append(events, s.startBlindTrial())
		case KeyManual:
			s.Blind = false
			events = append(events, Event{Kind: EventBlindExited})
		}
		return events
	}

	switch k {
	case KeyUp:
		s.Frequency += s.settings.Step
		events = append(events, Event{Kind: EventFrequencyChanged})
	case KeyDown:
		s.Frequency = math.Max(MinFrequency, s.Frequency-s.settings.Step)
		events = append(events, Event{Kind: EventFrequencyChanged})
	case KeyStartTrial:
		events = append(events, s.startBlindTrial())
	case KeyLog:
		// Manual mode only collects positive responses.
		events = append(events, s.log(true))
	}
	return events
}

// Type appends digits from text to the arithmetic input. Other runes are
// dropped. The input is never checked against the answer.
func (s *Session) Type(text string) {
	if !s.LoadActive {
		return
	}
	for _, r := range text {
		if r >= '0' && r <= '9' {
			s.Input += string(r)
		}
	}
}

func (s *Session) startBlindTrial() Event {
	s.Blind = true
	span := s.settings.BlindMax - s.settings.BlindMin
	f := s.settings.BlindMin + s.rng.Float64()*span
	s.Frequency = math.Round(f*10) / 10
	return Event{Kind: EventTrialStarted}
}

func (s *Session) log(saw bool) Event {
	r := trial.Record{
		Timestamp:  s.now(),
		Frequency:  s.Frequency,
		LoadActive: s.LoadActive,
		SawFlicker: saw,
		Mode:       s.Mode(),
	}
	s.results.Add(r)
	return Event{Kind: EventLogged, Record: r}
}

func (s *Session) newProblem() {
	s.Problem = NewProblem(s.rng)
	s.Input = ""
}
