package protocol

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rsned/potion-brewing-agent/pkg/brewing"
)

// Decider chooses the action for a turn.
type Decider interface {
	Decide(turn *brewing.Turn) brewing.Action
}

// TurnRecorder receives the raw input and the chosen action after every turn.
type TurnRecorder interface {
	RecordTurn(raw []string, action brewing.Action) error
}

// Server runs the read-decide-write loop over a pair of streams.
type Server struct {
	decider  Decider
	logger   *slog.Logger
	in       io.Reader
	out      io.Writer
	recorder TurnRecorder
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithInput replaces stdin as the source of turns.
func WithInput(r io.Reader) ServerOption {
	return func(s *Server) { s.in = r }
}

// WithOutput replaces stdout as the destination of actions.
func WithOutput(w io.Writer) ServerOption {
	return func(s *Server) { s.out = w }
}

// WithRecorder hands every completed turn to rec.
func WithRecorder(rec TurnRecorder) ServerOption {
	return func(s *Server) { s.recorder = rec }
}

// NewServer creates a new protocol server reading stdin and writing stdout.
func NewServer(d Decider, logger *slog.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	s := &Server{
		decider: d,
		logger:  logger,
		in:      os.Stdin,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes turns until the input ends or ctx is cancelled.
// A clean end of input returns nil; malformed input returns a *ParseError.
func (s *Server) Run(ctx context.Context) error {
	dec := NewDecoder(s.in)
	writer := bufio.NewWriter(s.out)

	s.logger.Info("agent starting")

	for turnNo := 1; ; turnNo++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		turn, err := dec.ReadTurn()
		if err == io.EOF {
			s.logger.Info("input closed", "turns", turnNo-1)
			return nil
		}
		if err != nil {
			return fmt.Errorf("turn %d: %w", turnNo, err)
		}

		s.logger.Debug("received turn",
			"turn", turnNo,
			"recipes", len(turn.Recipes),
			"ready", len(turn.Me.ReadySpells),
			"inventory", turn.Me.Inventory,
		)

		action := s.decider.Decide(turn)
		if err := WriteAction(writer, action); err != nil {
			return fmt.Errorf("turn %d: writing action: %w", turnNo, err)
		}
		if err := writer.Flush(); err != nil {
			return fmt.Errorf("turn %d: flushing output: %w", turnNo, err)
		}

		if s.recorder != nil {
			if err := s.recorder.RecordTurn(dec.Raw(), action); err != nil {
				s.logger.Error("failed to record turn", "turn", turnNo, "error", err)
			}
		}
	}
}

// WriteAction writes a single action line.
func WriteAction(w io.Writer, action brewing.Action) error {
	if !action.Kind.IsValid() {
		return fmt.Errorf("invalid action kind %q", action.Kind)
	}
	_, err := fmt.Fprintln(w, action.String())
	return err
}
