package main

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rsned/potion-brewing-agent/internal/brewing/engine"
	"github.com/rsned/potion-brewing-agent/internal/brewing/protocol"
	"github.com/rsned/potion-brewing-agent/internal/brewing/transcript"
)

var (
	captureOut    string
	captureGameID string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Play as the agent and record a transcript",
	Long: `Run the agent on stdin/stdout exactly like potion-agent, and append every
turn it plays to a zstd-compressed JSONL transcript.

Example:
  brewctl capture --out transcripts/game.jsonl.zst`,
	Args: cobra.NoArgs,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&captureOut, "out", "", "Transcript file (default: transcripts/<game-id>.jsonl.zst)")
	captureCmd.Flags().StringVar(&captureGameID, "game-id", "", "Game ID to record (default: random UUID)")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	t, err := loadTuning()
	if err != nil {
		return err
	}

	gameID := captureGameID
	if gameID == "" {
		gameID = uuid.NewString()
	}
	out := captureOut
	if out == "" {
		out = filepath.Join("transcripts", gameID+".jsonl.zst")
	}

	w, err := transcript.Create(out)
	if err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	defer func() { _ = w.Close() }()

	logger.Info("capturing game", "game", gameID, "file", out)

	server := protocol.NewServer(engine.New(t, logger), logger,
		protocol.WithInput(cmd.InOrStdin()),
		protocol.WithOutput(cmd.OutOrStdout()),
		protocol.WithRecorder(transcript.NewRecorder(w, gameID)),
	)
	if err := server.Run(cmd.Context()); err != nil && cmd.Context().Err() == nil {
		return err
	}
	return w.Close()
}
