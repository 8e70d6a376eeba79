// Package transcript stores played turns as zstd-compressed JSON lines.
package transcript

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/rsned/potion-brewing-agent/pkg/brewing"
)

//go:embed turn.schema.json
var turnSchema string

var recordSchema = jsonschema.MustCompileString("turn.schema.json", turnSchema)

// Record is one turn as seen by the agent: the raw input lines and the
// action line it answered with.
type Record struct {
	GameID     string    `json:"game_id,omitempty"`
	Turn       int       `json:"turn"`
	Input      []string  `json:"input"`
	Action     string    `json:"action"`
	RecordedAt time.Time `json:"recorded_at,omitzero"`
}

// Writer appends records to a .jsonl.zst file.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create creates (or truncates) a transcript file.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Write appends one record. Each record is flushed through the encoder so a
// killed process loses at most the frame being written.
func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return fmt.Errorf("transcript writer closed")
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		if err := w.f.Close(); err1 == nil {
			err1 = err
		}
		w.f = nil
	}
	return err1
}

// Recorder numbers the turns of a single game and writes them to a Writer.
type Recorder struct {
	w      *Writer
	gameID string
	turn   int
	now    func() time.Time
}

// NewRecorder creates a Recorder for one game.
func NewRecorder(w *Writer, gameID string) *Recorder {
	return &Recorder{w: w, gameID: gameID, now: time.Now}
}

// RecordTurn writes the next turn of the game.
func (r *Recorder) RecordTurn(raw []string, action brewing.Action) error {
	r.turn++
	return r.w.Write(Record{
		GameID:     r.gameID,
		Turn:       r.turn,
		Input:      append([]string(nil), raw...),
		Action:     action.String(),
		RecordedAt: r.now().UTC(),
	})
}

// Reader streams records back from a .jsonl.zst file.
type Reader struct {
	f    *os.File
	dec  *zstd.Decoder
	sc   *bufio.Scanner
	line int
}

// Open opens a transcript file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return &Reader{f: f, dec: dec, sc: sc}, nil
}

// Next returns the next record, or io.EOF after the last one.
// Records that do not match the transcript schema are rejected.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return rec, fmt.Errorf("reading transcript: %w", err)
		}
		return rec, io.EOF
	}
	r.line++
	line := r.sc.Bytes()

	var doc any
	if err := json.Unmarshal(line, &doc); err != nil {
		return rec, fmt.Errorf("record %d: unmarshal: %w", r.line, err)
	}
	if err := recordSchema.Validate(doc); err != nil {
		return rec, fmt.Errorf("record %d: %w", r.line, err)
	}
	if err := json.Unmarshal(line, &rec); err != nil {
		return rec, fmt.Errorf("record %d: unmarshal: %w", r.line, err)
	}
	return rec, nil
}

// Close releases the decoder and the file.
func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}

// ReadAll reads every record of a transcript file.
func ReadAll(path string) ([]Record, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var records []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
