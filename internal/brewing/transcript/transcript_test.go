package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/rsned/potion-brewing-agent/pkg/brewing"
)

var turnInput = []string{
	"1",
	"44 BREW -3 0 0 0 5 0 0 0 0",
	"3 0 0 0 0",
	"0 0 0 0 0",
}

func TestRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games", "game.jsonl.zst")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec := NewRecorder(w, "g-1")
	fixed := time.Date(2020, 11, 12, 18, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	if err := rec.RecordTurn(turnInput, brewing.Brew(44)); err != nil {
		t.Fatalf("RecordTurn: %v", err)
	}
	if err := rec.RecordTurn(turnInput, brewing.Rest()); err != nil {
		t.Fatalf("RecordTurn: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if r := records[0]; r.GameID != "g-1" || r.Turn != 1 || r.Action != "BREW 44" || len(r.Input) != 4 {
		t.Errorf("record 0 = %+v", r)
	}
	if r := records[1]; r.Turn != 2 || r.Action != "REST" || !r.RecordedAt.Equal(fixed) {
		t.Errorf("record 1 = %+v", r)
	}
}

func TestWriteAfterClose(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "t.jsonl.zst"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(Record{GameID: "g", Turn: 1, Input: turnInput, Action: "WAIT"}); err == nil {
		t.Error("Write after Close succeeded")
	}
}

func writeRawTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.jsonl.zst")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReaderRejectsInvalidRecords(t *testing.T) {
	tests := map[string]string{
		"bad action":    `{"game_id":"g","turn":1,"input":["0","0 0 0 0 0","0 0 0 0 0"],"action":"LEARN 3"}`,
		"turn zero":     `{"game_id":"g","turn":0,"input":["0","0 0 0 0 0","0 0 0 0 0"],"action":"REST"}`,
		"short input":   `{"game_id":"g","turn":1,"input":["0"],"action":"REST"}`,
		"empty game id": `{"game_id":"","turn":1,"input":["0","0 0 0 0 0","0 0 0 0 0"],"action":"REST"}`,
		"unknown field": `{"game_id":"g","turn":1,"input":["0","0 0 0 0 0","0 0 0 0 0"],"action":"REST","score":3}`,
		"not json":      `{"game_id":`,
	}
	for name, line := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeRawTranscript(t, line)
			if _, err := ReadAll(path); err == nil {
				t.Error("ReadAll accepted an invalid record")
			}
		})
	}
}

func TestReaderAcceptsMinimalRecord(t *testing.T) {
	path := writeRawTranscript(t,
		`{"game_id":"g","turn":1,"input":["0","0 0 0 0 0","0 0 0 0 0"],"action":"CAST 78"}`,
		`{"game_id":"g","turn":2,"input":["0","0 0 0 0 0","0 0 0 0 0"],"action":"WAIT"}`,
	)
	records, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 || records[0].Action != "CAST 78" {
		t.Errorf("records = %+v", records)
	}
}
