// Package protocol reads game state from the contest's line protocol and
// writes actions back.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rsned/potion-brewing-agent/pkg/brewing"
)

// Entity type keywords found in the second token of an entity line.
const (
	KeywordBrew         = "BREW"
	KeywordCast         = "CAST"
	KeywordOpponentCast = "OPPONENT_CAST"
	KeywordLearn        = "LEARN"
)

var entityKeywords = []string{KeywordBrew, KeywordCast, KeywordOpponentCast, KeywordLearn}

const (
	entityFields = 11 // id type d0 d1 d2 d3 price tome_index tax_count castable repeatable
	playerFields = 5  // inv0 inv1 inv2 inv3 score
)

// Decoder reads one turn at a time from a line-oriented stream.
type Decoder struct {
	r    *bufio.Reader
	line int
	raw  []string
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Raw returns the input lines consumed by the last ReadTurn call, without
// line terminators.
func (d *Decoder) Raw() []string {
	return d.raw
}

// ParseTurn parses one recorded turn.
func ParseTurn(lines []string) (*brewing.Turn, error) {
	dec := NewDecoder(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	turn, err := dec.ReadTurn()
	if err == io.EOF {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("%w: empty turn", ErrMalformed)}
	}
	return turn, err
}

// ReadTurn reads the next turn. It returns io.EOF when the stream ends
// cleanly before a turn starts. Every other error is a *ParseError.
func (d *Decoder) ReadTurn() (*brewing.Turn, error) {
	d.raw = d.raw[:0:0]

	countLine, err := d.readLine()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil || count < 0 {
		return nil, d.malformed("action count", countLine)
	}

	turn := &brewing.Turn{}
	var mySpells, oppSpells []brewing.Spell
	for i := 0; i < count; i++ {
		line, err := d.readLine()
		if err != nil {
			return nil, d.unexpectedEOF(err)
		}
		keyword, recipe, spell, err := d.parseEntity(line)
		if err != nil {
			return nil, err
		}
		switch keyword {
		case KeywordBrew:
			turn.Recipes = append(turn.Recipes, recipe)
		case KeywordCast:
			mySpells = append(mySpells, spell)
		case KeywordOpponentCast:
			oppSpells = append(oppSpells, spell)
		case KeywordLearn:
			turn.Tome = append(turn.Tome, spell)
		}
	}

	if turn.Me, err = d.readPlayer(mySpells); err != nil {
		return nil, err
	}
	if turn.Opponent, err = d.readPlayer(oppSpells); err != nil {
		return nil, err
	}
	return turn, nil
}

func (d *Decoder) readLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", io.EOF
		}
		return "", &ParseError{Line: d.line + 1, Err: fmt.Errorf("reading input: %w", err)}
	}
	d.line++
	line = strings.TrimRight(line, "\r\n")
	d.raw = append(d.raw, line)
	return line, nil
}

func (d *Decoder) unexpectedEOF(err error) error {
	if err == io.EOF {
		return &ParseError{Line: d.line + 1, Err: fmt.Errorf("%w: %w", ErrMalformed, io.ErrUnexpectedEOF)}
	}
	return err
}

func (d *Decoder) malformed(field, text string) error {
	return &ParseError{Line: d.line, Field: field, Text: text, Err: ErrMalformed}
}

// parseEntity parses a BREW, CAST, OPPONENT_CAST or LEARN line.
// Only the value matching the keyword is filled in.
func (d *Decoder) parseEntity(line string) (string, brewing.Recipe, brewing.Spell, error) {
	var recipe brewing.Recipe
	var spell brewing.Spell

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", recipe, spell, d.malformed("entity", line)
	}
	keyword := fields[1]
	switch keyword {
	case KeywordBrew, KeywordCast, KeywordOpponentCast, KeywordLearn:
	default:
		return "", recipe, spell, &ParseError{
			Line:       d.line,
			Field:      "entity type",
			Text:       keyword,
			Suggestion: suggestKeyword(keyword),
			Err:        ErrUnknownEntity,
		}
	}
	if len(fields) != entityFields {
		return "", recipe, spell, &ParseError{
			Line: d.line,
			Text: line,
			Err:  fmt.Errorf("%w: %s line has %d fields, want %d", ErrMalformed, keyword, len(fields), entityFields),
		}
	}

	var ints [entityFields]int
	names := [entityFields]string{"id", "type", "delta0", "delta1", "delta2", "delta3",
		"price", "tome_index", "tax_count", "castable", "repeatable"}
	for i, tok := range fields {
		if i == 1 {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return "", recipe, spell, d.malformed(names[i], tok)
		}
		ints[i] = n
	}

	var delta brewing.Vec4[int32]
	for i := range delta {
		delta[i] = int32(ints[2+i])
	}

	if keyword == KeywordBrew {
		recipe = brewing.Recipe{
			ID:           ints[0],
			UrgencyBonus: ints[7],
			UrgencyCount: ints[8],
		}
		for i, x := range delta {
			if x > 0 {
				return "", recipe, spell, d.malformed(names[2+i], fields[2+i])
			}
			recipe.Ingredients[i] = uint32(-x)
		}
		if ints[6] < 0 {
			return "", recipe, spell, d.malformed("price", fields[6])
		}
		recipe.Price = uint32(ints[6])
		return keyword, recipe, spell, nil
	}

	castable := ints[9]
	if castable != 0 && castable != 1 {
		return "", recipe, spell, d.malformed("castable", fields[9])
	}
	spell = brewing.Spell{
		ID:         ints[0],
		Delta:      delta,
		TomeIndex:  ints[7],
		TaxCount:   ints[8],
		Castable:   castable == 1,
		Repeatable: ints[10],
	}
	return keyword, recipe, spell, nil
}

// readPlayer reads an inventory/score line and attaches the player's spells.
func (d *Decoder) readPlayer(spells []brewing.Spell) (brewing.Player, error) {
	line, err := d.readLine()
	if err != nil {
		return brewing.Player{}, d.unexpectedEOF(err)
	}
	fields := strings.Fields(line)
	if len(fields) != playerFields {
		return brewing.Player{}, &ParseError{
			Line: d.line,
			Text: line,
			Err:  fmt.Errorf("%w: player line has %d fields, want %d", ErrMalformed, len(fields), playerFields),
		}
	}

	var inventory brewing.Vec4[uint32]
	for i := range inventory {
		n, err := strconv.ParseUint(fields[i], 10, 32)
		if err != nil {
			return brewing.Player{}, d.malformed(fmt.Sprintf("inventory%d", i), fields[i])
		}
		inventory[i] = uint32(n)
	}
	score, err := strconv.Atoi(fields[4])
	if err != nil {
		return brewing.Player{}, d.malformed("score", fields[4])
	}
	return brewing.NewPlayer(inventory, score, spells), nil
}

// IsParseError reports whether err carries a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
