package bet

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The mobile client sends markets and labels as Spanish display strings; that
// wire format is kept for backward compatibility. Parsing into a structured
// Selection happens exactly once, here, so the fragile text matching never
// leaks into evaluation logic.

var ErrUnknownSelection = errors.New("unknown bet selection")

type SelectionKind string

const (
	KindWinner     SelectionKind = "winner"
	KindOverUnder  SelectionKind = "over_under"
	KindExactCount SelectionKind = "exact_count"
	KindParity     SelectionKind = "parity"
	KindBothScore  SelectionKind = "both_score"
)

type StatKind string

const (
	StatGoals   StatKind = "goals"
	StatCorners StatKind = "corners"
	StatCards   StatKind = "cards"
)

type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// Selection is the structured form of a (market, label) pair.
type Selection struct {
	Kind      SelectionKind
	Stat      StatKind
	Direction Direction
	Threshold float64
	Count     int
	// Team holds the normalized team name for winner selections; empty with
	// Draw=true for "empate".
	Team     string
	Draw     bool
	BothYes  bool
	EvenGoal bool
}

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ParseSelection converts the wire market/label pair into a Selection. It
// never panics; combinations it cannot map return ErrUnknownSelection so the
// evaluator can degrade to a conservative loss flagged for manual review.
func ParseSelection(market, label string) (Selection, error) {
	marketKey := normalizeText(market)
	labelKey := normalizeText(label)

	switch {
	case strings.Contains(marketKey, "resultado"):
		return parseWinner(labelKey)
	case strings.Contains(marketKey, "ambos marcan"):
		return Selection{Kind: KindBothScore, BothYes: !strings.Contains(labelKey, "no")}, nil
	case strings.Contains(marketKey, "par"), strings.Contains(marketKey, "impar"):
		return parseParity(labelKey)
	case strings.Contains(marketKey, "corner"):
		return parseQuantity(labelKey, StatCorners)
	case strings.Contains(marketKey, "tarjeta"):
		return parseQuantity(labelKey, StatCards)
	case strings.Contains(marketKey, "gol"):
		return parseQuantity(labelKey, StatGoals)
	default:
		return Selection{}, fmt.Errorf("%w: market=%q label=%q", ErrUnknownSelection, market, label)
	}
}

func parseWinner(labelKey string) (Selection, error) {
	if strings.Contains(labelKey, "empate") {
		return Selection{Kind: KindWinner, Draw: true}, nil
	}

	team := strings.TrimSpace(strings.TrimPrefix(labelKey, "ganara"))
	team = strings.TrimSpace(strings.TrimPrefix(team, "gana"))
	if team == "" {
		return Selection{}, fmt.Errorf("%w: winner label carries no team", ErrUnknownSelection)
	}
	return Selection{Kind: KindWinner, Team: team}, nil
}

func parseParity(labelKey string) (Selection, error) {
	switch {
	case strings.Contains(labelKey, "impar"):
		return Selection{Kind: KindParity, Stat: StatGoals, EvenGoal: false}, nil
	case strings.Contains(labelKey, "par"):
		return Selection{Kind: KindParity, Stat: StatGoals, EvenGoal: true}, nil
	default:
		return Selection{}, fmt.Errorf("%w: parity label %q", ErrUnknownSelection, labelKey)
	}
}

func parseQuantity(labelKey string, stat StatKind) (Selection, error) {
	raw := numberPattern.FindString(labelKey)
	if raw == "" {
		return Selection{}, fmt.Errorf("%w: quantity label %q carries no number", ErrUnknownSelection, labelKey)
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: quantity label %q", ErrUnknownSelection, labelKey)
	}

	switch {
	case strings.Contains(labelKey, "exact"):
		return Selection{Kind: KindExactCount, Stat: stat, Count: int(value)}, nil
	case strings.Contains(labelKey, "mas de"):
		return Selection{Kind: KindOverUnder, Stat: stat, Direction: DirectionOver, Threshold: value}, nil
	case strings.Contains(labelKey, "menos de"):
		return Selection{Kind: KindOverUnder, Stat: stat, Direction: DirectionUnder, Threshold: value}, nil
	default:
		return Selection{}, fmt.Errorf("%w: quantity label %q carries no direction", ErrUnknownSelection, labelKey)
	}
}

// normalizeText lower-cases and strips accents so "Más" and "Ganará" match
// their unaccented variants.
func normalizeText(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "ü", "u",
	)
	return replacer.Replace(value)
}
