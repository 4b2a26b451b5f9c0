package footballdata

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// envelope is the provider's common response wrapper. Errors arrive either as
// an object keyed by reason or as an array, so the field stays raw until the
// caller inspects it.
type envelope struct {
	Get        string          `json:"get"`
	Results    int             `json:"results"`
	Errors     json.RawMessage `json:"errors"`
	Response   json.RawMessage `json:"response"`
	Parameters map[string]any  `json:"parameters"`
}

type fixtureItem struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		Season int    `json:"season"`
		Round  string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type teamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type teamStatisticsItem struct {
	Team       teamRef `json:"team"`
	Statistics []struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	} `json:"statistics"`
}

type playerLinesItem struct {
	Team    teamRef `json:"team"`
	Players []struct {
		Player struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"player"`
		Statistics []playerStatisticLine `json:"statistics"`
	} `json:"players"`
}

type playerStatisticLine struct {
	Games struct {
		Minutes  *int   `json:"minutes"`
		Position string `json:"position"`
		Rating   string `json:"rating"`
	} `json:"games"`
	Shots struct {
		On *int `json:"on"`
	} `json:"shots"`
	Goals struct {
		Total    *int `json:"total"`
		Conceded *int `json:"conceded"`
		Assists  *int `json:"assists"`
		Saves    *int `json:"saves"`
	} `json:"goals"`
	Passes struct {
		Key *int `json:"key"`
	} `json:"passes"`
	Tackles struct {
		Interceptions *int `json:"interceptions"`
	} `json:"tackles"`
	Duels struct {
		Won *int `json:"won"`
	} `json:"duels"`
	Dribbles struct {
		Success *int `json:"success"`
	} `json:"dribbles"`
	Fouls struct {
		Drawn     *int `json:"drawn"`
		Committed *int `json:"committed"`
	} `json:"fouls"`
	Cards struct {
		Yellow *int `json:"yellow"`
		Red    *int `json:"red"`
	} `json:"cards"`
	Penalty struct {
		Won      *int `json:"won"`
		Commited *int `json:"commited"`
		Scored   *int `json:"scored"`
		Missed   *int `json:"missed"`
		Saved    *int `json:"saved"`
	} `json:"penalty"`
}

type eventItem struct {
	Time struct {
		Elapsed int  `json:"elapsed"`
		Extra   *int `json:"extra"`
	} `json:"time"`
	Team   teamRef `json:"team"`
	Player struct {
		ID int64 `json:"id"`
	} `json:"player"`
	Assist struct {
		ID int64 `json:"id"`
	} `json:"assist"`
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

func intValue(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func parseRating(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// statisticInt coerces the provider's mixed-type statistic values. Corners
// and cards come back as numbers, possession as "52%", absent values as null.
func statisticInt(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return int(v)
	case int:
		return v
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(v), "%")
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func parseKickoff(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-07:00", "2006-01-02"} {
		if parsed, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// parseRound extracts the matchday number from labels like
// "Regular Season - 12".
func parseRound(raw string, fallback int) int {
	fields := strings.Fields(raw)
	for i := len(fields) - 1; i >= 0; i-- {
		if parsed, err := strconv.Atoi(fields[i]); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
