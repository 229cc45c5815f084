package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed marks upstream payloads that are missing required structure.
// Callers wrap it so fetch operations can distinguish shape problems from
// transport or status failures.
var ErrMalformed = errors.New("malformed upstream payload")

// SimState holds the fields extracted from a sim snapshot that dependent
// fetches need: the current season, the current day, and the division ids in
// sub-league order.
type SimState struct {
	SeasonID    string
	Day         int
	DivisionIDs []string
}

type simPayload struct {
	CurrentSeasonID *string `json:"currentSeasonId"`
	CurrentDay      *int    `json:"currentDay"`
	LeagueData      struct {
		SubLeagues []struct {
			Divisions []struct {
				ID string `json:"id"`
			} `json:"divisions"`
		} `json:"subLeagues"`
	} `json:"leagueData"`
}

// ParseSimState extracts season, day, and the ordered division list from a raw
// sim snapshot.
func ParseSimState(raw json.RawMessage) (SimState, error) {
	var payload simPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return SimState{}, fmt.Errorf("%w: sim: %v", ErrMalformed, err)
	}

	if payload.CurrentSeasonID == nil || *payload.CurrentSeasonID == "" {
		return SimState{}, fmt.Errorf("%w: sim: missing currentSeasonId", ErrMalformed)
	}
	if payload.CurrentDay == nil {
		return SimState{}, fmt.Errorf("%w: sim: missing currentDay", ErrMalformed)
	}

	state := SimState{SeasonID: *payload.CurrentSeasonID, Day: *payload.CurrentDay}
	for _, sub := range payload.LeagueData.SubLeagues {
		for _, div := range sub.Divisions {
			if div.ID == "" {
				return SimState{}, fmt.Errorf("%w: sim: division without id", ErrMalformed)
			}
			state.DivisionIDs = append(state.DivisionIDs, div.ID)
		}
	}
	if len(state.DivisionIDs) == 0 {
		return SimState{}, fmt.Errorf("%w: sim: no divisions in leagueData", ErrMalformed)
	}
	return state, nil
}

// Roster pairs a team id with its player ids in roster order.
type Roster struct {
	TeamID    string
	PlayerIDs []string
}

type teamPayload struct {
	ID     *string  `json:"id"`
	Roster []string `json:"roster"`
}

// ParseRosters extracts team ids and rosters from a flattened teams snapshot.
// Order is preserved; duplicate player ids across teams are kept.
func ParseRosters(raw json.RawMessage) ([]Roster, error) {
	var teams []teamPayload
	if err := json.Unmarshal(raw, &teams); err != nil {
		return nil, fmt.Errorf("%w: teams: %v", ErrMalformed, err)
	}
	rosters := make([]Roster, 0, len(teams))
	for i, t := range teams {
		if t.ID == nil || *t.ID == "" {
			return nil, fmt.Errorf("%w: teams: record %d missing id", ErrMalformed, i)
		}
		rosters = append(rosters, Roster{TeamID: *t.ID, PlayerIDs: t.Roster})
	}
	return rosters, nil
}

// FlattenDivisions builds a teams snapshot from a division-keyed upstream
// response, concatenating the team lists for exactly the given division ids in
// the given order. A division missing from the response is an error: the
// snapshot must be built from a single consistent sim/teams pairing.
func FlattenDivisions(raw json.RawMessage, divisionIDs []string) (json.RawMessage, error) {
	var byDivision map[string][]json.RawMessage
	if err := json.Unmarshal(raw, &byDivision); err != nil {
		return nil, fmt.Errorf("%w: teams: %v", ErrMalformed, err)
	}

	flat := make([]json.RawMessage, 0)
	for _, id := range divisionIDs {
		teams, ok := byDivision[id]
		if !ok {
			return nil, fmt.Errorf("%w: teams: division %s absent from response", ErrMalformed, id)
		}
		flat = append(flat, teams...)
	}
	return json.Marshal(flat)
}

// gameEventsField is the per-game payload dropped before persistence; the
// batches are large and downstream consumers never read them.
const gameEventsField = "gameEventBatches"

// StripGameEvents removes the event-batch field from every game record in a
// raw games array and re-marshals the result.
func StripGameEvents(raw json.RawMessage) (json.RawMessage, error) {
	var games []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &games); err != nil {
		return nil, fmt.Errorf("%w: games: %v", ErrMalformed, err)
	}
	for _, game := range games {
		delete(game, gameEventsField)
	}
	return json.Marshal(games)
}
