package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseSimState(t *testing.T) {
	raw := json.RawMessage(`{
		"currentSeasonId": "season-1",
		"currentDay": 42,
		"leagueData": {
			"subLeagues": [
				{"divisions": [{"id": "d1"}, {"id": "d2"}]},
				{"divisions": [{"id": "d3"}]}
			]
		}
	}`)

	state, err := ParseSimState(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.SeasonID != "season-1" || state.Day != 42 {
		t.Fatalf("unexpected sim state: %+v", state)
	}
	if got := strings.Join(state.DivisionIDs, ","); got != "d1,d2,d3" {
		t.Fatalf("unexpected division order: %s", got)
	}
}

func TestParseSimStateMissingFields(t *testing.T) {
	cases := map[string]string{
		"no season":    `{"currentDay": 1, "leagueData": {"subLeagues": [{"divisions": [{"id": "d1"}]}]}}`,
		"no day":       `{"currentSeasonId": "s", "leagueData": {"subLeagues": [{"divisions": [{"id": "d1"}]}]}}`,
		"no divisions": `{"currentSeasonId": "s", "currentDay": 1, "leagueData": {"subLeagues": []}}`,
		"empty div id": `{"currentSeasonId": "s", "currentDay": 1, "leagueData": {"subLeagues": [{"divisions": [{"id": ""}]}]}}`,
		"not json":     `[1,2`,
	}
	for name, raw := range cases {
		if _, err := ParseSimState(json.RawMessage(raw)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}

func TestFlattenDivisionsPreservesOrder(t *testing.T) {
	raw := json.RawMessage(`{
		"d2": [{"id": "t3"}],
		"d1": [{"id": "t1"}, {"id": "t2"}]
	}`)

	flat, err := FlattenDivisions(raw, []string{"d1", "d2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var teams []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(flat, &teams); err != nil {
		t.Fatalf("failed to decode flattened teams: %v", err)
	}
	if len(teams) != 3 || teams[0].ID != "t1" || teams[1].ID != "t2" || teams[2].ID != "t3" {
		t.Fatalf("unexpected team order: %+v", teams)
	}
}

func TestFlattenDivisionsMissingDivision(t *testing.T) {
	raw := json.RawMessage(`{"d1": []}`)
	if _, err := FlattenDivisions(raw, []string{"d1", "d2"}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for absent division, got %v", err)
	}
}

func TestParseRosters(t *testing.T) {
	raw := json.RawMessage(`[
		{"id": "t1", "roster": ["p1", "p2"]},
		{"id": "t2", "roster": ["p3"]},
		{"id": "t3", "roster": []}
	]`)

	rosters, err := ParseRosters(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rosters) != 3 {
		t.Fatalf("expected 3 rosters, got %d", len(rosters))
	}
	if rosters[0].TeamID != "t1" || len(rosters[0].PlayerIDs) != 2 || rosters[0].PlayerIDs[1] != "p2" {
		t.Fatalf("unexpected first roster: %+v", rosters[0])
	}
	if rosters[2].TeamID != "t3" || len(rosters[2].PlayerIDs) != 0 {
		t.Fatalf("unexpected empty roster handling: %+v", rosters[2])
	}
}

func TestParseRostersMissingID(t *testing.T) {
	raw := json.RawMessage(`[{"roster": ["p1"]}]`)
	if _, err := ParseRosters(raw); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestStripGameEvents(t *testing.T) {
	raw := json.RawMessage(`[
		{"id": "g1", "gameEventBatches": [{"huge": true}], "homeScore": 4},
		{"id": "g2", "awayScore": 2}
	]`)

	stripped, err := StripGameEvents(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(stripped), "gameEventBatches") {
		t.Fatalf("event batches not stripped: %s", stripped)
	}

	var games []map[string]any
	if err := json.Unmarshal(stripped, &games); err != nil {
		t.Fatalf("failed to decode stripped games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	if games[0]["id"] != "g1" || games[0]["homeScore"] != float64(4) {
		t.Fatalf("unexpected surviving fields: %+v", games[0])
	}
}

func TestStripGameEventsIdempotent(t *testing.T) {
	raw := json.RawMessage(`[{"id": "g1", "gameEventBatches": []}]`)
	once, err := StripGameEvents(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := StripGameEvents(once)
	if err != nil {
		t.Fatalf("unexpected error on second strip: %v", err)
	}
	if string(once) != string(twice) {
		t.Fatalf("strip not idempotent: %s vs %s", once, twice)
	}
}

func TestResourceValid(t *testing.T) {
	for _, r := range Resources() {
		if !r.Valid() {
			t.Fatalf("expected %s to be valid", r)
		}
	}
	if Resource("nope").Valid() {
		t.Fatal("expected unknown resource to be invalid")
	}
}
