package domain

// Resource identifies one of the mirrored upstream snapshots.
type Resource string

const (
	ResourceSim     Resource = "sim"
	ResourceTeams   Resource = "teams"
	ResourcePlayers Resource = "players"
	ResourceGames   Resource = "games"
)

// Resources lists every mirrored resource in bootstrap dependency order:
// teams needs sim's season/day, players needs teams' rosters, games stands alone.
func Resources() []Resource {
	return []Resource{ResourceSim, ResourceTeams, ResourcePlayers, ResourceGames}
}

// Valid reports whether r names a known resource.
func (r Resource) Valid() bool {
	switch r {
	case ResourceSim, ResourceTeams, ResourcePlayers, ResourceGames:
		return true
	}
	return false
}

func (r Resource) String() string {
	return string(r)
}
