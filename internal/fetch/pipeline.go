package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"league-mirror/internal/domain"
	"league-mirror/internal/logging"
	"league-mirror/internal/metrics"
	"league-mirror/internal/store"
	"league-mirror/internal/upstream"
)

const defaultPlayerDelay = 100 * time.Millisecond

// Getter abstracts the upstream client for the pipeline.
type Getter interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
}

// Config wires a Pipeline.
type Config struct {
	Client        Getter
	Retrier       *Retrier
	Store         *store.ResourceStore
	Logger        *slog.Logger
	Metrics       *metrics.Recorder
	GamesSeasonID string
	PlayerDelay   time.Duration
}

// Pipeline implements the four fetch operations. Each one follows the same
// shape: build request(s), run them under the retry policy, transform the
// payload, commit to the store. A failed operation leaves the previously
// committed snapshot untouched.
type Pipeline struct {
	client        Getter
	retrier       *Retrier
	store         *store.ResourceStore
	logger        *slog.Logger
	metrics       *metrics.Recorder
	gamesSeasonID string
	playerDelay   time.Duration
	sleep         func(ctx context.Context, d time.Duration) error
}

// New constructs a Pipeline.
func New(cfg Config) *Pipeline {
	delay := cfg.PlayerDelay
	if delay <= 0 {
		delay = defaultPlayerDelay
	}
	return &Pipeline{
		client:        cfg.Client,
		retrier:       cfg.Retrier,
		store:         cfg.Store,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		gamesSeasonID: cfg.GamesSeasonID,
		playerDelay:   delay,
		sleep:         sleepContext,
	}
}

// FetchSim refreshes the simulation-state snapshot.
func (p *Pipeline) FetchSim(ctx context.Context) error {
	raw, err := p.retrier.Do(ctx, domain.ResourceSim.String(), func(ctx context.Context) (json.RawMessage, error) {
		return p.client.Get(ctx, upstream.SimPath())
	})
	if err != nil {
		return err
	}

	// Validate extractability up front so a malformed sim payload never
	// becomes the snapshot dependent fetches read from.
	if _, err := domain.ParseSimState(raw); err != nil {
		return err
	}

	return p.commit(domain.ResourceSim, raw)
}

// FetchTeams rebuilds the teams snapshot from the committed sim state. The
// sim fields are read once at the start of the run so one rebuild never mixes
// two sim generations.
func (p *Pipeline) FetchTeams(ctx context.Context) error {
	state, err := p.simState()
	if err != nil {
		return err
	}

	raw, err := p.retrier.Do(ctx, domain.ResourceTeams.String(), func(ctx context.Context) (json.RawMessage, error) {
		return p.client.Get(ctx, upstream.TeamsPath(state.SeasonID, state.Day))
	})
	if err != nil {
		return err
	}

	flat, err := domain.FlattenDivisions(raw, state.DivisionIDs)
	if err != nil {
		return err
	}

	return p.commit(domain.ResourceTeams, flat)
}

// FetchPlayers rebuilds the players snapshot from the committed rosters. One
// request per roster entry, in roster order, with a fixed delay between
// requests; a player whose fetch fails is skipped, not fatal.
func (p *Pipeline) FetchPlayers(ctx context.Context) error {
	state, err := p.simState()
	if err != nil {
		return err
	}

	teamsRaw, _, ok := p.store.Load(domain.ResourceTeams)
	if !ok {
		return fmt.Errorf("%w: players needs a teams snapshot", ErrMissingDependency)
	}
	rosters, err := domain.ParseRosters(teamsRaw)
	if err != nil {
		return err
	}

	var playerIDs []string
	for _, roster := range rosters {
		playerIDs = append(playerIDs, roster.PlayerIDs...)
	}

	players := make([]json.RawMessage, 0, len(playerIDs))
	skipped := 0
	for i, id := range playerIDs {
		if i > 0 {
			if err := p.sleep(ctx, p.playerDelay); err != nil {
				return err
			}
		}

		playerID := id
		raw, err := p.retrier.Do(ctx, domain.ResourcePlayers.String(), func(ctx context.Context) (json.RawMessage, error) {
			return p.client.Get(ctx, upstream.PlayerPath(state.SeasonID, state.Day, playerID))
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			skipped++
			logging.Warn(p.logger, "skipping player after failed fetch",
				slog.String("player_id", playerID), "error", err)
			continue
		}
		players = append(players, raw)
	}

	snapshot, err := json.Marshal(players)
	if err != nil {
		return err
	}

	if skipped > 0 {
		logging.Warn(p.logger, "players snapshot incomplete",
			slog.Int(logging.FieldCount, len(players)),
			slog.Int("skipped", skipped))
	}
	return p.commit(domain.ResourcePlayers, snapshot)
}

// FetchGames refreshes the fixed-season games snapshot with event batches
// stripped.
func (p *Pipeline) FetchGames(ctx context.Context) error {
	raw, err := p.retrier.Do(ctx, domain.ResourceGames.String(), func(ctx context.Context) (json.RawMessage, error) {
		return p.client.Get(ctx, upstream.GamesPath(p.gamesSeasonID))
	})
	if err != nil {
		return err
	}

	stripped, err := domain.StripGameEvents(raw)
	if err != nil {
		return err
	}

	return p.commit(domain.ResourceGames, stripped)
}

// Operation returns the fetch function for a resource, for scheduling.
func (p *Pipeline) Operation(resource domain.Resource) func(context.Context) error {
	switch resource {
	case domain.ResourceSim:
		return p.FetchSim
	case domain.ResourceTeams:
		return p.FetchTeams
	case domain.ResourcePlayers:
		return p.FetchPlayers
	case domain.ResourceGames:
		return p.FetchGames
	default:
		return func(context.Context) error {
			return fmt.Errorf("unknown resource %q", resource)
		}
	}
}

// Bootstrap warms every resource at startup, in dependency order: the disk
// copy when one exists, otherwise a synchronous fetch. Failures are logged
// and skipped; the scheduler retries on its normal cadence.
func (p *Pipeline) Bootstrap(ctx context.Context) {
	for _, resource := range domain.Resources() {
		loaded, err := p.store.LoadFromDisk(resource)
		if err != nil {
			logging.Error(p.logger, "failed to load persisted snapshot", err,
				slog.String(logging.FieldResource, resource.String()))
		}
		if loaded {
			logging.Info(p.logger, "snapshot loaded from disk",
				slog.String(logging.FieldResource, resource.String()))
			continue
		}

		if err := p.Operation(resource)(ctx); err != nil {
			logging.Error(p.logger, "bootstrap fetch failed", err,
				slog.String(logging.FieldResource, resource.String()))
		}
	}
}

func (p *Pipeline) simState() (domain.SimState, error) {
	simRaw, _, ok := p.store.Load(domain.ResourceSim)
	if !ok {
		return domain.SimState{}, fmt.Errorf("%w: no sim snapshot committed", ErrMissingDependency)
	}
	return domain.ParseSimState(simRaw)
}

// commit replaces the snapshot in memory and on disk. A disk failure is
// reported but the operation still counts as a success: the memory commit
// stands and the next cycle re-syncs disk.
func (p *Pipeline) commit(resource domain.Resource, raw json.RawMessage) error {
	if err := p.store.Commit(resource, raw); err != nil {
		p.metrics.RecordPersistenceError(resource.String())
		logging.Error(p.logger, "snapshot persistence failed", err,
			slog.String(logging.FieldResource, resource.String()))
		return nil
	}
	logging.Info(p.logger, "snapshot committed",
		slog.String(logging.FieldResource, resource.String()),
		slog.Int("bytes", len(raw)))
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
