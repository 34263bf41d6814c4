package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"proximity-analysis-service/internal/domain"
	"proximity-analysis-service/internal/platform/metrics"
	"proximity-analysis-service/internal/ports"
)

// Engine orchestrates the distance resolver over the provider set and owns
// the persisted ranking lifecycle.
//
// Runs for distinct clients are independent and may proceed concurrently;
// runs for the same client are serialized through a per-client mutex so two
// overlapping triggers cannot interleave their writes.
type Engine struct {
	clients   ports.ClientRepository
	providers ports.ProviderRepository
	rankings  ports.RankingRepository
	resolver  ports.DistanceResolver

	topK    int
	workers int
	log     *zap.Logger

	mu          sync.Mutex
	clientLocks map[int]*clientLock
}

func NewEngine(
	clients ports.ClientRepository,
	providers ports.ProviderRepository,
	rankings ports.RankingRepository,
	resolver ports.DistanceResolver,
	topK int,
	workers int,
	log *zap.Logger,
) *Engine {
	if topK <= 0 {
		topK = 3
	}
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		clients:     clients,
		providers:   providers,
		rankings:    rankings,
		resolver:    resolver,
		topK:        topK,
		workers:     workers,
		log:         log,
		clientLocks: map[int]*clientLock{},
	}
}

type clientLock struct {
	sync.Mutex
	refs int
}

// lockClient serializes ranking runs for one client. Lock entries are
// reference counted and removed when the last holder releases, so the map
// does not accumulate an entry for every client ever ranked.
func (e *Engine) lockClient(id int) *clientLock {
	e.mu.Lock()
	l, ok := e.clientLocks[id]
	if !ok {
		l = &clientLock{}
		e.clientLocks[id] = l
	}
	l.refs++
	e.mu.Unlock()

	l.Lock()
	return l
}

func (e *Engine) unlockClient(id int, l *clientLock) {
	l.Unlock()

	e.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(e.clientLocks, id)
	}
	e.mu.Unlock()
}

type candidateDistance struct {
	provider *domain.Provider
	km       float64
}

// RankClient computes, ranks and persists the top-K closest providers for
// one client, replacing any previous rank set for that client.
func (e *Engine) RankClient(ctx context.Context, clientID int) error {
	lock := e.lockClient(clientID)
	defer e.unlockClient(clientID, lock)

	start := time.Now()
	status := "ok"
	defer func() {
		metrics.RankingRuns.WithLabelValues(status).Inc()
		metrics.RankingRunDuration.Observe(time.Since(start).Seconds())
	}()

	client, err := e.clients.GetByID(ctx, clientID)
	if err != nil {
		status = "error"
		return fmt.Errorf("rank client %d: load client: %w", clientID, err)
	}
	if !client.Analyzable() {
		status = "not_analyzable"
		return fmt.Errorf("rank client %d: %w", clientID, ErrClientNotAnalyzable)
	}

	providers, err := e.providers.List(ctx)
	if err != nil {
		status = "error"
		return fmt.Errorf("rank client %d: load providers: %w", clientID, err)
	}

	candidates := make([]*domain.Provider, 0, len(providers))
	for _, p := range providers {
		if p.Locatable() {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		status = "no_candidates"
		return fmt.Errorf("rank client %d: %w", clientID, ErrNoCandidates)
	}

	results := e.resolveAll(ctx, *client.Location, candidates)

	// Stable sort: providers at equal distance keep their candidate-set
	// order, so reruns over unchanged data produce identical rankings.
	slices.SortStableFunc(results, func(a, b candidateDistance) int {
		if a.km < b.km {
			return -1
		}
		if a.km > b.km {
			return 1
		}
		return 0
	})

	if len(results) > e.topK {
		results = results[:e.topK]
	}

	analyzedAt := time.Now().UTC()
	entries := make([]*domain.RankingEntry, 0, len(results))
	for i, r := range results {
		entries = append(entries, snapshotEntry(client, r.provider, r.km, i+1, analyzedAt))
	}

	if err := e.rankings.ReplaceForClient(ctx, clientID, entries); err != nil {
		status = "persistence_failed"
		return fmt.Errorf("rank client %d: %w: %v", clientID, ErrPersistenceFailed, err)
	}

	e.log.Info("ranking computed",
		zap.Int("client_id", clientID),
		zap.Int("candidates", len(candidates)),
		zap.Int("persisted", len(entries)),
		zap.Duration("took", time.Since(start)),
	)

	return nil
}

// resolveAll fans the resolver out over the candidate set with a bounded
// worker pool. Results land at their candidate index, so the input order is
// preserved regardless of completion order; each resolution is independent
// and side-effect-free.
func (e *Engine) resolveAll(ctx context.Context, origin domain.Location, candidates []*domain.Provider) []candidateDistance {
	results := make([]candidateDistance, len(candidates))

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	for i, p := range candidates {
		wg.Add(1)
		go func(i int, p *domain.Provider) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			res := e.resolver.Resolve(ctx, origin, *p.Location)
			results[i] = candidateDistance{provider: p, km: res.DistanceKm}
		}(i, p)
	}

	wg.Wait()
	return results
}

// snapshotEntry denormalizes client and provider fields into a ranking
// entry, so reports can be served without joining reference tables.
func snapshotEntry(c *domain.Client, p *domain.Provider, km float64, rank int, analyzedAt time.Time) *domain.RankingEntry {
	return &domain.RankingEntry{
		ClientID:         c.ID,
		ProviderID:       p.ID,
		DistanceKm:       km,
		Rank:             rank,
		AnalyzedAt:       analyzedAt,
		ClientName:       c.Name,
		ClientCEP:        c.CEP,
		ClientUF:         c.UF,
		ClientLocation:   *c.Location,
		ProviderName:     p.Name,
		ProviderCEP:      p.CEP,
		ProviderUF:       p.UF,
		ProviderLocation: *p.Location,
		Plans:            strings.Join(p.Plans, ", "),
		Specialties:      strings.Join(p.Specialties, ", "),
	}
}
