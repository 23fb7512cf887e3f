package solver

import (
	"fmt"
	"math"
	"sync"

	"github.com/lcrostarosa/ploscope-stack-sub005/gamestate"
	"github.com/lcrostarosa/ploscope-stack-sub005/poker"
)

// InfoSetKey identifies the situation as seen by one player: their own hole
// class, the public street, the bucketed pot pressure, and the abstract
// action line. Hands the abstraction maps to the same key share one regret
// entry.
type InfoSetKey struct {
	Player       int
	Street       gamestate.Street
	HoleCategory poker.HoleCardCategory
	PotBucket    int
	ToCallBucket int
	Path         string // bucketed action line, e.g. "x/b1-c"
}

func (k InfoSetKey) String() string {
	return fmt.Sprintf("p%d/%s/%s/%d/%d/%s", k.Player, k.Street, k.HoleCategory, k.PotBucket, k.ToCallBucket, k.Path)
}

// NumericInstabilityError reports a NaN or Inf regret or probability. It is
// fatal for the solve session and carries the offending info set so a
// degenerate input can be diagnosed. Values are never clamped.
type NumericInstabilityError struct {
	Key   InfoSetKey
	Stage string
	Value float64
}

func (e *NumericInstabilityError) Error() string {
	return fmt.Sprintf("numeric instability at %s (%s): %v", e.Key, e.Stage, e.Value)
}

// checkFinite fails fast on the first non-finite value.
func checkFinite(key InfoSetKey, stage string, vals []float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &NumericInstabilityError{Key: key, Stage: stage, Value: v}
		}
	}
	return nil
}

// RegretEntry accumulates cumulative regrets and strategy sums for one info
// set. Slices are indexed by action and sized on first access.
type RegretEntry struct {
	Key         InfoSetKey
	Actions     []Action
	RegretSum   []float64
	StrategySum []float64
	Normalising float64
	mu          sync.Mutex
}

// Strategy returns the regret-matching distribution: probability
// proportional to positive cumulative regret, uniform when no action has
// positive regret.
func (e *RegretEntry) Strategy() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	strat := make([]float64, len(e.RegretSum))
	total := 0.0
	for i, r := range e.RegretSum {
		if r > 0 {
			strat[i] = r
			total += r
		}
	}
	if total <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i := range strat {
		strat[i] /= total
	}
	return strat
}

// Update accumulates one traversal's regrets and the reach-weighted current
// strategy for later averaging.
func (e *RegretEntry) Update(regret, strategy []float64, reachWeight float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range regret {
		e.RegretSum[i] += regret[i]
		e.StrategySum[i] += reachWeight * strategy[i]
	}
	e.Normalising += reachWeight
}

// AverageStrategy returns the normalised average strategy, the solve's
// actual output. Unvisited entries fall back to uniform.
func (e *RegretEntry) AverageStrategy() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	strat := make([]float64, len(e.StrategySum))
	if e.Normalising <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	total := 0.0
	for _, s := range e.StrategySum {
		total += s
	}
	if total <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i := range strat {
		strat[i] = e.StrategySum[i] / total
	}
	return strat
}

// RegretTable holds the regret entries of one solve session, sharded so
// additive merges from batched parallel traversals stay cheap.
const regretShardCount = 64
const regretShardMask = regretShardCount - 1

type regretShard struct {
	mu      sync.RWMutex
	entries map[string]*RegretEntry
}

type RegretTable struct {
	shards [regretShardCount]regretShard
}

// NewRegretTable returns an empty table ready for a solve session.
func NewRegretTable() *RegretTable {
	t := &RegretTable{}
	for i := range t.shards {
		t.shards[i].entries = make(map[string]*RegretEntry)
	}
	return t
}

// Get returns the entry for the key, creating it with the given action set
// on first access.
func (t *RegretTable) Get(key InfoSetKey, actions []Action) *RegretEntry {
	k := key.String()
	shard := &t.shards[fnv32(k)&regretShardMask]

	shard.mu.RLock()
	entry, ok := shard.entries[k]
	shard.mu.RUnlock()
	if ok {
		return entry
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if entry, ok = shard.entries[k]; ok {
		return entry
	}
	entry = &RegretEntry{
		Key:         key,
		Actions:     append([]Action(nil), actions...),
		RegretSum:   make([]float64, len(actions)),
		StrategySum: make([]float64, len(actions)),
	}
	shard.entries[k] = entry
	return entry
}

// Entries returns a snapshot of every entry for averaging.
func (t *RegretTable) Entries() []*RegretEntry {
	var out []*RegretEntry
	for i := range t.shards {
		shard := &t.shards[i]
		shard.mu.RLock()
		for _, e := range shard.entries {
			out = append(out, e)
		}
		shard.mu.RUnlock()
	}
	return out
}

// Size returns the number of info sets tracked.
func (t *RegretTable) Size() int {
	total := 0
	for i := range t.shards {
		shard := &t.shards[i]
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}

func fnv32(key string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	hash := uint32(offset32)
	for i := 0; i < len(key); i++ {
		hash ^= uint32(key[i])
		hash *= prime32
	}
	return hash
}
