package indexer

import (
	"math"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"chunkgate/internal/dedup"
)

// runesPerToken approximates token counts from rune counts.
const runesPerToken = 4.0

// RunStats summarises one batch ingestion run.
type RunStats struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Running    bool      `json:"running"`
	// Documents is the number of files scanned.
	Documents int `json:"documents"`
	// Outcomes counts documents by classification outcome.
	Outcomes map[string]int `json:"outcomes"`
	// Failed counts documents that could not be read, classified or written.
	Failed          int             `json:"failed"`
	ChunksForwarded int             `json:"chunks_forwarded"`
	ChunksDeleted   int             `json:"chunks_deleted"`
	ChunkTokenStats ChunkTokenStats `json:"chunk_token_stats"`
}

// ChunkTokenStats describes the estimated token counts of forwarded chunks.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// runRecorder accumulates RunStats from concurrent workers.
type runRecorder struct {
	mu     sync.Mutex
	stats  RunStats
	tokens []int
}

func newRunRecorder(started time.Time) *runRecorder {
	return &runRecorder{
		stats: RunStats{
			StartedAt: started,
			Running:   true,
			Outcomes:  make(map[string]int),
		},
	}
}

func (r *runRecorder) record(result dedup.Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.stats.Failed++
		return
	}
	r.stats.Outcomes[result.Outcome.String()]++
	if result.Outcome == dedup.OutcomeErrorSuppressed {
		r.stats.Failed++
	}
	r.stats.ChunksForwarded += len(result.Chunks)
	r.stats.ChunksDeleted += len(result.Deleted)
	for _, c := range result.Chunks {
		r.tokens = append(r.tokens, estimateTokens(c.Text))
	}
}

func (r *runRecorder) failed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Failed++
}

func (r *runRecorder) setDocuments(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Documents = n
}

// finish marks the run complete and returns the final stats.
func (r *runRecorder) finish(at time.Time) RunStats {
	r.mu.Lock()
	r.stats.Running = false
	r.stats.FinishedAt = at
	r.mu.Unlock()
	return r.snapshot()
}

func (r *runRecorder) snapshot() RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.stats
	out.Outcomes = make(map[string]int, len(r.stats.Outcomes))
	for k, v := range r.stats.Outcomes {
		out.Outcomes[k] = v
	}
	out.ChunkTokenStats = computeTokenStats(r.tokens)
	return out
}

func estimateTokens(text string) int {
	n := int(math.Round(float64(utf8.RuneCountInString(text)) / runesPerToken))
	return max(n, 1)
}

// computeTokenStats computes min, max, mean and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := slices.Clone(tokenCounts)
	slices.Sort(sorted)

	sum := 0
	for _, count := range sorted {
		sum += count
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := min(int(math.Ceil(float64(len(sorted))*0.95)), len(sorted)-1)

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
