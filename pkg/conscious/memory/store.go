// Package memory provides the kernel's in-process episodic store. It is
// append-only: episodes are never removed within a process and only their
// access bookkeeping changes after insertion.
package memory

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

// similarityWindow bounds how many recent episodes Similarity compares against.
const similarityWindow = 50

// Episode wraps a stored experience with access bookkeeping.
type Episode struct {
	Experience     conscious.ConsciousExperience `json:"experience"`
	StoredAt       time.Time                     `json:"stored_at"`
	LastAccessed   time.Time                     `json:"last_accessed"`
	RetrievalCount int                           `json:"retrieval_count"`
}

// Filter selects episodes. Zero-valued fields do not constrain.
type Filter struct {
	// Text matches episodes whose content contains it, case-insensitively.
	Text   string
	RunID  string
	Since  time.Time
	Until  time.Time
	MinPhi *float64
	MaxPhi *float64
	// Limit caps the result to the most recent matches.
	Limit int
}

func (f Filter) matches(ep *Episode) bool {
	exp := ep.Experience
	if f.Text != "" && !strings.Contains(strings.ToLower(exp.MainContent), strings.ToLower(f.Text)) {
		return false
	}
	if f.RunID != "" && exp.RunID != f.RunID {
		return false
	}
	if !f.Since.IsZero() && exp.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && exp.Timestamp.After(f.Until) {
		return false
	}
	if f.MinPhi != nil && exp.PhiLevel < *f.MinPhi {
		return false
	}
	if f.MaxPhi != nil && exp.PhiLevel > *f.MaxPhi {
		return false
	}
	return true
}

// Store is a thread-safe, append-only episodic store.
type Store struct {
	mu       sync.RWMutex
	episodes []*Episode
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add appends an experience and returns its episode.
func (s *Store) Add(exp conscious.ConsciousExperience) Episode {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	ep := &Episode{Experience: exp, StoredAt: now, LastAccessed: now}
	s.episodes = append(s.episodes, ep)
	return *ep
}

// Len returns the number of stored episodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.episodes)
}

// Query returns matching episodes oldest first and records the access.
func (s *Store) Query(f Filter) []Episode {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*Episode
	for _, ep := range s.episodes {
		if f.matches(ep) {
			matched = append(matched, ep)
		}
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[len(matched)-f.Limit:]
	}
	return s.touch(matched)
}

// Recent returns up to n of the newest episodes without recording access.
func (s *Store) Recent(n int) []Episode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.episodes) {
		n = len(s.episodes)
	}
	out := make([]Episode, 0, n)
	for _, ep := range s.episodes[len(s.episodes)-n:] {
		out = append(out, *ep)
	}
	return out
}

// Sample draws up to n distinct episodes at random and records the access.
func (s *Store) Sample(n int, rng *rand.Rand) []Episode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || len(s.episodes) == 0 {
		return nil
	}
	idx := rng.Perm(len(s.episodes))
	if n > len(idx) {
		n = len(idx)
	}
	picked := make([]*Episode, n)
	for i := 0; i < n; i++ {
		picked[i] = s.episodes[idx[i]]
	}
	return s.touch(picked)
}

// Similarity returns the highest word-overlap (Jaccard) between text and the
// most recent episodes, in [0,1]. It does not record access.
func (s *Store) Similarity(text string) float64 {
	words := wordSet(text)
	if len(words) == 0 {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	start := max(0, len(s.episodes)-similarityWindow)
	best := 0.0
	for _, ep := range s.episodes[start:] {
		if sim := jaccard(words, wordSet(ep.Experience.MainContent)); sim > best {
			best = sim
		}
	}
	return best
}

// touch must be called with the write lock held.
func (s *Store) touch(eps []*Episode) []Episode {
	now := s.now()
	out := make([]Episode, len(eps))
	for i, ep := range eps {
		ep.LastAccessed = now
		ep.RetrievalCount++
		out[i] = *ep
	}
	return out
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?\"'()")
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}
