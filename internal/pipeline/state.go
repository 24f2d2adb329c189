package pipeline

import (
	"fmt"
	"maps"
	"sync"

	"github.com/sutherm/glos-geo/internal/model"
)

// State names one stage of a resolution's lifecycle within a run.
type State string

const (
	StatePending      State = "pending"
	StateIndexed      State = "indexed"
	StateMerged       State = "merged"
	StateDeduplicated State = "deduplicated"
	StatePersisted    State = "persisted"
)

// stateOrder lists the stages in the only order they may be visited.
var stateOrder = []State{StatePending, StateIndexed, StateMerged, StateDeduplicated, StatePersisted}

func (s State) next() (State, bool) {
	for i, st := range stateOrder[:len(stateOrder)-1] {
		if st == s {
			return stateOrder[i+1], true
		}
	}
	return "", false
}

// runState holds the thread-safe progress of one gridding run.
type runState struct {
	mu sync.RWMutex

	// Stage per configured resolution.
	stages map[int]State

	// Records accumulated per resolution by the indexing workers.
	records map[int][]model.IndexedRecord

	// Sources that failed to index, by source name.
	failed map[string]error

	// Soundings read per source, by source name.
	soundings map[string]int
}

func newRunState(resolutions []int) *runState {
	s := &runState{
		stages:    make(map[int]State, len(resolutions)),
		records:   make(map[int][]model.IndexedRecord, len(resolutions)),
		failed:    make(map[string]error),
		soundings: make(map[string]int),
	}
	for _, res := range resolutions {
		s.stages[res] = StatePending
	}
	return s
}

// stage returns the current stage for a resolution (read-locked).
func (s *runState) stage(res int) State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stages[res]
}

// advance moves a resolution to the given stage (write-locked). Stages must
// be visited strictly in stateOrder.
func (s *runState) advance(res int, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.stages[res]
	if !ok {
		return fmt.Errorf("resolution %d is not part of this run", res)
	}
	want, ok := cur.next()
	if !ok || want != to {
		return fmt.Errorf("resolution %d: cannot advance from %s to %s", res, cur, to)
	}
	s.stages[res] = to
	return nil
}

// appendRecords adds one source's records for a resolution (write-locked).
func (s *runState) appendRecords(res int, recs []model.IndexedRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[res] = append(s.records[res], recs...)
}

// takeRecords removes and returns everything accumulated for a resolution
// (write-locked).
func (s *runState) takeRecords(res int) []model.IndexedRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.records[res]
	delete(s.records, res)
	return recs
}

// markFailed records a source failure (write-locked).
func (s *runState) markFailed(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failed[name] = err
}

// markRead records how many soundings one source produced (write-locked).
func (s *runState) markRead(name string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.soundings[name] = n
}

// failedSources returns a copy of the per-source failures (read-locked).
func (s *runState) failedSources() map[string]error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]error, len(s.failed))
	maps.Copy(out, s.failed)
	return out
}

// sourceCounts returns a copy of the per-source sounding counts (read-locked).
func (s *runState) sourceCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.soundings))
	maps.Copy(out, s.soundings)
	return out
}
