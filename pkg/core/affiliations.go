package core

import (
	"sync"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/clock"
)

// MapAffiliations is the default Affiliations implementation: a
// mutex-guarded in-memory map of talkgroup grants and subscriber
// affiliations, grounded on the teacher's pkg/peer/manager.go
// (sync.RWMutex-guarded map with CleanupTimedOutPeers) generalized from
// peer connections to talkgroup grants.
type MapAffiliations struct {
	mu     sync.RWMutex
	clock  clock.Clock
	grants map[uint32]time.Time
	affs   map[affKey]bool
	hang   time.Duration
}

type affKey struct {
	src, dst uint32
}

// NewMapAffiliations builds a MapAffiliations whose grants expire after
// hang has elapsed with no TouchGrant call, measured against clk.
func NewMapAffiliations(clk clock.Clock, hang time.Duration) *MapAffiliations {
	return &MapAffiliations{
		clock:  clk,
		grants: make(map[uint32]time.Time),
		affs:   make(map[affKey]bool),
		hang:   hang,
	}
}

// IsGroupAff reports whether srcID has affiliated to dstID.
func (m *MapAffiliations) IsGroupAff(srcID, dstID uint32) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.affs[affKey{srcID, dstID}]
}

// Affiliate records srcID as affiliated to dstID.
func (m *MapAffiliations) Affiliate(srcID, dstID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.affs[affKey{srcID, dstID}] = true
}

// IsGranted reports whether dstID currently holds an unexpired channel
// grant.
func (m *MapAffiliations) IsGranted(dstID uint32) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	last, ok := m.grants[dstID]
	if !ok {
		return false
	}
	return m.clock.Now().Sub(last) < m.hang
}

// TouchGrant refreshes (or creates) dstID's channel grant, returning
// true if this call started a new grant.
func (m *MapAffiliations) TouchGrant(dstID uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, existed := m.grants[dstID]
	m.grants[dstID] = m.clock.Now()
	return !existed
}

// ReleaseGrant drops dstID's channel grant, returning true if one
// existed.
func (m *MapAffiliations) ReleaseGrant(dstID uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, existed := m.grants[dstID]
	delete(m.grants, dstID)
	return existed
}
