package store

import (
	"os"
	"testing"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/config"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := "/tmp/test_dvmhost_sessions_" + t.Name() + ".db"
	t.Cleanup(func() { _ = os.Remove(dbPath) })

	s, err := Open(config.StoreConfig{Path: dbPath}, testLogger())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSessionRepository_SaveAndRetrieve(t *testing.T) {
	s := newTestStore(t)
	repo := NewSessionRepository(s.GetDB())

	now := time.Now()
	session := core.CallSession{
		ID:        1,
		Protocol:  core.ProtoDMR,
		LC:        core.LC{Protocol: core.ProtoDMR, SrcID: 312000, DstID: 91, GroupCall: true},
		StartedAt: now,
		Active:    true,
	}

	if err := repo.Save(session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sessions, total, err := repo.RecentSessions(1, 10)
	if err != nil {
		t.Fatalf("RecentSessions failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("Expected 1 record, got %d", total)
	}
	if sessions[0].LC.SrcID != 312000 || sessions[0].Protocol != core.ProtoDMR {
		t.Errorf("Unexpected session: %+v", sessions[0])
	}
}

func TestSessionRepository_UpdateEnded(t *testing.T) {
	s := newTestStore(t)
	repo := NewSessionRepository(s.GetDB())

	now := time.Now()
	session := core.CallSession{
		ID:        7,
		Protocol:  core.ProtoP25,
		LC:        core.LC{SrcID: 1, DstID: 2},
		StartedAt: now,
		Active:    true,
	}
	if err := repo.Save(session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	session.Active = false
	session.EndedAt = now.Add(2 * time.Second)
	session.BER = 1.5
	if err := repo.UpdateEnded(session); err != nil {
		t.Fatalf("UpdateEnded failed: %v", err)
	}

	sessions, _, err := repo.RecentSessions(1, 10)
	if err != nil {
		t.Fatalf("RecentSessions failed: %v", err)
	}
	if sessions[0].Active {
		t.Error("Expected session to be inactive after UpdateEnded")
	}
	if sessions[0].BER != 1.5 {
		t.Errorf("Expected BER 1.5, got %v", sessions[0].BER)
	}
}

func TestSessionRepository_Pagination(t *testing.T) {
	s := newTestStore(t)
	repo := NewSessionRepository(s.GetDB())

	for i := uint32(0); i < 5; i++ {
		session := core.CallSession{
			ID:        i + 1,
			Protocol:  core.ProtoNXDN,
			LC:        core.LC{SrcID: i, DstID: 1},
			StartedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := repo.Save(session); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	sessions, total, err := repo.RecentSessions(1, 2)
	if err != nil {
		t.Fatalf("RecentSessions failed: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected total 5, got %d", total)
	}
	if len(sessions) != 2 {
		t.Errorf("Expected 2 sessions per page, got %d", len(sessions))
	}
}

func TestSessionRepository_ByProtocol(t *testing.T) {
	s := newTestStore(t)
	repo := NewSessionRepository(s.GetDB())

	_ = repo.Save(core.CallSession{ID: 1, Protocol: core.ProtoDMR, LC: core.LC{SrcID: 1}, StartedAt: time.Now()})
	_ = repo.Save(core.CallSession{ID: 2, Protocol: core.ProtoP25, LC: core.LC{SrcID: 2}, StartedAt: time.Now()})

	sessions, err := repo.ByProtocol(core.ProtoP25, 10)
	if err != nil {
		t.Fatalf("ByProtocol failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Protocol != core.ProtoP25 {
		t.Errorf("Expected 1 P25 session, got %+v", sessions)
	}
}
