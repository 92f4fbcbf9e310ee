package store

import (
	"gorm.io/gorm"

	"github.com/DVMProject/dvmhost-sub010/pkg/core"
)

// SessionRepository persists and retrieves core.CallSession records,
// the way the teacher's TransmissionRepository wrapped a *gorm.DB
// around one table.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a session repository backed by db.
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func protocolToString(p core.Protocol) string {
	return p.String()
}

func protocolFromString(s string) core.Protocol {
	switch s {
	case "DMR":
		return core.ProtoDMR
	case "P25":
		return core.ProtoP25
	case "NXDN":
		return core.ProtoNXDN
	default:
		return core.ProtoDMR
	}
}

func toRecord(s core.CallSession) CallSessionRecord {
	return CallSessionRecord{
		SessionID: s.ID,
		Protocol:  protocolToString(s.Protocol),
		SrcID:     s.LC.SrcID,
		DstID:     s.LC.DstID,
		GroupCall: s.LC.GroupCall,
		Emergency: s.LC.Emergency,
		Encrypted: s.LC.Encrypted,
		Direction: int(s.Direction),
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Active:    s.Active,
		BER:       s.BER,
	}
}

func fromRecord(r CallSessionRecord) core.CallSession {
	return core.CallSession{
		ID:       r.SessionID,
		Protocol: protocolFromString(r.Protocol),
		LC: core.LC{
			Protocol:  protocolFromString(r.Protocol),
			SrcID:     r.SrcID,
			DstID:     r.DstID,
			GroupCall: r.GroupCall,
			Emergency: r.Emergency,
			Encrypted: r.Encrypted,
		},
		Direction: core.Direction(r.Direction),
		StartedAt: r.StartedAt,
		EndedAt:   r.EndedAt,
		Active:    r.Active,
		BER:       r.BER,
	}
}

// Save inserts a new call session record.
func (r *SessionRepository) Save(s core.CallSession) error {
	rec := toRecord(s)
	return r.db.Create(&rec).Error
}

// UpdateEnded marks the stored record for sessionID as ended, setting
// its final BER and EndedAt.
func (r *SessionRepository) UpdateEnded(s core.CallSession) error {
	return r.db.Model(&CallSessionRecord{}).
		Where("session_id = ? AND active = ?", s.ID, true).
		Updates(map[string]interface{}{
			"active":   false,
			"ended_at": s.EndedAt,
			"ber":      s.BER,
		}).Error
}

// RecentSessions retrieves call sessions ordered newest-first,
// satisfying pkg/web's HistoryProvider interface.
func (r *SessionRepository) RecentSessions(page, perPage int) ([]core.CallSession, int, error) {
	var records []CallSessionRecord
	var total int64

	if err := r.db.Model(&CallSessionRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	if err := r.db.Order("started_at DESC").
		Offset(offset).
		Limit(perPage).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	sessions := make([]core.CallSession, 0, len(records))
	for _, rec := range records {
		sessions = append(sessions, fromRecord(rec))
	}
	return sessions, int(total), nil
}

// ByProtocol retrieves the most recent sessions for one protocol.
func (r *SessionRepository) ByProtocol(protocol core.Protocol, limit int) ([]core.CallSession, error) {
	var records []CallSessionRecord
	err := r.db.Where("protocol = ?", protocolToString(protocol)).
		Order("started_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	sessions := make([]core.CallSession, 0, len(records))
	for _, rec := range records {
		sessions = append(sessions, fromRecord(rec))
	}
	return sessions, nil
}
