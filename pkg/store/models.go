package store

import (
	"time"

	"gorm.io/gorm"
)

// CallSessionRecord is the persisted form of a core.CallSession: one row
// per completed (or still-active) voice call, the unit pkg/web's
// dashboard history view reads back out.
type CallSessionRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	SessionID  uint32    `gorm:"index;not null" json:"session_id"`
	Protocol   string    `gorm:"index;size:8;not null" json:"protocol"`
	SrcID      uint32    `gorm:"index;not null" json:"src_id"`
	DstID      uint32    `gorm:"index;not null" json:"dst_id"`
	GroupCall  bool      `json:"group_call"`
	Emergency  bool      `json:"emergency"`
	Encrypted  bool      `json:"encrypted"`
	Direction  int       `json:"direction"`
	StartedAt  time.Time `gorm:"index;not null" json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	Active     bool      `gorm:"index" json:"active"`
	BER        float64   `json:"ber"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for CallSessionRecord.
func (CallSessionRecord) TableName() string {
	return "call_sessions"
}

// BeforeCreate stamps CreatedAt/StartedAt the way the teacher's
// Transmission.BeforeCreate hook defaults timestamps.
func (c *CallSessionRecord) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.StartedAt.IsZero() {
		c.StartedAt = time.Now()
	}
	return nil
}

// FSCBinding persists a DFSI Fixed Station Controller channel selection
// (ReportSelModes/SelChannel) so a restarted station can restore which
// RF channel the console had selected.
type FSCBinding struct {
	StationID   string    `gorm:"primarykey;size:32" json:"station_id"`
	ChannelNo   uint16    `json:"channel_no"`
	SiteID      uint8     `json:"site_id"`
	SelectedAt  time.Time `json:"selected_at"`
}

// TableName specifies the table name for FSCBinding.
func (FSCBinding) TableName() string {
	return "fsc_bindings"
}
