package store

import (
	"time"

	"gorm.io/gorm"
)

// FSCRepository persists DFSI Fixed Station Controller channel
// selections, one row per station ID.
type FSCRepository struct {
	db *gorm.DB
}

// NewFSCRepository creates an FSC binding repository backed by db.
func NewFSCRepository(db *gorm.DB) *FSCRepository {
	return &FSCRepository{db: db}
}

// SetChannel records the channel a station selected via SelChannel.
func (r *FSCRepository) SetChannel(stationID string, channelNo uint16, siteID uint8) error {
	binding := FSCBinding{
		StationID:  stationID,
		ChannelNo:  channelNo,
		SiteID:     siteID,
		SelectedAt: time.Now(),
	}
	return r.db.Save(&binding).Error
}

// GetChannel returns the last channel selection recorded for stationID.
func (r *FSCRepository) GetChannel(stationID string) (FSCBinding, bool, error) {
	var binding FSCBinding
	err := r.db.First(&binding, "station_id = ?", stationID).Error
	if err == gorm.ErrRecordNotFound {
		return FSCBinding{}, false, nil
	}
	if err != nil {
		return FSCBinding{}, false, err
	}
	return binding, true, nil
}
