package core

import (
	"context"

	"github.com/DVMProject/dvmhost-sub010/pkg/clock"
)

// Clock is re-exported from pkg/clock so every capability a processor
// needs is reachable from a single import, the way the teacher's
// pkg/bridge collaborators are all constructed in one place in
// cmd/dmr-nexus/main.go.
type Clock = clock.Clock

// Network is the capability a voice/trunk processor uses to hand frames
// to the IP side, replacing the original's cyclic processor->Control
// pointer (spec.md REDESIGN FLAGS item 1). Method names mirror the
// original's write_p25_ldu1/write_p25_ldu2/... entry points so the
// grounding in original_source stays legible.
type Network interface {
	WriteP25LDU1(ctx context.Context, lc LC, data []byte) error
	WriteP25LDU2(ctx context.Context, lc LC, data []byte) error
	WriteP25TDU(ctx context.Context, lc LC) error
	WriteP25TSBK(ctx context.Context, data []byte) error
	WriteDMRData(ctx context.Context, slot int, lc LC, data []byte) error
	WriteNXDN(ctx context.Context, lc LC, data []byte) error
	ResetP25(ctx context.Context) error
	ResetDMR(ctx context.Context) error
	ResetNXDN(ctx context.Context) error
}

// ACL validates radio IDs and talkgroup IDs against the station's
// configured permit/deny ranges.
type ACL interface {
	ValidateSrcID(id uint32) bool
	ValidateTGID(id uint32) bool
}

// Affiliations tracks which subscriber/talkgroup pairs are currently
// affiliated and which talkgroups hold an active channel grant.
type Affiliations interface {
	IsGroupAff(srcID, dstID uint32) bool
	IsGranted(dstID uint32) bool
	TouchGrant(dstID uint32) bool
	ReleaseGrant(dstID uint32) bool
}

// IdenTable resolves a channel number to its RF parameters, the
// capability spec.md marks "out of scope: the core calls it".
type IdenTable interface {
	Lookup(channelNo uint16) (RFParams, bool)
}

// ModemPort is the raw byte-stream transport ModemLink frames on top of:
// a serial device in production, an in-memory pipe in tests.
type ModemPort interface {
	Open() error
	Close() error
	Read(buf []byte) (int, error)
	Write(buf []byte) (int, error)
}
