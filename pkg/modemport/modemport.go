// Package modemport defines the ModemPort capability pkg/modem frames on
// top of and provides two implementations: a real go.bug.st/serial
// device and an in-memory mock a test can drive in place of the
// firmware.
package modemport

import "github.com/DVMProject/dvmhost-sub010/pkg/core"

// Port re-exports core.ModemPort so callers outside pkg/core only need
// to import this package to talk to a modem transport.
type Port = core.ModemPort
