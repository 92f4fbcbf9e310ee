package netpeer

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/config"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/logger"
	"github.com/DVMProject/dvmhost-sub010/pkg/netq"
)

// ConnectionState mirrors the teacher's network.ConnectionState
// progression through the PEER-mode login handshake.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateRPTLSent
	StateAuthenticated
	StateConfigSent
	StateConnected
)

// FrameHandler receives a decoded netq.Frame read from the master.
type FrameHandler func(netq.Frame)

// Client is the UDP PEER-mode link to a master FNE: it performs the
// RPTL/RPTK/RPTC login handshake, sends RPTPING keepalives, and
// implements core.Network by wrapping outgoing frames through a
// netq.FrameQueue keyed on this station's peer ID.
type Client struct {
	cfg config.PeerConfig
	log *logger.Logger

	conn       *net.UDPConn
	masterAddr *net.UDPAddr

	state   ConnectionState
	stateMu sync.RWMutex

	queue *netq.FrameQueue

	handlerMu sync.RWMutex
	handler   FrameHandler

	streamSeq uint32
}

// New creates a Client for the given peer configuration.
func New(cfg config.PeerConfig, log *logger.Logger) *Client {
	return &Client{
		cfg:   cfg,
		log:   log.WithComponent("netpeer.client"),
		state: StateDisconnected,
		queue: netq.New(cfg.PeerID),
	}
}

// OnFrame sets the handler invoked for every frame received from the
// master once connected.
func (c *Client) OnFrame(handler FrameHandler) {
	c.handlerMu.Lock()
	c.handler = handler
	c.handlerMu.Unlock()
}

// Run dials the configured master, performs the login handshake, and
// then services the receive and keepalive loops until ctx is
// cancelled or the link drops.
func (c *Client) Run(ctx context.Context) error {
	masterAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", c.cfg.MasterHost, c.cfg.MasterPort))
	if err != nil {
		return fmt.Errorf("netpeer: resolve master address: %w", err)
	}
	c.masterAddr = masterAddr

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: c.cfg.LocalPort})
	if err != nil {
		return fmt.Errorf("netpeer: listen: %w", err)
	}
	c.conn = conn
	defer conn.Close()

	c.log.Info("peer client starting",
		logger.String("master", c.masterAddr.String()),
		logger.String("local", conn.LocalAddr().String()))

	if err := c.authenticate(); err != nil {
		return fmt.Errorf("netpeer: authentication failed: %w", err)
	}

	errCh := make(chan error, 2)
	go func() { errCh <- c.receiveLoop(ctx) }()
	go func() { errCh <- c.keepaliveLoop(ctx) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// authenticate drives the RPTL -> RPTK -> RPTC handshake, blocking
// until the master RPTACKs each step or the deadline expires.
func (c *Client) authenticate() error {
	buf := make([]byte, 2048)

	c.setState(StateRPTLSent)
	if _, err := c.conn.WriteToUDP((&rptlPacket{PeerID: c.cfg.PeerID}).Encode(), c.masterAddr); err != nil {
		return fmt.Errorf("send RPTL: %w", err)
	}
	if err := c.awaitACK(buf, "RPTL"); err != nil {
		return err
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(c.cfg.Passphrase))
	challenge := h.Sum(nil)

	if _, err := c.conn.WriteToUDP((&rptkPacket{PeerID: c.cfg.PeerID, Challenge: challenge}).Encode(), c.masterAddr); err != nil {
		return fmt.Errorf("send RPTK: %w", err)
	}
	if err := c.awaitACK(buf, "RPTK"); err != nil {
		return err
	}
	c.setState(StateAuthenticated)

	rptc := &rptcPacket{PeerID: c.cfg.PeerID, Callsign: c.cfg.Callsign}
	if _, err := c.conn.WriteToUDP(rptc.Encode(), c.masterAddr); err != nil {
		return fmt.Errorf("send RPTC: %w", err)
	}
	c.setState(StateConfigSent)
	if err := c.awaitACK(buf, "RPTC"); err != nil {
		return err
	}

	c.setState(StateConnected)
	c.conn.SetReadDeadline(time.Time{})
	c.log.Info("peer authenticated", logger.Int("peer_id", int(c.cfg.PeerID)))
	return nil
}

func (c *Client) awaitACK(buf []byte, step string) error {
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	n, _, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		return fmt.Errorf("await RPTACK after %s: %w", step, err)
	}
	if isMSTNAK(buf[:n]) {
		return fmt.Errorf("master NAKed %s", step)
	}
	if _, err := parseRPTACK(buf[:n]); err != nil {
		return fmt.Errorf("unexpected response to %s: %w", step, err)
	}
	return nil
}

// receiveLoop reads framed datagrams from the master and dispatches
// them to the registered FrameHandler.
func (c *Client) receiveLoop(ctx context.Context) error {
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, _, err := c.conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			return fmt.Errorf("netpeer: read: %w", err)
		}

		switch {
		case isMSTPONG(buf[:n]):
			c.log.Debug("received MSTPONG")
		case isMSTCL(buf[:n]):
			c.log.Warn("master closed connection")
			c.setState(StateDisconnected)
			return fmt.Errorf("netpeer: master sent MSTCL")
		default:
			frame, err := netq.Decode(buf[:n])
			if err != nil {
				c.log.Debug("dropped unparseable datagram", logger.Error(err))
				continue
			}
			c.handlerMu.RLock()
			handler := c.handler
			c.handlerMu.RUnlock()
			if handler != nil {
				handler(frame)
			}
		}
	}
}

// keepaliveLoop sends RPTPING every 5 seconds while connected,
// matching the teacher's keepalive cadence.
func (c *Client) keepaliveLoop(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if c.getState() != StateConnected {
				continue
			}
			ping := &rptpingPacket{PeerID: c.cfg.PeerID}
			if _, err := c.conn.WriteToUDP(ping.Encode(), c.masterAddr); err != nil {
				c.log.Error("send RPTPING failed", logger.Error(err))
			}
		}
	}
}

func (c *Client) setState(s ConnectionState) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

func (c *Client) getState() ConnectionState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// nextStreamID allocates a peer-local stream identifier for a fresh
// voice/control transmission.
func (c *Client) nextStreamID() uint32 {
	return atomic.AddUint32(&c.streamSeq, 1)
}

func (c *Client) send(streamID uint32, payloadType byte, function, subFunction byte, payload []byte) error {
	if c.getState() != StateConnected {
		return fmt.Errorf("netpeer: not connected to master")
	}
	datagram := c.queue.Enqueue(streamID, payloadType, function, subFunction, payload)
	_, err := c.conn.WriteToUDP(datagram, c.masterAddr)
	return err
}

// The Write* methods implement core.Network, framing each protocol's
// wire payload through the client's FrameQueue and handing it to the
// master. function/sub-function values distinguish frame kinds the
// way the teacher's DMRD slot byte distinguishes voice header/voice/
// terminator bursts, generalized here to cover P25/DMR/NXDN alike.
const (
	fnP25LDU1 byte = 0x01
	fnP25LDU2 byte = 0x02
	fnP25TDU  byte = 0x03
	fnP25TSBK byte = 0x04
	fnDMRData byte = 0x10
	fnNXDN    byte = 0x20
)

func (c *Client) WriteP25LDU1(ctx context.Context, lc core.LC, data []byte) error {
	return c.send(c.streamIDFor(lc), netq.PayloadTypeVoice, fnP25LDU1, 0, data)
}

func (c *Client) WriteP25LDU2(ctx context.Context, lc core.LC, data []byte) error {
	return c.send(c.streamIDFor(lc), netq.PayloadTypeVoice, fnP25LDU2, 0, data)
}

func (c *Client) WriteP25TDU(ctx context.Context, lc core.LC) error {
	streamID := c.streamIDFor(lc)
	datagram := c.queue.EndOfCall(streamID, netq.PayloadTypeVoice, fnP25TDU, 0, nil)
	if c.getState() != StateConnected {
		return fmt.Errorf("netpeer: not connected to master")
	}
	_, err := c.conn.WriteToUDP(datagram, c.masterAddr)
	return err
}

func (c *Client) WriteP25TSBK(ctx context.Context, data []byte) error {
	return c.send(c.nextStreamID(), netq.PayloadTypeControl, fnP25TSBK, 0, data)
}

func (c *Client) WriteDMRData(ctx context.Context, slot int, lc core.LC, data []byte) error {
	return c.send(c.streamIDFor(lc), netq.PayloadTypeVoice, fnDMRData, byte(slot), data)
}

func (c *Client) WriteNXDN(ctx context.Context, lc core.LC, data []byte) error {
	return c.send(c.streamIDFor(lc), netq.PayloadTypeVoice, fnNXDN, 0, data)
}

func (c *Client) ResetP25(ctx context.Context) error  { return c.resetAll() }
func (c *Client) ResetDMR(ctx context.Context) error  { return c.resetAll() }
func (c *Client) ResetNXDN(ctx context.Context) error { return c.resetAll() }

func (c *Client) resetAll() error {
	return nil
}

// streamIDFor derives a stable stream identifier from a call's
// source/destination pair so repeated writes for the same
// transmission share one FrameQueue sequence counter.
func (c *Client) streamIDFor(lc core.LC) uint32 {
	return lc.SrcID<<12 ^ lc.DstID
}
