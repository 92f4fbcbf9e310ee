// Package fsc's Server accepts the control connection a DFSI fixed
// station opens, runs its Connect/Heartbeat/SelChannel handshake, and
// persists channel selections through pkg/store so a station's last
// chosen channel survives a gateway restart. Grounded on the teacher's
// pkg/network listener accept-loop shape, adapted from a UDP peer
// listener to a per-station net.Conn session.
package fsc

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/logger"
)

// ChannelStore persists a station's channel selection, implemented by
// pkg/store.FSCRepository.
type ChannelStore interface {
	SetChannel(stationID string, channelNo uint16, siteID uint8) error
}

// SelChannelHandler is invoked when a connected station's channel
// selection changes, so the trunking layer can map the station to the
// RF channel it now controls.
type SelChannelHandler func(stationID string, sel SelChannel)

// Server accepts DFSI fixed-station control connections on a single
// TCP listener, one goroutine per session.
type Server struct {
	log   *logger.Logger
	store ChannelStore

	mu       sync.Mutex
	sessions map[string]*Session

	onSelChannel SelChannelHandler
}

// NewServer creates an FSC control server. store may be nil, in which
// case channel selections are tracked in memory only.
func NewServer(log *logger.Logger, store ChannelStore) *Server {
	return &Server{
		log:      log.WithComponent("dfsi.fsc"),
		store:    store,
		sessions: make(map[string]*Session),
	}
}

// OnSelChannel registers the callback fired whenever a session receives
// a SelChannel request.
func (s *Server) OnSelChannel(h SelChannelHandler) { s.onSelChannel = h }

// Serve accepts connections on ln until it is closed, blocking the
// calling goroutine the way the teacher's listener loops do.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		sess := newSession(conn, s)
		s.mu.Lock()
		s.sessions[sess.id] = sess
		s.mu.Unlock()
		go sess.run()
	}
}

// Sessions returns the station IDs currently connected.
func (s *Server) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Session is one fixed station's control connection.
type Session struct {
	id     string
	conn   net.Conn
	server *Server
	r      *bufio.Reader

	correlationTag byte
}

func newSession(conn net.Conn, server *Server) *Session {
	return &Session{
		id:     conn.RemoteAddr().String(),
		conn:   conn,
		server: server,
		r:      bufio.NewReader(conn),
	}
}

// run drives one session until the connection closes or a Disconnect
// message arrives.
func (sess *Session) run() {
	defer sess.conn.Close()
	defer sess.server.removeSession(sess.id)

	log := sess.server.log.WithComponent("dfsi.fsc.session")
	log.Info("fsc session opened", logger.String("station", sess.id))

	for {
		header, err := sess.r.Peek(1)
		if err != nil {
			return
		}
		mt := MessageType(header[0])
		length := lengthHint(mt)
		if length == 0 {
			log.Warn("fsc unknown message type", logger.String("station", sess.id))
			return
		}
		buf := make([]byte, length)
		if _, err := readFull(sess.r, buf); err != nil {
			return
		}
		if mt == TypeACK {
			if extra := int(buf[ACKLength-1]); extra > 0 {
				trailer := make([]byte, extra)
				if _, err := readFull(sess.r, trailer); err != nil {
					return
				}
				buf = append(buf, trailer...)
			}
		}

		msg, err := Decode(buf)
		if err != nil {
			log.Warn("fsc decode failed", logger.Error(err))
			continue
		}
		sess.dispatch(msg)
	}
}

func (sess *Session) dispatch(msg Message) {
	switch m := msg.(type) {
	case *Connect:
		sess.correlationTag = m.Header().CorrelationTag
		sess.reply(NewACK(m.Header(), AckAccept, nil))
	case *Heartbeat:
		sess.reply(NewHeartbeat())
	case *SelChannel:
		if sess.server.store != nil {
			if err := sess.server.store.SetChannel(sess.id, uint16(m.RxChan), 0); err != nil {
				sess.server.log.Warn("fsc channel persist failed", logger.Error(err))
			}
		}
		if sess.server.onSelChannel != nil {
			sess.server.onSelChannel(sess.id, *m)
		}
		sess.reply(NewACK(m.Header(), AckAccept, nil))
	case *ReportSelModes:
		sess.reply(NewACK(m.Header(), AckAccept, nil))
	case *Disconnect:
		sess.conn.Close()
	}
}

func (sess *Session) reply(msg Message) {
	_, _ = sess.conn.Write(msg.Encode())
}

// lengthHint returns the fixed record length a message type's leading
// byte implies, the same peek-then-read shape pkg/modem's frame reader
// uses for its length-prefixed records. ACK's variable ResponseData
// trailer is read in a second pass once the fixed portion is in hand.
func lengthHint(mt MessageType) int {
	switch mt {
	case TypeConnect:
		return ConnectLength
	case TypeHeartbeat:
		return HeartbeatLength
	case TypeACK:
		return ACKLength
	case TypeReportSelModes:
		return ReportSelModesLength
	case TypeSelChannel:
		return SelChannelLength
	case TypeDisconnect:
		return DisconnectLength
	default:
		return 0
	}
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// DialClient opens a station-side control connection to an FSC server
// at addr, completing the Connect/ACK handshake before returning.
func DialClient(addr string, timeout time.Duration, vcBasePort uint16, vcSSRC uint32, fsPeriod, hostPeriod byte) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("fsc dial: %w", err)
	}
	c := &Client{conn: conn, r: bufio.NewReader(conn)}

	connect := NewConnect(1, vcBasePort, vcSSRC, fsPeriod, hostPeriod)
	if _, err := conn.Write(connect.Encode()); err != nil {
		conn.Close()
		return nil, err
	}
	buf := make([]byte, ACKLength)
	if _, err := readFull(c.r, buf); err != nil {
		conn.Close()
		return nil, err
	}
	msg, err := Decode(buf)
	if err != nil {
		conn.Close()
		return nil, err
	}
	ack, ok := msg.(*ACK)
	if !ok || ack.ResponseCode != AckAccept {
		conn.Close()
		return nil, fmt.Errorf("fsc connect rejected")
	}
	return c, nil
}

// Client is the fixed-station side of an FSC control session.
type Client struct {
	conn net.Conn
	r    *bufio.Reader
}

// SendHeartbeat sends a Heartbeat keepalive.
func (c *Client) SendHeartbeat() error {
	_, err := c.conn.Write(NewHeartbeat().Encode())
	return err
}

// ReportSelModes tells the console which channels are selected.
func (c *Client) ReportSelModes(correlationTag byte) error {
	_, err := c.conn.Write(NewReportSelModes(correlationTag).Encode())
	return err
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }
