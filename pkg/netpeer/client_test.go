package netpeer

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/config"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/logger"
	"github.com/DVMProject/dvmhost-sub010/pkg/netq"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error"})
}

// fakeMaster accepts the RPTL/RPTK/RPTC handshake and ACKs each step,
// then echoes back any framed datagram it receives so the client's
// receive loop can be exercised end to end.
func fakeMaster(t *testing.T, peerID uint32) (*net.UDPAddr, func()) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	done := make(chan struct{})
	go func() {
		buf := make([]byte, 4096)
		for {
			select {
			case <-done:
				return
			default:
			}
			conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				continue
			}
			data := append([]byte(nil), buf[:n]...)
			switch {
			case len(data) == rptlPacketSize && string(data[0:4]) == packetTypeRPTL,
				len(data) == rptkPacketSize && string(data[0:4]) == packetTypeRPTK,
				len(data) == rptcPacketSize && string(data[0:4]) == packetTypeRPTC:
				ack := make([]byte, rptackPacketSize)
				copy(ack[0:6], packetTypeRPTACK)
				conn.WriteToUDP(ack, addr)
			default:
				conn.WriteToUDP(data, addr)
			}
		}
	}()

	return conn.LocalAddr().(*net.UDPAddr), func() { close(done); conn.Close() }
}

func TestClient_AuthenticateAndWriteDMR(t *testing.T) {
	masterAddr, stop := fakeMaster(t, 312000)
	defer stop()

	cfg := config.PeerConfig{
		Enabled:    true,
		PeerID:     312000,
		MasterHost: "127.0.0.1",
		MasterPort: masterAddr.Port,
		LocalPort:  0,
		Callsign:   "W1AW",
	}
	c := New(cfg, testLogger())

	received := make(chan netq.Frame, 1)
	c.OnFrame(func(f netq.Frame) { received <- f })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	// Give authentication time to complete before writing.
	time.Sleep(200 * time.Millisecond)

	lc := core.LC{Protocol: core.ProtoDMR, SrcID: 1, DstID: 2}
	if err := c.WriteDMRData(ctx, 1, lc, []byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("WriteDMRData failed: %v", err)
	}

	select {
	case f := <-received:
		if f.FNE.Function != fnDMRData {
			t.Errorf("expected function fnDMRData, got %d", f.FNE.Function)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for echoed frame")
	}

	cancel()
	<-errCh
}

func TestClient_WriteBeforeConnected_Fails(t *testing.T) {
	cfg := config.PeerConfig{PeerID: 1, MasterHost: "127.0.0.1", MasterPort: 1, LocalPort: 0}
	c := New(cfg, testLogger())

	lc := core.LC{SrcID: 1, DstID: 2}
	if err := c.WriteNXDN(context.Background(), lc, []byte{0x01}); err == nil {
		t.Error("expected error writing before connected")
	}
}

func TestClient_StreamIDFor_StableAcrossCalls(t *testing.T) {
	c := New(config.PeerConfig{PeerID: 1}, testLogger())
	lc := core.LC{SrcID: 100, DstID: 200}
	if c.streamIDFor(lc) != c.streamIDFor(lc) {
		t.Error("expected streamIDFor to be stable for the same LC")
	}
}
