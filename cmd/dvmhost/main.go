// Command dvmhost is the gateway's process entrypoint: it loads
// configuration, wires the modem link, the per-protocol voice/trunk
// processors, the optional UDP uplink, and the ambient web/metrics/
// mqtt/store subsystems, then runs until a shutdown signal arrives.
//
// Grounded on the teacher's cmd/dmr-nexus/main.go wiring order (logger
// -> config -> metrics -> store -> subsystems -> signal-driven
// shutdown), restructured as spf13/cobra subcommands
// (serve/validate-config/version) per SPEC_FULL.md, since this CLI's
// surface is multi-command where the teacher's was a single binary
// with bare flags.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/clock"
	"github.com/DVMProject/dvmhost-sub010/pkg/config"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/dfsi/fsc"
	dfsivoice "github.com/DVMProject/dvmhost-sub010/pkg/dfsi/voice"
	"github.com/DVMProject/dvmhost-sub010/pkg/logger"
	"github.com/DVMProject/dvmhost-sub010/pkg/metrics"
	"github.com/DVMProject/dvmhost-sub010/pkg/modem"
	"github.com/DVMProject/dvmhost-sub010/pkg/modemport"
	"github.com/DVMProject/dvmhost-sub010/pkg/mqtt"
	"github.com/DVMProject/dvmhost-sub010/pkg/netpeer"
	"github.com/DVMProject/dvmhost-sub010/pkg/nxdn"
	"github.com/DVMProject/dvmhost-sub010/pkg/store"
	"github.com/DVMProject/dvmhost-sub010/pkg/trunk"
	voicedmr "github.com/DVMProject/dvmhost-sub010/pkg/voice/dmr"
	voicenxdn "github.com/DVMProject/dvmhost-sub010/pkg/voice/nxdn"
	voicep25 "github.com/DVMProject/dvmhost-sub010/pkg/voice/p25"
	"github.com/DVMProject/dvmhost-sub010/pkg/web"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// dmrCSBKBits is the BPTC(196,96)-encoded burst length dmr.DecodeCSBK
// expects, the same 196-bit frame every other DMR BPTC consumer in this
// repo (pkg/dmr/fulllc.go) operates on.
const dmrCSBKBits = 196

func main() {
	root := &cobra.Command{
		Use:   "dvmhost",
		Short: "Digital voice modem host: a modem-to-network gateway for DMR, P25, and NXDN",
	}

	var configFile string
	root.PersistentFlags().StringVar(&configFile, "config", "config.yaml", "path to configuration file")

	root.AddCommand(
		newServeCmd(&configFile),
		newValidateConfigCmd(&configFile),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("dvmhost %s\n", version)
			fmt.Printf("Git Commit: %s\n", gitCommit)
			fmt.Printf("Built: %s\n", buildTime)
			return nil
		},
	}
}

func newValidateConfigCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Load and validate the configuration file, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(*configFile); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			fmt.Println("Configuration is valid")
			return nil
		},
	}
}

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway until a shutdown signal arrives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*configFile)
		},
	}
}

// gateway bundles every subsystem serve wires together, so its
// individual start/stop steps stay readable.
type gateway struct {
	log     *logger.Logger
	cfg     *config.Config
	st      *store.Store
	metrics *metrics.Collector
	promSrv *metrics.PrometheusServer
	mqttPub *mqtt.Publisher
	webSrv  *web.Server
	peer    *netpeer.Client
	modem   *modem.ModemLink

	p25Voice  *voicep25.Processor
	dmrVoice  *voicedmr.Processor
	nxdnVoice *voicenxdn.Processor

	p25Trunk  *trunk.P25Processor
	dmrTrunk  *trunk.DMRProcessor
	nxdnTrunk *trunk.NXDNProcessor

	dfsiSrv      *fsc.Server
	dfsiVoice    *dfsivoice.Processor
	dfsiListener net.Listener
}

func serve(configFile string) error {
	log := logger.New(logger.Config{Level: "info", Format: "text"})
	log.Info("starting dvmhost",
		logger.String("version", version),
		logger.String("commit", gitCommit),
		logger.String("build_time", buildTime))

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log = logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	gw := &gateway{log: log, cfg: cfg}
	if err := gw.build(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	gw.start(ctx, &wg)

	sig := <-sigCh
	log.Info("received shutdown signal", logger.String("signal", sig.String()))
	cancel()
	wg.Wait()

	gw.stop()
	log.Info("dvmhost stopped")
	return nil
}

// build constructs every subsystem from cfg but starts none of them,
// so validation errors surface before any goroutine or socket exists.
func (gw *gateway) build() error {
	cfg, log := gw.cfg, gw.log

	if cfg.Store.Enabled {
		st, err := store.Open(cfg.Store, log.WithComponent("store"))
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		gw.st = st
	}

	reg := prometheus.NewRegistry()
	gw.metrics = metrics.NewCollector(reg)
	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		gw.promSrv = metrics.NewPrometheusServer(cfg.Metrics.Prometheus, reg, log.WithComponent("metrics"))
	}

	if cfg.MQTT.Enabled {
		gw.mqttPub = mqtt.New(cfg.MQTT, log.WithComponent("mqtt"))
	}

	if cfg.Web.Enabled {
		srv := web.NewServer(cfg.Web, log.WithComponent("web"))
		if gw.st != nil {
			srv = srv.WithHistory(store.NewSessionRepository(gw.st.GetDB()))
		}
		gw.webSrv = srv
	}

	clk := clock.System{}

	if cfg.Peer.Enabled {
		gw.peer = netpeer.New(cfg.Peer, log.WithComponent("netpeer"))
	}

	if cfg.Modem.Port != "" {
		port := modemport.NewSerialPort(cfg.Modem.Port, cfg.Modem.BaudRate)
		gw.modem = modem.New(port, clk, log.WithComponent("modem"), modem.Config{})
	}

	site := core.SiteData{
		NetID:     cfg.Site.NetID,
		SysID:     cfg.Site.SysID,
		ColorCode: cfg.Site.ColorCode,
		RFSSID:    cfg.Site.RFSSID,
		SiteID:    cfg.Site.SiteID,
	}

	affHang := 5 * time.Second
	netCtx := core.Context{
		Network:      gw.networkCapability(),
		Affiliations: core.NewMapAffiliations(clk, affHang),
		Idens:        buildIdenTable(cfg.Idens),
		Clock:        clk,
	}

	if cfg.DMR.Enabled {
		acl, err := buildACL(cfg.DMR.RegACL, cfg.DMR.TG1ACL)
		if err != nil {
			return fmt.Errorf("dmr ACL: %w", err)
		}
		dmrCtx := netCtx
		dmrCtx.ACL = acl
		gw.dmrVoice = &voicedmr.Processor{Ctx: dmrCtx, Timers: voicedmr.Timers{RFTimeout: 3 * time.Second, NetTimeout: 3 * time.Second}}
		gw.dmrTrunk = &trunk.DMRProcessor{
			ColorCode:    cfg.DMR.ColorCode,
			ACL:          acl,
			Affiliations: netCtx.Affiliations,
			Network:      gw.networkCapability(),
			Sink:         gw.dmrSink(),
		}
	}

	if cfg.P25.Enabled {
		acl, err := buildACL(cfg.P25.RegACL, cfg.P25.SubACL)
		if err != nil {
			return fmt.Errorf("p25 ACL: %w", err)
		}
		p25Ctx := netCtx
		p25Ctx.ACL = acl
		gw.p25Voice = &voicep25.Processor{Ctx: p25Ctx, Timers: voicep25.Timers{RFTimeout: 3 * time.Second, NetTimeout: 3 * time.Second}}
		gw.p25Trunk = &trunk.P25Processor{
			Site:         site,
			NAC:          cfg.P25.NAC,
			ACL:          acl,
			Affiliations: netCtx.Affiliations,
			Network:      gw.networkCapability(),
			Sink:         gw.p25Sink(),
		}
	}

	if cfg.NXDN.Enabled {
		acl, err := buildACL(cfg.NXDN.RegACL, cfg.NXDN.SubACL)
		if err != nil {
			return fmt.Errorf("nxdn ACL: %w", err)
		}
		nxdnCtx := netCtx
		nxdnCtx.ACL = acl
		gw.nxdnVoice = &voicenxdn.Processor{Ctx: nxdnCtx, Timers: voicenxdn.Timers{RFTimeout: 3 * time.Second, NetTimeout: 3 * time.Second}, RAN: cfg.NXDN.RAN}
		gw.nxdnTrunk = &trunk.NXDNProcessor{
			Site:    site,
			RAN:     cfg.NXDN.RAN,
			Duplex:  cfg.Modem.Duplex,
			Network: gw.networkCapability(),
			Sink:    gw.nxdnSink(),
		}
	}

	if cfg.DFSI.Enabled {
		var channelStore fsc.ChannelStore
		if gw.st != nil {
			channelStore = store.NewFSCRepository(gw.st.GetDB())
		}
		dfsiCtx := netCtx
		gw.dfsiVoice = &dfsivoice.Processor{Ctx: dfsiCtx, Timers: dfsivoice.Timers{CallTimeout: 3 * time.Second}}
		gw.dfsiSrv = fsc.NewServer(log, channelStore)
		gw.dfsiSrv.OnSelChannel(func(stationID string, sel fsc.SelChannel) {
			log.Info("dfsi station selected channel",
				logger.String("station", stationID),
				logger.Uint("rx_chan", uint(sel.RxChan)),
				logger.Uint("tx_chan", uint(sel.TxChan)))
		})
	}

	return nil
}

// modemFrameSink adapts one of ModemLink's per-protocol Write*Data
// methods to trunk.FrameSink's single-method AddFrame shape.
type modemFrameSink struct {
	write func(data []byte) error
	log   *logger.Logger
}

func (s modemFrameSink) AddFrame(data []byte) {
	if err := s.write(data); err != nil {
		s.log.Warn("modem write failed", logger.Error(err))
	}
}

func (gw *gateway) dmrSink() trunk.FrameSink {
	if gw.modem == nil {
		return nil
	}
	return modemFrameSink{log: gw.log, write: func(data []byte) error { return gw.modem.WriteDMRData1(modem.TagData, data) }}
}

func (gw *gateway) p25Sink() trunk.FrameSink {
	if gw.modem == nil {
		return nil
	}
	return modemFrameSink{log: gw.log, write: func(data []byte) error { return gw.modem.WriteP25Data(modem.TagData, data) }}
}

func (gw *gateway) nxdnSink() trunk.FrameSink {
	if gw.modem == nil {
		return nil
	}
	return modemFrameSink{log: gw.log, write: func(data []byte) error { return gw.modem.WriteNXDNData(modem.TagData, data) }}
}

// networkCapability returns the core.Network implementation voice/trunk
// processors write outbound traffic through: the UDP peer uplink when
// configured, or nil when this station is modem-only with no IP side.
func (gw *gateway) networkCapability() core.Network {
	if gw.peer == nil {
		return nil
	}
	return gw.peer
}

func buildACL(srcRule, tgRule string) (core.ACL, error) {
	if srcRule == "" {
		srcRule = "PERMIT:ALL"
	}
	if tgRule == "" {
		tgRule = "PERMIT:ALL"
	}
	return core.NewRangeACL(srcRule, tgRule)
}

func buildIdenTable(idens []config.IdenConfig) *core.MapIdenTable {
	entries := make([]core.RFParams, 0, len(idens))
	for _, i := range idens {
		entries = append(entries, core.RFParams{
			ChannelNo:  i.ChannelNo,
			BaseFreqHz: i.BaseFreqHz,
			SpacingHz:  i.SpacingHz,
			TxOffsetHz: i.TxOffsetHz,
			Bandwidth:  i.Bandwidth,
		})
	}
	return core.NewMapIdenTable(entries)
}

// start launches every configured subsystem's goroutine, tracked by wg
// so serve can wait for a clean shutdown after ctx is cancelled.
func (gw *gateway) start(ctx context.Context, wg *sync.WaitGroup) {
	log := gw.log

	if gw.promSrv != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := gw.promSrv.Start(ctx); err != nil && err != context.Canceled {
				log.Error("prometheus server error", logger.Error(err))
			}
		}()
	}

	if gw.mqttPub != nil {
		if err := gw.mqttPub.Start(); err != nil {
			log.Error("mqtt publisher failed to start", logger.Error(err))
		}
	}

	if gw.webSrv != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := gw.webSrv.Start(ctx); err != nil && err != context.Canceled {
				log.Error("web server error", logger.Error(err))
			}
		}()
	}

	if gw.peer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := gw.peer.Run(ctx); err != nil && err != context.Canceled {
				log.Error("peer uplink error", logger.Error(err))
			}
		}()
	}

	if gw.modem != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gw.runModem(ctx)
		}()
	}

	if gw.dfsiSrv != nil {
		addr := fmt.Sprintf("%s:%d", gw.cfg.DFSI.ListenHost, gw.cfg.DFSI.ListenPort)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			log.Error("dfsi listen failed", logger.Error(err))
		} else {
			gw.dfsiListener = ln
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := gw.dfsiSrv.Serve(ln); err != nil {
					log.Warn("dfsi server stopped", logger.Error(err))
				}
			}()
			go func() {
				<-ctx.Done()
				ln.Close()
			}()
		}
	}

	log.Info("dvmhost running")
}

// runModem opens the modem link, then alternates GET_STATUS polling
// with inbound-frame dispatch to the enabled protocol processors until
// ctx is cancelled, mirroring the teacher's per-subsystem goroutine
// shape in cmd/dmr-nexus/main.go.
func (gw *gateway) runModem(ctx context.Context) {
	log := gw.log.WithComponent("modem")

	if err := gw.modem.Open(); err != nil {
		log.Error("modem open failed", logger.Error(err))
		return
	}
	defer gw.modem.Close()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := gw.modem.Poll(); err != nil {
				log.Warn("modem status poll failed", logger.Error(err))
				continue
			}
			gw.dispatchModemFrame(ctx)
		}
	}
}

// dispatchModemFrame reads one unsolicited frame (if any is pending)
// and routes it to the matching protocol's trunk admission processor,
// writing a granted/denied control response back to the modem.
func (gw *gateway) dispatchModemFrame(ctx context.Context) {
	op, payload, err := gw.modem.ReadFrame()
	if err != nil {
		return
	}
	if len(payload) < 2 {
		return
	}
	frame := payload[1:]

	switch op {
	case modem.OpP25Data:
		if gw.p25Trunk == nil {
			return
		}
		gw.metrics.FrameReceived("p25")
		if _, resp, handled, err := gw.p25Trunk.Process(ctx, frame); err == nil && handled {
			if werr := gw.modem.WriteP25Data(modem.TagData, resp); werr != nil {
				gw.log.Warn("modem P25 write failed", logger.Error(werr))
			} else {
				gw.metrics.FrameSent("p25")
			}
		}
	case modem.OpDMRData1, modem.OpDMRData2:
		if gw.dmrTrunk == nil {
			return
		}
		gw.metrics.FrameReceived("dmr")
		slot := 1
		if op == modem.OpDMRData2 {
			slot = 2
		}
		gw.dmrTrunk.Slot = slot
		burst := bits.WrapBitArray(frame, dmrCSBKBits)
		if _, resp, handled, err := gw.dmrTrunk.Process(ctx, burst); err == nil && handled && resp != nil {
			writeDMR := gw.modem.WriteDMRData1
			if slot == 2 {
				writeDMR = gw.modem.WriteDMRData2
			}
			if werr := writeDMR(modem.TagData, resp.Bytes()); werr != nil {
				gw.log.Warn("modem DMR write failed", logger.Error(werr))
			} else {
				gw.metrics.FrameSent("dmr")
			}
		}
	case modem.OpNXDNData:
		if gw.nxdnTrunk == nil || len(frame) < 1 {
			return
		}
		gw.metrics.FrameReceived("nxdn")
		var lich nxdn.LICH
		if !lich.Decode(frame) {
			return
		}
		if handled, err := gw.nxdnTrunk.Process(lich.FCT, lich.Option, frame[1:]); err == nil && handled {
			gw.nxdnTrunk.WriteControlData(0)
			gw.metrics.FrameSent("nxdn")
		}
	}
}

func (gw *gateway) stop() {
	if gw.mqttPub != nil {
		gw.mqttPub.Stop()
	}
	if gw.st != nil {
		gw.st.Close()
	}
}
