package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the gateway's full configuration: the attached
// modem link, this station's site identity, which over-the-air
// protocols are enabled, DFSI fixed-station control, and the ambient
// web/metrics/mqtt/logging/storage concerns every protocol shares.
type Config struct {
	Modem   ModemConfig            `mapstructure:"modem"`
	Site    SiteConfig             `mapstructure:"site"`
	Idens   []IdenConfig           `mapstructure:"idens"`
	DMR     DMRConfig              `mapstructure:"dmr"`
	P25     P25Config              `mapstructure:"p25"`
	NXDN    NXDNConfig             `mapstructure:"nxdn"`
	DFSI    DFSIConfig             `mapstructure:"dfsi"`
	Peer    PeerConfig             `mapstructure:"peer"`
	Web     WebConfig              `mapstructure:"web"`
	MQTT    MQTTConfig             `mapstructure:"mqtt"`
	Logging LoggingConfig          `mapstructure:"logging"`
	Metrics MetricsConfig          `mapstructure:"metrics"`
	Store   StoreConfig            `mapstructure:"store"`
}

// PeerConfig describes the UDP link this station's pkg/netpeer client
// uses to register with and exchange frames with a master FNE, the
// RPTL/RPTK/RPTC handshake and RPTPING/MSTPONG keepalive the teacher's
// PEER-mode network.Client performs.
type PeerConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	PeerID     uint32 `mapstructure:"peer_id"`
	MasterHost string `mapstructure:"master_host"`
	MasterPort int    `mapstructure:"master_port"`
	LocalPort  int    `mapstructure:"local_port"`
	Passphrase string `mapstructure:"passphrase"`
	Callsign   string `mapstructure:"callsign"`
}

// ModemConfig describes the serial or network modem link the station
// keys its RF side through.
type ModemConfig struct {
	Port        string `mapstructure:"port"`
	BaudRate    int    `mapstructure:"baud_rate"`
	RXInvert    bool   `mapstructure:"rx_invert"`
	TXInvert    bool   `mapstructure:"tx_invert"`
	PTTInvert   bool   `mapstructure:"ptt_invert"`
	Duplex      bool   `mapstructure:"duplex"`
	TxHang      int    `mapstructure:"tx_hang"`
	RSSIMapping bool   `mapstructure:"rssi_mapping"`
}

// SiteConfig holds the static site identity fields every protocol's
// control-channel broadcasts carry (mirrors core.SiteData).
type SiteConfig struct {
	NetID     uint32 `mapstructure:"net_id"`
	SysID     uint32 `mapstructure:"sys_id"`
	ColorCode uint8  `mapstructure:"color_code"`
	RFSSID    uint8  `mapstructure:"rfss_id"`
	SiteID    uint8  `mapstructure:"site_id"`
}

// IdenConfig is one entry of the channel-number to RF-parameter table
// (mirrors core.RFParams).
type IdenConfig struct {
	ChannelNo  uint16 `mapstructure:"channel_no"`
	BaseFreqHz uint64 `mapstructure:"base_freq_hz"`
	SpacingHz  uint32 `mapstructure:"spacing_hz"`
	TxOffsetHz int64  `mapstructure:"tx_offset_hz"`
	Bandwidth  uint32 `mapstructure:"bandwidth"`
}

// DMRConfig enables/configures the DMR protocol processor.
type DMRConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ColorCode uint8  `mapstructure:"color_code"`
	RegACL    string `mapstructure:"reg_acl"`
	SubACL    string `mapstructure:"sub_acl"`
	TG1ACL    string `mapstructure:"tg1_acl"`
	TG2ACL    string `mapstructure:"tg2_acl"`
}

// P25Config enables/configures the P25 protocol processor.
type P25Config struct {
	Enabled bool   `mapstructure:"enabled"`
	NAC     uint16 `mapstructure:"nac"`
	RegACL  string `mapstructure:"reg_acl"`
	SubACL  string `mapstructure:"sub_acl"`
}

// NXDNConfig enables/configures the NXDN protocol processor.
type NXDNConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	RAN     uint8  `mapstructure:"ran"`
	RegACL  string `mapstructure:"reg_acl"`
	SubACL  string `mapstructure:"sub_acl"`
}

// DFSIConfig configures the Digital Fixed Station Interface (DFSI)
// voice/control link to an external console or repeater controller.
type DFSIConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenHost string `mapstructure:"listen_host"`
	ListenPort int    `mapstructure:"listen_port"`
	DumpFrames bool   `mapstructure:"dump_frames"`
}

// WebConfig holds web dashboard configuration.
type WebConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	AuthRequired bool   `mapstructure:"auth_required"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
}

// MQTTConfig holds MQTT client configuration.
type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	QoS         byte   `mapstructure:"qos"`
	Retained    bool   `mapstructure:"retained"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled    bool             `mapstructure:"enabled"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig holds Prometheus metrics configuration.
type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// StoreConfig configures the CallSession/BER/FSC persistence backend.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from file and environment variables.
func Load(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/dvmhost")
	}

	viper.SetEnvPrefix("DVM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is OK, use defaults
		} else if os.IsNotExist(err) {
			// File explicitly specified but doesn't exist - that's also OK
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("modem.port", "/dev/ttyUSB0")
	viper.SetDefault("modem.baud_rate", 115200)
	viper.SetDefault("modem.duplex", true)
	viper.SetDefault("modem.tx_hang", 5)

	viper.SetDefault("dmr.enabled", true)
	viper.SetDefault("dmr.color_code", 1)
	viper.SetDefault("dmr.reg_acl", "PERMIT:ALL")
	viper.SetDefault("dmr.sub_acl", "PERMIT:ALL")
	viper.SetDefault("dmr.tg1_acl", "PERMIT:ALL")
	viper.SetDefault("dmr.tg2_acl", "PERMIT:ALL")

	viper.SetDefault("p25.enabled", false)
	viper.SetDefault("p25.nac", 0x293)
	viper.SetDefault("p25.reg_acl", "PERMIT:ALL")
	viper.SetDefault("p25.sub_acl", "PERMIT:ALL")

	viper.SetDefault("nxdn.enabled", false)
	viper.SetDefault("nxdn.ran", 1)
	viper.SetDefault("nxdn.reg_acl", "PERMIT:ALL")
	viper.SetDefault("nxdn.sub_acl", "PERMIT:ALL")

	viper.SetDefault("dfsi.enabled", false)
	viper.SetDefault("dfsi.listen_host", "0.0.0.0")
	viper.SetDefault("dfsi.listen_port", 4011)

	viper.SetDefault("peer.enabled", false)
	viper.SetDefault("peer.master_port", 62031)
	viper.SetDefault("peer.local_port", 62032)

	viper.SetDefault("web.enabled", true)
	viper.SetDefault("web.host", "0.0.0.0")
	viper.SetDefault("web.port", 8080)
	viper.SetDefault("web.auth_required", false)

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.topic_prefix", "dvmhost")
	viper.SetDefault("mqtt.client_id", "dvmhost")
	viper.SetDefault("mqtt.qos", 1)
	viper.SetDefault("mqtt.retained", false)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 7)

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.prometheus.enabled", true)
	viper.SetDefault("metrics.prometheus.port", 9090)
	viper.SetDefault("metrics.prometheus.path", "/metrics")

	viper.SetDefault("store.enabled", true)
	viper.SetDefault("store.path", "dvmhost.sqlite")
}
