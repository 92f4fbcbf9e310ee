package config

import (
	"fmt"
	"strings"
)

// validate validates the configuration.
func validate(cfg *Config) error {
	if cfg.Modem.BaudRate < 0 {
		return fmt.Errorf("modem.baud_rate must not be negative")
	}

	if cfg.Web.Enabled {
		if cfg.Web.Port <= 0 || cfg.Web.Port > 65535 {
			return fmt.Errorf("web.port must be between 1 and 65535")
		}
	}

	if cfg.MQTT.Enabled {
		if cfg.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
		}
	}

	if cfg.DFSI.Enabled {
		if cfg.DFSI.ListenPort <= 0 || cfg.DFSI.ListenPort > 65535 {
			return fmt.Errorf("dfsi.listen_port must be between 1 and 65535")
		}
	}

	if cfg.Peer.Enabled {
		if cfg.Peer.MasterHost == "" {
			return fmt.Errorf("peer.master_host is required when peer is enabled")
		}
		if cfg.Peer.PeerID == 0 {
			return fmt.Errorf("peer.peer_id must be non-zero when peer is enabled")
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		if cfg.Metrics.Prometheus.Port <= 0 || cfg.Metrics.Prometheus.Port > 65535 {
			return fmt.Errorf("metrics.prometheus.port must be between 1 and 65535")
		}
	}

	if !cfg.DMR.Enabled && !cfg.P25.Enabled && !cfg.NXDN.Enabled {
		return fmt.Errorf("at least one of dmr.enabled, p25.enabled, nxdn.enabled must be true")
	}

	for name, acl := range map[string]string{
		"dmr.reg_acl": cfg.DMR.RegACL, "dmr.sub_acl": cfg.DMR.SubACL,
		"dmr.tg1_acl": cfg.DMR.TG1ACL, "dmr.tg2_acl": cfg.DMR.TG2ACL,
		"p25.reg_acl": cfg.P25.RegACL, "p25.sub_acl": cfg.P25.SubACL,
		"nxdn.reg_acl": cfg.NXDN.RegACL, "nxdn.sub_acl": cfg.NXDN.SubACL,
	} {
		if acl != "" && !strings.HasPrefix(acl, "PERMIT:") && !strings.HasPrefix(acl, "DENY:") {
			return fmt.Errorf("%s must start with PERMIT: or DENY:", name)
		}
	}

	return nil
}
