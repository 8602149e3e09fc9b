package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "server", "node":
		return serverTemplate, nil
	case "client":
		return clientTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const serverTemplate = `name = "voxd"
listen = ":30000"
peer_id_min = 2
peer_id_max = 65535
handshake_timeout = "2s"
admin_addr = "127.0.0.1:9300"
cors_origins = ["http://localhost:3000"]
log_level = "info"
`

const clientTemplate = `handshake_timeout = "2s"
max_connect_attempts = 5
backoff_initial = "250ms"
backoff_max = "5s"
backoff_jitter = true
`
