package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Options configures a server. Fields are read from the environment by
// OptionsFromEnv and may be overridden afterwards.
type Options struct {
	TZ            string `env:"BGAMMON_TZ"`
	DataSource    string `env:"BGAMMON_DB"`
	IPAddressSalt string `env:"BGAMMON_SALT_IP"`

	CertDomain  string `env:"BGAMMON_CERT_DOMAIN"`
	CertEmail   string `env:"BGAMMON_CERT_EMAIL"`
	CertFolder  string `env:"BGAMMON_CERT_FOLDER" envDefault:"certs"`
	CertAddress string `env:"BGAMMON_CERT_ADDRESS" envDefault:":80"`

	MOTD      string `env:"BGAMMON_MOTD"`
	RelayChat bool   `env:"BGAMMON_RELAY_CHAT"` // Relay chat messages to spectators.
	Verbose   bool   `env:"BGAMMON_VERBOSE"`

	// SkipDelay is the pause after a turn is skipped before the computer
	// acts, giving clients time to show the skipped turn.
	SkipDelay time.Duration `env:"BGAMMON_SKIP_DELAY" envDefault:"1500ms"`
	// AIDelay is the pause before each action of the computer player.
	AIDelay time.Duration `env:"BGAMMON_AI_DELAY" envDefault:"750ms"`
}

// OptionsFromEnv returns options populated from environment variables.
func OptionsFromEnv() (*Options, error) {
	op := &Options{}
	if err := env.Parse(op); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return op, nil
}
