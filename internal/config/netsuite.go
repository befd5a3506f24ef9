package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// NetSuite holds the connection settings for the fetch command.
// Values are read from NETSUITE_* environment variables.
type NetSuite struct {
	AccountID     string        `envconfig:"ACCOUNT_ID"`
	RestletURL    string        `envconfig:"RESTLET_URL"`
	SuiteQLURL    string        `envconfig:"SUITEQL_URL"`
	Authorization string        `envconfig:"AUTHORIZATION"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"60s"`
}

// LoadNetSuite reads NetSuite settings from the environment.
func LoadNetSuite() (*NetSuite, error) {
	var cfg NetSuite
	if err := envconfig.Process("netsuite", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read NetSuite environment: %w", err)
	}
	if cfg.SuiteQLURL == "" && cfg.AccountID != "" {
		host := strings.ToLower(strings.ReplaceAll(cfg.AccountID, "_", "-"))
		cfg.SuiteQLURL = fmt.Sprintf("https://%s.suitetalk.api.netsuite.com/services/rest/query/v1/suiteql", host)
	}
	return &cfg, nil
}

// Validate reports the first missing setting needed to talk to NetSuite.
func (n *NetSuite) Validate() error {
	if n.RestletURL == "" {
		return errors.New("NETSUITE_RESTLET_URL must be provided")
	}
	if n.SuiteQLURL == "" {
		return errors.New("NETSUITE_SUITEQL_URL or NETSUITE_ACCOUNT_ID must be provided")
	}
	if n.Authorization == "" {
		return errors.New("NETSUITE_AUTHORIZATION must be provided")
	}
	return nil
}
