package daemon

import (
	"encoding/hex"
	"errors"

	"github.com/idgate/idgate/internal"
	"github.com/idgate/idgate/internal/authenticator"
)

var ErrInvalidSecretLength = errors.New("secret must be 16 bytes in size")

// Config configures the idgated daemon. Descriptions of each field can be
// found in the flag definitions in ./cmd/idgated
type Config struct {
	Address  string
	Database string
	Host     string
	Secret   Secret

	SSL               bool
	CertFile, KeyFile string

	EnableRequestLogging bool

	GithubClientID     string
	GithubClientSecret string
	Keycloak           authenticator.KeycloakConfig
	OIDC               []authenticator.OIDCConfig
}

// 16-byte secret for signing session tokens
type Secret []byte

func (id *Secret) UnmarshalText(text []byte) error {
	*id = make([]byte, 16)
	n, err := hex.Decode(*id, text)
	if err != nil {
		return err
	}
	if n != 16 {
		return ErrInvalidSecretLength
	}
	return nil
}

// NewConfig constructs an idgated configuration with defaults.
func NewConfig() Config {
	return Config{
		Address:  ":3003",
		Database: "postgres:///idgate?host=/var/run/postgresql",
	}
}

func (cfg *Config) Valid() error {
	if cfg.Secret == nil {
		return &internal.MissingParameterError{Parameter: "secret"}
	}
	if len(cfg.Secret) != 16 {
		return ErrInvalidSecretLength
	}
	if cfg.Database == "" {
		return &internal.MissingParameterError{Parameter: "database"}
	}
	// each enabled oauth provider must have complete credentials; wholly
	// absent credentials disable the provider instead.
	if (cfg.GithubClientID == "") != (cfg.GithubClientSecret == "") {
		return authenticator.ErrOAuthCredentialsIncomplete
	}
	if cfg.Keycloak.Host != "" {
		if cfg.Keycloak.Realm == "" {
			return &internal.MissingParameterError{Parameter: "keycloak-realm"}
		}
		if cfg.Keycloak.ClientID == "" || cfg.Keycloak.ClientSecret == "" {
			return authenticator.ErrOAuthCredentialsIncomplete
		}
	}
	return nil
}
