package main

import (
	"context"
	"io"
	"os"

	cmdutil "github.com/idgate/idgate/cmd"
	"github.com/idgate/idgate/internal/authenticator"
	"github.com/idgate/idgate/internal/daemon"
	"github.com/idgate/idgate/internal/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// the OIDC variants the gateway knows out of the box; each is an ordinary
// OIDC provider differing only in configuration.
var casVariants = []string{
	"unikname-cas",
	"unikname-cas-delegate",
	"unikname-cas-u2f",
	"unikname-cas-pwdless",
	"unikname-cas-ga",
	"unikname-cas-passphrase",
}

func main() {
	// Configure ^C to terminate program
	ctx, cancel := context.WithCancel(context.Background())
	cmdutil.CatchCtrlC(cancel)

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		cmdutil.PrintError(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg := daemon.NewConfig()
	var loggerCfg logr.Config

	cmd := &cobra.Command{
		Use:           "idgated",
		Short:         "identity gateway daemon",
		Long:          "idgated signs users in via local credentials or a configured identity provider, and maintains their sessions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logr.New(&loggerCfg)
			if err != nil {
				return err
			}

			d, err := daemon.New(ctx, logger, cfg)
			if err != nil {
				return err
			}
			// block until ^C received
			return d.Start(ctx, make(chan struct{}))
		},
	}
	cmd.SetOut(out)

	flags := cmd.Flags()
	flags.StringVar(&cfg.Address, "address", cfg.Address, "Listening address")
	flags.StringVar(&cfg.Database, "database", cfg.Database, "Postgres connection string")
	flags.StringVar(&cfg.Host, "hostname", "", "User-facing hostname of the gateway, used in provider callback URLs")
	flags.BytesHexVar((*[]byte)(&cfg.Secret), "secret", nil, "Hex-encoded 16 byte secret for signing session tokens. Required.")
	flags.BoolVar(&cfg.SSL, "ssl", false, "Toggle SSL")
	flags.StringVar(&cfg.CertFile, "cert-file", "", "Path to SSL certificate (required if enabling SSL)")
	flags.StringVar(&cfg.KeyFile, "key-file", "", "Path to SSL key (required if enabling SSL)")
	flags.BoolVar(&cfg.EnableRequestLogging, "log-http-requests", false, "Log all HTTP requests")

	flags.StringVar(&cfg.GithubClientID, "github-client-id", "", "Github client ID")
	flags.StringVar(&cfg.GithubClientSecret, "github-client-secret", "", "Github client secret")

	flags.StringVar(&cfg.Keycloak.Host, "keycloak-host", "", "Keycloak server URL, including scheme")
	flags.StringVar(&cfg.Keycloak.Realm, "keycloak-realm", "", "Keycloak realm")
	flags.StringVar(&cfg.Keycloak.ClientID, "keycloak-client-id", "", "Keycloak client ID")
	flags.StringVar(&cfg.Keycloak.ClientSecret, "keycloak-client-secret", "", "Keycloak client secret")

	oidcConfigs := newOIDCConfigsFromFlags(flags)

	logr.LoadConfigFromFlags(flags, &loggerCfg)

	// Override flag defaults with environment variables prefixed with IDGATE_
	cmdutil.SetFlagsFromEnvVariables(flags)

	if err := cmd.ParseFlags(args); err != nil {
		return err
	}

	// a variant is enabled by setting its issuer url
	for _, oidcCfg := range oidcConfigs {
		if oidcCfg.IssuerURL != "" {
			cfg.OIDC = append(cfg.OIDC, *oidcCfg)
		}
	}

	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// newOIDCConfigsFromFlags adds flags for each known OIDC variant, returning
// their configs for populating at parse time.
func newOIDCConfigsFromFlags(flags *pflag.FlagSet) []*authenticator.OIDCConfig {
	configs := make([]*authenticator.OIDCConfig, len(casVariants))
	for i, name := range casVariants {
		cfg := &authenticator.OIDCConfig{Name: name}
		if name == "unikname-cas-passphrase" {
			// the passphrase variant identifies users by email rather than an
			// openid subject
			cfg.Scopes = []string{"email"}
		}
		flags.StringVar(&cfg.IssuerURL, name+"-issuer-url", "", "Issuer URL enabling the "+name+" provider")
		flags.StringVar(&cfg.ClientID, name+"-client-id", "", "Client ID for the "+name+" provider")
		flags.StringVar(&cfg.ClientSecret, name+"-client-secret", "", "Client secret for the "+name+" provider")
		configs[i] = cfg
	}
	return configs
}
