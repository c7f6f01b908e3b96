// Package contacts parses contacts service flags and launches the service.
package contacts

import (
	"context"
	"flag"
	"log"
	"strings"

	entrypoint "github.com/louisbranch/contacts/internal/platform/cmd"
	"github.com/louisbranch/contacts/internal/services/contacts/app"
)

// DefaultSessionSecret is the development fallback for signing session cookies.
const DefaultSessionSecret = "contacts_secret_key"

// Config holds contacts command configuration.
type Config struct {
	HTTPAddr            string `env:"CONTACTS_HTTP_ADDR" envDefault:"0.0.0.0:5000"`
	DBPath              string `env:"CONTACTS_DB_PATH" envDefault:"contacts.db"`
	SessionSecret       string `env:"CONTACTS_SESSION_SECRET" envDefault:"contacts_secret_key"`
	TrustForwardedProto bool   `env:"CONTACTS_TRUST_FORWARDED_PROTO" envDefault:"false"`
	GRPCHealthAddr      string `env:"CONTACTS_GRPC_HEALTH_ADDR"`
	MaxConnections      int    `env:"CONTACTS_MAX_CONNECTIONS" envDefault:"0"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database file")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret used to sign session cookies")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto when marking cookies secure")
	fs.StringVar(&cfg.GRPCHealthAddr, "grpc-health-addr", cfg.GRPCHealthAddr, "Optional gRPC health listen address")
	fs.IntVar(&cfg.MaxConnections, "max-connections", cfg.MaxConnections, "Maximum concurrent HTTP connections (0 = unlimited)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the contacts web service.
func Run(ctx context.Context, cfg Config) error {
	if strings.TrimSpace(cfg.SessionSecret) == DefaultSessionSecret {
		log.Printf("warning: using the default session secret; set CONTACTS_SESSION_SECRET in production")
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceContacts, func(ctx context.Context) error {
		server, err := app.NewServer(ctx, app.Config{
			HTTPAddr:            cfg.HTTPAddr,
			DBPath:              cfg.DBPath,
			SessionSecret:       cfg.SessionSecret,
			TrustForwardedProto: cfg.TrustForwardedProto,
			GRPCHealthAddr:      cfg.GRPCHealthAddr,
			MaxConnections:      cfg.MaxConnections,
		})
		if err != nil {
			return err
		}
		return server.ListenAndServe(ctx)
	})
}
