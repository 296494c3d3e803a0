package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Postgres struct {
		Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
		Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
		User            string        `env:"POSTGRES_USER" envDefault:"forum"`
		Password        string        `env:"POSTGRES_PASSWORD" envDefault:""`
		Database        string        `env:"POSTGRES_DB" envDefault:"forum"`
		SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
		MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	// Verification controls the gating engine: pre-verification TTL,
	// per-provider-call deadline and fan-out width.
	Verification struct {
		CacheTTL            time.Duration `env:"VERIFICATION_CACHE_TTL" envDefault:"30m"`
		ProviderTimeout     time.Duration `env:"VERIFICATION_PROVIDER_TIMEOUT" envDefault:"10s"`
		MaxConcurrentChecks int           `env:"VERIFICATION_MAX_CONCURRENT_CHECKS" envDefault:"8"`
		// InvalidateOnEdit clears cached pre-verifications for a lock when
		// its requirements are edited. Off by default: entries stay valid
		// until their natural expiry.
		InvalidateOnEdit bool `env:"VERIFICATION_INVALIDATE_ON_EDIT" envDefault:"false"`
	}

	Ethereum struct {
		RPCURLs     []string `env:"ETHEREUM_RPC_URLS" envSeparator:"," envDefault:"https://ethereum-rpc.publicnode.com"`
		ENSRegistry string   `env:"ENS_REGISTRY_ADDRESS" envDefault:"0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"`
	}

	Lukso struct {
		RPCURLs          []string `env:"LUKSO_RPC_URLS" envSeparator:"," envDefault:"https://rpc.mainnet.lukso.network"`
		FollowerRegistry string   `env:"LUKSO_FOLLOWER_REGISTRY" envDefault:"0xf01103E5a9909Fc0DBe8166dA7085e0285daDDcA"`
	}

	Efp struct {
		APIBase string `env:"EFP_API_BASE" envDefault:"https://api.ethfollow.xyz/api/v1"`
	}

	Ton struct {
		APIBase  string `env:"TONAPI_BASE" envDefault:"https://tonapi.io"`
		APIToken string `env:"TONAPI_TOKEN" envDefault:""`
	}

	// Community is the host application API the plugin is embedded in,
	// used to resolve a member's roles.
	Community struct {
		APIBase  string `env:"COMMUNITY_API_BASE,required"`
		APIToken string `env:"COMMUNITY_API_TOKEN" envDefault:""`
	}
}

// GetDSN builds a lib/pq connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User, c.Postgres.Password,
		c.Postgres.Database, c.Postgres.SSLMode)
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// .env is optional; production sets variables directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
