package env

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// Addr of the peer to connect to
	Addr string `env:"MEMWATCH_ADDR,default=127.0.0.1:3333"`

	DialTimeout time.Duration `env:"MEMWATCH_DIAL_TIMEOUT,default=5s"`

	LogLevel string `env:"MEMWATCH_LOG_LEVEL,default=info"`

	// BridgeAddr is where `memwatch bridge` serves HTTP
	BridgeAddr string `env:"MEMWATCH_BRIDGE_ADDR,default=127.0.0.1:7362"`
	DebugHTTP  bool   `env:"MEMWATCH_DEBUG_HTTP"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	config := Config{}

	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigFrom is LoadConfig with an explicit lookuper instead of the
// process environment. The .env.local file is not consulted.
func LoadConfigFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	config := Config{}

	if err := envconfig.ProcessWith(ctx, &config, l); err != nil {
		return nil, err
	}

	return &config, nil
}
