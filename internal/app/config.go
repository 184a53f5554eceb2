package app

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (AUCTION_ prefix), flags, or YAML config files.
type Config struct {
	APIBaseURL    string        `usage:"Auction service API root URL (AUCTION_API_BASE_URL)" flag:"api-url"`
	CDNBaseURL    string        `default:"" usage:"CDN root prepended to relative lot image paths" flag:"cdn-url"`
	HTTPTimeout   time.Duration `default:"10s" usage:"Per-request timeout for the auction service" flag:"http-timeout"`
	CountdownTick time.Duration `default:"1s" usage:"Lot modal countdown re-render period" flag:"countdown-tick"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "AUCTION",
		Files:     []string{"config.yaml", "/etc/auction-desk/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("auction service URL is required: set AUCTION_API_BASE_URL")
	}

	return &cfg, nil
}
