package bootstrap

import (
	"context"

	"github.com/charmbracelet/log"

	"netcalc/internal/config"
	"netcalc/internal/conversion"
	"netcalc/internal/support"
)

// Setup builds the conversion service from the active configuration. When the
// result cache is enabled but Redis is unreachable the service runs uncached.
// The returned func releases whatever Setup acquired.
func Setup(ctx context.Context) (*conversion.Service, func()) {
	cfg := config.GetConfig()

	opts := conversion.Options{
		MaxInputBytes: cfg.Limits.MaxInputBytes,
		CacheTTL:      config.GetCacheTTL(),
	}
	cleanup := func() {}

	if cfg.Cache.Enabled || support.GetEnvBool("CACHE_ENABLED", false) {
		client, err := support.GetRedisClient(ctx)
		if err != nil {
			log.Warn("Result cache disabled", "error", err)
		} else {
			opts.Cache = conversion.NewRedisCache(client, cfg.Cache.KeyPrefix)
			cleanup = func() {
				if err := support.CloseRedisClient(); err != nil {
					log.Warn("error closing redis client", "error", err)
				}
			}
			log.Info("Result cache enabled", "prefix", cfg.Cache.KeyPrefix, "ttl", opts.CacheTTL)
		}
	}

	return conversion.NewService(opts), cleanup
}
