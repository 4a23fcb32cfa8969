package conversion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"netcalc/internal/netcalc"
	"netcalc/internal/support"
)

var ErrInputTooLarge = errors.New("input exceeds the configured size limit")

// Cache stores converted output keyed by request digest.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type Request struct {
	Family    string `json:"family"`
	Separator string `json:"separator"`
	Input     string `json:"input"`
}

type Options struct {
	// MaxInputBytes bounds Request.Input; zero disables the check.
	MaxInputBytes int
	Cache         Cache
	CacheTTL      time.Duration
}

// Service is the entry point adapters use to run conversions. Identical
// concurrent requests share one computation.
type Service struct {
	opts  Options
	group singleflight.Group
}

func NewService(opts Options) *Service {
	return &Service{opts: opts}
}

// Convert runs netcalc.Convert for req, consulting the cache when one is
// configured. Cache failures are logged and never fail the request.
func (s *Service) Convert(ctx context.Context, req Request) (string, error) {
	fam, err := s.check(req)
	if err != nil {
		return "", err
	}

	key := support.HashParts(fam.Name(), req.Separator, req.Input)
	if out, ok := s.lookup(ctx, key); ok {
		return out, nil
	}

	result, err, shared := s.group.Do(key, func() (interface{}, error) {
		start := time.Now()
		out, err := netcalc.Convert(fam.Name(), req.Separator, req.Input)
		if err != nil {
			return "", err
		}
		log.Debug("Converted rule list",
			"family", fam.Name(),
			"input_bytes", len(req.Input),
			"output_bytes", len(out),
			"duration", time.Since(start),
		)
		s.store(ctx, key, out)
		return out, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		log.Debug("Conversion result shared", "family", fam.Name())
	}
	return result.(string), nil
}

// Validate reports every invalid token in req.
func (s *Service) Validate(_ context.Context, req Request) error {
	if _, err := s.check(req); err != nil {
		return err
	}
	return netcalc.Validate(req.Family, req.Separator, req.Input)
}

// Summarize reports counts for the converted result without rendering it.
func (s *Service) Summarize(_ context.Context, req Request) (netcalc.Summary, error) {
	if _, err := s.check(req); err != nil {
		return netcalc.Summary{}, err
	}
	return netcalc.Summarize(req.Family, req.Separator, req.Input)
}

func (s *Service) check(req Request) (netcalc.Family, error) {
	if limit := s.opts.MaxInputBytes; limit > 0 && len(req.Input) > limit {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrInputTooLarge, len(req.Input), limit)
	}
	return netcalc.LookupFamily(req.Family)
}

func (s *Service) lookup(ctx context.Context, key string) (string, bool) {
	if s.opts.Cache == nil {
		return "", false
	}
	out, ok, err := s.opts.Cache.Get(ctx, key)
	if err != nil {
		log.Warn("Conversion cache lookup failed", "error", err)
		return "", false
	}
	return out, ok
}

func (s *Service) store(ctx context.Context, key, value string) {
	if s.opts.Cache == nil {
		return
	}
	if err := s.opts.Cache.Set(ctx, key, value, s.opts.CacheTTL); err != nil {
		log.Warn("Conversion cache store failed", "error", err)
	}
}
