package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/studyglobal/fxcore/cmd/env"
	"github.com/studyglobal/fxcore/convert"
	"github.com/studyglobal/fxcore/currency"
	"github.com/studyglobal/fxcore/rates/cache"
	"github.com/studyglobal/fxcore/rates/client"
	"github.com/studyglobal/fxcore/rates/quota"
	"github.com/studyglobal/fxcore/rates/types"
	"github.com/studyglobal/fxcore/refresh"
	"github.com/studyglobal/fxcore/server"
	"github.com/studyglobal/fxcore/server/config"
)

const defaultWarmInterval = 4 * time.Minute

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config

	configPath string

	providerName string
	providerURL  string

	homeCurrency string
	warmPairs    string

	cacheTTL        time.Duration
	quotaWindow     time.Duration
	providerTimeout time.Duration
	baseDelay       time.Duration
	attemptTimeout  time.Duration
	probeTimeout    time.Duration
	warmInterval    time.Duration

	quotaLimit int
	attempts   int
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve [flags]",
		LongHelp:   "Serves the fxcore currency conversion backend",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.StringVar(
		&c.providerName,
		"provider-name",
		"exchange-rate-api",
		"the human-readable name of the rate provider",
	)

	fs.StringVar(
		&c.providerURL,
		"provider-url",
		"https://api.exchangerate.host",
		"the base URL of the JSON rate provider",
	)

	fs.DurationVar(
		&c.providerTimeout,
		"provider-timeout",
		10*time.Second,
		"the overall HTTP client timeout for the rate provider",
	)

	fs.DurationVar(
		&c.cacheTTL,
		"cache-ttl",
		cache.DefaultTTL,
		"the freshness window for cached rates",
	)

	fs.IntVar(
		&c.quotaLimit,
		"quota-limit",
		quota.DefaultLimit,
		"the live API call budget per quota window",
	)

	fs.DurationVar(
		&c.quotaWindow,
		"quota-window",
		quota.DefaultWindow,
		"the quota window duration",
	)

	fs.IntVar(
		&c.attempts,
		"attempts",
		client.DefaultAttempts,
		"the number of live fetch attempts per resolution",
	)

	fs.DurationVar(
		&c.baseDelay,
		"base-delay",
		client.DefaultBaseDelay,
		"the base backoff delay between live fetch attempts",
	)

	fs.DurationVar(
		&c.attemptTimeout,
		"attempt-timeout",
		client.DefaultAttemptTimeout,
		"the per-attempt live fetch timeout",
	)

	fs.DurationVar(
		&c.probeTimeout,
		"probe-timeout",
		client.DefaultProbeTimeout,
		"the provider health probe timeout",
	)

	fs.StringVar(
		&c.homeCurrency,
		"home-currency",
		convert.DefaultHomeCurrency.String(),
		"the viewer home currency for secondary conversions",
	)

	fs.StringVar(
		&c.warmPairs,
		"warm-pairs",
		"",
		"comma-separated FROM:TO pairs to keep warm in the cache (ex. SEK:NGN,USD:NGN)",
	)

	fs.DurationVar(
		&c.warmInterval,
		"warm-interval",
		defaultWarmInterval,
		"the refresh cadence for warm pairs",
	)
}

func (c *serveCfg) exec(ctx context.Context, _ []string) error {
	// Read the server configuration, if any
	if c.configPath != "" {
		serverCfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read server config, %w", err)
		}

		c.config = serverCfg
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// Create the rate cache
	rateCache, err := cache.New(c.cacheTTL)
	if err != nil {
		return fmt.Errorf("unable to create rate cache, %w", err)
	}

	// Create the quota tracker
	tracker, err := quota.New(c.quotaLimit, c.quotaWindow)
	if err != nil {
		return fmt.Errorf("unable to create quota tracker, %w", err)
	}

	// Create the resilient rate resolver
	provider := client.NewHTTPProvider(
		c.providerName,
		c.providerURL,
		c.providerTimeout,
	)

	resolver, err := client.New(
		provider,
		rateCache,
		tracker,
		client.WithLogger(logger),
		client.WithAttempts(c.attempts),
		client.WithBaseDelay(c.baseDelay),
		client.WithAttemptTimeout(c.attemptTimeout),
		client.WithProbeTimeout(c.probeTimeout),
	)
	if err != nil {
		return fmt.Errorf("unable to create rate resolver, %w", err)
	}

	// Create the conversion facade
	converter, err := convert.New(
		resolver,
		convert.WithLogger(logger),
		convert.WithHomeCurrency(currency.Normalize(c.homeCurrency)),
	)
	if err != nil {
		return fmt.Errorf("unable to create converter, %w", err)
	}

	// Create the warm pair refresher
	refresher := refresh.New(
		resolver,
		refresh.WithLogger(logger),
	)

	warmPairs, err := parseWarmPairs(c.warmPairs)
	if err != nil {
		return fmt.Errorf("unable to parse warm pairs, %w", err)
	}

	for _, pair := range warmPairs {
		if err := refresher.Register(pair, c.warmInterval); err != nil {
			return fmt.Errorf("unable to register warm pair %s, %w", pair.Key(), err)
		}
	}

	// Create the server
	s, err := server.New(
		converter,
		server.WithLogger(logger),
		server.WithConfig(c.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return s.Serve(gCtx)
	})

	group.Go(func() error {
		return refresher.Start(gCtx)
	})

	return group.Wait()
}

// parseWarmPairs parses the comma-separated FROM:TO pair list
func parseWarmPairs(raw string) ([]types.Pair, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var pairs []types.Pair

	for _, part := range strings.Split(raw, ",") {
		from, to, found := strings.Cut(strings.TrimSpace(part), ":")
		if !found {
			return nil, fmt.Errorf("pair %q is not in FROM:TO format", part)
		}

		pairs = append(pairs, types.Pair{
			From: currency.Normalize(from),
			To:   currency.Normalize(to),
		})
	}

	return pairs, nil
}
