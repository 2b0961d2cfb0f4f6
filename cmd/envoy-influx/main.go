package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/levenlabs/go-lflag"
	"go.uber.org/zap"

	envoy "github.com/loafoe/envoy-influx"
	"github.com/loafoe/envoy-influx/lineprotocol"
)

const discoverTimeout = 2 * time.Second

type params struct {
	URL      string
	Username string
	Password string
}

func (p params) validate() error {
	var missing []string
	if p.Username == "" {
		missing = append(missing, "username")
	}
	if p.Password == "" {
		missing = append(missing, "password")
	}
	if p.URL == "" {
		missing = append(missing, "url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required parameters: %s", strings.Join(missing, ", "))
	}
	return nil
}

func main() {
	// .env is optional; plain environment variables work the same way.
	_ = godotenv.Load()

	username := lflag.String("username", os.Getenv("ENVOY_USERNAME"), "Gateway username (or ENVOY_USERNAME)")
	password := lflag.String("password", os.Getenv("ENVOY_PASSWORD"), "Gateway password, or a JWT for token auth (or ENVOY_PASSWORD)")
	url := lflag.String("url", os.Getenv("ENVOY_URL"), "Gateway base URL, e.g. https://envoy.local (or ENVOY_URL)")
	discover := lflag.Bool("discover", false, "Look for a gateway over mDNS, print its URL and exit")

	lflag.Configure()

	level, err := configuredLevel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := newLogger(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if *discover {
		err = runDiscover(ctx, logger, os.Stdout)
	} else {
		err = run(ctx, logger, params{URL: *url, Username: *username, Password: *password}, os.Stdout)
	}
	cancel()
	if err != nil {
		logger.Error("envoy-influx failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run performs one poll cycle and writes its metrics to out. Nothing is
// written unless the whole cycle succeeded.
func run(ctx context.Context, logger *zap.Logger, p params, out io.Writer) error {
	if err := p.validate(); err != nil {
		return err
	}

	client, err := envoy.NewClient(ctx, p.URL, p.Username, p.Password,
		envoy.WithNotification(logNotification{logger: logger}))
	if err != nil {
		return err
	}

	cycle, err := client.Poll(ctx)
	if err != nil {
		return fmt.Errorf("polling gateway: %w", err)
	}
	logger = withCycleID(logger, cycle.ID)

	if err := lineprotocol.NewEmitter(out).Write(cycle); err != nil {
		return fmt.Errorf("emitting metrics: %w", err)
	}
	logger.Info("poll cycle emitted",
		zap.Int("inverters", len(cycle.Inverters)),
		zap.String("device_zone", cycle.Status.Clock.Location.String()),
		zap.Duration("device_skew", cycle.Status.Clock.Skew),
	)
	return nil
}

func runDiscover(ctx context.Context, logger *zap.Logger, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, discoverTimeout)
	defer cancel()

	addr, err := envoy.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discovering gateway: %w", err)
	}
	if addr == "" {
		return fmt.Errorf("discovering gateway: nothing answered within %s", discoverTimeout)
	}
	logger.Debug("gateway discovered", zap.String("address", addr))
	_, err = fmt.Fprintf(out, "https://%s\n", addr)
	return err
}
