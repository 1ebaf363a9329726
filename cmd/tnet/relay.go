package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tnetkit/tnet/internal/admin"
	"github.com/tnetkit/tnet/internal/capture"
	"github.com/tnetkit/tnet/internal/config"
	"github.com/tnetkit/tnet/internal/errors"
	"github.com/tnetkit/tnet/internal/metrics"
	"github.com/tnetkit/tnet/internal/relay"
	"github.com/tnetkit/tnet/pkg/hook"
	"github.com/tnetkit/tnet/pkg/protocol"
)

func relayCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		upstream   string
	)

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run the relay between clients and a game server",
		Long: `Run the relay until interrupted.

Clients connect to relay.listen; every client gets its own connection
to relay.upstream. Metrics, counters and a live frame feed are served
on admin.listen. With capture enabled, every frame is recorded and the
capture is uploaded to S3 on exit when capture.s3.bucket is set.

Examples:
  tnet relay
  tnet relay --config tnet.toml
  tnet relay --listen :7777 --upstream 10.0.0.5:7777`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				if _, err := os.Stat(config.ConfigFileName); err == nil {
					configPath = config.ConfigFileName
				}
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Relay.Listen = listen
			}
			if upstream != "" {
				cfg.Relay.Upstream = upstream
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := cfg.Log.NewLogger(cmd.ErrOrStderr())
			slog.SetDefault(logger)

			return runRelay(ctx, cfg, cmd.OutOrStdout(), logger, nil)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "f", "", "Config file (default ./tnet.toml if present)")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Override relay.listen")
	cmd.Flags().StringVarP(&upstream, "upstream", "u", "", "Override relay.upstream")

	return cmd
}

// runRelay runs the relay and admin server until ctx is done. ready, if
// set, is called with the bound addresses once both are listening; the
// admin address is nil when the admin server is disabled.
func runRelay(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger, ready func(relayAddr, adminAddr net.Addr)) error {
	policy, err := relay.ParsePolicy(cfg.Relay.OnDecodeError)
	if err != nil {
		return errors.New("T102").Wrap(err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(metrics.WithRegistry(reg))

	hooks := hook.New(hook.WithRecover(), hook.WithStopOnCancel(), hook.WithLogger(logger))
	if ids := cfg.BlockedIDs(); len(ids) > 0 {
		blocked := make([]protocol.MessageID, len(ids))
		for i, id := range ids {
			blocked[i] = protocol.MessageID(id)
		}
		relay.Block(hooks, blocked...)
	}

	feed := admin.NewFeed()
	defer feed.Close()

	rcfg := relay.Config{
		Upstream:      cfg.Relay.Upstream,
		Hooks:         hooks,
		OnDecodeError: policy,
		Metrics:       m,
		Publisher:     feed,
		Logger:        logger,
	}

	var rec *capture.Writer
	if cfg.Capture.Enabled {
		rec, err = capture.Create(cfg.Capture.Dir)
		if err != nil {
			return errors.New("T300").Wrap(err)
		}
		rcfg.Recorder = rec
	}

	r := relay.New(rcfg)

	l, err := net.Listen("tcp", cfg.Relay.Listen)
	if err != nil {
		closeCapture(rec, logger)
		return errors.New("T200").Wrap(err).WithDetailf("relay.listen %s", cfg.Relay.Listen)
	}

	var al net.Listener
	var adminAddr net.Addr
	if cfg.Admin.Listen != "" {
		al, err = net.Listen("tcp", cfg.Admin.Listen)
		if err != nil {
			l.Close()
			closeCapture(rec, logger)
			return errors.New("T202").Wrap(err).WithDetailf("admin.listen %s", cfg.Admin.Listen)
		}
		adminAddr = al.Addr()
	}

	printBanner(out)
	info(out, "relay     %s -> %s", l.Addr(), cfg.Relay.Upstream)
	if adminAddr != nil {
		info(out, "admin     http://%s", adminAddr)
	}
	if rec != nil {
		info(out, "capture   %s", rec.Path())
	}
	if ready != nil {
		ready(l.Addr(), adminAddr)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.Serve(gctx, l)
	})
	if al != nil {
		srv := admin.New(admin.Config{
			Gatherer: reg,
			Stats:    func() any { return r.Stats() },
			Feed:     feed,
			Logger:   logger,
		})
		g.Go(func() error {
			return srv.Serve(gctx, al)
		})
	}

	runErr := g.Wait()

	stats := r.Stats()
	logger.Info("relay stopped",
		"connections", stats.Connections,
		"frames", stats.Frames,
		"rewritten", stats.Rewritten,
		"dropped", stats.Dropped,
		"decode_errors", stats.DecodeErrors)

	if rec == nil {
		return runErr
	}
	closeCapture(rec, logger)
	success(out, "Captured %d frames to %s", rec.Len(), rec.Path())

	if cfg.Capture.S3.Bucket != "" {
		up := capture.NewS3Uploader(capture.S3Options{
			Bucket:   cfg.Capture.S3.Bucket,
			Prefix:   cfg.Capture.S3.Prefix,
			Region:   cfg.Capture.S3.Region,
			Endpoint: cfg.Capture.S3.Endpoint,
		})
		uploadCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		key, err := up.Upload(uploadCtx, rec.Path())
		if err != nil {
			if runErr != nil {
				return runErr
			}
			return errors.New("T301").Wrap(err)
		}
		success(out, "Uploaded capture to s3://%s/%s", cfg.Capture.S3.Bucket, key)
	}

	return runErr
}

func closeCapture(rec *capture.Writer, logger *slog.Logger) {
	if rec == nil {
		return
	}
	if err := rec.Close(); err != nil {
		logger.Warn("capture close failed", "path", rec.Path(), "error", err)
	}
}
