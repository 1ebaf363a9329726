package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tnetkit/tnet/internal/capture"
	"github.com/tnetkit/tnet/internal/metrics"
	"github.com/tnetkit/tnet/pkg/hook"
	"github.com/tnetkit/tnet/pkg/protocol"
)

const defaultTracerName = "tnet/relay"

// Publisher receives a Summary for every frame.
type Publisher interface {
	Publish(v any)
}

// Recorder stores relayed frames.
type Recorder interface {
	Write(rec capture.Record) error
}

// Config configures a Relay.
type Config struct {
	// Upstream is the game server address.
	Upstream string

	// Registry decodes frames. Default: protocol.DefaultRegistry()
	Registry *protocol.Registry

	// Hooks receive every decoded frame. Nil forwards frames untouched.
	Hooks *hook.Registry

	// OnDecodeError decides the fate of undecodable frames.
	OnDecodeError Policy

	// Metrics records per-frame metrics. Nil disables them.
	Metrics *metrics.Metrics

	// Publisher and Recorder, when set, see every frame.
	Publisher Publisher
	Recorder  Recorder

	// Logger logs connection lifecycle and decode failures.
	// Default: slog.Default()
	Logger *slog.Logger

	// Tracer starts one span per frame. Default: otel.Tracer("tnet/relay")
	Tracer trace.Tracer

	// DialTimeout bounds the upstream dial. Default: 10s
	DialTimeout time.Duration

	// Dial connects to the upstream. Default: net.Dialer.DialContext
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// Stats are the relay's running totals.
type Stats struct {
	Connections  uint64 `json:"connections"`
	Active       int64  `json:"active"`
	Frames       uint64 `json:"frames"`
	Rewritten    uint64 `json:"rewritten"`
	Dropped      uint64 `json:"dropped"`
	DecodeErrors uint64 `json:"decode_errors"`
}

// Summary describes one processed frame. It is what a Publisher receives.
type Summary struct {
	Time      time.Time `json:"time"`
	Conn      uint64    `json:"conn"`
	Direction string    `json:"direction"`
	ID        uint8     `json:"id"`
	Module    uint16    `json:"module,omitempty"`
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	Rewritten bool      `json:"rewritten,omitempty"`
	Dropped   string    `json:"dropped,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Relay proxies client connections to the upstream server.
type Relay struct {
	cfg Config

	nextConn     atomic.Uint64
	connections  atomic.Uint64
	active       atomic.Int64
	frames       atomic.Uint64
	rewritten    atomic.Uint64
	dropped      atomic.Uint64
	decodeErrors atomic.Uint64
}

// New creates a relay.
func New(cfg Config) *Relay {
	if cfg.Registry == nil {
		cfg.Registry = protocol.DefaultRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(defaultTracerName)
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.Dial == nil {
		d := &net.Dialer{}
		cfg.Dial = d.DialContext
	}
	return &Relay{cfg: cfg}
}

// Stats returns a snapshot of the running totals.
func (r *Relay) Stats() Stats {
	return Stats{
		Connections:  r.connections.Load(),
		Active:       r.active.Load(),
		Frames:       r.frames.Load(),
		Rewritten:    r.rewritten.Load(),
		Dropped:      r.dropped.Load(),
		DecodeErrors: r.decodeErrors.Load(),
	}
}

// ListenAndServe listens on addr and calls Serve.
func (r *Relay) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	r.cfg.Logger.Info("relay listening", "addr", l.Addr().String(), "upstream", r.cfg.Upstream)
	return r.Serve(ctx, l)
}

// Serve accepts clients on l until ctx is done. It closes l and waits for
// every connection to finish before returning.
func (r *Relay) Serve(ctx context.Context, l net.Listener) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("relay: accept: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			r.serveConn(ctx, conn)
		}()
	}
}

func (r *Relay) serveConn(ctx context.Context, client net.Conn) {
	id := r.nextConn.Add(1)
	logger := r.cfg.Logger.With("conn", id, "remote", client.RemoteAddr().String())

	r.connections.Add(1)
	r.active.Add(1)
	r.cfg.Metrics.ConnOpened()
	defer func() {
		r.active.Add(-1)
		r.cfg.Metrics.ConnClosed()
	}()

	dialCtx, cancel := context.WithTimeout(ctx, r.cfg.DialTimeout)
	upstream, err := r.cfg.Dial(dialCtx, "tcp", r.cfg.Upstream)
	cancel()
	if err != nil {
		logger.Warn("upstream dial failed", "upstream", r.cfg.Upstream, "error", err)
		client.Close()
		return
	}

	logger.Info("connection opened")
	start := time.Now()

	err = r.Pipe(ctx, id, client, upstream)
	if err != nil {
		logger.Info("connection closed", "duration", time.Since(start), "error", err)
		return
	}
	logger.Info("connection closed", "duration", time.Since(start))
}

// Pipe relays frames between client and upstream until either side closes
// or ctx is done. Both connections are closed when Pipe returns.
func (r *Relay) Pipe(ctx context.Context, connID uint64, client, upstream net.Conn) error {
	g, ctx := errgroup.WithContext(ctx)

	closeBoth := func() {
		client.Close()
		upstream.Close()
	}
	stop := context.AfterFunc(ctx, closeBoth)
	defer stop()

	// A pump that ends cleanly closes both sides; one that fails cancels
	// ctx so its error is the one Wait reports.
	g.Go(func() error {
		err := r.pump(ctx, connID, protocol.ToServer, client, upstream)
		if err == nil {
			closeBoth()
		}
		return err
	})
	g.Go(func() error {
		err := r.pump(ctx, connID, protocol.ToClient, upstream, client)
		if err == nil {
			closeBoth()
		}
		return err
	})

	err := g.Wait()
	if isClosed(err) {
		return nil
	}
	return err
}

func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, context.Canceled)
}

func (r *Relay) pump(ctx context.Context, connID uint64, dir protocol.Direction, src io.Reader, dst io.Writer) error {
	for {
		frame, err := protocol.ReadFrame(src)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%s read: %w", dir, err)
		}

		out, err := r.Process(ctx, connID, dir, frame)
		if err != nil {
			return err
		}
		if out == nil {
			continue
		}
		if err := protocol.WriteFrame(dst, out); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%s write: %w", dir, err)
		}
	}
}

// Process runs one complete frame through decode, hook dispatch and
// re-encode. It returns the bytes to forward, or nil to drop the frame. An
// error means the connection should close.
func (r *Relay) Process(ctx context.Context, connID uint64, dir protocol.Direction, frame []byte) ([]byte, error) {
	start := time.Now()
	r.frames.Add(1)

	ctx, span := r.cfg.Tracer.Start(ctx, "tnet.relay.frame",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int64("tnet.conn", int64(connID)),
			attribute.String("tnet.direction", dir.String()),
			attribute.Int("tnet.frame_size", len(frame)),
		),
	)
	defer span.End()

	sum := Summary{
		Time:      start,
		Conn:      connID,
		Direction: dir.String(),
		Size:      len(frame),
	}
	if h, err := protocol.ParseHeader(frame); err == nil {
		sum.ID = uint8(h.ID)
		sum.Module = uint16(h.Module)
		sum.Name = r.cfg.Registry.Name(h.ID, h.Module)
	}
	span.SetAttributes(attribute.Int("tnet.id", int(sum.ID)), attribute.String("tnet.message", sum.Name))

	pkt, _, err := r.cfg.Registry.Decode(frame, dir)
	if err != nil {
		return r.decodeFailed(span, sum, dir, frame, err)
	}

	in, err := r.cfg.Registry.TrackPacket(pkt, dir, frame)
	if err != nil {
		return r.decodeFailed(span, sum, dir, frame, err)
	}

	if r.cfg.Hooks != nil {
		ev := &hook.Event{ConnID: connID, Direction: dir, Packet: in}
		if err := r.cfg.Hooks.Dispatch(ctx, ev); err != nil {
			// A failed handler leaves the frame as it arrived.
			r.cfg.Logger.Warn("hook failed, forwarding original frame",
				"conn", connID, "id", sum.ID, "message", sum.Name, "error", err)
			span.RecordError(err)
			r.finish(span, sum, dir, frame, false, "", start)
			return frame, nil
		}
	}

	dirty := in.IsDirty()
	out, err := in.Forward()
	if err != nil {
		r.cfg.Logger.Warn("re-encode failed, forwarding original frame",
			"conn", connID, "id", sum.ID, "message", sum.Name, "error", err)
		span.RecordError(err)
		r.finish(span, sum, dir, frame, false, "", start)
		return frame, nil
	}

	if out == nil {
		reason, _ := in.Canceled()
		label := metrics.ReasonCanceled
		if reason == BlockReason {
			label = metrics.ReasonBlocked
		}
		r.cfg.Metrics.Dropped(dir, label)
		r.finish(span, sum, dir, frame, false, label, start)
		return nil, nil
	}

	r.finish(span, sum, dir, out, dirty, "", start)
	return out, nil
}

func (r *Relay) decodeFailed(span trace.Span, sum Summary, dir protocol.Direction, frame []byte, err error) ([]byte, error) {
	r.decodeErrors.Add(1)
	kind := protocol.ErrorKind(err)
	r.cfg.Metrics.DecodeError(dir, kind)
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	sum.Error = err.Error()

	r.cfg.Logger.Warn("decode failed",
		"conn", sum.Conn,
		"direction", dir,
		"id", sum.ID,
		"message", sum.Name,
		"policy", r.cfg.OnDecodeError,
		"error", err)

	switch r.cfg.OnDecodeError {
	case PolicyDrop:
		r.cfg.Metrics.Dropped(dir, metrics.ReasonDecodeError)
		r.finish(span, sum, dir, frame, false, metrics.ReasonDecodeError, sum.Time)
		return nil, nil
	case PolicyClose:
		r.finish(span, sum, dir, frame, false, metrics.ReasonDecodeError, sum.Time)
		return nil, fmt.Errorf("%s frame %d: %w", dir, sum.ID, err)
	default:
		r.finish(span, sum, dir, frame, false, "", sum.Time)
		return frame, nil
	}
}

// finish records the outcome of a frame. frame is the forwarded bytes, or
// the original bytes for a dropped frame.
func (r *Relay) finish(span trace.Span, sum Summary, dir protocol.Direction, frame []byte, rewritten bool, dropped string, start time.Time) {
	if rewritten {
		r.rewritten.Add(1)
		r.cfg.Metrics.Rewritten(dir)
	}
	if dropped != "" {
		r.dropped.Add(1)
	}
	r.cfg.Metrics.ObserveFrame(dir, sum.Name, len(frame), time.Since(start))

	span.SetAttributes(
		attribute.Bool("tnet.rewritten", rewritten),
		attribute.String("tnet.dropped", dropped),
	)

	sum.Rewritten = rewritten
	sum.Dropped = dropped
	sum.Size = len(frame)

	if r.cfg.Recorder != nil {
		err := r.cfg.Recorder.Write(capture.Record{
			Time:      sum.Time,
			Conn:      sum.Conn,
			Direction: dir,
			Frame:     frame,
			Rewritten: rewritten,
			Dropped:   dropped != "",
		})
		if err != nil {
			r.cfg.Logger.Warn("capture write failed", "error", err)
		}
	}
	if r.cfg.Publisher != nil {
		r.cfg.Publisher.Publish(sum)
	}
}
