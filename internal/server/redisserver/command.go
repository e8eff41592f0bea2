package redisserver

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// Store is the key-value store the dispatcher reads and writes.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, opts ...memory.SetOption)
}

// Fixed replies.
var (
	pongReply = resp.SimpleString("PONG")
	okReply   = resp.Bulk("OK")
)

// Command shape errors. They never reach the client: a command that fails
// shape checks gets the default PONG reply.
var (
	errNotCommand    = errors.New("not a command array")
	errUnknown       = errors.New("unknown command")
	errArity         = errors.New("wrong number of arguments")
	errSyntax        = errors.New("syntax error")
	errInvalidExpire = errors.New("invalid expire time")
)

// maxTTLMillis is the largest millisecond count that fits a time.Duration.
const maxTTLMillis = math.MaxInt64 / int64(time.Millisecond)

// CommandHandler turns request messages into reply messages.
// It keeps no per-connection state.
type CommandHandler struct {
	store   Store
	metrics *metric.Registry
	logger  *slog.Logger
}

// NewCommandHandler creates a new CommandHandler. metrics may be nil.
func NewCommandHandler(store Store, metrics *metric.Registry, logger *slog.Logger) *CommandHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &CommandHandler{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle dispatches one request and returns its reply. Every input gets a
// reply; anything that is not a well-formed ECHO, GET or SET gets PONG.
func (h *CommandHandler) Handle(ctx context.Context, msg resp.Message) resp.Message {
	start := time.Now()

	name, reply, err := h.dispatch(ctx, msg)

	result := "ok"
	if err != nil {
		result = "fallback"
		reply = pongReply
		if !errors.Is(err, errNotCommand) {
			h.logger.Debug("command falls back to PONG",
				"conn_id", logger.ConnIDFromContext(ctx),
				"command", name,
				"reason", err.Error())
		}
	}
	h.metrics.ObserveCommand(metricLabel(name), result, time.Since(start))

	return reply
}

func (h *CommandHandler) dispatch(ctx context.Context, msg resp.Message) (string, resp.Message, error) {
	args, ok := msg.(resp.Array)
	if !ok {
		return "", nil, errNotCommand
	}
	head, ok := args.BulkAt(0)
	if !ok {
		return "", nil, errNotCommand
	}

	cmdName := normalizeCommandName(head)
	switch cmdName {
	case "ECHO":
		reply, err := h.handleEcho(args)
		return cmdName, reply, err
	case "GET":
		reply, err := h.handleGet(ctx, args)
		return cmdName, reply, err
	case "SET":
		reply, err := h.handleSet(ctx, args)
		return cmdName, reply, err
	default:
		return cmdName, nil, errUnknown
	}
}

// handleEcho handles ECHO <value>.
func (h *CommandHandler) handleEcho(args resp.Array) (resp.Message, error) {
	if args.Len() != 2 {
		return nil, errArity
	}
	v, ok := args.BulkAt(1)
	if !ok {
		return nil, errSyntax
	}
	return resp.Bulk(v), nil
}

// handleGet handles GET <key>.
func (h *CommandHandler) handleGet(ctx context.Context, args resp.Array) (resp.Message, error) {
	if args.Len() != 2 {
		return nil, errArity
	}
	key, ok := args.BulkAt(1)
	if !ok {
		return nil, errSyntax
	}
	return resp.OptionalBulk(h.store.Get(ctx, key)), nil
}

// handleSet handles SET <key> <value> [PX <milliseconds> | EX <seconds>].
func (h *CommandHandler) handleSet(ctx context.Context, args resp.Array) (resp.Message, error) {
	if args.Len() != 3 && args.Len() != 5 {
		return nil, errArity
	}
	key, ok := args.BulkAt(1)
	if !ok {
		return nil, errSyntax
	}
	value, ok := args.BulkAt(2)
	if !ok {
		return nil, errSyntax
	}

	if args.Len() == 3 {
		h.store.Set(ctx, key, value)
		return okReply, nil
	}

	opt, _ := args.BulkAt(3)
	raw, _ := args.BulkAt(4)
	ttl, err := parseExpire(opt, raw)
	if err != nil {
		return nil, err
	}

	h.store.Set(ctx, key, value, memory.WithTTL(ttl))
	return okReply, nil
}

// parseExpire converts a SET expiry option pair to a duration. PX takes
// milliseconds and EX seconds; both must be non-negative decimal integers.
// Values past the time.Duration range are clamped to its maximum.
func parseExpire(opt, raw string) (time.Duration, error) {
	var unit int64
	switch normalizeCommandName(opt) {
	case "PX":
		unit = 1
	case "EX":
		unit = 1000
	default:
		return 0, errSyntax
	}

	n, err := strconv.ParseUint(raw, 10, 63)
	if err != nil {
		return 0, errInvalidExpire
	}

	ms := int64(n)
	if ms > maxTTLMillis/unit {
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(ms*unit) * time.Millisecond, nil
}

// metricLabel bounds the command label to known names.
func metricLabel(cmdName string) string {
	switch cmdName {
	case "ECHO", "GET", "SET":
		return strings.ToLower(cmdName)
	default:
		return "other"
	}
}

// normalizeCommandName uppercases ASCII without allocating for tokens that
// are already uppercase.
func normalizeCommandName(s string) string {
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(s)
	}
	return s
}
