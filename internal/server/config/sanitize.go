package config

// Sanitize returns the effective configuration as slog key/value pairs.
//
// No setting is secret today; every field is listed so a startup log line
// shows exactly what the server runs with.
func Sanitize(cfg *ServerConfig) []any {
	r := cfg.Server.Redis
	return []any{
		"server.redis.addr", r.Addr,
		"server.redis.read_buffer", r.ReadBuffer,
		"server.redis.max_frame_size", r.MaxFrameSize,
		"server.redis.idle_timeout", r.IdleTimeout.String(),
		"server.redis.write_timeout", r.WriteTimeout.String(),
		"server.redis.rate_limit", r.RateLimit,
		"server.metrics.addr", cfg.Server.Metrics.Addr,
		"log.level", cfg.Log.Level,
		"log.format", cfg.Log.Format,
	}
}
