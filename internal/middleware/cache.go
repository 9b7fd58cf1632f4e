package middleware

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
)

// captureWriter wraps the response writer so the middleware can record
// the status code and body of a response while it is streamed to the
// client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// NewRedisCache returns a middleware that serves repeated catalog reads
// from Redis.  Only successful responses to the configured methods are
// stored.  This middleware must never be mounted on seat availability
// or booking routes; those always read committed database state.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[c.Request().Method] {
				return next(c)
			}

			key := cacheKeyFrom(cfg, c)
			ctx := c.Request().Context()

			if raw, err := rdb.Get(ctx, key).Result(); err == nil {
				if status, ctype, body, ok := decodePayload(raw); ok {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(status, ctype, body)
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && cw.buf.Len() <= cfg.MaxBodyBytes {
				ctype := c.Response().Header().Get(echo.HeaderContentType)
				payload := encodePayload(cw.status, ctype, cw.buf.Bytes())
				// Best effort: a failed SET just means the next request misses.
				rdb.Set(ctx, key, payload, cfg.TTL)
			}
			return nil
		}
	}
}

func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	req := c.Request()
	parts := []string{cfg.Prefix, req.Method, c.Path()}

	strategy := strings.ToLower(cfg.KeyStrategy)
	if strategy == "route_query" || strategy == "" {
		if q := req.URL.RawQuery; q != "" {
			parts = append(parts, q)
		}
	}
	for _, name := range c.ParamNames() {
		parts = append(parts, name+"="+c.Param(name))
	}
	return strings.Join(parts, ":")
}

// encodePayload packs status, content type and body into a single
// string value.  Base64 keeps arbitrary bodies safe inside the
// pipe-delimited envelope.
func encodePayload(status int, contentType string, body []byte) string {
	return strings.Join([]string{
		strconv.Itoa(status),
		base64.StdEncoding.EncodeToString([]byte(contentType)),
		base64.StdEncoding.EncodeToString(body),
	}, "|")
}

func decodePayload(raw string) (int, string, []byte, bool) {
	segs := strings.SplitN(raw, "|", 3)
	if len(segs) != 3 {
		return 0, "", nil, false
	}
	status, err := strconv.Atoi(segs[0])
	if err != nil || status == 0 {
		return 0, "", nil, false
	}
	ctype, err := base64.StdEncoding.DecodeString(segs[1])
	if err != nil {
		return 0, "", nil, false
	}
	body, err := base64.StdEncoding.DecodeString(segs[2])
	if err != nil {
		return 0, "", nil, false
	}
	return status, string(ctype), body, true
}
