package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/relovedmarket/reloved-backend/api/responses"
	pkgerrors "github.com/relovedmarket/reloved-backend/pkg/errors"
	"github.com/relovedmarket/reloved-backend/pkg/logger"
	pkgredis "github.com/relovedmarket/reloved-backend/pkg/redis"
)

// Checkout converts a cart into an order, so a blind retry after a network
// failure must not produce a second order. The stored response is replayed
// for a week.
const checkoutIdempotencyTTL = 7 * 24 * time.Hour

var idempotentRoutes = map[string]time.Duration{
	http.MethodPost + " /api/v1/checkout": checkoutIdempotencyTTL,
}

// storedResponse is what gets persisted in Redis per idempotency key: the
// response to replay plus a hash binding the key to one request body.
type storedResponse struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency makes covered endpoints safe to retry. A repeated
// Idempotency-Key with the same body replays the recorded response; the
// same key with a different body is rejected.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, covered := idempotentRoutes[r.Method+" "+routePattern(r)]
			if !covered || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if clientKey == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sum := sha256.Sum256(body)
			requestHash := base64.StdEncoding.EncodeToString(sum[:])

			// Keys are scoped per user and route so one user's key can
			// never replay another's response.
			scope := strings.Join([]string{UserIDFromContext(r.Context()), r.Method, r.URL.Path}, "|")
			redisKey := store.IdempotencyKey(scope, clientKey)

			raw, err := store.Get(r.Context(), redisKey)
			switch {
			case err != nil && !errors.Is(err, redis.Nil):
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			case raw != "":
				replayRecorded(r, w, logg, raw, requestHash)
				return
			}

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			persistRecorded(r, logg, store, redisKey, rec, requestHash, ttl)
		})
	}
}

func replayRecorded(r *http.Request, w http.ResponseWriter, logg *logger.Logger, raw, requestHash string) {
	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	if stored.RequestHash != requestHash {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
		return
	}
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.WriteHeader(stored.Status)
	if decoded, err := base64.StdEncoding.DecodeString(stored.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func persistRecorded(r *http.Request, logg *logger.Logger, store pkgredis.IdempotencyStore, redisKey string, rec *responseCapture, requestHash string, ttl time.Duration) {
	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}
	// Server failures are transient; recording one would pin every retry
	// to the same stale 5xx for the full TTL.
	if status >= http.StatusInternalServerError {
		return
	}
	payload, err := json.Marshal(storedResponse{
		Status:      status,
		Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
		ContentType: rec.Header().Get("Content-Type"),
		RequestHash: requestHash,
	})
	if err != nil {
		if logg != nil {
			logg.Error(r.Context(), "marshal idempotency record", err)
		}
		return
	}
	if _, err := store.SetNX(r.Context(), redisKey, string(payload), ttl); err != nil && logg != nil {
		logg.Error(r.Context(), "persist idempotency record", err)
	}
}

func routePattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
