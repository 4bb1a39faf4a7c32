package server

import (
	"context"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/oggyb/swipe-core/internal/cache"
)

// Metadata keys read by the interceptors.
const (
	HeaderRequestID  = "x-request-id"
	HeaderTelegramID = "x-telegram-id"
	HeaderAdminID    = "x-admin-id"
	HeaderAdminKey   = "x-admin-key"
)

type adminKey struct{}

// AdminFrom returns the admin telegram id attached by AdminAuth.
func AdminFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(adminKey{}).(int64)
	return id, ok
}

// WithAdmin attaches an admin id to ctx.
func WithAdmin(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, adminKey{}, id)
}

// CallerFrom returns the user id sent in the x-telegram-id header. ok is
// false when the header is absent; a malformed value is an error.
func CallerFrom(ctx context.Context) (id int64, ok bool, err error) {
	raw := first(ctx, HeaderTelegramID)
	if raw == "" {
		return 0, false, nil
	}
	id, err = strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, status.Error(codes.InvalidArgument, "malformed "+HeaderTelegramID)
	}
	return id, true, nil
}

// Recover turns a handler panic into codes.Internal and logs the stack.
func Recover(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					"method", info.FullMethod,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				resp, err = nil, status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// Logging writes one line per call with the request id, method, peer,
// status code and duration.
func Logging(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		rid := first(ctx, HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		peerStr := "-"
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			peerStr = p.Addr.String()
		}

		resp, err := handler(ctx, req)

		level := slog.LevelInfo
		if code := status.Code(err); code == codes.Internal || code == codes.Unknown {
			level = slog.LevelError
		}
		log.Log(ctx, level, "grpc",
			"request_id", rid,
			"method", info.FullMethod,
			"peer", peerStr,
			"code", status.Code(err).String(),
			"dur", time.Since(start),
		)
		return resp, err
	}
}

// RateLimit rejects callers over the limiter's windows with
// codes.ResourceExhausted. The subject is the x-telegram-id header, or the
// peer address when it is missing. Limiter failures let the call through.
func RateLimit(l *cache.RateLimiter, now func() time.Time, log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		subject := first(ctx, HeaderTelegramID)
		if subject == "" {
			if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
				subject = p.Addr.String()
			}
		}
		if subject == "" {
			return handler(ctx, req)
		}

		ok, err := l.Allow(ctx, subject, now())
		if err != nil {
			log.Warn("rate limiter unavailable", "err", err)
			return handler(ctx, req)
		}
		if !ok {
			return nil, status.Error(codes.ResourceExhausted, "too many requests")
		}
		return handler(ctx, req)
	}
}

// AdminAuth guards the given methods. The caller must send an x-admin-id
// from ids and, when keyHash is set, an x-admin-key matching the bcrypt hash.
func AdminAuth(methods []string, ids []int64, keyHash string) grpc.UnaryServerInterceptor {
	guarded := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		guarded[m] = struct{}{}
	}
	allowed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := guarded[info.FullMethod]; !ok {
			return handler(ctx, req)
		}

		id, err := strconv.ParseInt(first(ctx, HeaderAdminID), 10, 64)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "admin id required")
		}
		if _, ok := allowed[id]; !ok {
			return nil, status.Error(codes.PermissionDenied, "not an admin")
		}
		if keyHash != "" {
			key := first(ctx, HeaderAdminKey)
			if bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)) != nil {
				return nil, status.Error(codes.PermissionDenied, "bad admin key")
			}
		}
		return handler(WithAdmin(ctx, id), req)
	}
}

func first(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}
