package interceptor

import (
	"context"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// newLimiter returns nil when rps is not positive, which disables limiting.
func newLimiter(rps, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = rps
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// RateLimitUnary returns a unary interceptor that enforces requests per second.
func RateLimitUnary(rps, burst int) grpc.UnaryServerInterceptor {
	limiter := newLimiter(rps, burst)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if limiter != nil && !limiter.Allow() {
			return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
		}
		return handler(ctx, req)
	}
}

// RateLimitStream returns a stream interceptor that enforces requests per second.
func RateLimitStream(rps, burst int) grpc.StreamServerInterceptor {
	limiter := newLimiter(rps, burst)
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if limiter != nil && !limiter.Allow() {
			return status.Error(codes.ResourceExhausted, "rate limit exceeded")
		}
		return handler(srv, ss)
	}
}
