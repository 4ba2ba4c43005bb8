package interceptor

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// LoggingUnary logs unary RPC calls with method, peer, duration, and status
// code. Failed calls are logged at warn level.
func LoggingUnary(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logCall(ctx, logger, "unary", info.FullMethod, start, err)
		return resp, err
	}
}

// LoggingStream logs stream RPC calls.
func LoggingStream(logger *slog.Logger) grpc.StreamServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logCall(ss.Context(), logger, "stream", info.FullMethod, start, err)
		return err
	}
}

func logCall(ctx context.Context, logger *slog.Logger, kind, method string, start time.Time, err error) {
	code := status.Code(err)
	level := slog.LevelInfo
	if code != codes.OK {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, kind,
		"method", method,
		"peer", PeerAddr(ctx),
		"code", code.String(),
		"duration", time.Since(start),
	)
}

// PeerAddr returns the remote address of the caller, or "".
func PeerAddr(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}
	return ""
}
