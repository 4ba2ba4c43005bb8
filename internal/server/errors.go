package server

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/glinharesb/tlskey/internal/audit"
	"github.com/glinharesb/tlskey/internal/keystore"
	"github.com/glinharesb/tlskey/internal/pkey"
)

// keyError maps key layer errors to gRPC status codes.
func keyError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, keystore.ErrKeyNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, keystore.ErrKeyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, keystore.ErrKeyInactive):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, pkey.ErrNullReference):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, pkey.ErrKeyMismatch):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, pkey.ErrUnsupportedFeature):
		return status.Error(codes.Unimplemented, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// result classifies err for audit and metrics. Caller mistakes are
// rejections, everything else on the server side is an error.
func result(err error) audit.Result {
	if errors.Is(err, pkey.ErrBadSignature) {
		return audit.ResultRejected
	}
	switch status.Code(keyError(err)) {
	case codes.OK:
		return audit.ResultOK
	case codes.Internal, codes.Unknown:
		return audit.ResultError
	default:
		return audit.ResultRejected
	}
}
