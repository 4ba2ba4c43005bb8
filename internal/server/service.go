// Package server exposes loaded keys to TLS terminators over gRPC so the
// private-key half of a handshake can be offloaded.
//
// Messages are protobuf well-known types. Requests are structpb.Struct with
// binary fields carried as standard base64 strings.
package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "tlskey.v1.KeyService"

// Full method names.
const (
	MethodSign         = "/" + ServiceName + "/Sign"
	MethodVerify       = "/" + ServiceName + "/Verify"
	MethodSize         = "/" + ServiceName + "/Size"
	MethodSchemes      = "/" + ServiceName + "/Schemes"
	MethodListKeys     = "/" + ServiceName + "/ListKeys"
	MethodImportKey    = "/" + ServiceName + "/ImportKey"
	MethodSetKeyStatus = "/" + ServiceName + "/SetKeyStatus"
	MethodDeleteKey    = "/" + ServiceName + "/DeleteKey"
	MethodStreamSign   = "/" + ServiceName + "/StreamSign"
)

// KeyServiceServer is the server API for tlskey.v1.KeyService.
type KeyServiceServer interface {
	Sign(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	Verify(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
	Size(context.Context, *structpb.Struct) (*wrapperspb.UInt32Value, error)
	Schemes(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	ListKeys(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	ImportKey(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	SetKeyStatus(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	DeleteKey(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	StreamSign(grpc.ServerStream) error
}

func unary[Resp proto.Message](fullMethod string, call func(KeyServiceServer, context.Context, *structpb.Struct) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(KeyServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(KeyServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes tlskey.v1.KeyService for grpc.ServiceRegistrar.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KeyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Sign", Handler: unary(MethodSign, KeyServiceServer.Sign)},
		{MethodName: "Verify", Handler: unary(MethodVerify, KeyServiceServer.Verify)},
		{MethodName: "Size", Handler: unary(MethodSize, KeyServiceServer.Size)},
		{MethodName: "Schemes", Handler: unary(MethodSchemes, KeyServiceServer.Schemes)},
		{MethodName: "ListKeys", Handler: unary(MethodListKeys, KeyServiceServer.ListKeys)},
		{MethodName: "ImportKey", Handler: unary(MethodImportKey, KeyServiceServer.ImportKey)},
		{MethodName: "SetKeyStatus", Handler: unary(MethodSetKeyStatus, KeyServiceServer.SetKeyStatus)},
		{MethodName: "DeleteKey", Handler: unary(MethodDeleteKey, KeyServiceServer.DeleteKey)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName: "StreamSign",
			Handler: func(srv any, stream grpc.ServerStream) error {
				return srv.(KeyServiceServer).StreamSign(stream)
			},
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "tlskey/v1/key_service.proto",
}

// Register adds srv to s.
func Register(s grpc.ServiceRegistrar, srv KeyServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
