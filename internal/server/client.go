package server

import (
	"context"
	"encoding/base64"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls tlskey.v1.KeyService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func request(fields map[string]string, binary map[string][]byte) *structpb.Struct {
	req := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields)+len(binary))}
	for k, v := range fields {
		req.Fields[k] = structpb.NewStringValue(v)
	}
	for k, v := range binary {
		req.Fields[k] = structpb.NewStringValue(base64.StdEncoding.EncodeToString(v))
	}
	return req
}

// SignRequest builds the request struct Sign and StreamSign expect.
func SignRequest(keyID, scheme string, message []byte) *structpb.Struct {
	return request(map[string]string{"key_id": keyID, "scheme": scheme}, map[string][]byte{"message": message})
}

func (c *Client) Sign(ctx context.Context, keyID, scheme string, message []byte, opts ...grpc.CallOption) ([]byte, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, MethodSign, SignRequest(keyID, scheme, message), out, opts...); err != nil {
		return nil, err
	}
	return out.GetValue(), nil
}

func (c *Client) Verify(ctx context.Context, keyID, scheme string, message, signature []byte, opts ...grpc.CallOption) (bool, error) {
	req := request(map[string]string{"key_id": keyID, "scheme": scheme}, map[string][]byte{"message": message, "signature": signature})
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, MethodVerify, req, out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *Client) Size(ctx context.Context, keyID string, opts ...grpc.CallOption) (int, error) {
	out := new(wrapperspb.UInt32Value)
	if err := c.cc.Invoke(ctx, MethodSize, request(map[string]string{"key_id": keyID}, nil), out, opts...); err != nil {
		return 0, err
	}
	return int(out.GetValue()), nil
}

func (c *Client) Schemes(ctx context.Context, keyID string, opts ...grpc.CallOption) ([]string, error) {
	return c.SchemesFor(ctx, keyID, "", opts...)
}

// SchemesFor lists the schemes valid for keyID in a TLS version such as
// "1.2" or "1.3". An empty version does not filter.
func (c *Client) SchemesFor(ctx context.Context, keyID, version string, opts ...grpc.CallOption) ([]string, error) {
	fields := map[string]string{"key_id": keyID}
	if version != "" {
		fields["tls_version"] = version
	}
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, MethodSchemes, request(fields, nil), out, opts...); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		names = append(names, v.GetStringValue())
	}
	return names, nil
}

// ListKeys returns one map per key. An empty status lists every key.
func (c *Client) ListKeys(ctx context.Context, status string, opts ...grpc.CallOption) ([]map[string]any, error) {
	req := request(nil, nil)
	if status != "" {
		req.Fields["status"] = structpb.NewStringValue(status)
	}
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, MethodListKeys, req, out, opts...); err != nil {
		return nil, err
	}
	keys := make([]map[string]any, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		keys = append(keys, v.GetStructValue().AsMap())
	}
	return keys, nil
}

func (c *Client) ImportKey(ctx context.Context, keyID string, certPEM, keyPEM []byte, curve string, opts ...grpc.CallOption) error {
	fields := map[string]string{"key_id": keyID, "cert_pem": string(certPEM), "key_pem": string(keyPEM)}
	if curve != "" {
		fields["curve"] = curve
	}
	return c.cc.Invoke(ctx, MethodImportKey, request(fields, nil), new(emptypb.Empty), opts...)
}

func (c *Client) SetKeyStatus(ctx context.Context, keyID, status string, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, MethodSetKeyStatus, request(map[string]string{"key_id": keyID, "status": status}, nil), new(emptypb.Empty), opts...)
}

func (c *Client) DeleteKey(ctx context.Context, keyID string, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, MethodDeleteKey, request(map[string]string{"key_id": keyID}, nil), new(emptypb.Empty), opts...)
}

// StreamSign opens a bidirectional signing stream. Send SignRequest
// structs and read one response struct per request.
func (c *Client) StreamSign(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return c.cc.NewStream(ctx, &ServiceDesc.Streams[0], MethodStreamSign, opts...)
}
