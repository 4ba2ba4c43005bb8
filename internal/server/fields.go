package server

import (
	"encoding/base64"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || s.StringValue == "" {
		return "", status.Errorf(codes.InvalidArgument, "field %q must be a non-empty string", name)
	}
	return s.StringValue, nil
}

func optionalString(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func bytesField(req *structpb.Struct, name string) ([]byte, error) {
	s, err := stringField(req, name)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "field %q is not base64: %v", name, err)
	}
	return b, nil
}

func stringMap(req *structpb.Struct, name string) map[string]string {
	fields := req.GetFields()[name].GetStructValue().GetFields()
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v.GetStringValue()
	}
	return out
}
