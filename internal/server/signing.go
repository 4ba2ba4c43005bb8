package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/glinharesb/tlskey/internal/audit"
	"github.com/glinharesb/tlskey/internal/blob"
	"github.com/glinharesb/tlskey/internal/hash"
	"github.com/glinharesb/tlskey/internal/keystore"
	"github.com/glinharesb/tlskey/internal/pkey"
	"github.com/glinharesb/tlskey/internal/policy"
)

// scheme resolves the "scheme" field against the server's preferences.
func (s *KeyServer) scheme(req *structpb.Struct) (*policy.SignatureScheme, error) {
	name, err := stringField(req, "scheme")
	if err != nil {
		return nil, err
	}
	scheme, ok := policy.ByName(name)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unknown signature scheme %q", name)
	}
	prefs, err := s.offered(req)
	if err != nil {
		return nil, err
	}
	for _, offered := range prefs.Schemes {
		if offered == scheme {
			return scheme, nil
		}
	}
	return nil, status.Errorf(codes.FailedPrecondition, "signature scheme %s is not in preferences %s", name, prefs.Name)
}

// offered narrows the preference table to the optional "tls_version" field.
func (s *KeyServer) offered(req *structpb.Struct) (*policy.Preferences, error) {
	version, err := policy.ParseVersion(optionalString(req, "tls_version"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return s.prefs.ForVersion(version), nil
}

// bindCurve rejects curve-bound schemes on keys of another curve.
func bindCurve(scheme *policy.SignatureScheme, key pkey.Key) error {
	if scheme.Curve == pkey.CurveUnknown {
		return nil
	}
	m, ok := key.(pkey.CurveMatcher)
	if !ok {
		return fmt.Errorf("%w: %s requires an ECDSA key", pkey.ErrKeyMismatch, scheme)
	}
	return m.MatchesCurve(scheme.Curve)
}

func digestOf(alg hash.Algorithm, msg []byte) (*hash.State, error) {
	h := hash.New()
	if err := h.Init(alg); err != nil {
		return nil, err
	}
	if err := h.Update(msg); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *KeyServer) Sign(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	sig, err := s.sign(ctx, req)
	if err != nil {
		return nil, keyError(err)
	}
	return wrapperspb.Bytes(sig), nil
}

func (s *KeyServer) sign(ctx context.Context, req *structpb.Struct) (sig []byte, err error) {
	id, err := stringField(req, "key_id")
	if err != nil {
		return nil, err
	}
	variant := pkey.VariantUnknown
	defer func() { s.record(ctx, audit.OpSign, id, variant, err) }()

	scheme, err := s.scheme(req)
	if err != nil {
		return nil, err
	}
	msg, err := bytesField(req, "message")
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := keystore.Active(s.store, id)
	if err != nil {
		return nil, err
	}
	priv := entry.Chain.PrivateKey()
	variant = priv.Variant()
	if err := bindCurve(scheme, priv); err != nil {
		return nil, err
	}
	digest, err := digestOf(scheme.Hash, msg)
	if err != nil {
		return nil, err
	}
	size, err := priv.Size()
	if err != nil {
		return nil, err
	}
	out := blob.Alloc(size)
	if err := priv.Sign(scheme.SigAlg, digest, out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Verify checks a signature against the key's certificate. Rotated and
// deactivated keys still verify. A signature that does not verify is a
// false result, not an error.
func (s *KeyServer) Verify(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	err := s.verify(ctx, req)
	switch {
	case err == nil:
		return wrapperspb.Bool(true), nil
	case errors.Is(err, pkey.ErrBadSignature):
		return wrapperspb.Bool(false), nil
	default:
		return nil, keyError(err)
	}
}

func (s *KeyServer) verify(ctx context.Context, req *structpb.Struct) (err error) {
	id, err := stringField(req, "key_id")
	if err != nil {
		return err
	}
	variant := pkey.VariantUnknown
	defer func() { s.record(ctx, audit.OpVerify, id, variant, err) }()

	scheme, err := s.scheme(req)
	if err != nil {
		return err
	}
	msg, err := bytesField(req, "message")
	if err != nil {
		return err
	}
	sig, err := bytesField(req, "signature")
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.store.Get(id)
	if err != nil {
		return err
	}
	pub := entry.Chain.PublicKey()
	variant = pub.Variant()
	if err := bindCurve(scheme, pub); err != nil {
		return err
	}
	digest, err := digestOf(scheme.Hash, msg)
	if err != nil {
		return err
	}
	return pub.Verify(scheme.SigAlg, digest, blob.New(sig))
}

// Size returns the maximum signature length of the key.
func (s *KeyServer) Size(ctx context.Context, req *structpb.Struct) (_ *wrapperspb.UInt32Value, err error) {
	id, err := stringField(req, "key_id")
	if err != nil {
		return nil, err
	}
	variant := pkey.VariantUnknown
	defer func() { s.record(ctx, audit.OpSize, id, variant, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.store.Get(id)
	if err != nil {
		return nil, keyError(err)
	}
	priv := entry.Chain.PrivateKey()
	variant = priv.Variant()
	size, err := priv.Size()
	if err != nil {
		return nil, keyError(err)
	}
	return wrapperspb.UInt32(uint32(size)), nil
}

// Schemes lists, in preference order, the scheme names the key can sign with.
func (s *KeyServer) Schemes(ctx context.Context, req *structpb.Struct) (_ *structpb.ListValue, err error) {
	id, err := stringField(req, "key_id")
	if err != nil {
		return nil, err
	}
	variant := pkey.VariantUnknown
	defer func() { s.record(ctx, audit.OpSchemes, id, variant, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs, err := s.offered(req)
	if err != nil {
		return nil, err
	}
	entry, err := s.store.Get(id)
	if err != nil {
		return nil, keyError(err)
	}
	priv := entry.Chain.PrivateKey()
	variant = priv.Variant()

	out := &structpb.ListValue{}
	for _, scheme := range prefs.Compatible(priv) {
		out.Values = append(out.Values, structpb.NewStringValue(scheme.Name))
	}
	return out, nil
}

// StreamSign answers each request struct with {"signature"} or with
// {"error", "code"}; a failed request does not end the stream. A
// "request_id" field is echoed back.
func (s *KeyServer) StreamSign(stream grpc.ServerStream) error {
	ctx := stream.Context()
	for {
		req := new(structpb.Struct)
		if err := stream.RecvMsg(req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		fields := map[string]*structpb.Value{}
		if id, ok := req.GetFields()["request_id"]; ok {
			fields["request_id"] = id
		}
		sig, err := s.sign(ctx, req)
		if err != nil {
			st := status.Convert(keyError(err))
			fields["error"] = structpb.NewStringValue(st.Message())
			fields["code"] = structpb.NewStringValue(st.Code().String())
		} else {
			fields["signature"] = structpb.NewStringValue(base64.StdEncoding.EncodeToString(sig))
		}
		if err := stream.SendMsg(&structpb.Struct{Fields: fields}); err != nil {
			return err
		}
	}
}
