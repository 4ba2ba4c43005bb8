package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/glinharesb/tlskey/internal/audit"
	"github.com/glinharesb/tlskey/internal/chain"
	"github.com/glinharesb/tlskey/internal/interceptor"
	"github.com/glinharesb/tlskey/internal/keystore"
	"github.com/glinharesb/tlskey/internal/metrics"
	"github.com/glinharesb/tlskey/internal/pkey"
	"github.com/glinharesb/tlskey/internal/policy"
)

// KeyServer implements KeyServiceServer over a keystore.
type KeyServer struct {
	store   keystore.Store
	loader  *pkey.Loader
	prefs   *policy.Preferences
	audit   *audit.Logger
	metrics *metrics.Metrics
	logger  *slog.Logger

	// mu is held for reading while a handle is in use and for writing while
	// one may be released.
	mu sync.RWMutex
}

var _ KeyServiceServer = (*KeyServer)(nil)

type Options struct {
	Preferences *policy.Preferences
	Audit       *audit.Logger
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

func NewKeyServer(store keystore.Store, loader *pkey.Loader, opts Options) *KeyServer {
	if opts.Preferences == nil {
		opts.Preferences = policy.Default
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &KeyServer{
		store:   store,
		loader:  loader,
		prefs:   opts.Preferences,
		audit:   opts.Audit,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
}

// record audits and meters one operation.
func (s *KeyServer) record(ctx context.Context, op audit.Operation, keyID string, v pkey.Variant, err error) {
	r := result(err)
	if s.audit != nil {
		s.audit.Log(op, keyID, v.String(), r, interceptor.PeerAddr(ctx))
	}
	s.metrics.Observe(string(op), v.String(), string(r))
	if r == audit.ResultError {
		s.logger.Error("key operation failed", "op", op, "key_id", keyID, "variant", v, "error", err)
	}
}

// Import loads a chain and key and stores it as active. When curve is not
// CurveUnknown the key must be on that curve.
func (s *KeyServer) Import(ctx context.Context, id string, certPEM, keyPEM []byte, curve pkey.Curve, labels map[string]string) (err error) {
	variant := pkey.VariantUnknown
	defer func() { s.record(ctx, audit.OpLoadKey, id, variant, err) }()

	ck, err := chain.Load(s.loader, certPEM, keyPEM)
	switch {
	case err == nil:
		variant = ck.PrivateKey().Variant()
		s.record(ctx, audit.OpMatch, id, variant, nil)
	case errors.Is(err, pkey.ErrKeyMismatch):
		s.record(ctx, audit.OpMatch, id, variant, err)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", id, err)
	}
	if curve != pkey.CurveUnknown {
		if err := ck.RequireCurve(curve); err != nil {
			ck.Release()
			return fmt.Errorf("load %s: %w", id, err)
		}
	}
	entry := &keystore.KeyEntry{
		ID:        id,
		Status:    keystore.StatusActive,
		Chain:     ck,
		CreatedAt: time.Now().UTC(),
		Labels:    labels,
	}
	if err := s.store.Put(entry); err != nil {
		ck.Release()
		return err
	}
	s.updateGauge()
	s.logger.Info("key loaded", "key_id", id, "variant", variant, "curve", ck.Curve(), "subject", ck.Leaf().Subject.String())
	return nil
}

func (s *KeyServer) updateGauge() {
	entries, err := s.store.List(0)
	if err != nil {
		return
	}
	counts := map[pkey.Variant]int{pkey.VariantRSA: 0, pkey.VariantRSAPSS: 0, pkey.VariantECDSA: 0}
	for _, e := range entries {
		counts[e.Variant()]++
	}
	for v, n := range counts {
		s.metrics.SetKeys(v.String(), n)
	}
}

func (s *KeyServer) ImportKey(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	id, err := stringField(req, "key_id")
	if err != nil {
		return nil, err
	}
	certPEM, err := stringField(req, "cert_pem")
	if err != nil {
		return nil, err
	}
	keyPEM, err := stringField(req, "key_pem")
	if err != nil {
		return nil, err
	}
	curve := pkey.CurveUnknown
	if name := optionalString(req, "curve"); name != "" {
		if curve, err = pkey.ParseCurve(name); err != nil {
			return nil, keyError(err)
		}
	}
	if err := s.Import(ctx, id, []byte(certPEM), []byte(keyPEM), curve, stringMap(req, "labels")); err != nil {
		return nil, keyError(err)
	}
	return &emptypb.Empty{}, nil
}

var statusNames = map[string]keystore.KeyStatus{
	keystore.StatusActive.String():      keystore.StatusActive,
	keystore.StatusRotated.String():     keystore.StatusRotated,
	keystore.StatusDeactivated.String(): keystore.StatusDeactivated,
}

func (s *KeyServer) SetKeyStatus(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	id, err := stringField(req, "key_id")
	if err != nil {
		return nil, err
	}
	name, err := stringField(req, "status")
	if err != nil {
		return nil, err
	}
	st, ok := statusNames[name]
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unknown status %q", name)
	}
	if err := s.store.UpdateStatus(id, st); err != nil {
		return nil, keyError(err)
	}
	s.logger.Info("key status changed", "key_id", id, "status", st)
	return &emptypb.Empty{}, nil
}

func (s *KeyServer) DeleteKey(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	id, err := stringField(req, "key_id")
	if err != nil {
		return nil, err
	}
	variant := pkey.VariantUnknown
	if entry, err := s.store.Get(id); err == nil {
		variant = entry.Variant()
	}

	s.mu.Lock()
	err = s.store.Delete(id)
	s.mu.Unlock()
	s.record(ctx, audit.OpUnloadKey, id, variant, err)
	if err != nil {
		return nil, keyError(err)
	}
	s.updateGauge()
	return &emptypb.Empty{}, nil
}

// ListKeys returns one struct per key, optionally filtered by "status".
func (s *KeyServer) ListKeys(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	var filter keystore.KeyStatus
	if name := optionalString(req, "status"); name != "" {
		st, ok := statusNames[name]
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "unknown status %q", name)
		}
		filter = st
	}
	entries, err := s.store.List(filter)
	if err != nil {
		return nil, keyError(err)
	}

	out := &structpb.ListValue{}
	for _, e := range entries {
		fields := map[string]any{
			"key_id":     e.ID,
			"variant":    e.Variant().String(),
			"status":     e.Status.String(),
			"created_at": e.CreatedAt.Format(time.RFC3339),
		}
		if c := e.Chain.Curve(); c != pkey.CurveUnknown {
			fields["curve"] = c.String()
		}
		if leaf := e.Chain.Leaf(); leaf != nil {
			fields["subject"] = leaf.Subject.String()
			fields["not_after"] = leaf.NotAfter.UTC().Format(time.RFC3339)
		}
		v, err := structpb.NewStruct(fields)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "encode key %s: %v", e.ID, err)
		}
		out.Values = append(out.Values, structpb.NewStructValue(v))
	}
	return out, nil
}
