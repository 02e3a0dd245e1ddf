// Package rpcserver is the RPC façade: it terminates BatchingService RPCs,
// translates wire messages into Batcher calls, and maps ReturnCode back
// onto gRPC status codes. It owns no batching state of its own.
package rpcserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"

	"github.com/tensorbatch/tensorbatch/internal/backend"
	"github.com/tensorbatch/tensorbatch/internal/batch"
	"github.com/tensorbatch/tensorbatch/internal/pb"
	"github.com/tensorbatch/tensorbatch/internal/session"
)

// Deserializer turns a wire TensorMessage's payload into backend.Items and,
// on the way back, turns backend.Items back into a TensorMessage. The
// façade knows nothing about tensor layout beyond n/k/nr/nc bookkeeping;
// this is supplied by whoever wires up the server (see cmd/tensorbatchd).
type Deserializer interface {
	Decode(msg *pb.TensorMessage) ([]backend.Item, *batch.Shape, error)
	Encode(items []backend.Item, shape *batch.Shape) *pb.TensorMessage
}

// Server implements pb.BatchingServiceServer over a Batcher and a session
// Registry, and owns the grpc.Server lifecycle around them.
type Server struct {
	pb.UnimplementedBatchingServiceServer

	logger   *zap.Logger
	batcher  *batch.Batcher
	sessions *session.Registry
	codec    Deserializer

	// admission bounds how many requests may be concurrently admitted into
	// the Batcher via AddToBatch. It is acquired only around that call and
	// released before GetResult's blocking wait, so it never holds a slot
	// across the rendezvous — doing so would deadlock once the number of
	// callers already parked in GetResult reached the limit, since the
	// remaining admissions needed to fill (and so unblock) the batch could
	// never acquire a slot themselves. nil means unbounded.
	admission *semaphore.Weighted

	grpcOpts   []grpc.ServerOption
	grpcServer *grpc.Server
}

// New constructs a Server. logger may be nil, in which case a no-op logger
// is used. maxConcurrentAdmissions bounds how many requests may be
// concurrently admitted into the Batcher at once; zero or negative means
// unbounded. New panics when it is positive and below the Batcher's
// capacity at construction time.
func New(b *batch.Batcher, sessions *session.Registry, codec Deserializer, logger *zap.Logger, maxConcurrentAdmissions int64, grpcOpts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxConcurrentAdmissions > 0 && maxConcurrentAdmissions < int64(b.Capacity()) {
		panic(fmt.Sprintf("rpcserver: maxConcurrentAdmissions (%d) must be >= batcher capacity (%d)",
			maxConcurrentAdmissions, b.Capacity()))
	}

	var admission *semaphore.Weighted
	if maxConcurrentAdmissions > 0 {
		admission = semaphore.NewWeighted(maxConcurrentAdmissions)
	}

	s := &Server{
		logger:     logger,
		batcher:    b,
		sessions:   sessions,
		codec:      codec,
		admission:  admission,
		grpcOpts:   grpcOpts,
		grpcServer: grpc.NewServer(grpcOpts...),
	}
	pb.RegisterBatchingServiceServer(s.grpcServer, s)
	return s
}

// Connect issues a fresh client ID. It never fails at the RPC layer.
func (s *Server) Connect(ctx context.Context, _ *pb.ConnectionRequest) (*pb.ConnectionReply, error) {
	id := s.sessions.Connect()
	s.logger.Debug("client connected", zap.String("client_id", id))
	return &pb.ConnectionReply{ClientId: id}, nil
}

// SetBatchSize resizes the Batcher's capacity.
func (s *Server) SetBatchSize(ctx context.Context, req *pb.AdminRequest) (*pb.AdminReply, error) {
	rc := s.batcher.SetBatchSize(int(req.GetNewBatchSize()))
	switch rc {
	case batch.OK:
		return &pb.AdminReply{}, nil
	case batch.NextBatch:
		return nil, status.Error(codes.Unavailable, "cannot shrink capacity below the current in-flight fill level")
	default:
		return nil, status.Errorf(codes.Canceled, "set batch size failed: %s", rc)
	}
}

// Process admits one client's request into the batch, then blocks until
// that client's slice of the dispatched output is ready.
func (s *Server) Process(ctx context.Context, req *pb.TensorMessage) (*pb.TensorMessage, error) {
	clientID := req.GetClientId()
	if !s.sessions.Known(clientID) {
		return nil, status.Error(codes.FailedPrecondition, "unknown client id, call Connect first")
	}

	items, shape, err := s.codec.Decode(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}

	if s.admission != nil {
		if err := s.admission.Acquire(ctx, 1); err != nil {
			return nil, status.FromContextError(err).Err()
		}
	}
	rc := s.batcher.AddToBatch(ctx, batch.Request{ClientID: clientID, Items: items, Shape: shape})
	if s.admission != nil {
		s.admission.Release(1)
	}

	switch rc {
	case batch.OK:
		// fall through to GetResult
	case batch.NeedBindCall:
		return nil, status.Error(codes.FailedPrecondition, "batcher has no backend bound")
	case batch.ShapeIncorrect:
		return nil, status.Error(codes.InvalidArgument, "request shape disagrees with the declared input shape")
	case batch.BatchTooLarge:
		return nil, status.Error(codes.InvalidArgument, "request is larger than the batch capacity")
	case batch.NextBatch:
		return nil, status.Error(codes.Unavailable, "batch was flushed early, retry")
	default:
		return nil, status.Errorf(codes.Canceled, "add to batch failed: %s", rc)
	}

	out, _, err := s.batcher.GetResult(ctx, clientID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, status.FromContextError(ctx.Err()).Err()
		}
		s.logger.Warn("dispatch failed for client", zap.String("client_id", clientID), zap.Error(err))
		return nil, status.Errorf(codes.Canceled, "batch dispatch failed: %v", err)
	}

	return s.codec.Encode(out, shape), nil
}

// StartInsecure begins serving on addr without transport security. It
// blocks until the listener stops or the server is told to Stop.
func (s *Server) StartInsecure(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("listening", zap.String("addr", addr), zap.Bool("tls", false))
	return s.grpcServer.Serve(lis)
}

// StartSSL begins serving on addr with TLS, using certData/keyData that
// are either both inline PEM text or both filesystem paths. They are
// treated as inline PEM only when both begin, after leading whitespace,
// with "-----" (five dashes), matching original_source/RPC/TBServer.hpp's
// StartSSL heuristic; otherwise both are read as paths, so a PEM cert
// paired with a key path (or the reverse) is not accepted.
func (s *Server) StartSSL(addr, certData, keyData string) error {
	cert, err := loadKeyPair(certData, keyData)
	if err != nil {
		return err
	}

	creds := credentials.NewTLS(&tls.Config{Certificates: []tls.Certificate{cert}})
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("listening", zap.String("addr", addr), zap.Bool("tls", true))

	s.grpcServer = grpc.NewServer(append([]grpc.ServerOption{grpc.Creds(creds)}, s.grpcOpts...)...)
	pb.RegisterBatchingServiceServer(s.grpcServer, s)
	return s.grpcServer.Serve(lis)
}

// Stop gracefully shuts the server down, letting in-flight RPCs finish.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}

func loadKeyPair(certData, keyData string) (tls.Certificate, error) {
	if isInlinePEM(certData) && isInlinePEM(keyData) {
		return tls.X509KeyPair([]byte(certData), []byte(keyData))
	}
	return tls.LoadX509KeyPair(certData, keyData)
}

func isInlinePEM(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "-----")
}
