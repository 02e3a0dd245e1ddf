package rpcserver

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/tensorbatch/tensorbatch/internal/backend"
	"github.com/tensorbatch/tensorbatch/internal/batch"
	"github.com/tensorbatch/tensorbatch/internal/pb"
	"github.com/tensorbatch/tensorbatch/internal/session"
)

const bufSize = 1 << 20

// newTestServer wires a Batcher of the given capacity behind an in-process
// BatchingService and returns a client plus a teardown func.
func newTestServer(t *testing.T, capacity int, backendFn backend.Func) (pb.BatchingServiceClient, func()) {
	t.Helper()

	b := batch.New(capacity)
	require.Equal(t, batch.OK, b.Bind(batch.InMemoryBind{Backend: backendFn}))
	sessions := session.NewRegistry()

	lis := bufconn.Listen(bufSize)
	srv := New(b, sessions, FloatVectorCodec{}, nil, 0)

	go func() { _ = srv.grpcServer.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	client := pb.NewBatchingServiceClient(conn)
	teardown := func() {
		_ = conn.Close()
		srv.grpcServer.Stop()
	}
	return client, teardown
}

func TestServer_ConnectThenProcess(t *testing.T) {
	client, teardown := newTestServer(t, 1, backend.Identity())
	defer teardown()

	ctx := context.Background()
	reply, err := client.Connect(ctx, &pb.ConnectionRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, reply.GetClientId())

	out, err := client.Process(ctx, &pb.TensorMessage{
		ClientId: reply.GetClientId(),
		N:        1,
		Buffer:   []float32{3.5},
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{3.5}, out.GetBuffer())
}

func TestServer_ProcessWithoutConnect_FailedPrecondition(t *testing.T) {
	client, teardown := newTestServer(t, 1, backend.Identity())
	defer teardown()

	_, err := client.Process(context.Background(), &pb.TensorMessage{ClientId: "ghost", N: 1, Buffer: []float32{1}})
	require.Error(t, err)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestNew_PanicsWhenAdmissionLimitBelowCapacity(t *testing.T) {
	b := batch.New(8)
	require.Equal(t, batch.OK, b.Bind(batch.InMemoryBind{Backend: backend.Identity()}))

	assert.Panics(t, func() {
		New(b, session.NewRegistry(), FloatVectorCodec{}, nil, 4)
	})
}

func TestServer_SetBatchSizeOK(t *testing.T) {
	client, teardown := newTestServer(t, 4, backend.Identity())
	defer teardown()

	_, err := client.SetBatchSize(context.Background(), &pb.AdminRequest{NewBatchSize: 8})
	require.NoError(t, err)
}

func TestServer_TwoClients_ShareOneBatch(t *testing.T) {
	client, teardown := newTestServer(t, 2, backend.Affine(2, 0))
	defer teardown()

	ctx := context.Background()
	r1, err := client.Connect(ctx, &pb.ConnectionRequest{})
	require.NoError(t, err)
	r2, err := client.Connect(ctx, &pb.ConnectionRequest{})
	require.NoError(t, err)

	resultCh := make(chan *pb.TensorMessage, 1)
	errCh := make(chan error, 1)
	go func() {
		out, err := client.Process(ctx, &pb.TensorMessage{ClientId: r1.GetClientId(), N: 1, Buffer: []float32{10}})
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- out
	}()

	time.Sleep(20 * time.Millisecond) // let the first request land and block

	out2, err := client.Process(ctx, &pb.TensorMessage{ClientId: r2.GetClientId(), N: 1, Buffer: []float32{5}})
	require.NoError(t, err)
	assert.Equal(t, []float32{10}, out2.GetBuffer())

	select {
	case out1 := <-resultCh:
		assert.Equal(t, []float32{20}, out1.GetBuffer())
	case err := <-errCh:
		t.Fatalf("first client's Process failed: %v", err)
	case <-time.After(time.Second):
		t.Fatal("first client's Process never returned after the batch filled")
	}
}

func TestServer_BackendFailure_CanceledNotDeadlock(t *testing.T) {
	boom := errors.New("kaboom")
	client, teardown := newTestServer(t, 1, func([]backend.Item) ([]backend.Item, error) { return nil, boom })
	defer teardown()

	ctx := context.Background()
	r1, err := client.Connect(ctx, &pb.ConnectionRequest{})
	require.NoError(t, err)

	_, err = client.Process(ctx, &pb.TensorMessage{ClientId: r1.GetClientId(), N: 1, Buffer: []float32{1}})
	require.Error(t, err)
	assert.Equal(t, codes.Canceled, status.Code(err))
}
