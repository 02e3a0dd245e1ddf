// Package batch implements the core batching engine: request admission,
// partial-batch accumulation, capacity management, triggered dispatch to a
// backend, and the per-client rendezvous that blocks a result fetch until
// its slice has been computed.
//
// The concurrency shape mirrors the teacher's batch/rendezvous pattern
// (github.com/graph-gophers/dataloader's batch window plus
// github.com/tikv/client-go's tryLock condition-variable guard in
// internal/client/client_batch.go), specialized to the fixed-capacity,
// dispatch-under-lock semantics this system requires.
package batch

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tensorbatch/tensorbatch/internal/backend"
)

// ReturnCode is the typed result of a Batcher operation, mirroring
// original_source/Servable/Servable.hpp's ReturnCodes enum one-to-one so the
// RPC façade's status mapping table stays a direct translation.
type ReturnCode int

const (
	OK ReturnCode = iota + 1
	NeedBindCall
	ShapeIncorrect
	NextBatch
	BatchTooLarge
	NoSuitableBindArgs
)

func (c ReturnCode) String() string {
	switch c {
	case OK:
		return "OK"
	case NeedBindCall:
		return "NEED_BIND_CALL"
	case ShapeIncorrect:
		return "SHAPE_INCORRECT"
	case NextBatch:
		return "NEXT_BATCH"
	case BatchTooLarge:
		return "BATCH_TOO_LARGE"
	case NoSuitableBindArgs:
		return "NO_SUITABLE_BIND_ARGS"
	default:
		return fmt.Sprintf("ReturnCode(%d)", int(c))
	}
}

// Shape is the optional trailing-dimension descriptor carried by a Request.
type Shape struct {
	K, Nr, Nc int32
}

// Request is one client's contribution to the batch: a count of items and
// the already-deserialized payload (deserialization of the wire format is
// the façade's job, not the Batcher's).
type Request struct {
	ClientID string
	Items    []backend.Item
	Shape    *Shape
}

// BindSource is a closed variant distinguishing where a Backend comes from,
// replacing the original's downcast-on-a-base-tag polymorphism
// (original_source/Servable/DlibServable/include/DlibServable.hpp defines
// DlibFileBindArgs and DlibRawBindArgs as the two concrete shapes).
type BindSource interface {
	isBindSource()
}

// InMemoryBind binds a Backend that is already constructed in the serving
// process.
type InMemoryBind struct {
	Backend backend.Func
	Shape   *Shape // declared input shape, if the backend cares to enforce one
}

func (InMemoryBind) isBindSource() {}

// FileBind binds a Backend that must be loaded from files on disk. The
// Batcher itself never opens these paths: loader is supplied by the caller
// and is responsible for turning symbolPath/paramsPath into a backend.Func.
type FileBind struct {
	SymbolPath, ParamsPath string
	Loader                 func(symbolPath, paramsPath string) (backend.Func, *Shape, error)
}

func (FileBind) isBindSource() {}

type clientSlice struct {
	lo, hi int
}

// Batcher is the stateful core described by the Batcher component design.
// It owns all batch, slice, and result state; the Backend is borrowed
// read-only during dispatch.
type Batcher struct {
	logger *zap.Logger
	tracer trace.Tracer

	// batch lock: guards n, capacity, items, slices, bound, expectedShape.
	mu            sync.Mutex
	capacity      int
	n             int
	bound         bool
	backendFn     backend.Func
	items         []backend.Item
	slices        map[string]*clientSlice
	order         []string // admission order of distinct clients in the current batch
	expectedShape *Shape

	// result lock + condition: guards resultByClient and done.
	resultMu      sync.Mutex
	resultCond    *sync.Cond
	resultByClient map[string][]backend.Item
	resultErr      map[string]error
	done           map[string]struct{}
}

// Option configures a Batcher at construction time.
type Option func(*Batcher)

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Batcher) { b.logger = l }
}

// WithTracer installs a tracer used to span AddToBatch, dispatch, and
// GetResult, in the same spirit as the teacher's Tracer interface
// (graph-gophers-dataloader/trace/otel).
func WithTracer(t trace.Tracer) Option {
	return func(b *Batcher) { b.tracer = t }
}

// New constructs a Batcher with the given initial capacity. capacity must
// be positive; the Batcher is unbound until Bind succeeds.
func New(capacity int, opts ...Option) *Batcher {
	b := &Batcher{
		logger:         zap.NewNop(),
		tracer:         trace.NewNoopTracerProvider().Tracer(""),
		capacity:       capacity,
		slices:         make(map[string]*clientSlice),
		resultByClient: make(map[string][]backend.Item),
		resultErr:      make(map[string]error),
		done:           make(map[string]struct{}),
	}
	b.resultCond = sync.NewCond(&b.resultMu)
	b.items = make([]backend.Item, 0, capacity)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind installs the Backend described by source. It may be called only
// once; later calls are rejected with NoSuitableBindArgs so a caller can't
// silently swap the backend out from under in-flight traffic.
func (b *Batcher) Bind(source BindSource) ReturnCode {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bound {
		return NoSuitableBindArgs
	}

	switch src := source.(type) {
	case InMemoryBind:
		if src.Backend == nil {
			return NoSuitableBindArgs
		}
		b.backendFn = src.Backend
		b.expectedShape = src.Shape
	case FileBind:
		if src.Loader == nil {
			return NoSuitableBindArgs
		}
		fn, shape, err := src.Loader(src.SymbolPath, src.ParamsPath)
		if err != nil {
			b.logger.Warn("bind: loader failed", zap.Error(err))
			return NoSuitableBindArgs
		}
		b.backendFn = fn
		b.expectedShape = shape
	default:
		return NoSuitableBindArgs
	}

	b.bound = true
	b.logger.Info("batcher bound", zap.Int("capacity", b.capacity))
	return OK
}

// SetBatchSize adjusts capacity. If the requested size no longer exceeds
// the in-flight fill level, the caller is told to retry after the next
// dispatch rather than being given an inconsistent capacity.
func (b *Batcher) SetBatchSize(newSize int) ReturnCode {
	b.mu.Lock()
	defer b.mu.Unlock()

	if newSize <= b.n {
		return NextBatch
	}
	b.setCapacityLocked(newSize)
	return OK
}

// setCapacityLocked must be called with mu held.
func (b *Batcher) setCapacityLocked(newSize int) {
	b.capacity = newSize
	grown := make([]backend.Item, len(b.items), newSize)
	copy(grown, b.items)
	b.items = grown
}

// AddToBatch runs the nine-step admission sequence from the spec.
func (b *Batcher) AddToBatch(ctx context.Context, req Request) ReturnCode {
	ctx, span := b.tracer.Start(ctx, "Batcher.AddToBatch", trace.WithAttributes(
		attribute.String("client_id", req.ClientID),
		attribute.Int("items", len(req.Items)),
	))
	defer span.End()

	b.mu.Lock()
	if !b.bound {
		b.mu.Unlock()
		return NeedBindCall
	}
	capacity := b.capacity
	expectedShape := b.expectedShape
	b.mu.Unlock()

	n := len(req.Items)
	if n > capacity {
		return BatchTooLarge
	}
	if req.Shape != nil && expectedShape != nil && *req.Shape != *expectedShape {
		return ShapeIncorrect
	}

	b.mu.Lock()

	if n+b.n > b.capacity {
		// The pending batch already has everything it can hold for this
		// request: shrink capacity to the current fill, dispatch what's
		// there, and tell the caller to retry. The just-arrived request is
		// not admitted.
		b.setCapacityLocked(b.n)
		b.dispatchLocked(ctx)
		b.mu.Unlock()
		return NextBatch
	}

	b.clearStaleResult(req.ClientID)

	slice, exists := b.slices[req.ClientID]
	if !exists {
		slice = &clientSlice{lo: b.n, hi: b.n + n}
		b.slices[req.ClientID] = slice
		b.order = append(b.order, req.ClientID)
	} else {
		slice.hi += n
	}

	b.items = append(b.items, req.Items...)
	b.n += n

	if b.n == b.capacity {
		b.dispatchLocked(ctx)
	}

	b.mu.Unlock()
	return OK
}

// clearStaleResult removes an unfetched ResultSlot for client, since
// admitting a new request invalidates whatever the client hasn't collected
// yet (original_source/Servable/DlibServable/include/DlibServable.hpp:
// "result_by_client_.erase(client_id)").
func (b *Batcher) clearStaleResult(client string) {
	b.resultMu.Lock()
	delete(b.resultByClient, client)
	delete(b.resultErr, client)
	delete(b.done, client)
	b.resultMu.Unlock()
}

// dispatchLocked runs the Backend on the current batch and distributes
// outputs to per-client result slots. The caller must hold b.mu; it is
// held for the whole call, including the Backend invocation, so that at
// most one dispatch happens per filled batch.
func (b *Batcher) dispatchLocked(ctx context.Context) {
	ctx, span := b.tracer.Start(ctx, "Batcher.dispatch", trace.WithAttributes(
		attribute.Int("n", b.n),
	))
	defer span.End()

	items := b.items
	slices := b.order
	sliceByClient := b.slices

	b.items = make([]backend.Item, 0, b.capacity)
	b.slices = make(map[string]*clientSlice)
	b.order = nil
	dispatchedN := b.n
	b.n = 0

	outputs, err := backend.Run(b.backendFn, items)

	b.resultMu.Lock()
	if err != nil {
		b.logger.Warn("dispatch failed, failing all pending clients",
			zap.Error(err), zap.Int("n", dispatchedN))
		for _, client := range slices {
			b.resultErr[client] = err
			delete(b.resultByClient, client)
			b.done[client] = struct{}{}
		}
	} else {
		for _, client := range slices {
			sl := sliceByClient[client]
			out := make([]backend.Item, sl.hi-sl.lo)
			copy(out, outputs[sl.lo:sl.hi])
			b.resultByClient[client] = out
			delete(b.resultErr, client)
			b.done[client] = struct{}{}
		}
	}
	b.resultCond.Broadcast()
	b.resultMu.Unlock()
}

// GetResult blocks until client's slice has been dispatched (or the batch
// containing it failed), then consumes and returns the result. If ctx is
// canceled first, GetResult wakes and returns ctx.Err() without consuming
// the ResultSlot, leaving it for the next AddToBatch (or shutdown) to
// clear, per the cancellation contract in spec.md §5.
func (b *Batcher) GetResult(ctx context.Context, clientID string) ([]backend.Item, ReturnCode, error) {
	_, span := b.tracer.Start(ctx, "Batcher.GetResult", trace.WithAttributes(
		attribute.String("client_id", clientID),
	))
	defer span.End()

	stopWatch := make(chan struct{})
	defer close(stopWatch)
	go func() {
		select {
		case <-ctx.Done():
			b.resultMu.Lock()
			b.resultCond.Broadcast()
			b.resultMu.Unlock()
		case <-stopWatch:
		}
	}()

	b.resultMu.Lock()
	defer b.resultMu.Unlock()

	for {
		if _, ok := b.done[clientID]; ok {
			delete(b.done, clientID)
			if err, failed := b.resultErr[clientID]; failed {
				delete(b.resultErr, clientID)
				return nil, OK, err
			}
			items := b.resultByClient[clientID]
			delete(b.resultByClient, clientID)
			return items, OK, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, OK, err
		}
		b.resultCond.Wait()
	}
}

// Capacity returns the current batch capacity C. Exposed for diagnostics
// and tests.
func (b *Batcher) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Fill returns the current in-flight fill level n. Exposed for diagnostics
// and tests.
func (b *Batcher) Fill() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}
