package rpcserver

import (
	"fmt"

	"github.com/tensorbatch/tensorbatch/internal/backend"
	"github.com/tensorbatch/tensorbatch/internal/batch"
	"github.com/tensorbatch/tensorbatch/internal/pb"
)

// FloatVectorCodec treats every TensorMessage as N scalar float32 values in
// Buffer, one backend.Item (float64) per value. It ignores
// SerializedBuffer; a backend needing a custom wire encoding supplies its
// own Deserializer.
type FloatVectorCodec struct{}

func (FloatVectorCodec) Decode(msg *pb.TensorMessage) ([]backend.Item, *batch.Shape, error) {
	n := int(msg.GetN())
	if n != len(msg.GetBuffer()) {
		return nil, nil, fmt.Errorf("rpcserver: declared n=%d but buffer has %d values", n, len(msg.GetBuffer()))
	}

	items := make([]backend.Item, n)
	for i, v := range msg.GetBuffer() {
		items[i] = float64(v)
	}

	var shape *batch.Shape
	if msg.K != 0 || msg.Nr != 0 || msg.Nc != 0 {
		shape = &batch.Shape{K: msg.K, Nr: msg.Nr, Nc: msg.Nc}
	}
	return items, shape, nil
}

func (FloatVectorCodec) Encode(items []backend.Item, shape *batch.Shape) *pb.TensorMessage {
	buf := make([]float32, len(items))
	for i, it := range items {
		f, _ := it.(float64)
		buf[i] = float32(f)
	}
	msg := &pb.TensorMessage{N: int32(len(items)), Buffer: buf}
	if shape != nil {
		msg.K, msg.Nr, msg.Nc = shape.K, shape.Nr, shape.Nc
	}
	return msg
}
