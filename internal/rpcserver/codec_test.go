package rpcserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorbatch/tensorbatch/internal/batch"
	"github.com/tensorbatch/tensorbatch/internal/pb"
)

func TestFloatVectorCodec_RoundTrip(t *testing.T) {
	codec := FloatVectorCodec{}
	msg := &pb.TensorMessage{ClientId: "c1", N: 3, K: 3, Nr: 1, Nc: 1, Buffer: []float32{1, 2, 3}}

	items, shape, err := codec.Decode(msg)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.NotNil(t, shape)
	assert.Equal(t, &batch.Shape{K: 3, Nr: 1, Nc: 1}, shape)

	out := codec.Encode(items, shape)
	assert.Equal(t, []float32{1, 2, 3}, out.Buffer)
	assert.Equal(t, int32(3), out.K)
}

func TestFloatVectorCodec_NMismatch(t *testing.T) {
	codec := FloatVectorCodec{}
	_, _, err := codec.Decode(&pb.TensorMessage{N: 5, Buffer: []float32{1, 2}})
	assert.Error(t, err)
}

func TestFloatVectorCodec_NoShape(t *testing.T) {
	codec := FloatVectorCodec{}
	_, shape, err := codec.Decode(&pb.TensorMessage{N: 1, Buffer: []float32{1}})
	require.NoError(t, err)
	assert.Nil(t, shape)
}
