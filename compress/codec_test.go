package compress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func allCodecs(t *testing.T) map[Type]Codec {
	t.Helper()

	codecs := make(map[Type]Codec)
	for _, typ := range []Type{None, Zstd, S2, LZ4} {
		c, err := New(typ)
		require.NoError(t, err)
		codecs[typ] = c
	}

	return codecs
}

func TestRoundTrip(t *testing.T) {
	payload := make([]byte, 40000)
	for i := range payload {
		payload[i] = byte(i % 7)
	}

	for typ, codec := range allCodecs(t) {
		compressed, err := codec.Compress(payload)
		require.NoError(t, err, typ)

		decompressed, err := codec.Decompress(compressed)
		require.NoError(t, err, typ)
		require.Equal(t, payload, decompressed, typ)
	}
}

func TestRoundTripEmpty(t *testing.T) {
	for typ, codec := range allCodecs(t) {
		compressed, err := codec.Compress(nil)
		require.NoError(t, err, typ)

		decompressed, err := codec.Decompress(compressed)
		require.NoError(t, err, typ)
		require.Empty(t, decompressed, typ)
	}
}

func TestNewUnsupportedType(t *testing.T) {
	_, err := New(Type(0xEE))
	require.Error(t, err)
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "Zstd", Zstd.String())
	require.Equal(t, "Unknown", Type(0xEE).String())
}
