package cser

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-splitpay/utils/bits"
	"github.com/rony4d/go-splitpay/utils/fast"
)

// newReaderFromWriter connects a Reader straight to a Writer's streams,
// bypassing the binary framing.
func newReaderFromWriter(w *Writer) *Reader {
	return &Reader{
		BitsR:  bits.NewReader(w.BitsW.Array),
		BytesR: fast.NewReader(w.BytesW.Bytes()),
	}
}

func TestIntegers_RoundTrip(t *testing.T) {
	w := NewWriter()

	u8Vals := []uint8{0, 1, 0xFF}
	u16Vals := []uint16{0, 1, 0xFF, 0xFFFF}
	u32Vals := []uint32{0, 1, 0xFFFF, 0xFFFFFFFF}
	u64Vals := []uint64{0, 1, 0xFFFF, 0xFFFFFFFF, 0xFFFFFFFFFFFFFFFF}
	i64Vals := []int64{0, 1, -1, math.MinInt64, math.MaxInt64}
	u56Vals := []uint64{0, 1, (1 << 56) - 1}

	for _, v := range u8Vals {
		w.U8(v)
	}
	for _, v := range u16Vals {
		w.U16(v)
	}
	for _, v := range u32Vals {
		w.U32(v)
	}
	for _, v := range u64Vals {
		w.U64(v)
	}
	for _, v := range u64Vals {
		w.VarUint(v)
	}
	for _, v := range i64Vals {
		w.I64(v)
	}
	for _, v := range u56Vals {
		w.U56(v)
	}

	r := newReaderFromWriter(w)

	for i, want := range u8Vals {
		assert.Equal(t, want, r.U8(), "U8 mismatch at index %d", i)
	}
	for i, want := range u16Vals {
		assert.Equal(t, want, r.U16(), "U16 mismatch at index %d", i)
	}
	for i, want := range u32Vals {
		assert.Equal(t, want, r.U32(), "U32 mismatch at index %d", i)
	}
	for i, want := range u64Vals {
		assert.Equal(t, want, r.U64(), "U64 mismatch at index %d", i)
	}
	for i, want := range u64Vals {
		assert.Equal(t, want, r.VarUint(), "VarUint mismatch at index %d", i)
	}
	for i, want := range i64Vals {
		assert.Equal(t, want, r.I64(), "I64 mismatch at index %d", i)
	}
	for i, want := range u56Vals {
		assert.Equal(t, want, r.U56(), "U56 mismatch at index %d", i)
	}

	assert.True(t, r.BytesR.Empty(), "Bytes buffer should be empty after reading all values")

	// Only zero padding bits may remain in the bit stream.
	remainingBits := r.BitsR.NonReadBits()
	assert.Less(t, remainingBits, 8, "Remaining bits should be less than a full byte (padding only)")
	if remainingBits > 0 {
		val := r.BitsR.Read(remainingBits)
		assert.Equal(t, uint(0), val, "Padding bits must be zero")
	}
}

func TestBool_RoundTrip(t *testing.T) {
	w := NewWriter()
	vals := []bool{true, false, true, true, false}

	for _, v := range vals {
		w.Bool(v)
	}

	r := newReaderFromWriter(w)
	for i, want := range vals {
		assert.Equal(t, want, r.Bool(), "Bool index %d", i)
	}
}

func TestBytes_RoundTrip(t *testing.T) {
	w := NewWriter()

	fixed1 := []byte{1, 2, 3}
	fixed2 := []byte{4, 5}
	slice1 := []byte{6, 7, 8, 9}
	slice2 := []byte{}

	w.FixedBytes(fixed1)
	w.FixedBytes(fixed2)
	w.SliceBytes(slice1)
	w.SliceBytes(slice2)

	r := newReaderFromWriter(w)

	buf1 := make([]byte, len(fixed1))
	r.FixedBytes(buf1)
	assert.Equal(t, fixed1, buf1)

	buf2 := make([]byte, len(fixed2))
	r.FixedBytes(buf2)
	assert.Equal(t, fixed2, buf2)

	gotSlice1 := r.SliceBytes(100)
	assert.Equal(t, slice1, gotSlice1)

	gotSlice2 := r.SliceBytes(100)
	assert.Equal(t, slice2, gotSlice2)
}

// BigInt only stores the magnitude; negative inputs come back positive.
func TestBigInt_RoundTrip(t *testing.T) {
	w := NewWriter()
	vals := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(-1),
		big.NewInt(123456789),
	}

	for _, v := range vals {
		w.BigInt(v)
	}

	r := newReaderFromWriter(w)
	for i, v := range vals {
		got := r.BigInt()
		want := new(big.Int).Abs(v)
		assert.Equal(t, want, got, "BigInt index %d", i)
	}
}

// A magnitude with a leading zero byte decodes to the same value as
// its minimal form, so the reader must reject it.
func TestBigInt_PaddedMagnitude(t *testing.T) {
	w := NewWriter()
	w.SliceBytes([]byte{0x00, 0x01})

	r := newReaderFromWriter(w)
	assert.PanicsWithError(t, ErrNonCanonicalEncoding.Error(), func() {
		r.BigInt()
	})
}

func TestPaddedBytes(t *testing.T) {
	tests := []struct {
		in       []byte
		n        int
		expected []byte
	}{
		{[]byte{1}, 2, []byte{0, 1}},
		{[]byte{1, 2}, 2, []byte{1, 2}},
		{[]byte{1, 2, 3}, 2, []byte{1, 2, 3}},
		{[]byte{}, 3, []byte{0, 0, 0}},
	}

	for i, tc := range tests {
		got := PaddedBytes(tc.in, tc.n)
		assert.Equal(t, tc.expected, got, "Case %d", i)
	}
}

func TestAllocLimit_(t *testing.T) {
	w := NewWriter()
	data := make([]byte, 100)
	w.SliceBytes(data)

	r := newReaderFromWriter(w)

	assert.PanicsWithError(t, ErrTooLargeAlloc.Error(), func() {
		r.SliceBytes(50)
	})
}

func TestU56_Overflow(t *testing.T) {
	w := NewWriter()
	assert.Panics(t, func() {
		w.U56(1 << 56)
	})
}

// TestCompactEncoding_Structure inspects the raw bytes to confirm the
// minimal-size guarantee holds.
func TestCompactEncoding_Structure(t *testing.T) {
	// U64(0): one zero byte, length class 0.
	w := NewWriter()
	w.U64(0)
	require.Equal(t, []byte{0}, w.BytesW.Bytes())

	// U64(256): two bytes little-endian, length class 1.
	w = NewWriter()
	w.U64(256)
	require.Equal(t, []byte{0, 1}, w.BytesW.Bytes())

	r := newReaderFromWriter(w)
	sizeOffset := r.BitsR.Read(3)
	assert.Equal(t, uint(1), sizeOffset, "Size offset for 256 should be 1 (total 2 bytes)")
}
