// Package bits implements a bit-granular stream reader and writer.
// Values narrower than a byte (flags, small size classes) are packed
// back to back with no alignment padding. It backs the compact audit
// record encoding.
package bits

type (
	// Array is the backing byte slice of a bitstream.
	Array struct {
		Bytes []byte
	}

	// Writer appends bit words to an Array.
	Writer struct {
		*Array
		bitOffset int // next bit position inside the last byte, 0-7
	}

	// Reader consumes bit words from an Array.
	Reader struct {
		*Array
		byteOffset int
		bitOffset  int // next bit position inside Bytes[byteOffset], 0-7
	}
)

// NewWriter wraps arr for appending.
func NewWriter(arr *Array) *Writer {
	return &Writer{
		Array: arr,
	}
}

// NewReader wraps arr for consuming.
func NewReader(arr *Array) *Reader {
	return &Reader{
		Array: arr,
	}
}

func (a *Writer) byteBitsFree() int {
	return 8 - a.bitOffset
}

func (a *Writer) writeIntoLastByte(v uint) {
	a.Bytes[len(a.Bytes)-1] |= byte(v << a.bitOffset)
}

// zeroTopByteBits masks v down to the bits that still fit into the
// current byte.
func zeroTopByteBits(v uint, bits int) uint {
	mask := uint(0xff) >> bits
	return v & mask
}

// Write appends the lowest bits of v. Unused bits of the final byte are
// left zeroed, which readers rely on when draining padding.
func (a *Writer) Write(bits int, v uint) {
	if a.bitOffset == 0 {
		a.Bytes = append(a.Bytes, byte(0))
	}

	free := a.byteBitsFree()

	if bits <= free {
		toWrite := bits
		a.writeIntoLastByte(v)

		if toWrite == free {
			a.bitOffset = 0
		} else {
			a.bitOffset += toWrite
		}
	} else {
		// Spills into the next byte: write what fits, recurse for the rest.
		toWrite := free
		clear := a.bitOffset

		a.writeIntoLastByte(zeroTopByteBits(v, clear))

		a.bitOffset = 0

		a.Write(bits-toWrite, v>>toWrite)
	}
}

func (a *Reader) byteBitsFree() int {
	return 8 - a.bitOffset
}

// Read consumes bits from the stream and returns them as an integer.
// Reading past the end panics, like an out-of-range slice access.
func (a *Reader) Read(bits int) (v uint) {
	if bits == 0 {
		return 0
	}

	free := a.byteBitsFree()

	if bits <= free {
		toRead := bits
		clear := 8 - (a.bitOffset + toRead)

		v = zeroTopByteBits(uint(a.Bytes[a.byteOffset]), clear) >> a.bitOffset

		if toRead == free {
			a.bitOffset = 0
			a.byteOffset++
		} else {
			a.bitOffset += toRead
		}
	} else {
		// Spans two bytes: take the tail of this byte, recurse for the rest.
		toRead := free

		v = uint(a.Bytes[a.byteOffset]) >> a.bitOffset

		a.bitOffset = 0
		a.byteOffset++

		rest := a.Read(bits - toRead)

		v |= rest << toRead
	}
	return
}

// View returns the next bits without advancing the reader.
func (a *Reader) View(bits int) (v uint) {
	cp := *a
	cpp := &cp
	return cpp.Read(bits)
}

// NonReadBytes returns the number of bytes the reader hasn't fully consumed.
func (a *Reader) NonReadBytes() int {
	return len(a.Bytes) - a.byteOffset
}

// NonReadBits returns the number of unread bits.
func (a *Reader) NonReadBits() int {
	return a.NonReadBytes()*8 - a.bitOffset
}
