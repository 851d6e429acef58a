package testhelpers

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

// PNGWithDeclaredSize returns a small, valid 1x1 PNG whose IHDR chunk claims
// width x height. Header-only readers see the large size; a full decode fails
// or would allocate for the claimed size.
func PNGWithDeclaredSize(t *testing.T, width, height uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()

	// 8-byte signature, then IHDR: length(4) type(4) data(13) crc(4).
	const ihdr = 8
	require.Equal(t, "IHDR", string(data[ihdr+4:ihdr+8]))
	binary.BigEndian.PutUint32(data[ihdr+8:], width)
	binary.BigEndian.PutUint32(data[ihdr+12:], height)
	binary.BigEndian.PutUint32(data[ihdr+21:], crc32.ChecksumIEEE(data[ihdr+4:ihdr+21]))
	return data
}
