package outline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Node ids are ULID-shaped: 26 Crockford Base32 characters, a 48-bit
// millisecond timestamp followed by a 16-bit per-millisecond sequence and
// 64 random bits. The sequence keeps ids distinct within one millisecond.

var (
	idMu    sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewID returns an id distinct from every other id generated in this process.
// Safe for concurrent use.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts <= lastTS {
		// Same millisecond, or the clock went backwards: stay on lastTS.
		ts = lastTS
		lastSeq++
		if lastSeq == 0 {
			ts++
			lastTS = ts
		}
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	binary.BigEndian.PutUint16(b[6:8], lastSeq)
	rand.Read(b[8:])

	return encode(b)
}

// encode writes the 128 bits of b as 26 base32 digits, most significant first.
func encode(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[0:8])
	lo := binary.BigEndian.Uint64(b[8:16])

	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
