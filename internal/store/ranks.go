package store

import (
	"encoding/binary"
	"fmt"

	"loom/internal/faults"
)

// Departure ranks are strictly ascending, so the blob stores the gap between
// consecutive ranks as unsigned varints. Every delta is at least one, which
// keeps dense rank runs (1,2,3,...) at one byte per traversal.

func encodeRanks(ranks []int64) []byte {
	buf := make([]byte, 0, len(ranks)*2)
	var tmp [binary.MaxVarintLen64]byte
	prev := int64(0)
	for _, r := range ranks {
		n := binary.PutUvarint(tmp[:], uint64(r-prev))
		buf = append(buf, tmp[:n]...)
		prev = r
	}
	return buf
}

func decodeRanks(blob []byte, count int64) ([]int64, error) {
	ranks := make([]int64, 0, count)
	prev := int64(0)
	for len(blob) > 0 {
		delta, n := binary.Uvarint(blob)
		if n <= 0 {
			return nil, faults.Wrap(faults.ErrIntegrity, "store", "decode_ranks",
				"truncated rank blob", nil)
		}
		if delta == 0 {
			return nil, faults.Wrap(faults.ErrIntegrity, "store", "decode_ranks",
				"zero rank delta", nil)
		}
		prev += int64(delta)
		ranks = append(ranks, prev)
		blob = blob[n:]
	}
	if int64(len(ranks)) != count {
		return nil, faults.Wrap(faults.ErrIntegrity, "store", "decode_ranks",
			fmt.Sprintf("rank blob holds %d entries, bond count is %d", len(ranks), count), nil)
	}
	return ranks, nil
}
