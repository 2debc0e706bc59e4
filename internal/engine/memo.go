package engine

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/piwi3910/cutbuddy/internal/model"
)

// profileScale fixes memo and placement keys at 4 decimal places.
const profileScale = 1e4

func quantize(v float64) int64 {
	return int64(math.Round(v * profileScale))
}

type pair struct {
	stock, remaining int64
}

type memoEntry struct {
	key       []byte
	objective float64
}

// memoTable records the best partial objective seen for each search state.
// A state is the next cut index plus the sorted multiset of quantized
// (stock, remaining) pairs over open bins. Keys are bucketed by xxhash and
// compared byte for byte inside a bucket.
type memoTable struct {
	buckets map[uint64][]memoEntry
	pairs   []pair
	buf     []byte
	size    int
}

func newMemoTable() *memoTable {
	return &memoTable{buckets: make(map[uint64][]memoEntry)}
}

func (m *memoTable) encode(index int, bins []model.Bin) []byte {
	m.pairs = m.pairs[:0]
	for _, b := range bins {
		m.pairs = append(m.pairs, pair{quantize(b.StockLength), quantize(b.Remaining)})
	}
	sort.Slice(m.pairs, func(i, j int) bool {
		if m.pairs[i].stock != m.pairs[j].stock {
			return m.pairs[i].stock < m.pairs[j].stock
		}
		return m.pairs[i].remaining < m.pairs[j].remaining
	})

	m.buf = m.buf[:0]
	m.buf = binary.AppendUvarint(m.buf, uint64(index))
	for _, p := range m.pairs {
		m.buf = binary.AppendVarint(m.buf, p.stock)
		m.buf = binary.AppendVarint(m.buf, p.remaining)
	}
	return m.buf
}

// visit reports whether the state should be pruned because an equal or
// better objective was recorded for it. Otherwise it records objective.
func (m *memoTable) visit(index int, bins []model.Bin, objective float64) bool {
	key := m.encode(index, bins)
	h := xxhash.Sum64(key)

	bucket := m.buckets[h]
	for i := range bucket {
		if !bytes.Equal(bucket[i].key, key) {
			continue
		}
		if bucket[i].objective <= objective+model.Epsilon {
			return true
		}
		bucket[i].objective = objective
		return false
	}

	m.buckets[h] = append(bucket, memoEntry{
		key:       append([]byte(nil), key...),
		objective: objective,
	})
	m.size++
	return false
}

// Len returns the number of distinct states recorded.
func (m *memoTable) Len() int { return m.size }
