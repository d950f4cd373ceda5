// Package partition shards keystone indices across workers.
package partition

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Strategy decides which shard a keystone is processed in
type Strategy interface {
	GetPartition(keystone int) int
	GetPartitionCount() int
}

// Kind names a built-in strategy
type Kind string

const (
	KindHash  Kind = "hash"
	KindRange Kind = "range"
)

// HashPartition spreads keystones by hash, which breaks up runs of
// high-degree nodes that are adjacent in index order
type HashPartition struct {
	partitionCount int
}

// NewHashPartition creates a hash-based strategy
func NewHashPartition(partitionCount int) *HashPartition {
	if partitionCount < 1 {
		partitionCount = 1
	}
	return &HashPartition{partitionCount: partitionCount}
}

// GetPartition returns the shard of a keystone
func (hp *HashPartition) GetPartition(keystone int) int {
	h := fnv.New64a()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(keystone))
	h.Write(b[:])
	return int(h.Sum64() % uint64(hp.partitionCount))
}

// GetPartitionCount returns total number of shards
func (hp *HashPartition) GetPartitionCount() int {
	return hp.partitionCount
}

// RangePartition assigns contiguous keystone ranges to shards
type RangePartition struct {
	partitionCount int
	rangeSize      int
}

// NewRangePartition creates range-based sharding over [0, numKeystones)
func NewRangePartition(partitionCount, numKeystones int) *RangePartition {
	if partitionCount < 1 {
		partitionCount = 1
	}
	rangeSize := (numKeystones + partitionCount - 1) / partitionCount
	if rangeSize < 1 {
		rangeSize = 1
	}
	return &RangePartition{
		partitionCount: partitionCount,
		rangeSize:      rangeSize,
	}
}

// GetPartition returns the shard of a keystone
func (rp *RangePartition) GetPartition(keystone int) int {
	p := keystone / rp.rangeSize
	if p >= rp.partitionCount {
		p = rp.partitionCount - 1
	}
	return p
}

// GetPartitionCount returns total shards
func (rp *RangePartition) GetPartitionCount() int {
	return rp.partitionCount
}

// New builds a strategy by kind. An empty kind selects hashing.
func New(kind Kind, partitionCount, numKeystones int) (Strategy, error) {
	switch kind {
	case KindHash, "":
		return NewHashPartition(partitionCount), nil
	case KindRange:
		return NewRangePartition(partitionCount, numKeystones), nil
	default:
		return nil, fmt.Errorf("unknown partition kind %q", kind)
	}
}

// Assign lists the keystones of each shard in ascending order
func Assign(s Strategy, numKeystones int) [][]int {
	shards := make([][]int, s.GetPartitionCount())
	for k := 0; k < numKeystones; k++ {
		p := s.GetPartition(k)
		shards[p] = append(shards[p], k)
	}
	return shards
}

// Metrics describes how evenly work is spread across shards
type Metrics struct {
	ShardSizes  []int   // keystones per shard
	ShardCosts  []int64 // summed cost per shard
	LoadBalance float64 // mean cost / max cost, 1 = perfect
}

// ComputeMetrics evaluates a strategy against a per-keystone cost
func ComputeMetrics(s Strategy, cost []int64) *Metrics {
	n := s.GetPartitionCount()
	m := &Metrics{
		ShardSizes: make([]int, n),
		ShardCosts: make([]int64, n),
	}

	var total, max int64
	for k, c := range cost {
		p := s.GetPartition(k)
		m.ShardSizes[p]++
		m.ShardCosts[p] += c
		total += c
	}
	for _, c := range m.ShardCosts {
		if c > max {
			max = c
		}
	}

	if max == 0 {
		m.LoadBalance = 1.0
	} else {
		m.LoadBalance = float64(total) / float64(n) / float64(max)
	}
	return m
}
