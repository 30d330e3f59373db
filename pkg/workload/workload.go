// Package workload generates the synthetic benchmark traffic: a seeded
// pseudo-random mix of get/set/del over a bounded keyspace, with
// per-category latency accounting. The same generator drives both the
// TCP client and the embedded standalone benchmark.
package workload

import "fmt"

// LCG parameters. The exact sequence is part of the benchmark's
// reproducibility contract, so the constants are fixed rather than
// configurable.
const (
	DefaultSeed uint32 = 0x9e3779b9

	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
)

// Share of each op kind in the mix, out of 100.
const (
	getShare = 70
	setShare = 20
)

// An LCG is a tiny 32-bit linear congruential generator. Deterministic
// for a given seed so a workload can be replayed exactly.
type LCG struct {
	state uint32
}

// NewLCG returns a generator starting from seed.
func NewLCG(seed uint32) *LCG {
	return &LCG{state: seed}
}

// Next advances the generator and returns its new state.
func (g *LCG) Next() uint32 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return g.state
}

// OpKind enumerates the three table operations in the mix.
type OpKind int

const (
	OpGet OpKind = iota
	OpSet
	OpDel
)

// String names the op kind the way the report prints it.
func (k OpKind) String() string {
	switch k {
	case OpGet:
		return "GET"
	case OpSet:
		return "SET"
	default:
		return "DEL"
	}
}

// An Op is one generated request.
type Op struct {
	Kind  OpKind
	Key   string
	Value string
}

// Body renders the op as a wire request body.
func (op Op) Body() string {
	switch op.Kind {
	case OpGet:
		return "get:" + op.Key
	case OpSet:
		return "set:" + op.Key + ":" + op.Value
	default:
		return "del:" + op.Key
	}
}

// A Generator produces the benchmark mix: 70% get, 20% set, 10% del,
// over keys k0..k<keyspace-1>. Two LCG draws per op, first for the
// kind bucket and then for the key id; set values fold the raw draw in
// so updates change the stored bytes.
type Generator struct {
	lcg      *LCG
	keyspace uint32
}

// NewGenerator returns a generator over the given keyspace.
func NewGenerator(seed uint32, keyspace int) *Generator {
	return &Generator{lcg: NewLCG(seed), keyspace: uint32(keyspace)}
}

// Next returns the next op in the mix.
func (g *Generator) Next() Op {
	bucket := g.lcg.Next() % 100
	rng := g.lcg.Next()
	id := rng % g.keyspace
	key := fmt.Sprintf("k%d", id)

	switch {
	case bucket < getShare:
		return Op{Kind: OpGet, Key: key}
	case bucket < getShare+setShare:
		return Op{Kind: OpSet, Key: key, Value: fmt.Sprintf("v%d", id^rng)}
	default:
		return Op{Kind: OpDel, Key: key}
	}
}

// PopulateOp returns the warm-up set for key index i, the same pair the
// mixed phase's gets expect to hit.
func PopulateOp(i int) Op {
	return Op{
		Kind:  OpSet,
		Key:   fmt.Sprintf("k%d", i),
		Value: fmt.Sprintf("v%d", i),
	}
}
