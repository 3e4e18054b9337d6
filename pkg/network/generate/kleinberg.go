package generate

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/network"
)

// Default Kleinberg parameters.
const (
	DefaultConnectionCount    = 1
	DefaultClusteringExponent = 2.0
)

// DistanceFunc measures the lattice distance between two nodes. Negative
// values mark unreachable pairs, which are never chosen as contacts.
type DistanceFunc func(a, b string) int

// KleinbergSmallWorld configures long-range contact generation.
type KleinbergSmallWorld struct {
	ConnectionCount    int     `validate:"gte=1"`
	ClusteringExponent float64 `validate:"gte=0"`
	Seed               uint64
}

// NewKleinbergSmallWorld returns a generator with default settings.
func NewKleinbergSmallWorld() KleinbergSmallWorld {
	return KleinbergSmallWorld{
		ConnectionCount:    DefaultConnectionCount,
		ClusteringExponent: DefaultClusteringExponent,
	}
}

// AddConnections adds ConnectionCount long-range edges leaving every node of
// g. Targets are distinct per source, never the source itself, and drawn with
// probability proportional to distance^-ClusteringExponent. Edges to
// existing lattice neighbors are allowed and become parallel edges.
func (k KleinbergSmallWorld) AddConnections(g *network.Graph, dist DistanceFunc) error {
	if err := errors.ValidateStruct(k); err != nil {
		return err
	}
	nodes := g.Nodes()
	if k.ConnectionCount > len(nodes)-1 {
		return errors.InvalidConfig("connection count %d exceeds the %d candidate targets", k.ConnectionCount, len(nodes)-1)
	}

	rng := rand.New(rand.NewPCG(k.Seed, k.Seed^0x6b6c65696e626572))
	type edge struct{ from, to string }
	var added []edge

	weights := make([]float64, len(nodes))
	for _, src := range nodes {
		var total float64
		for i, dst := range nodes {
			weights[i] = 0
			if dst == src {
				continue
			}
			d := dist(src, dst)
			if d <= 0 {
				continue
			}
			weights[i] = math.Pow(float64(d), -k.ClusteringExponent)
			total += weights[i]
		}

		for c := 0; c < k.ConnectionCount; c++ {
			if total <= 0 {
				return errors.InvalidConfig("node %q has no reachable long-range candidates", src)
			}
			pick := pickWeighted(rng, weights, total)
			total -= weights[pick]
			weights[pick] = 0
			added = append(added, edge{src, nodes[pick]})
		}
	}

	// Edges are only added once every node has drawn its contacts so that
	// the sampling above never sees its own output.
	for _, e := range added {
		if err := g.AddEdge(network.Edge{From: e.from, To: e.to, Meta: network.Metadata{"long_range": true}}); err != nil {
			return err
		}
	}
	return nil
}

func pickWeighted(rng *rand.Rand, weights []float64, total float64) int {
	x := rng.Float64() * total
	last := -1
	for i, w := range weights {
		if w == 0 {
			continue
		}
		last = i
		if x < w {
			return i
		}
		x -= w
	}
	return last
}
