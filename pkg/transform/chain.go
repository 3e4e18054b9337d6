package transform

import (
	"fmt"
	"slices"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/geom"
)

// Kind tags the variant held by a [Node].
type Kind int

const (
	KindAffine Kind = iota
	KindMagnify
	KindHyperbolic
)

func (k Kind) String() string {
	switch k {
	case KindAffine:
		return "affine"
	case KindMagnify:
		return "magnify"
	case KindHyperbolic:
		return "hyperbolic"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a lens kind name to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "magnify":
		return KindMagnify, nil
	case "hyperbolic":
		return KindHyperbolic, nil
	case "affine":
		return KindAffine, nil
	}
	return 0, errors.InvalidConfig("unknown lens kind %q (want magnify or hyperbolic)", s)
}

// Node is one stage of a [Chain]: either an affine matrix or a lens.
type Node struct {
	Kind   Kind
	Affine Affine
	Lens   *Lens
}

// AffineNode wraps a matrix.
func AffineNode(a Affine) Node { return Node{Kind: KindAffine, Affine: a} }

// MagnifyNode wraps a lens with the piecewise-linear magnifier.
func MagnifyNode(l *Lens) Node { return Node{Kind: KindMagnify, Lens: l} }

// HyperbolicNode wraps a lens with the hyperbolic fisheye.
func HyperbolicNode(l *Lens) Node { return Node{Kind: KindHyperbolic, Lens: l} }

// Validate checks that the node can be evaluated in both directions.
func (n Node) Validate() error {
	switch n.Kind {
	case KindAffine:
		if !n.Affine.Invertible() {
			return errors.New(errors.ErrCodeDegenerateGeometry, "affine node is singular")
		}
	case KindMagnify, KindHyperbolic:
		if n.Lens == nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s node has no lens", n.Kind)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown node kind %s", n.Kind)
	}
	return nil
}

// Forward maps p through the node.
func (n Node) Forward(p geom.Point) geom.Point {
	if n.Kind == KindAffine {
		return n.Affine.Apply(p)
	}
	if n.Lens == nil {
		return p
	}
	return n.Lens.state().distort(n.Kind, p, false)
}

// Inverse undoes Forward. A singular affine node leaves p unchanged.
func (n Node) Inverse(p geom.Point) geom.Point {
	if n.Kind == KindAffine {
		inv, err := n.Affine.Inverse()
		if err != nil {
			return p
		}
		return inv.Apply(p)
	}
	if n.Lens == nil {
		return p
	}
	return n.Lens.state().distort(n.Kind, p, true)
}

// Chain is an ordered composition of nodes. The zero value is the identity.
type Chain []Node

// Forward folds p through the nodes from first to last.
func (c Chain) Forward(p geom.Point) geom.Point {
	for _, n := range c {
		p = n.Forward(p)
	}
	return p
}

// Inverse folds p through the node inverses from last to first.
func (c Chain) Inverse(p geom.Point) geom.Point {
	for i := len(c) - 1; i >= 0; i-- {
		p = c[i].Inverse(p)
	}
	return p
}

// Delegate returns the chain without its top node.
func (c Chain) Delegate() Chain {
	if len(c) == 0 {
		return nil
	}
	return slices.Clone(c[:len(c)-1])
}

// Top returns the last node.
func (c Chain) Top() (Node, bool) {
	if len(c) == 0 {
		return Node{}, false
	}
	return c[len(c)-1], true
}

// Validate checks every node.
func (c Chain) Validate() error {
	for i, n := range c {
		if err := n.Validate(); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "chain node %d", i)
		}
	}
	return nil
}
