package bvh

import (
	"errors"
	"time"

	"github.com/achilleasa/assetpack/log"
	"github.com/achilleasa/assetpack/types"
)

// Returned by Build when invoked with an empty primitive list.
var ErrNoPrimitives = errors.New("bvh: cannot build a tree without primitives")

// A primitive reference partitioned by the builder. Its bounding box is
// computed once from the primitive vertices and never changes.
type Primitive struct {
	// Index of the primitive in the source geometry.
	ID int

	BBox types.BBox
}

// Create a primitive reference from its vertex positions. At least one
// vertex is required.
func NewPrimitive(id int, vertices []types.Vec3) Primitive {
	return Primitive{
		ID:   id,
		BBox: types.BBoxFromPoints(vertices),
	}
}

// The Source interface is implemented by geometry containers whose
// primitives can be partitioned by the BVH builder.
type Source interface {
	// Number of primitives.
	PrimitiveCount() int

	// Stable id of the i-th primitive.
	PrimitiveID(i int) int

	// Ordered vertex positions of the i-th primitive.
	PrimitiveVertices(i int) []types.Vec3

	// Bounding box of the entire geometry.
	BBox() types.BBox
}

// Collect primitive references from a source.
func PrimitivesFrom(src Source) []Primitive {
	prims := make([]Primitive, src.PrimitiveCount())
	for i := range prims {
		prims[i] = NewPrimitive(src.PrimitiveID(i), src.PrimitiveVertices(i))
	}
	return prims
}

type stats struct {
	leafs    int
	maxDepth int
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list.
	nodes []Node

	stats stats
}

// Construct a BVH over a set of primitives. The root bounding box is
// calculated by merging all primitive boxes.
func Build(prims []Primitive) (*Tree, error) {
	if len(prims) == 0 {
		return nil, ErrNoPrimitives
	}

	root := prims[0].BBox
	for _, prim := range prims[1:] {
		root.Merge(prim.BBox)
	}
	return BuildWithBounds(prims, root)
}

// Construct a BVH over a set of primitives using a precomputed root bounding
// box. The axis with the largest root extent selects the first split axis;
// each tree level then cycles to the next axis.
//
// The input slice is not modified.
func BuildWithBounds(prims []Primitive, root types.BBox) (*Tree, error) {
	if len(prims) == 0 {
		return nil, ErrNoPrimitives
	}

	b := &builder{
		logger: log.New("bvh builder"),
		nodes:  make([]Node, 0, 2*len(prims)-1),
	}

	workList := make([]Primitive, len(prims))
	copy(workList, prims)

	start := time.Now()
	rootIndex := b.newNode()
	b.partition(rootIndex, workList, root.MaxExtentAxis(), 0)
	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.maxDepth, len(b.nodes), b.stats.leafs,
	)

	return &Tree{
		Nodes: b.nodes,
		Root:  rootIndex,
	}, nil
}

// Append an empty node to the node list and return its index.
func (b *builder) newNode() int {
	b.nodes = append(b.nodes, Node{Left: -1, Right: -1, Prim: -1})
	return len(b.nodes) - 1
}

// Populate the node at nodeIndex with the items in workList. Child nodes are
// registered before either subtree is built so the left child index is
// always followed by the right child index.
func (b *builder) partition(nodeIndex int, workList []Primitive, axis types.Axis, depth int) {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}
	b.nodes[nodeIndex].Depth = depth

	switch len(workList) {
	case 1:
		b.createLeaf(nodeIndex, workList[0], depth)
	case 2:
		// No sorting for pairs; keep the incoming order
		left, right := b.newNode(), b.newNode()
		b.createLeaf(left, workList[0], depth+1)
		b.createLeaf(right, workList[1], depth+1)
		b.nodes[nodeIndex].BBox = types.MergeBBox(workList[0].BBox, workList[1].BBox)
		b.nodes[nodeIndex].Left, b.nodes[nodeIndex].Right = left, right
	default:
		bbox := workList[0].BBox
		for _, item := range workList[1:] {
			bbox.Merge(item.BBox)
		}
		b.nodes[nodeIndex].BBox = bbox

		mid := split(workList, bbox.Center()[axis], axis)
		left, right := b.newNode(), b.newNode()
		b.nodes[nodeIndex].Left, b.nodes[nodeIndex].Right = left, right

		b.partition(left, workList[:mid], axis.Next(), depth+1)
		b.partition(right, workList[mid:], axis.Next(), depth+1)
	}
}

// Setup the node at nodeIndex as a leaf for prim.
func (b *builder) createLeaf(nodeIndex int, prim Primitive, depth int) {
	node := &b.nodes[nodeIndex]
	node.BBox = prim.BBox
	node.Prim = prim.ID
	node.Depth = depth

	b.stats.leafs++
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}
}

// Partition workList in place so that items whose bbox center along axis is
// less than pivot come first and return the number of those items. If the
// pivot fails to separate the items the list is split in half instead, which
// guarantees both halves are non-empty.
func split(workList []Primitive, pivot float32, axis types.Axis) int {
	mid := 0
	for i := range workList {
		if workList[i].BBox.Center()[axis] < pivot {
			workList[i], workList[mid] = workList[mid], workList[i]
			mid++
		}
	}

	if mid == 0 || mid == len(workList) {
		mid = len(workList) / 2
	}
	return mid
}
