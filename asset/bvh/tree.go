package bvh

import (
	"fmt"
	"math"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/types"
)

const (
	// File tag for serialized trees.
	FileTag = "BVH"

	// Size of the fixed file header.
	HeaderSize = 16

	// Serialized size of a node bounding box (two 4 component vectors).
	BBoxRecordSize = 32

	// Serialized size of a node link record (two int16).
	NodeRecordSize = 4

	// Value stored in the right link of leaf nodes.
	LeafMarker int16 = -1
)

// A BVH node. Leaf nodes reference a single primitive and have no children;
// internal nodes reference two child nodes by index.
type Node struct {
	BBox types.BBox

	// Child node indices; -1 for leafs.
	Left  int
	Right int

	// Primitive id for leafs; -1 for internal nodes.
	Prim int

	// Distance from the root node.
	Depth int
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Right < 0
}

// A BVH tree stored as a flat node list. Nodes keep the index assigned to
// them when they were constructed.
type Tree struct {
	Nodes []Node
	Root  int
}

// Get the number of leafs.
func (t *Tree) LeafCount() int {
	count := 0
	for i := range t.Nodes {
		if t.Nodes[i].IsLeaf() {
			count++
		}
	}
	return count
}

// Get the depth of the deepest node.
func (t *Tree) MaxDepth() int {
	depth := 0
	for i := range t.Nodes {
		if t.Nodes[i].Depth > depth {
			depth = t.Nodes[i].Depth
		}
	}
	return depth
}

// Serialize the tree. The layout is a 16 byte header (tag, node count and two
// reserved words) followed by all node bounding boxes and then all node link
// records. For leafs the link record contains the primitive id and
// LeafMarker; for internal nodes it contains the left and right child
// indices.
func (t *Tree) Write(w *binfile.Writer) error {
	if len(t.Nodes) > math.MaxInt16+1 {
		return fmt.Errorf("bvh: tree with %d nodes cannot be addressed by 16-bit indices", len(t.Nodes))
	}

	w.WriteTag(FileTag)
	w.WriteI32(int32(len(t.Nodes)))
	w.WriteI32(0)
	w.WriteI32(0)

	for i := range t.Nodes {
		w.WriteAABB(t.Nodes[i].BBox)
	}

	for i := range t.Nodes {
		node := &t.Nodes[i]
		if node.IsLeaf() {
			if node.Prim > math.MaxInt16 {
				return fmt.Errorf("bvh: primitive id %d in node %d does not fit in 16 bits", node.Prim, i)
			}
			w.WriteI16(int16(node.Prim))
			w.WriteI16(LeafMarker)
			continue
		}
		w.WriteI16(int16(node.Left))
		w.WriteI16(int16(node.Right))
	}

	return nil
}

// Decode a tree previously serialized with Write. Only the fields stored in
// the file are restored; node depths are left at zero.
func Read(r *binfile.Reader) (*Tree, error) {
	tag, err := r.Tag()
	if err != nil {
		return nil, err
	}
	if tag != FileTag {
		return nil, fmt.Errorf("bvh: unexpected file tag %q", tag)
	}

	count, err := r.I32(4)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("bvh: invalid node count %d", count)
	}
	if need := int64(HeaderSize) + int64(count)*(BBoxRecordSize+NodeRecordSize); need > int64(r.Len()) {
		return nil, fmt.Errorf("bvh: %d nodes require %d bytes; file has %d", count, need, r.Len())
	}

	tree := &Tree{Nodes: make([]Node, count)}
	linkOffset := HeaderSize + int(count)*BBoxRecordSize
	for i := range tree.Nodes {
		node := &tree.Nodes[i]
		if node.BBox, err = r.AABB(HeaderSize + i*BBoxRecordSize); err != nil {
			return nil, err
		}

		a, err := r.I16(linkOffset + i*NodeRecordSize)
		if err != nil {
			return nil, err
		}
		b, err := r.I16(linkOffset + i*NodeRecordSize + 2)
		if err != nil {
			return nil, err
		}

		if b < 0 {
			node.Prim, node.Left, node.Right = int(a), -1, -1
		} else {
			node.Prim, node.Left, node.Right = -1, int(a), int(b)
		}
	}

	return tree, nil
}
