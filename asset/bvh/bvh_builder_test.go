package bvh

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/types"
)

// Create a primitive with a unit bbox centered at c.
func unitPrim(id int, c types.Vec3) Primitive {
	half := types.Vec3{0.5, 0.5, 0.5}
	return Primitive{
		ID:   id,
		BBox: types.BBox{Min: c.Sub(half), Max: c.Add(half)},
	}
}

func randomPrims(rng *rand.Rand, count int) []Primitive {
	prims := make([]Primitive, count)
	for i := range prims {
		verts := make([]types.Vec3, 3+rng.Intn(2))
		for j := range verts {
			verts[j] = types.Vec3{
				rng.Float32()*20 - 10,
				rng.Float32()*20 - 10,
				rng.Float32()*20 - 10,
			}
		}
		prims[i] = NewPrimitive(i, verts)
	}
	return prims
}

func TestBuildWithoutPrimitives(t *testing.T) {
	if _, err := Build(nil); err != ErrNoPrimitives {
		t.Fatalf("expected ErrNoPrimitives; got %v", err)
	}
	if _, err := BuildWithBounds([]Primitive{}, types.BBox{}); err != ErrNoPrimitives {
		t.Fatalf("expected ErrNoPrimitives; got %v", err)
	}
}

func TestSinglePrimitive(t *testing.T) {
	prim := unitPrim(7, types.Vec3{1, 2, 3})
	tree, err := Build([]Primitive{prim})
	if err != nil {
		t.Fatal(err)
	}

	if len(tree.Nodes) != 1 {
		t.Fatalf("expected tree to have 1 node; got %d", len(tree.Nodes))
	}
	root := tree.Nodes[tree.Root]
	if !root.IsLeaf() || root.Prim != 7 || root.BBox != prim.BBox {
		t.Fatalf("expected root to be a leaf for prim 7; got %+v", root)
	}
}

func TestTwoPrimitivesKeepInputOrder(t *testing.T) {
	// The second primitive lies left of the first along every axis; pairs
	// must not be reordered.
	prims := []Primitive{
		unitPrim(0, types.Vec3{5, 5, 5}),
		unitPrim(1, types.Vec3{-5, -5, -5}),
	}
	tree, err := Build(prims)
	if err != nil {
		t.Fatal(err)
	}

	if len(tree.Nodes) != 3 {
		t.Fatalf("expected tree to have 3 nodes; got %d", len(tree.Nodes))
	}

	root := tree.Nodes[tree.Root]
	left, right := tree.Nodes[root.Left], tree.Nodes[root.Right]
	if left.Prim != 0 || right.Prim != 1 {
		t.Fatalf("expected left leaf to hold prim 0 and right leaf prim 1; got %d and %d", left.Prim, right.Prim)
	}
	if left.Depth != 1 || right.Depth != 1 {
		t.Fatalf("expected both leafs at depth 1; got %d and %d", left.Depth, right.Depth)
	}
	if root.BBox != types.MergeBBox(prims[0].BBox, prims[1].BBox) {
		t.Fatalf("expected root bbox to be the merge of both leafs; got %v", root.BBox)
	}
}

func TestThreePrimitiveSplit(t *testing.T) {
	prims := []Primitive{
		unitPrim(0, types.Vec3{-1, 0, 0}),
		unitPrim(1, types.Vec3{5, 0, 0}),
		unitPrim(2, types.Vec3{0, 0, 0}),
	}
	tree, err := Build(prims)
	if err != nil {
		t.Fatal(err)
	}

	expCount := 5
	if len(tree.Nodes) != expCount {
		t.Fatalf("expected tree to have %d nodes; got %d", expCount, len(tree.Nodes))
	}
	if tree.Root != 0 {
		t.Fatalf("expected root at index 0; got %d", tree.Root)
	}

	// Pivot is the scene center (x = 2); the prims at x=-1 and x=0 go left
	// and the prim at x=5 becomes the right child of the root.
	root := tree.Nodes[0]
	if root.Left != 1 || root.Right != 2 {
		t.Fatalf("expected root children to be nodes 1 and 2; got %d and %d", root.Left, root.Right)
	}

	right := tree.Nodes[root.Right]
	if !right.IsLeaf() || right.Prim != 1 {
		t.Fatalf("expected right child of root to be the leaf for prim 1; got %+v", right)
	}

	left := tree.Nodes[root.Left]
	if left.IsLeaf() {
		t.Fatal("expected left child of root to be an internal node")
	}
	if tree.Nodes[left.Left].Prim != 0 || tree.Nodes[left.Right].Prim != 2 {
		t.Fatalf("expected left subtree leafs to hold prims 0 and 2; got %d and %d", tree.Nodes[left.Left].Prim, tree.Nodes[left.Right].Prim)
	}
	if left.Left != 3 || left.Right != 4 {
		t.Fatalf("expected left subtree leafs at indices 3 and 4; got %d and %d", left.Left, left.Right)
	}

	// Input list must be left untouched
	if prims[0].ID != 0 || prims[1].ID != 1 || prims[2].ID != 2 {
		t.Fatal("expected Build not to reorder the caller's primitive list")
	}
}

func TestDegenerateSplitFallback(t *testing.T) {
	// All centers coincide so the pivot cannot separate them.
	prims := make([]Primitive, 5)
	for i := range prims {
		prims[i] = unitPrim(i, types.Vec3{1, 1, 1})
	}

	tree, err := Build(prims)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Nodes) != 9 {
		t.Fatalf("expected tree to have 9 nodes; got %d", len(tree.Nodes))
	}

	// count/2 = 2 items go left, 3 go right
	root := tree.Nodes[tree.Root]
	if got := countLeafs(tree, root.Left); got != 2 {
		t.Fatalf("expected 2 leafs under the left child; got %d", got)
	}
	if got := countLeafs(tree, root.Right); got != 3 {
		t.Fatalf("expected 3 leafs under the right child; got %d", got)
	}

	// The fallback must preserve the input order of the leafs
	order := leafOrder(tree, tree.Root, nil)
	for i, id := range order {
		if id != i {
			t.Fatalf("expected leaf order to match input order; got %v", order)
		}
	}
}

func TestSplitPartition(t *testing.T) {
	workList := []Primitive{
		unitPrim(0, types.Vec3{3, 0, 0}),
		unitPrim(1, types.Vec3{-3, 0, 0}),
		unitPrim(2, types.Vec3{4, 0, 0}),
		unitPrim(3, types.Vec3{-1, 0, 0}),
	}

	mid := split(workList, 0, types.XAxis)
	if mid != 2 {
		t.Fatalf("expected mid 2; got %d", mid)
	}

	expOrder := []int{1, 3, 2, 0}
	for i, prim := range workList {
		if prim.ID != expOrder[i] {
			t.Fatalf("expected partitioned order %v; got id %d at %d", expOrder, prim.ID, i)
		}
	}
}

func TestTreeInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, count := range []int{1, 2, 3, 4, 7, 16, 33, 100, 257} {
		prims := randomPrims(rng, count)
		tree, err := Build(prims)
		if err != nil {
			t.Fatal(err)
		}

		expCount := 2*count - 1
		if len(tree.Nodes) != expCount {
			t.Fatalf("[%d prims] expected %d nodes; got %d", count, expCount, len(tree.Nodes))
		}
		if tree.LeafCount() != count {
			t.Fatalf("[%d prims] expected %d leafs; got %d", count, count, tree.LeafCount())
		}

		seen := make(map[int]int)
		referenced := make(map[int]int)
		for idx := range tree.Nodes {
			node := &tree.Nodes[idx]
			if node.IsLeaf() {
				seen[node.Prim]++
				if node.BBox != prims[node.Prim].BBox {
					t.Fatalf("[%d prims] expected leaf %d bbox to match prim %d bbox", count, idx, node.Prim)
				}
				continue
			}

			referenced[node.Left]++
			referenced[node.Right]++
			exp := types.MergeBBox(tree.Nodes[node.Left].BBox, tree.Nodes[node.Right].BBox)
			if node.BBox != exp {
				t.Fatalf("[%d prims] expected node %d bbox %v to equal merged child bbox %v", count, idx, node.BBox, exp)
			}
			for _, child := range []int{node.Left, node.Right} {
				if tree.Nodes[child].Depth != node.Depth+1 {
					t.Fatalf("[%d prims] expected child %d depth %d; got %d", count, child, node.Depth+1, tree.Nodes[child].Depth)
				}
			}
		}

		for id := 0; id < count; id++ {
			if seen[id] != 1 {
				t.Fatalf("[%d prims] expected prim %d to appear in exactly one leaf; got %d", count, id, seen[id])
			}
		}
		for idx := range tree.Nodes {
			exp := 1
			if idx == tree.Root {
				exp = 0
			}
			if referenced[idx] != exp {
				t.Fatalf("[%d prims] expected node %d to be referenced %d times; got %d", count, idx, exp, referenced[idx])
			}
		}
	}
}

func TestBuildWithBoundsSelectsStartAxis(t *testing.T) {
	// Centers spread along x and y. With a root box elongated along y the
	// first split must use the y axis.
	prims := []Primitive{
		unitPrim(0, types.Vec3{-10, 1, 0}),
		unitPrim(1, types.Vec3{10, 2, 0}),
		unitPrim(2, types.Vec3{-9, 3, 0}),
		unitPrim(3, types.Vec3{9, 4, 0}),
	}
	root := types.BBox{Min: types.Vec3{-1, -100, -1}, Max: types.Vec3{1, 100, 1}}

	tree, err := BuildWithBounds(prims, root)
	if err != nil {
		t.Fatal(err)
	}

	// Split along y at the center of the merged prim boxes (y = 2.5)
	left := leafOrder(tree, tree.Nodes[tree.Root].Left, nil)
	if len(left) != 2 || left[0] != 0 || left[1] != 1 {
		t.Fatalf("expected left subtree to contain prims [0 1]; got %v", left)
	}
}

func TestBuildWithBoundsTieBreak(t *testing.T) {
	// The root box has equal y and z sides that beat x; the first split
	// must use y, the lowest of the tied axes.
	prims := []Primitive{
		unitPrim(0, types.Vec3{0, -1, 1}),
		unitPrim(1, types.Vec3{0, 1, -1}),
		unitPrim(2, types.Vec3{0, -2, 3}),
		unitPrim(3, types.Vec3{0, 2, -3}),
	}
	root := types.BBox{Max: types.Vec3{1, 2, 2}}

	tree, err := BuildWithBounds(prims, root)
	if err != nil {
		t.Fatal(err)
	}

	left := leafOrder(tree, tree.Nodes[tree.Root].Left, nil)
	if len(left) != 2 || left[0] != 0 || left[1] != 2 {
		t.Fatalf("expected a y split with prims [0 2] on the left; got %v", left)
	}
}

func TestWriteAndRead(t *testing.T) {
	prims := []Primitive{
		unitPrim(0, types.Vec3{-1, 0, 0}),
		unitPrim(1, types.Vec3{5, 0, 0}),
		unitPrim(2, types.Vec3{0, 0, 0}),
	}
	tree, err := Build(prims)
	if err != nil {
		t.Fatal(err)
	}

	w := binfile.NewWriter()
	if err = tree.Write(w); err != nil {
		t.Fatal(err)
	}

	expLen := HeaderSize + len(tree.Nodes)*(BBoxRecordSize+NodeRecordSize)
	if w.Len() != expLen {
		t.Fatalf("expected serialized size %d; got %d", expLen, w.Len())
	}

	r := binfile.NewReader(w.Bytes())
	for _, off := range []int{8, 12} {
		if v, _ := r.I32(off); v != 0 {
			t.Fatalf("expected reserved word at %d to be 0; got %d", off, v)
		}
	}

	// Leaf for prim 1 sits at index 2
	linkOffset := HeaderSize + len(tree.Nodes)*BBoxRecordSize
	a, _ := r.I16(linkOffset + 2*NodeRecordSize)
	b, _ := r.I16(linkOffset + 2*NodeRecordSize + 2)
	if a != 1 || b != LeafMarker {
		t.Fatalf("expected leaf record (1, -1); got (%d, %d)", a, b)
	}

	decoded, err := Read(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded.Nodes) != len(tree.Nodes) {
		t.Fatalf("expected %d decoded nodes; got %d", len(tree.Nodes), len(decoded.Nodes))
	}
	for i := range tree.Nodes {
		exp, got := tree.Nodes[i], decoded.Nodes[i]
		if exp.BBox != got.BBox || exp.Left != got.Left || exp.Right != got.Right || exp.Prim != got.Prim {
			t.Fatalf("expected decoded node %d to be %+v; got %+v", i, exp, got)
		}
	}
}

func TestWriteRejectsWidePrimitiveIds(t *testing.T) {
	tree, err := Build([]Primitive{unitPrim(40000, types.Vec3{})})
	if err != nil {
		t.Fatal(err)
	}
	if err = tree.Write(binfile.NewWriter()); err == nil {
		t.Fatal("expected an error for a primitive id that does not fit in 16 bits")
	}
}

func TestReadRejectsForeignFiles(t *testing.T) {
	w := binfile.NewWriter()
	w.WriteTag("OBST")
	w.WriteI32(0)

	if _, err := Read(binfile.NewReader(w.Bytes())); err == nil {
		t.Fatal("expected an error when decoding a non-BVH file")
	}
}

func TestReadRejectsTruncatedFiles(t *testing.T) {
	w := binfile.NewWriter()
	w.WriteTag(FileTag)
	w.WriteI32(1 << 30)
	w.WriteI32(0)
	w.WriteI32(0)

	_, err := Read(binfile.NewReader(w.Bytes()))
	if err == nil || !strings.Contains(err.Error(), "nodes require") {
		t.Fatalf("expected node count to be checked against the file size; got %v", err)
	}
}

type sliceSource [][]types.Vec3

func (s sliceSource) PrimitiveCount() int                  { return len(s) }
func (s sliceSource) PrimitiveID(i int) int                { return i + 100 }
func (s sliceSource) PrimitiveVertices(i int) []types.Vec3 { return s[i] }
func (s sliceSource) BBox() types.BBox                     { return types.BBox{} }

func TestPrimitivesFromSource(t *testing.T) {
	src := sliceSource{
		{{0, 0, 0}, {1, 2, 3}},
		{{-1, -1, -1}},
	}

	prims := PrimitivesFrom(src)
	if len(prims) != 2 {
		t.Fatalf("expected 2 prims; got %d", len(prims))
	}
	if prims[0].ID != 100 || prims[0].BBox.Max != (types.Vec3{1, 2, 3}) {
		t.Fatalf("unexpected prim %+v", prims[0])
	}
	if prims[1].BBox.Min != prims[1].BBox.Max {
		t.Fatalf("expected single vertex prim to have a degenerate bbox; got %v", prims[1].BBox)
	}
}

func countLeafs(tree *Tree, index int) int {
	return len(leafOrder(tree, index, nil))
}

func leafOrder(tree *Tree, index int, out []int) []int {
	node := tree.Nodes[index]
	if node.IsLeaf() {
		return append(out, node.Prim)
	}
	out = leafOrder(tree, node.Left, out)
	return leafOrder(tree, node.Right, out)
}
