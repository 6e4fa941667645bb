package types

import "testing"

func TestBBoxFromPoints(t *testing.T) {
	b := BBoxFromPoints([]Vec3{
		{1, -2, 3},
		{-1, 4, 0},
		{0, 0, 5},
	})

	expMin := Vec3{-1, -2, 0}
	expMax := Vec3{1, 4, 5}
	if b.Min != expMin || b.Max != expMax {
		t.Fatalf("expected bbox to be [%v, %v]; got [%v, %v]", expMin, expMax, b.Min, b.Max)
	}

	single := BBoxFromPoints([]Vec3{{2, 2, 2}})
	if single != BBoxFromPoint(Vec3{2, 2, 2}) {
		t.Fatalf("expected single point bbox to be degenerate; got %v", single)
	}
}

func TestBBoxFromNoPointsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected BBoxFromPoints to panic for an empty point list")
		}
	}()
	BBoxFromPoints(nil)
}

func TestBBoxEnlargeIsIdempotent(t *testing.T) {
	b := BBox{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	orig := b
	b.EnlargeToContain(Vec3{0.5, 0.5, 0.5})
	if b != orig {
		t.Fatalf("expected enlarging with an inner point to be a no-op; got %v", b)
	}

	b.EnlargeToContain(Vec3{2, -1, 0.5})
	exp := BBox{Min: Vec3{0, -1, 0}, Max: Vec3{2, 1, 1}}
	if b != exp {
		t.Fatalf("expected bbox %v; got %v", exp, b)
	}
}

func TestBBoxMerge(t *testing.T) {
	a := BBox{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	b := BBox{Min: Vec3{-1, 0.5, 0.5}, Max: Vec3{0.5, 3, 0.75}}
	c := BBox{Min: Vec3{0, -4, 0}, Max: Vec3{0, 0, 9}}

	ab := MergeBBox(a, b)
	ba := MergeBBox(b, a)
	if ab != ba {
		t.Fatalf("expected merge to be commutative; got %v and %v", ab, ba)
	}

	left := MergeBBox(MergeBBox(a, b), c)
	right := MergeBBox(a, MergeBBox(b, c))
	if left != right {
		t.Fatalf("expected merge to be associative; got %v and %v", left, right)
	}

	again := MergeBBox(left, a)
	if again != left {
		t.Fatalf("expected repeated merge to be a no-op; got %v", again)
	}
}

func TestBBoxCenterAndSize(t *testing.T) {
	b := BBox{Min: Vec3{-2, 0, 1}, Max: Vec3{2, 4, 2}}

	if c := b.Center(); c != (Vec3{0, 2, 1.5}) {
		t.Fatalf("expected center (0, 2, 1.5); got %v", c)
	}
	if s := b.Size(); s != (Vec3{4, 4, 1}) {
		t.Fatalf("expected size (4, 4, 1); got %v", s)
	}
}

func TestBBoxMaxExtentAxis(t *testing.T) {
	specs := []struct {
		size Vec3
		exp  Axis
	}{
		{Vec3{2, 2, 1}, XAxis},
		{Vec3{1, 2, 2}, YAxis},
		{Vec3{2, 1, 2}, XAxis},
		{Vec3{1, 1, 1}, XAxis},
		{Vec3{3, 1, 1}, XAxis},
		{Vec3{1, 3, 1}, YAxis},
		{Vec3{1, 1, 3}, ZAxis},
		{Vec3{0, 0, 0}, XAxis},
	}

	for idx, spec := range specs {
		b := BBox{Max: spec.size}
		if got := b.MaxExtentAxis(); got != spec.exp {
			t.Errorf("[spec %d] expected max extent axis for size %v to be %s; got %s", idx, spec.size, spec.exp, got)
		}
	}
}

func TestAxisCycle(t *testing.T) {
	if XAxis.Next() != YAxis || YAxis.Next() != ZAxis || ZAxis.Next() != XAxis {
		t.Fatal("expected axis cycle x -> y -> z -> x")
	}
}
