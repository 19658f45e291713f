package rope

import "testing"

func TestEmptyRope(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
	if got := r.LineCount(); got != 1 {
		t.Fatalf("LineCount() = %d, want 1", got)
	}
	start, end := r.LineRange(0)
	if start != 0 || end != 0 {
		t.Fatalf("LineRange(0) = (%d, %d), want (0, 0)", start, end)
	}
}

func TestInsertIntoEmpty(t *testing.T) {
	r := New()
	if err := r.InsertString(0, "hi\n"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	if got := r.LineCount(); got != 2 {
		t.Fatalf("LineCount() = %d, want 2", got)
	}
	if s, e := r.LineRange(0); s != 0 || e != 3 {
		t.Fatalf("LineRange(0) = (%d, %d), want (0, 3)", s, e)
	}
	if s, e := r.LineRange(1); s != 3 || e != 3 {
		t.Fatalf("LineRange(1) = (%d, %d), want (3, 3)", s, e)
	}
	if r.String() != "hi\n" {
		t.Fatalf("String() = %q, want %q", r.String(), "hi\n")
	}
}

func TestInsertSplitsPiece(t *testing.T) {
	r := FromString("hello world")
	if err := r.InsertString(5, ",") ; err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got, want := r.String(), "hello, world"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if r.Len() != len("hello, world") {
		t.Fatalf("Len() = %d, want %d", r.Len(), len("hello, world"))
	}
}

func TestDeleteWithinSinglePiece(t *testing.T) {
	r := FromString("hello world")
	if err := r.Delete(5, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, want := r.String(), "helloworld"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestDeleteAcrossPieces(t *testing.T) {
	r := FromString("hello")
	if err := r.InsertString(5, " world"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	// "hello" (original) + " world" (add) -> delete across the boundary.
	if err := r.Delete(3, 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, want := r.String(), "helrld"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestDeleteExactlyOnePiece(t *testing.T) {
	r := FromString("abc")
	if err := r.InsertString(3, "def"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := r.InsertString(6, "ghi"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	// Three pieces: "abc", "def", "ghi". Delete the middle one exactly.
	if err := r.Delete(3, 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, want := r.String(), "abcghi"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestSnapshotRestore(t *testing.T) {
	r := FromString("the quick brown fox")
	snap := r.Snapshot()
	before := r.String()

	if err := r.InsertString(4, "very "); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := r.Delete(0, 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if r.String() == before {
		t.Fatalf("mutation did not change rope content")
	}

	r.Restore(snap)
	if r.Len() != len(before) {
		t.Fatalf("after restore Len() = %d, want %d", r.Len(), len(before))
	}
	if got := r.String(); got != before {
		t.Fatalf("after restore String() = %q, want %q", got, before)
	}
}

func TestSnapshotIndependentOfLiveEdits(t *testing.T) {
	r := FromString("abc")
	snap := r.Snapshot()
	if err := r.InsertString(3, "def"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if snap.Len() != 3 {
		t.Fatalf("snapshot Len() = %d, want 3 (must not observe later edits)", snap.Len())
	}
}

func TestBadPosition(t *testing.T) {
	r := FromString("abc")
	if err := r.Insert(-1, []byte("x")); err != ErrBadPosition {
		t.Fatalf("Insert(-1, ...) = %v, want ErrBadPosition", err)
	}
	if err := r.Insert(4, []byte("x")); err != ErrBadPosition {
		t.Fatalf("Insert(4, ...) = %v, want ErrBadPosition", err)
	}
	if err := r.Delete(2, 5); err != ErrBadPosition {
		t.Fatalf("Delete(2, 5) = %v, want ErrBadPosition", err)
	}
	if _, err := r.Slice(2, 1); err != ErrBadPosition {
		t.Fatalf("Slice(2, 1) = %v, want ErrBadPosition", err)
	}
}

func TestByteAt(t *testing.T) {
	r := FromString("abc")
	if err := r.InsertString(3, "def"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	for i, want := range []byte("abcdef") {
		got, err := r.ByteAt(i)
		if err != nil {
			t.Fatalf("ByteAt(%d): %v", i, err)
		}
		if got != want {
			t.Fatalf("ByteAt(%d) = %q, want %q", i, got, want)
		}
	}
	if _, err := r.ByteAt(6); err != ErrBadPosition {
		t.Fatalf("ByteAt(6) = %v, want ErrBadPosition", err)
	}
}

func TestOffsetPointRoundTrip(t *testing.T) {
	r := FromString("line one\nline two\nline three")
	cases := []struct {
		offset int
		want   Point
	}{
		{0, Point{0, 0}},
		{8, Point{0, 8}},
		{9, Point{1, 0}},
		{18, Point{2, 0}},
	}
	for _, c := range cases {
		got, err := r.OffsetToPoint(c.offset)
		if err != nil {
			t.Fatalf("OffsetToPoint(%d): %v", c.offset, err)
		}
		if got != c.want {
			t.Fatalf("OffsetToPoint(%d) = %+v, want %+v", c.offset, got, c.want)
		}
		back, err := r.PointToOffset(got)
		if err != nil {
			t.Fatalf("PointToOffset(%+v): %v", got, err)
		}
		if back != c.offset {
			t.Fatalf("PointToOffset(%+v) = %d, want %d", got, back, c.offset)
		}
	}
}

func TestMaxAddBytes(t *testing.T) {
	r := FromString("abc")
	r.MaxAddBytes = 2
	if err := r.Insert(0, []byte("xy")); err != nil {
		t.Fatalf("Insert within budget: %v", err)
	}
	if err := r.Insert(0, []byte("z")); err != ErrOutOfMemory {
		t.Fatalf("Insert over budget = %v, want ErrOutOfMemory", err)
	}
}

func TestIteratorZeroCopySingleSegment(t *testing.T) {
	r := FromString("hello world")
	it := r.Iterator(0, 5)
	if !it.Next() {
		t.Fatal("expected a segment")
	}
	if string(it.Segment()) != "hello" {
		t.Fatalf("Segment() = %q, want %q", it.Segment(), "hello")
	}
	if it.Next() {
		t.Fatal("expected iteration to end after one segment")
	}
}

func TestSliceEmptyRange(t *testing.T) {
	r := FromString("abc")
	b, err := r.Slice(1, 1)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if len(b) != 0 {
		t.Fatalf("Slice(1,1) = %q, want empty", b)
	}
}
