package editor

import "testing"

func TestToggleFoldAddsAndRemoves(t *testing.T) {
	e := newTestEditor(t, "a\nb\nc\nd\n")
	e.ToggleFold(1, 2)
	folds := e.Folds()
	if len(folds) != 1 || folds[0].StartLine != 1 || folds[0].EndLine != 2 {
		t.Fatalf("folds = %+v, want [{1 2}]", folds)
	}
	e.ToggleFold(1, 2)
	if got := e.Folds(); len(got) != 0 {
		t.Fatalf("folds after toggle off = %+v, want empty", got)
	}
}

func TestFoldAllUnfoldAll(t *testing.T) {
	e := newTestEditor(t, "a\nb\nc\n")
	e.FoldAll()
	folds := e.Folds()
	if len(folds) != 1 || folds[0].StartLine != 0 {
		t.Fatalf("folds = %+v, want single fold from line 0", folds)
	}
	e.UnfoldAll()
	if got := e.Folds(); len(got) != 0 {
		t.Fatalf("folds after UnfoldAll = %+v, want empty", got)
	}
}

func TestFoldSetContains(t *testing.T) {
	e := newTestEditor(t, "a\nb\nc\nd\ne\n")
	e.ToggleFold(1, 3)
	fs := e.folds
	if fs.Contains(0) || fs.Contains(4) {
		t.Fatal("fold should not contain lines outside its range")
	}
	if !fs.Contains(1) || !fs.Contains(2) || !fs.Contains(3) {
		t.Fatal("fold should contain every line in its range")
	}
}
