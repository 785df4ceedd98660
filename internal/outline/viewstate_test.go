package outline

import (
	"reflect"
	"testing"
)

func TestCaptureViewState(t *testing.T) {
	f := sample()
	f[0].IsCollapsed = true
	f[0].Children[1].IsCollapsed = true

	vs := CaptureViewState(f)
	want := [][]int{{0}, {0, 1}}
	if !reflect.DeepEqual(vs.CollapsedPaths, want) {
		t.Errorf("expected %v, got %v", want, vs.CollapsedPaths)
	}
}

func TestCaptureViewState_Empty(t *testing.T) {
	vs := CaptureViewState(sample())
	if vs.CollapsedPaths == nil || len(vs.CollapsedPaths) != 0 {
		t.Errorf("expected empty non-nil paths, got %v", vs.CollapsedPaths)
	}
}

func TestApplyViewState_RoundTrip(t *testing.T) {
	src := sample()
	src[0].Children[2].IsCollapsed = true
	src[1].IsCollapsed = true
	vs := CaptureViewState(src)

	fresh := sample()
	got := ApplyViewState(fresh, vs)
	if !reflect.DeepEqual(CaptureViewState(got), vs) {
		t.Errorf("expected %v, got %v", vs, CaptureViewState(got))
	}
	if fresh[1].IsCollapsed {
		t.Error("input forest was modified")
	}
}

func TestApplyViewState_IgnoresStalePaths(t *testing.T) {
	vs := ViewState{CollapsedPaths: [][]int{{5}, {0, 9}, {}, {-1}, {0, 1, 0, 3}, {0, 1}}}
	got := ApplyViewState(sample(), vs)
	want := [][]int{{0, 1}}
	if paths := CaptureViewState(got).CollapsedPaths; !reflect.DeepEqual(paths, want) {
		t.Errorf("expected %v, got %v", want, paths)
	}
}
