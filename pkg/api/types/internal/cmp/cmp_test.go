package cmp_test

import (
	"testing"

	"github.com/aesdk/mlflowsdk/pkg/api/types/internal/cmp"
)

type Int int

func (t Int) Equal(other Int) bool {
	return t == other
}

func TestSliceEqualUnordered(t *testing.T) {
	for name, testcase := range map[string]struct {
		a, b     []Int
		expected bool
	}{
		"empty slices are equal": {
			a: []Int{}, b: []Int{}, expected: true,
		},
		"same order": {
			a: []Int{1, 2, 3}, b: []Int{1, 2, 3}, expected: true,
		},
		"different order": {
			a: []Int{1, 2, 3}, b: []Int{3, 1, 2}, expected: true,
		},
		"different length": {
			a: []Int{1, 2}, b: []Int{1, 2, 2}, expected: false,
		},
		"same length, different multiplicity": {
			a: []Int{1, 1, 2}, b: []Int{1, 2, 2}, expected: false,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := cmp.SliceEqualUnordered(testcase.a, testcase.b); actual != testcase.expected {
				t.Errorf("unexpected result: (actual, expected) = (%v, %v)", actual, testcase.expected)
			}
		})
	}
}

func TestSliceEqual(t *testing.T) {
	if !cmp.SliceEqual([]Int{1, 2}, []Int{1, 2}) {
		t.Error("same slices should be equal")
	}
	if cmp.SliceEqual([]Int{1, 2}, []Int{2, 1}) {
		t.Error("order should matter")
	}
}

func TestPtrEqual(t *testing.T) {
	one, another := Int(1), Int(1)
	two := Int(2)

	if !cmp.PtrEqual[Int](nil, nil) {
		t.Error("nil and nil should be equal")
	}
	if cmp.PtrEqual(&one, nil) {
		t.Error("non-nil and nil should not be equal")
	}
	if !cmp.PtrEqual(&one, &another) {
		t.Error("pointers to equal values should be equal")
	}
	if cmp.PtrEqual(&one, &two) {
		t.Error("pointers to different values should not be equal")
	}
}
