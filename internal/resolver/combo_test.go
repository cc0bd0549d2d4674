package resolver

import (
	"testing"
)

func TestChangeSign(t *testing.T) {
	if v := ChangeSign(Some(1), 1); !v.OK || v.F != 1 {
		t.Errorf("ChangeSign(1, +1) = %v, want 1", v)
	}
	if v := ChangeSign(Some(1), -1); !v.OK || v.F != 0 {
		t.Errorf("ChangeSign(1, -1) = %v, want 0", v)
	}
	if v := ChangeSign(Some(0), -1); !v.OK || v.F != 1 {
		t.Errorf("ChangeSign(0, -1) = %v, want 1", v)
	}
	if v := ChangeSign(Null, -1); v.OK {
		t.Errorf("ChangeSign(null, -1) = %v, want null", v)
	}
}

func TestChangeSign_BadSignPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for sign 0")
		}
	}()
	ChangeSign(Some(1), 0)
}

// The signed product must agree with the boolean identity:
// AND(v0 XOR (s0 == -1), v1 XOR (s1 == -1)).
func TestComboValue_SignAlgebra(t *testing.T) {
	bools := []bool{false, true}
	signs := []int{1, -1}
	for _, v0 := range bools {
		for _, v1 := range bools {
			for _, s0 := range signs {
				for _, s1 := range signs {
					got := ComboValue(boolValue(v0), s0, boolValue(v1), s1)
					want := (v0 != (s0 == -1)) && (v1 != (s1 == -1))
					if !got.OK {
						t.Fatalf("ComboValue(%v,%d,%v,%d) is null", v0, s0, v1, s1)
					}
					if (got.F == 1) != want {
						t.Errorf("ComboValue(%v,%d,%v,%d) = %v, want %v", v0, s0, v1, s1, got.F, want)
					}
				}
			}
		}
	}
}

func TestComboValue_NullPropagates(t *testing.T) {
	for _, s0 := range []int{1, -1} {
		for _, s1 := range []int{1, -1} {
			if v := ComboValue(Null, s0, Some(1), s1); v.OK {
				t.Errorf("null first constituent with signs (%d,%d) gave %v", s0, s1, v)
			}
			if v := ComboValue(Some(0), s0, Null, s1); v.OK {
				t.Errorf("null second constituent with signs (%d,%d) gave %v", s0, s1, v)
			}
		}
	}
}

func boolValue(b bool) Value {
	if b {
		return Some(1)
	}
	return Some(0)
}
