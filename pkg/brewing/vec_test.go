package brewing

import "testing"

func TestVec4Arithmetic(t *testing.T) {
	a := Vec4[int32]{1, -2, 3, 0}
	b := Vec4[int32]{4, 5, -6, 2}

	if got, want := a.Add(b), (Vec4[int32]{5, 3, -3, 2}); got != want {
		t.Errorf("Add = %v, want %v", got, want)
	}
	if got, want := a.Sub(b), (Vec4[int32]{-3, -7, 9, -2}); got != want {
		t.Errorf("Sub = %v, want %v", got, want)
	}
	if got, want := a.Dot(b), int32(4-10-18+0); got != want {
		t.Errorf("Dot = %d, want %d", got, want)
	}
	if got := a.At(2); got != 3 {
		t.Errorf("At(2) = %d, want 3", got)
	}
}

func TestVec4Norm1(t *testing.T) {
	tests := []struct {
		name string
		v    Vec4[int32]
		want int32
	}{
		{"zero", Vec4[int32]{}, 0},
		{"positive", Vec4[int32]{1, 2, 3, 4}, 10},
		{"mixed", Vec4[int32]{-1, 2, -3, 4}, 10},
		{"negative", Vec4[int32]{-5, 0, 0, -1}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sum int32
			for _, x := range tt.v {
				if x < 0 {
					x = -x
				}
				sum += x
			}
			if got := tt.v.Norm1(); got != tt.want || got != sum {
				t.Errorf("Norm1(%v) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}

	if got := (Vec4[uint32]{3, 0, 2, 1}).Norm1(); got != 6 {
		t.Errorf("unsigned Norm1 = %d, want 6", got)
	}
	if got := (Vec4[float64]{-0.5, 1.5, 0, -1}).Norm1(); got != 3 {
		t.Errorf("float Norm1 = %v, want 3", got)
	}
}

func TestVec4Positive(t *testing.T) {
	v := Vec4[int32]{-3, 0, 2, -1}
	if got, want := v.Positive(), (Vec4[int32]{0, 0, 2, 0}); got != want {
		t.Errorf("Positive(%v) = %v, want %v", v, got, want)
	}
	u := Vec4[uint32]{1, 2, 3, 4}
	if got := u.Positive(); got != u {
		t.Errorf("Positive on unsigned = %v, want identity", got)
	}
}

func TestVec4AtOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("At(4) did not panic")
		}
	}()
	var v Vec4[int32]
	i := 4
	_ = v.At(i)
}

func TestSignedConversion(t *testing.T) {
	got := Signed(Vec4[uint32]{3, 0, 7, 99})
	if want := (Vec4[int32]{3, 0, 7, 99}); got != want {
		t.Errorf("Signed = %v, want %v", got, want)
	}
	f := Convert[float64](Vec4[int32]{-1, 2, 0, 4})
	if want := (Vec4[float64]{-1, 2, 0, 4}); f != want {
		t.Errorf("Convert[float64] = %v, want %v", f, want)
	}
}
