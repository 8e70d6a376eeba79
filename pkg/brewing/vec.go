package brewing

// Tiers is the number of ingredient tiers tracked by every vector.
const Tiers = 4

// Number is the closed set of element kinds a Vec4 may hold: unsigned
// quantities, signed deltas and floating score components.
type Number interface {
	~uint32 | ~int32 | ~float64
}

// Vec4 is a fixed-size ingredient vector indexed by tier (0 = common, 3 = rare).
// Arithmetic wraps on overflow the way Go integer arithmetic does; values in
// this game stay far below either bound.
type Vec4[T Number] [Tiers]T

// At returns the element for tier i. It panics if i is outside [0, 4).
func (v Vec4[T]) At(i int) T {
	return v[i]
}

// Add returns the element-wise sum of v and o.
func (v Vec4[T]) Add(o Vec4[T]) Vec4[T] {
	var out Vec4[T]
	for i := range v {
		out[i] = v[i] + o[i]
	}
	return out
}

// Sub returns the element-wise difference v - o.
func (v Vec4[T]) Sub(o Vec4[T]) Vec4[T] {
	var out Vec4[T]
	for i := range v {
		out[i] = v[i] - o[i]
	}
	return out
}

// Dot returns the sum of element-wise products.
func (v Vec4[T]) Dot(o Vec4[T]) T {
	var sum T
	for i := range v {
		sum += v[i] * o[i]
	}
	return sum
}

// Norm1 returns the sum of absolute values.
func (v Vec4[T]) Norm1() T {
	var sum T
	for _, x := range v {
		sum += abs(x)
	}
	return sum
}

// Positive clamps every negative element to zero. It is the identity for
// unsigned vectors.
func (v Vec4[T]) Positive() Vec4[T] {
	var out Vec4[T]
	for i, x := range v {
		if x > 0 {
			out[i] = x
		}
	}
	return out
}

// Convert widens or narrows every element of v with a plain numeric conversion.
func Convert[U, T Number](v Vec4[T]) Vec4[U] {
	var out Vec4[U]
	for i, x := range v {
		out[i] = U(x)
	}
	return out
}

// Signed converts an inventory or cost vector into delta space.
func Signed(v Vec4[uint32]) Vec4[int32] {
	return Convert[int32](v)
}

func abs[T Number](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
