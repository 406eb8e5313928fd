// Package floats provides the scalar float32 kernels used by scoring and
// prototype computation: dot products, squared L2 distances, batch variants
// over flattened vector blocks, and in-place accumulate/scale.
package floats

// Dot calculates the dot product of two vectors.
//
// SAFETY: This function assumes len(a) == len(b).
// It does NOT perform bounds checks for performance reasons.
// Callers MUST ensure lengths match.
func Dot(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

// SquaredL2 calculates the squared L2 (Euclidean) distance.
//
// SAFETY: This function assumes len(a) == len(b).
// It does NOT perform bounds checks for performance reasons.
// Callers MUST ensure lengths match.
func SquaredL2(a, b []float32) float32 {
	var distance float32
	for i := range a {
		distance += (a[i] - b[i]) * (a[i] - b[i])
	}

	return distance
}

// DotBatch calculates dot products between query and a batch of vectors.
// targets is a flattened array of N vectors, each of dimension dim.
// out must have length N (len(targets) / dim).
func DotBatch(query []float32, targets []float32, dim int, out []float32) {
	if dim <= 0 || len(out) == 0 {
		return
	}
	if len(query) < dim {
		return
	}

	q := query[:dim]
	maxVal := len(targets) / dim
	n := len(out)
	if maxVal < n {
		n = maxVal
	}

	for i := 0; i < n; i++ {
		offset := i * dim
		out[i] = Dot(q, targets[offset:offset+dim])
	}
}

// SquaredL2Batch calculates squared L2 distances between query and a batch of vectors.
// targets is a flattened array of N vectors, each of dimension dim.
// out must have length N (len(targets) / dim).
func SquaredL2Batch(query []float32, targets []float32, dim int, out []float32) {
	if dim <= 0 || len(out) == 0 {
		return
	}
	if len(query) < dim {
		return
	}

	q := query[:dim]
	maxVal := len(targets) / dim
	n := len(out)
	if maxVal < n {
		n = maxVal
	}

	for i := 0; i < n; i++ {
		offset := i * dim
		out[i] = SquaredL2(q, targets[offset:offset+dim])
	}
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

// AddInPlace accumulates b into a element-wise.
//
// SAFETY: assumes len(a) == len(b), like the other kernels.
func AddInPlace(a, b []float32) {
	for i := range a {
		a[i] += b[i]
	}
}

// MeanInto writes the element-wise mean of the n vectors in the flattened
// block src (n * dim values) into dst (dim values). dst is zeroed first.
// n must be positive.
func MeanInto(dst []float32, src []float32, dim, n int) {
	for i := range dst {
		dst[i] = 0
	}
	for i := 0; i < n; i++ {
		AddInPlace(dst, src[i*dim:(i+1)*dim])
	}
	ScaleInPlace(dst, 1/float32(n))
}
