package buf

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// AlignUp rounds n up to the next multiple of align. align must be a power
// of two; an align of 0 or 1 returns n unchanged.
//
//	AlignUp(1, 64)  = 64
//	AlignUp(64, 64) = 64
//	AlignUp(65, 64) = 128
func AlignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	mask := align - 1
	return (n + mask) &^ mask
}
