package sardana

// cmpOr returns the first of its arguments that is not equal to the zero
// value, or zero if none are. It mirrors cmp.Or (Go 1.22+) for toolchains
// that predate it.
func cmpOr(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
