package chart

// Scale rounds n up to at most two significant digits at its order of
// magnitude, giving the chart a short axis maximum: 7 → 7, 137 → 140,
// 1050 → 1100. The result is never below n. Negative input is treated as 0.
func Scale(n int) int {
	if n < 100 {
		return max(n, 0)
	}
	unit := 1
	for v := n; v >= 100; v /= 10 {
		unit *= 10
	}
	return (n + unit - 1) / unit * unit
}
