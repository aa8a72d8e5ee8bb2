package looper

// tostereo splits mono sample x into a (left, right) pair weighted by pan p
// (spec §4.G: `tostereo(x, p) = (x·(1−p), x·p)`).
func tostereo(x, p float32) (float32, float32) {
	return x * (1 - p), x * p
}

// tomono folds a (left, right) pair back to mono weighted by p
// (spec §4.G: `tomono(L, R, p) = L·(1−p) + R·p`).
func tomono(l, r, p float32) float32 {
	return l*(1-p) + r*p
}
