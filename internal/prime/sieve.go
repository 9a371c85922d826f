package prime

// Sieve returns every prime in [2, limit] in ascending order using the
// sieve of Eratosthenes. It is the reference the concurrent strategies are
// verified against.
func Sieve(limit int) []int {
	if limit < 2 {
		return []int{}
	}
	composite := make([]bool, limit+1)
	for i := 2; i <= limit/i; i++ {
		if composite[i] {
			continue
		}
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}
	primes := make([]int, 0, EstimateCount(limit))
	for i := 2; i <= limit; i++ {
		if !composite[i] {
			primes = append(primes, i)
		}
	}
	return primes
}

// PrimesInRange scans [start, end] sequentially with trial division.
// The scan never starts below 2.
func PrimesInRange(start, end int) []int {
	primes := []int{}
	if start > end || end < 2 {
		return primes
	}
	start = max(start, 2)
	for i := start; i <= end; i++ {
		if IsPrime(i) {
			primes = append(primes, i)
		}
	}
	return primes
}

// EstimateCount over-approximates the number of primes up to limit, for
// preallocation.
func EstimateCount(limit int) int {
	switch {
	case limit < 100:
		return 25
	case limit < 100_000:
		return limit / 4
	default:
		return limit / 10
	}
}
