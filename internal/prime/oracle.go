//go:generate mockgen -source=oracle.go -destination=mocks/mock_oracle.go -package=mocks

package prime

// Oracle decides whether a single integer is prime. Implementations must be
// deterministic and free of shared mutable state: workers call IsPrime
// concurrently and outside of any lock. A non-nil error is fatal for the
// worker that observed it.
type Oracle interface {
	IsPrime(n int) (bool, error)
}

// OracleFunc is a function adapter that implements Oracle.
type OracleFunc func(n int) (bool, error)

// IsPrime calls the underlying function.
func (f OracleFunc) IsPrime(n int) (bool, error) { return f(n) }

// TrialDivision is the default Oracle. It never returns an error.
type TrialDivision struct{}

// Verify interface compliance.
var _ Oracle = TrialDivision{}

// IsPrime reports whether n is prime by testing odd divisors up to sqrt(n).
func (TrialDivision) IsPrime(n int) (bool, error) {
	return IsPrime(n), nil
}

// IsPrime reports whether n is prime. Values below 2 are never prime.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	// i <= n/i avoids overflowing i*i near the top of the int range.
	for i := 3; i <= n/i; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
