// Package prime holds the primality oracle consumed by the workers, plus the
// sequential reference helpers used to verify concurrent runs.
package prime
