package config

import "runtime"

// EstimateOptimalThreads picks a worker count from the number of logical
// CPUs: one worker per CPU, at least two and at most 64.
func EstimateOptimalThreads() int {
	return threadsForCPUs(runtime.NumCPU())
}

func threadsForCPUs(numCPU int) int {
	switch {
	case numCPU <= 1:
		return 2
	case numCPU <= 64:
		return numCPU
	default:
		return 64
	}
}
