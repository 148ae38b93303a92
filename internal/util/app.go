package util

import (
	"runtime"
)

func GetAppName() string {
	return "SecCert"
}

// DetermineWorkers picks a worker count for jobCount jobs, twice GOMAXPROCS at most.
func DetermineWorkers(jobCount int) int {
	if jobCount <= 0 {
		return max(runtime.GOMAXPROCS(0), 1)
	}

	return min(max(runtime.GOMAXPROCS(0)*2, 1), jobCount)
}
