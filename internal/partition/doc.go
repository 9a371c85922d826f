// Package partition decides which candidate integers each worker examines.
//
// Two strategies form a closed set:
//
//   - Range ([StaticRanges]) splits [1, U] into N contiguous sub-ranges, one
//     per worker. There is no shared state between workers.
//   - Queue ([DynamicCounter]) hands out one candidate at a time from a single
//     atomic counter shared by all workers, which balances load at the cost of
//     one synchronization per candidate.
//
// Whatever the strategy, candidates below 2 are never handed out.
package partition
