package skiplist

// Test hooks (kept separate so instrumentation doesn't clutter logic).
// They are intended solely for test interleaving and must not perform
// blocking or mutating operations that affect production correctness.
var (
	// getAfterFindHook is invoked by Get between locating a node and
	// reading its flags/value.
	getAfterFindHook func(node any)

	// insertSpliceHook is invoked by Put after the new node's forward
	// array is populated, just before the first predecessor link is
	// redirected at it.
	insertSpliceHook func(node any)

	// deleteMarkedHook is invoked by Delete right after the target is
	// marked, while it is still physically linked.
	deleteMarkedHook func(node any)
)
