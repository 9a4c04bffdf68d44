// Package stats implements the stat value engine.
//
// A Stat holds a base value and three ordered buckets of modifiers. Its value
// is resolved lazily as
//
//	value = multiply(percent(add(base)))
//
// where add sums flat bonuses, percent scales by one plus the sum of all
// percentages, and multiply compounds each multiplier in insertion order.
//
// A chained Stat takes its base from a parent Stat: its BaseValue is the
// parent's resolved Value plus a constant seed fixed at construction. Changes
// to a parent re-dirty every chained descendant synchronously, and every read
// recomputes only when the modifier set or the effective base has moved.
//
// Collection groups stats by key and can be built on top of a parent
// collection, in which case every parent stat gets a chained counterpart.
//
// Stats and collections are not safe for concurrent use; callers that share
// them across goroutines must serialize access.
package stats
