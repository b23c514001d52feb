// Package selection implements day-weighted random selection.
//
// Every item belongs to a weight-level (for example "light", "medium",
// "heavy"). A WeightTable gives each level a relative weight per weekday, and
// the Engine picks an item with probability proportional to its level's weight
// on the requested day:
//
//	engine := selection.New[truth.Truth]()
//	item, day, err := engine.SelectToday(items, table)
//
// The draw builds cumulative weights over the items, takes a uniform value in
// [0, total) and binary-searches for the first cumulative weight above it.
//
// Use WithSeed for reproducible sequences in tests and WithClock to control
// which weekday SelectToday resolves. The weekday is computed in UTC on every
// call.
package selection
