// Package truth owns the truth collection: its wire format, load-time
// validation, sources and the hot-swappable snapshot served to handlers.
//
// A Store loads from a Source (a JSON file or a Redis key holding the same
// document), validates the collection against Rules and the day weight
// table, then publishes an immutable Snapshot:
//
//	store := truth.NewStore(truth.NewFileSource("data/truths.json"), table, rules)
//	if err := store.Load(ctx); err != nil {
//		return err
//	}
//	snap, _ := store.Snapshot()
//	t, ok := snap.Get("t-001")
//
// Reload swaps the snapshot atomically; a failed reload leaves the previous
// collection in place.
package truth
