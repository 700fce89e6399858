// Package store keeps a grid mask, its active-cell index and the quantity layers
// written against it consistent, and persists the whole schematization through a
// Backend.
//
// A Store moves through four states:
//
//	Empty --SetMask--> MaskReady --RegisterLayer--> LayersReady --Write--> Persisted
//	Empty --Read--> Persisted
//
// Write derives the index from the current mask, rebuilding it if the mask was
// edited since the last build, encodes every artifact in memory and commits them
// together with a YAML manifest. The manifest records the xxHash64 of each
// artifact and, for each layer, the checksum of the index it was encoded against,
// so Read can refuse a layer paired with a different index.
//
// Three backends are provided:
//
//   - DirBackend writes the plain files the simulation engine reads.
//   - BadgerBackend archives snapshots in a badger database, optionally compressed.
//   - MemoryBackend keeps everything in memory.
//
// Example:
//
//	backend, _ := store.NewDirBackend("./model")
//	s, _ := store.New(backend, store.WithLogger(logger))
//	_ = s.SetMask(mask)
//	_ = s.RegisterLayer("dep", elevation)
//	if err := s.Write(ctx); err != nil {
//		return err
//	}
package store
