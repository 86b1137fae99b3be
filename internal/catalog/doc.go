// Package catalog holds the in-memory model of the mirrored content catalog: records,
// the immutable snapshot that owns them, and filtered list views over a snapshot.
//
// A Snapshot is built once by Load and replaced wholesale on reload. The only mutable
// part of a Record after load is its augmentation slot (Extra), which is attached right
// after load and torn down right before the snapshot is discarded.
package catalog
