// Package state persists the small JSON documents the coordinator owns: the stored
// repository location, news read flags and the relocation marker. Every write goes
// through a temporary file and a rename so readers never observe a torn file; there is
// no cross-process locking and the last writer wins.
package state
