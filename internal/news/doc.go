// Package news keeps the repository news feed and its per-item read flags.
//
// Read flags live in their own store. Every mutation persists first and only then
// updates the in-memory mirror, so the two never drift apart.
package news
