// Package coordinator reacts to update signals for the local repository.
//
// Each poll refreshes the news feed and then takes exactly one action:
//
//   - no new data: refresh display statistics only
//   - new data and a staged program build: notify and wait for a user restart,
//     because the running build may not read the newer on-disk data
//   - new data only: reload silently
//
// A reload reads the new snapshot before anything is torn down. If the read fails
// the previous snapshot stays live with its augmentation. Jobs are re-resolved by
// record identifier after every reload and views are notified last.
package coordinator
