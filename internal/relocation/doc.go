// Package relocation moves the authoritative repository to a new directory.
//
// The move copies file groups in stages and never deletes the source. The old
// repository stays authoritative until the stored path is switched, which is the
// only consistency boundary: a failure before it leaves the old path in charge and
// the partially populated target abandoned. Nothing is rolled back. After the
// switch the program relaunches from the new location and the current process
// ends whether or not the launch worked.
package relocation
