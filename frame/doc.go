// Package frame implements a zero-copy reader/writer for IEEE 802.15.4 MAC
// frames, including the 2015/2020 amendments: Enhanced Beacons, Enhanced
// Acks, Information Elements, and TSCH.
//
// Every view in this package borrows a caller-owned byte slice rather than
// copying it. Reading a field masks bits out of the underlying buffer;
// nothing is allocated and nothing is validated beyond what each accessor
// itself needs to avoid panicking. Call Validate (via the Repr layer in
// repr.go) before trusting a frame's semantics.
package frame
