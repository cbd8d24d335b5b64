// Package ie implements zero-copy readers and writers for IEEE 802.15.4
// Information Elements: Header IEs, Payload IEs, and the Nested IEs
// carried inside an MLME Payload IE, including the TSCH Synchronization,
// Timeslot, Slotframe-and-Link, and Channel Hopping content types.
package ie
