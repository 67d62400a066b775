// Package sensor reads health and status data from the remote sensor over
// Ethernet.
//
// Two sources live here:
//
//   - Prober runs a single ping against the sensor and reports the exit
//     status, with -1 for a ping that outlived its timeout and -9 for any
//     other failure to run it.
//   - ReadPacket and Acquire bind a UDP socket, wait for one status datagram
//     and decode it. StatusSource wraps Acquire as a collector fetch function.
//
// The link to the sensor is often down. Binding to an address that does not
// exist on the host (EADDRNOTAVAIL, WSAEADDRNOTAVAIL on Windows) and receive
// timeouts are expected and logged at DEBUG; they yield no data rather than an
// error. See LinkDownErrnos for the per-platform table.
package sensor
