// Package hardware selects the compute device that bounds mining throughput
// on a controller and derives the linear intensity to configure for it.
//
// The controller reports its OpenCL platforms and devices through the
// systemInfo command. Eligible devices are filtered from that snapshot, the
// slowest one is picked by estimated throughput (core clock times compute
// clusters), and its throughput relative to a reference device scales a
// baseline intensity.
package hardware
