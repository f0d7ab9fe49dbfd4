// Package workgroup implements the host-side machinery that runs a single
// OpenCL-style work-group to completion: it owns the per-work-item execution
// contexts, the round-robin barrier rendezvous, and the built-in dispatch
// surface (get_global_id, get_local_id, barrier, ...) that kernel code calls
// into.
//
// A kernel is an ordinary Go function, not compiled IR, so the package does
// not need real thread-local storage to give kernel code an implicit
// "current work-group": a *WorkItem carries that context explicitly, and the
// built-in methods hang off it. See DESIGN.md for why this differs from the
// ucontext/TLS design of the system this package is modeled on.
package workgroup
