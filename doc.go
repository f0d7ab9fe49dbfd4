// Copyright 2024 The Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ocl is a host-side CPU back end for an OpenCL-family
// heterogeneous compute API: it runs NDRange kernel launches by decomposing
// them into work-groups and executing each work-group's work-items on an
// outer-tier pool of OS threads.
//
// Kernels are ordinary Go functions (NativeFunc) that receive a
// *workgroup.WorkItem and the kernel's bound arguments; the work-item exposes the get_global_id/get_local_id/barrier surface a
// compiled OpenCL C kernel would otherwise reach through built-in symbols.
// Within a single work-group, work-items that call WorkItem.Barrier run
// cooperatively, one at a time, in round-robin order; work-groups
// themselves run in parallel across the device's worker pool.
//
// See the workgroup package for the scheduler, executor and context pool
// that implement this.
package ocl
