// Package gfaestus provides the GPU-resident geometry and query pipeline for
// interactive rendering of very large node-link graphs.
//
// # Overview
//
// gfaestus renders graphs of hundreds of thousands of nodes at interactive
// frame rates. This module is the core pipeline: the spatial index, edge
// geometry, picking/selection, and highlight compositing stages that sit
// between a layout engine (which produces node positions) and a host
// application (which owns the window and input loop).
//
// The pipeline consists of five stages:
//
//  1. Grid index: a three-pass parallel bucket sort of node endpoint
//     positions into a uniform grid, used for rectangle selection and
//     nearest-node queries (package binning).
//  2. Edge orientation: oriented graph handles resolved to canonical
//     physical endpoints (packages graph, edges).
//  3. Ribbon tessellation: a quadratic curve per edge, tessellated into a
//     variable-width ribbon with zoom-dependent level of detail
//     (package edges).
//  4. Picking and selection: per-pixel node identifiers and a persistent
//     selection mask (packages picking, selection).
//  5. Highlight compositing: edge detection and blur over the selection
//     mask, composited onto the final frame (package post).
//
// Package render orchestrates the stages into frames with explicit barriers
// between dependent passes.
//
// # Collaborators
//
// The windowing/event loop, UI toolkit, file loaders, scripting overlays,
// and the force-directed layout solver are external. The pipeline consumes
// flat position and edge arrays and exposes per-pixel pick results and the
// selection mask back to the host.
//
// # GPU execution
//
// Kernels are written in WGSL and compiled through gogpu/naga onto a
// gogpu/wgpu device supplied by the host. Every kernel also has a CPU
// execution path mirroring the shader algorithm, used as fallback and as
// the reference implementation under test.
package gfaestus

// Version information
const (
	// Version is the current version of the module
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
