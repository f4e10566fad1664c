// Package lattice implements a lattice Boltzmann fluid solver with the
// single-relaxation-time BGK collision operator.
//
// A [Lattice] owns a grid of per-cell particle distribution functions over a
// discrete-velocity [Stencil]. Each call to [Lattice.Iterate] performs one
// collision-streaming cycle:
//
//  1. BGK relaxation of every population toward local equilibrium
//  2. streaming of post-collision populations to neighbour cells, with
//     boundary and obstacle reflection
//  3. recomputation of the macroscopic density and velocity fields
//  4. refresh of inflow and outflow boundary cells
//
// Each boundary side of each dimension is configured independently with a
// [Scheme]: periodic wrapping, no-slip bounce-back, free-slip specular
// reflection, or open inflow/outflow.
//
// # Thread Safety
//
// A Lattice is NOT safe for concurrent use. Queries must not race
// [Lattice.Iterate].
package lattice
