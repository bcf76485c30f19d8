// Package subdivision implements a half-space subdivision model over the
// unit square (2D) or unit cube (3D) and computes face adjacency between
// its leaf regions.
//
// A subdivision is a binary tree of bit-string paths. The root ("") covers
// the whole unit region. Splitting a node at depth d halves it along the
// axis cycle[d mod len(cycle)]; bit 0 names the lower half along that axis,
// bit 1 the upper half. Leaves are the undivided regions, and two leaves
// are adjacent when they share a (D-1)-dimensional face with positive
// measure. Edge and corner contacts do not count.
//
// Basic usage:
//
//	cyc, err := subdivision.DefaultCycle(subdivision.D2)
//	tree, err := subdivision.NewTree(cyc, paths)
//	neighbours, err := subdivision.AdjacentLeaves(tree, "100")
//
// Region extents are tracked in binary fixed point (the unit interval is
// 1<<62 ticks wide), so every halving and every midpoint comparison is an
// exact integer operation. Adjacency itself never inspects coordinates at
// all; it walks the path structure.
package subdivision
