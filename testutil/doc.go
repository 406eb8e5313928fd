// Package testutil provides testing utilities for fewshot.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and generators for labeled
// synthetic feature data.
//
// # Labeled Cluster Generation
//
//	rng := testutil.NewRNG(seed)
//	labels, vectors := rng.LabeledClusters(10, 20, 64, 0.05)
//
// Each class is a tight Gaussian cloud around its own unit-vector
// centroid, so a nearest-prototype classifier should score near-perfect
// accuracy on it. Raise the spread to make the problem harder.
package testutil
