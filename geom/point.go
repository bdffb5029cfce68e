// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom implements the geometry kernel: integer points,
// axis-ordered rectangles, ordered segments and rectilinear polygon sets
// with Boolean operations. Set operations are kept exact on integer
// coordinates; floats appear only in the Voronoi helpers in voronoi.go
// and in the distance/projection helpers (EuclideanDist and Segment's
// length, Thales-disc and projection methods) — never a floating-point
// general-polygon engine for the grid-accurate legalisation steps.
package geom

import "math"

// Pt is an integer grid coordinate.
type Pt struct {
	X, Y int
}

// FPt is a floating coordinate, used only by the Voronoi step.
type FPt struct {
	X, Y float64
}

// ManhattanDist returns the L1 distance between two integer points.
func ManhattanDist(a, b Pt) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// EuclideanDist returns the L2 distance between two integer points.
func EuclideanDist(a, b Pt) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// EuclideanDistF returns the L2 distance between two floating points.
func EuclideanDistF(a, b FPt) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
