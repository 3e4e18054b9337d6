// Package geom provides the 2D primitives shared by the layout engine and the
// coordinate transforms: points, rectangles, ellipses and polar coordinates.
//
// All values are plain structs passed by value. Angles are in radians and are
// measured from the positive x axis via math.Atan2.
package geom
