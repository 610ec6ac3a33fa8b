// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geo provides the spatial primitives the store needs: great-
// circle distance between coordinates and point-in-polygon containment.
package geo

import (
	"math"

	"github.com/mkeene/listing-engine/pkg/types"
)

const earthRadiusM = 6371000.0

// DistanceM returns the haversine distance between two points in meters.
func DistanceM(a, b types.GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

// Ring is a closed polygon boundary. The first and last vertex need not
// repeat; containment treats the ring as implicitly closed.
type Ring []types.GeoPoint

// Contains reports whether p lies inside the ring, using the even-odd
// ray-casting rule. Points exactly on an edge may fall on either side;
// conservation boundaries are coarse enough that this does not matter.
func (r Ring) Contains(p types.GeoPoint) bool {
	if len(r) < 3 {
		return false
	}
	inside := false
	j := len(r) - 1
	for i := 0; i < len(r); i++ {
		vi, vj := r[i], r[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) {
			x := (vj.Lon-vi.Lon)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lon
			if p.Lon < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
