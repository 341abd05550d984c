package telemetry

import (
	"math"
)

const earthRadiusKm = 6371.0

type vec3 struct {
	X, Y, Z float64
}

func (v vec3) sub(other vec3) vec3 {
	return vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v vec3) dot(other vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v vec3) norm() float64 {
	return math.Sqrt(v.dot(v))
}

// observerECEF converts a ground station's geodetic position to ECEF
// kilometres on a spherical Earth. Good enough for mock elevation angles.
func observerECEF(latDeg, lonDeg, altKm float64) vec3 {
	lat := latDeg * math.Pi / 180.0
	lon := lonDeg * math.Pi / 180.0
	r := earthRadiusKm + altKm

	return vec3{
		X: r * math.Cos(lat) * math.Cos(lon),
		Y: r * math.Cos(lat) * math.Sin(lon),
		Z: r * math.Sin(lat),
	}
}

// elevationDegrees returns the elevation angle of the target as seen from
// the observer, in degrees. 0° = geometric horizon, 90° = overhead.
func elevationDegrees(observer, target vec3) float64 {
	v := target.sub(observer)
	vNorm := v.norm()
	if vNorm == 0 {
		return 90
	}

	// Local zenith at observer is its normalised position vector
	r := observer.norm()
	if r == 0 {
		return 90
	}
	zenith := vec3{observer.X / r, observer.Y / r, observer.Z / r}

	cosGamma := v.dot(zenith) / vNorm
	if cosGamma > 1 {
		cosGamma = 1
	} else if cosGamma < -1 {
		cosGamma = -1
	}
	gammaDeg := math.Acos(cosGamma) * 180.0 / math.Pi

	// Elevation is measured from local horizon (90° − zenith angle)
	return 90.0 - gammaDeg
}
