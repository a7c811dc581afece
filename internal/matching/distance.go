package matching

import "math"

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two points given in
// decimal degrees.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// Rounding can push a slightly above 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// distanceScore decays linearly by distancePenaltyPerKm for every kilometre
// beyond the candidate's mobility radius.
func distanceScore(km, mobilityKm float64) float64 {
	if km <= mobilityKm {
		return 100
	}
	return math.Max(0, 100-(km-mobilityKm)*distancePenaltyPerKm)
}
