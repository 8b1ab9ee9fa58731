// Package geo вычисляет расстояния между точками на сферической модели Земли.
package geo

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/magabrotheeeer/cafe-finder/internal/models"
)

// EarthRadiusMeters - средний радиус Земли, используемый в формуле гаверсинуса.
const EarthRadiusMeters = 6371000.0

// Distance возвращает расстояние по большому кругу между origin и target в метрах.
func Distance(origin, target models.Coordinate) float64 {
	return DistancePoints(origin.Point(), target.Point())
}

// DistancePoints - то же, что Distance, для точек orb (lon, lat).
func DistancePoints(p1, p2 orb.Point) float64 {
	lat1 := p1.Lat() * math.Pi / 180
	lat2 := p2.Lat() * math.Pi / 180
	dLat := (p2.Lat() - p1.Lat()) * math.Pi / 180
	dLng := (p2.Lon() - p1.Lon()) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// для почти антиподальных точек округление выводит a за 1, и Sqrt(1-a) даёт NaN
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}
