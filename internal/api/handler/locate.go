package handler

import (
	"fmt"
	"math"
	"net/http"

	"childguard/backend/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	earthRadiusKm = 6371.0
	nearbyKm      = 50.0
)

type area struct {
	name     string
	province string
	lat, lon float64
}

// areas are the reference points used to label a position.
var areas = []area{
	{"Manila", "Metro Manila", 14.5995, 120.9842},
	{"Quezon City", "Metro Manila", 14.6760, 121.0437},
	{"Caloocan", "Metro Manila", 14.6507, 120.9676},
	{"Pasig", "Metro Manila", 14.5764, 121.0851},
	{"Makati", "Metro Manila", 14.5547, 121.0244},
	{"Antipolo", "Rizal", 14.6255, 121.1245},
	{"Baguio", "Benguet", 16.4023, 120.5960},
	{"Angeles", "Pampanga", 15.1450, 120.5887},
	{"Batangas City", "Batangas", 13.7565, 121.0583},
	{"Naga", "Camarines Sur", 13.6218, 123.1948},
	{"Legazpi", "Albay", 13.1391, 123.7438},
	{"Iloilo City", "Iloilo", 10.7202, 122.5621},
	{"Bacolod", "Negros Occidental", 10.6765, 122.9509},
	{"Cebu City", "Cebu", 10.3157, 123.8854},
	{"Tacloban", "Leyte", 11.2447, 125.0048},
	{"Puerto Princesa", "Palawan", 9.7392, 118.7353},
	{"Cagayan de Oro", "Misamis Oriental", 8.4542, 124.6319},
	{"Zamboanga City", "Zamboanga del Sur", 6.9214, 122.0790},
	{"Davao City", "Davao del Sur", 7.1907, 125.4553},
	{"General Santos", "South Cotabato", 6.1164, 125.1716},
}

// Locate turns coordinates into a human-readable area label for the report
// form's location field.
func (h *Handler) Locate(c *gin.Context) {
	var req models.LocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lon < -180 || req.Lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
		return
	}
	c.JSON(http.StatusOK, models.LocateResponse{Label: AreaLabel(req.Lat, req.Lon)})
}

// AreaLabel names the closest reference area, or falls back to the raw
// coordinates when nothing is within reach.
func AreaLabel(lat, lon float64) string {
	best := -1
	bestKm := math.MaxFloat64
	for i, a := range areas {
		if d := haversineKm(lat, lon, a.lat, a.lon); d < bestKm {
			best, bestKm = i, d
		}
	}
	if best < 0 || bestKm > nearbyKm {
		return fmt.Sprintf("Lat %.5f, Lng %.5f", lat, lon)
	}
	a := areas[best]
	if bestKm < 1 {
		return fmt.Sprintf("%s, %s", a.name, a.province)
	}
	return fmt.Sprintf("Near %s, %s (~%d km)", a.name, a.province, int(math.Round(bestKm)))
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
