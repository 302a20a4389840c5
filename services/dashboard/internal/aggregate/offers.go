package aggregate

import (
	"itoffers/services/dashboard/internal/models"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CityCoordinates lists the cities the offer map can place.
var CityCoordinates = map[string]Coordinates{
	"Warszawa":  {Lat: 52.2297, Lon: 21.0122},
	"Kraków":    {Lat: 50.0647, Lon: 19.9450},
	"Wrocław":   {Lat: 51.1079, Lon: 17.0385},
	"Poznań":    {Lat: 52.4064, Lon: 16.9252},
	"Gdańsk":    {Lat: 54.3520, Lon: 18.6466},
	"Katowice":  {Lat: 50.2649, Lon: 19.0238},
	"Łódź":      {Lat: 51.7592, Lon: 19.4560},
	"Lublin":    {Lat: 51.2465, Lon: 22.5684},
	"Szczecin":  {Lat: 53.4285, Lon: 14.5528},
	"Bydgoszcz": {Lat: 53.1235, Lon: 18.0084},
	"Białystok": {Lat: 53.1325, Lon: 23.1688},
	"Rzeszów":   {Lat: 50.0412, Lon: 21.9991},
	"Toruń":     {Lat: 53.0138, Lon: 18.5984},
}

type CityPoint struct {
	City string `json:"city"`
	Coordinates
	Count int `json:"count"`
}

// CityCounts counts non-remote offers per location, most offers first.
func CityCounts(table *models.Table) []CategoryCount {
	c := newCounter()
	for i := range table.Offers {
		if o := &table.Offers[i]; nonRemote(o) {
			c.add(o.Location)
		}
	}
	return c.sorted()
}

// CityMap joins CityCounts with known coordinates. Cities without
// coordinates are left out.
func CityMap(table *models.Table) []CityPoint {
	var points []CityPoint
	for _, cc := range CityCounts(table) {
		coords, ok := CityCoordinates[cc.Category]
		if !ok {
			continue
		}
		points = append(points, CityPoint{City: cc.Category, Coordinates: coords, Count: cc.Count})
	}
	return points
}
