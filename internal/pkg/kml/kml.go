// Package kml разбирает KML-документы вида Document → Folder* → Placemark*.
package kml

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Placemark - одна именованная точка из KML-документа.
// Координаты уже разобраны, высота (altitude) отброшена.
type Placemark struct {
	Name        string
	Description string
	Lon         float64
	Lat         float64
}

type kmlRoot struct {
	XMLName  xml.Name
	Document *kmlDocument `xml:"Document"`
	Folders  []kmlFolder  `xml:"Folder"`
}

type kmlDocument struct {
	Folders []kmlFolder `xml:"Folder"`
}

type kmlFolder struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name        string    `xml:"name"`
	Description string    `xml:"description"`
	Point       *kmlPoint `xml:"Point"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

// Parse разбирает KML-документ и возвращает все placemark'и в порядке
// обхода документа. Placemark без имени или без Point.coordinates делает
// весь документ некорректным; отсутствующее description допустимо и
// превращается в пустую строку.
func Parse(data []byte) ([]Placemark, error) {
	var root kmlRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("unmarshal kml: %w", err)
	}

	var folders []kmlFolder
	switch {
	case root.Document != nil:
		folders = root.Document.Folders
	case root.XMLName.Local == "Document":
		// Document как корневой элемент, без обёртки <kml>
		folders = root.Folders
	default:
		return nil, fmt.Errorf("kml: missing Document element")
	}

	var placemarks []Placemark
	for _, folder := range folders {
		for _, pm := range folder.Placemarks {
			name := strings.TrimSpace(pm.Name)
			if name == "" {
				return nil, fmt.Errorf("kml: placemark %d has no name", len(placemarks))
			}

			if pm.Point == nil || strings.TrimSpace(pm.Point.Coordinates) == "" {
				return nil, fmt.Errorf("kml: placemark %q has no Point.coordinates", name)
			}

			lon, lat, err := parseCoordinates(pm.Point.Coordinates)
			if err != nil {
				return nil, fmt.Errorf("kml: placemark %q: %w", name, err)
			}

			placemarks = append(placemarks, Placemark{
				Name:        name,
				Description: strings.TrimSpace(pm.Description),
				Lon:         lon,
				Lat:         lat,
			})
		}
	}

	return placemarks, nil
}

// parseCoordinates разбирает строку вида "lon,lat[,alt]".
// Берутся ровно два первых числа, высота отбрасывается.
func parseCoordinates(s string) (lon, lat float64, err error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("coordinates %q: want at least lon,lat", s)
	}

	lon, err = strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("coordinates %q: bad longitude: %w", s, err)
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("coordinates %q: bad latitude: %w", s, err)
	}

	return lon, lat, nil
}
