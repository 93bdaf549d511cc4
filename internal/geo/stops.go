// Package geo turns route stops into map-ready sequences and asks Google for
// driving directions between them.
package geo

import (
	"strconv"

	"github.com/paulmach/orb"
)

// StopInput is a stop as it arrives from a route or bin listing. Either
// coordinate may be missing.
type StopInput struct {
	BinID     string
	Label     string
	Latitude  *float64
	Longitude *float64
}

// Stop is a located, labelled stop ready for the map.
type Stop struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

// Point returns the stop as an orb point (longitude first).
func (s Stop) Point() orb.Point {
	return orb.Point{s.Longitude, s.Latitude}
}

// NormalizeStops drops stops without both coordinates and keeps the order
// of the rest. Labels fall back from bin id to label to the 1-based input
// position.
func NormalizeStops(in []StopInput) []Stop {
	out := make([]Stop, 0, len(in))
	for i, s := range in {
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		label := s.BinID
		if label == "" {
			label = s.Label
		}
		if label == "" {
			label = strconv.Itoa(i + 1)
		}
		out = append(out, Stop{
			Latitude:  *s.Latitude,
			Longitude: *s.Longitude,
			Label:     label,
		})
	}
	return out
}

// LineString is the stop sequence as a straight-line path.
func LineString(stops []Stop) orb.LineString {
	ls := make(orb.LineString, len(stops))
	for i, s := range stops {
		ls[i] = s.Point()
	}
	return ls
}
