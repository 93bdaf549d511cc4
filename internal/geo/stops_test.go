package geo

import (
	"reflect"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestNormalizeStopsDropsUnlocatedAndKeepsOrder(t *testing.T) {
	in := []StopInput{
		{BinID: "A", Latitude: f(1), Longitude: f(1)},
		{BinID: "B", Latitude: nil, Longitude: f(2)},
		{BinID: "C", Latitude: f(3), Longitude: f(3)},
	}
	want := []Stop{
		{Label: "A", Latitude: 1, Longitude: 1},
		{Label: "C", Latitude: 3, Longitude: 3},
	}
	if got := NormalizeStops(in); !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeStops = %+v, want %+v", got, want)
	}
}

func TestNormalizeStopsLabels(t *testing.T) {
	in := []StopInput{
		{Label: "Depot", Latitude: f(0), Longitude: f(0)},
		{Latitude: f(1), Longitude: nil},
		{Latitude: f(2), Longitude: f(2)},
	}
	got := NormalizeStops(in)
	if len(got) != 2 || got[0].Label != "Depot" || got[1].Label != "3" {
		t.Errorf("labels = %+v", got)
	}
}

func TestNormalizeStopsEmpty(t *testing.T) {
	got := NormalizeStops(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v", got)
	}
}

func TestLineStringIsLngLat(t *testing.T) {
	ls := LineString([]Stop{{Latitude: 6.9, Longitude: 79.8}})
	if ls[0][0] != 79.8 || ls[0][1] != 6.9 {
		t.Errorf("point = %v", ls[0])
	}
}
