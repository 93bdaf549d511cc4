package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/xuri/excelize/v2"

	"smartwaste-dashboard/internal/geo"
	"smartwaste-dashboard/internal/screens"
	"smartwaste-dashboard/internal/shell"
)

type fakeSource struct {
	table screens.Table
	stops []geo.Stop
}

func (f fakeSource) Rows(shell.Section, shell.TabID) screens.Table { return f.table }
func (f fakeSource) Stops(shell.Section, shell.TabID) []geo.Stop   { return f.stops }

func fixedClock() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }

func TestExportWorkbook(t *testing.T) {
	dir := t.TempDir()
	e := New(filepath.Join(dir, "out"), fakeSource{table: screens.Table{
		Columns: []string{"Registration", "Capacity"},
		Rows:    [][]string{{"WP-1", "5000"}, {"WP-2", "3000"}},
	}})
	e.now = fixedClock

	path, err := e.Export(shell.SectionTruckManagement, shell.TabFleet)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "truck-management-fleet-20260504-100000.xlsx" {
		t.Errorf("path = %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheet := f.GetSheetList()[0]
	if sheet != "Truck Management - fleet" {
		t.Errorf("sheet = %q", sheet)
	}
	for cell, want := range map[string]string{"A1": "Registration", "B1": "Capacity", "A3": "WP-2", "B2": "5000"} {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil || got != want {
			t.Errorf("%s = %q (%v), want %q", cell, got, err, want)
		}
	}
	if _, err := os.Stat(strings.TrimSuffix(path, ".xlsx") + ".geojson"); !os.IsNotExist(err) {
		t.Error("non-map tab wrote geojson")
	}
}

func TestExportMapTabWritesGeoJSON(t *testing.T) {
	dir := t.TempDir()
	stops := geo.NormalizeStops([]geo.StopInput{
		{BinID: "B-1", Latitude: ptr(6.9), Longitude: ptr(79.8)},
		{BinID: "B-2", Latitude: ptr(6.95), Longitude: ptr(79.85)},
	})
	e := New(dir, fakeSource{table: screens.Table{Columns: []string{"Stop"}}, stops: stops})
	e.now = fixedClock

	path, err := e.Export(shell.SectionRouteManagement, shell.TabRouteMap)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(strings.TrimSuffix(path, ".xlsx") + ".geojson")
	if err != nil {
		t.Fatal(err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("features = %d", len(fc.Features))
	}
	if fc.Features[0].Properties.MustString("label", "") != "B-1" {
		t.Errorf("first label = %v", fc.Features[0].Properties["label"])
	}
	if fc.Features[2].Geometry.GeoJSONType() != "LineString" {
		t.Errorf("last feature = %s", fc.Features[2].Geometry.GeoJSONType())
	}
}

func TestSheetNameLimit(t *testing.T) {
	name := sheetName(shell.SectionTruckManagement, shell.TabOnRoute)
	if len(name) > 31 {
		t.Errorf("sheet name %q too long", name)
	}
}

func ptr(v float64) *float64 { return &v }
