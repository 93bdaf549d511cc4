// Package export writes the visible table of a section tab to an xlsx
// workbook, and map tabs additionally to a GeoJSON file.
package export

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/xuri/excelize/v2"

	"smartwaste-dashboard/internal/geo"
	"smartwaste-dashboard/internal/screens"
	"smartwaste-dashboard/internal/shell"
)

// Source supplies the rows and, for map tabs, the stops being exported.
type Source interface {
	Rows(section shell.Section, tab shell.TabID) screens.Table
	Stops(section shell.Section, tab shell.TabID) []geo.Stop
}

type Exporter struct {
	dir string
	src Source
	now func() time.Time
}

func New(dir string, src Source) *Exporter {
	return &Exporter{dir: dir, src: src, now: time.Now}
}

// Export implements shell.Exporter. It returns the workbook path; a GeoJSON
// file with the same base name is written next to it for map tabs.
func (e *Exporter) Export(section shell.Section, tab shell.TabID) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	base := filepath.Join(e.dir, fmt.Sprintf("%s-%s-%s", section, tab, e.now().Format("20060102-150405")))

	path := base + ".xlsx"
	if err := e.writeWorkbook(path, section, tab); err != nil {
		return "", err
	}
	if stops := e.src.Stops(section, tab); len(stops) > 0 {
		if err := writeGeoJSON(base+".geojson", stops); err != nil {
			return path, err
		}
	}
	log.Printf("✅ [EXPORT] wrote %s", path)
	return path, nil
}

func (e *Exporter) writeWorkbook(path string, section shell.Section, tab shell.TabID) error {
	table := e.src.Rows(section, tab)

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(section, tab)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2E7D32"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, name := range table.Columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, name)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(col + 1)
		f.SetColWidth(sheet, colName, colName, 20)
	}
	for r, row := range table.Rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// sheetName fits the 31 character limit excel puts on sheet names.
func sheetName(section shell.Section, tab shell.TabID) string {
	name := section.Label() + " - " + string(tab)
	name = strings.NewReplacer("/", "-", "\\", "-", "?", "", "*", "", "[", "", "]", "", ":", "").Replace(name)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func writeGeoJSON(path string, stops []geo.Stop) error {
	fc := geojson.NewFeatureCollection()
	for i, s := range stops {
		feature := geojson.NewFeature(s.Point())
		feature.Properties["label"] = s.Label
		feature.Properties["order"] = i + 1
		fc.Append(feature)
	}
	if len(stops) > 1 {
		line := geojson.NewFeature(geo.LineString(stops))
		line.Properties["kind"] = "path"
		fc.Append(line)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geojson: %w", err)
	}
	return nil
}
