package forms

import (
	"context"
	"strconv"

	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/screens"
	"smartwaste-dashboard/internal/shell"
)

// binForm adds a bin by id, or moves an existing bin.
type binForm struct {
	base
	api    API
	target *models.Bin
}

func newBinForm(m shell.Modal, a API, c Committer) *binForm {
	f := &binForm{base: base{kind: shell.FormBin, commit: c}, api: a}
	if e, ok := m.(shell.Edit); ok {
		if bin, ok := e.Target.(models.Bin); ok {
			f.target = &bin
		}
	}
	if f.target == nil {
		f.fields = []*field{textField("Bin ID", "", "e.g. BIN-0042")}
	} else {
		f.fields = []*field{
			textField("Latitude", coord(f.target.Latitude), "6.9271"),
			textField("Longitude", coord(f.target.Longitude), "79.8612"),
		}
	}
	f.focusFirst()
	return f
}

func coord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func (f *binForm) View() string {
	body := f.renderFields()
	label := "Add Bin"
	if f.target != nil {
		body = labelStyle.Render("Bin ID: "+f.target.BinID) + "\n\n" + body
		label = "Update Location"
	}
	return f.chrome(body, label)
}

func (f *binForm) Submit() screens.Task {
	if f.target == nil {
		binID := f.fields[0].value()
		if binID == "" {
			return f.invalid("Bin ID cannot be empty.")
		}
		return f.save(func(ctx context.Context) error {
			return f.api.AddBin(ctx, binID)
		}, "Failed to save bin")
	}

	lat, errLat := strconv.ParseFloat(f.fields[0].value(), 64)
	lng, errLng := strconv.ParseFloat(f.fields[1].value(), 64)
	if errLat != nil || errLng != nil {
		return f.invalid("Latitude and Longitude must be valid numbers.")
	}
	id := f.target.BinID
	return f.save(func(ctx context.Context) error {
		return f.api.UpdateBinLocation(ctx, id, lat, lng)
	}, "Failed to update bin location")
}
