package forms

import (
	"context"
	"log"

	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/screens"
	"smartwaste-dashboard/internal/shell"
)

const (
	maintBin = iota
	maintType
	maintDescription
	maintPriority
	maintStatus
)

// maintenanceForm files a new request or edits an existing one. Status is
// only editable on existing requests and is saved with its own call.
type maintenanceForm struct {
	base
	api      API
	existing *models.MaintenanceRequest
}

func newMaintenanceForm(m shell.Modal, a API, c Committer) *maintenanceForm {
	f := &maintenanceForm{base: base{kind: shell.FormMaintenance, commit: c}, api: a}

	var bins []models.Bin
	current := models.MaintenanceRequest{
		RequestType: models.MaintenanceRequestTypes[0],
		Priority:    models.PriorityMedium,
		Status:      models.MaintenancePending,
	}
	switch m := m.(type) {
	case shell.AddMaintenance:
		bins = m.Bins
	case shell.EditMaintenance:
		bins = m.Bins
		req := m.Request
		f.existing = &req
		current = req
	}

	binOpts := []option{{value: "", label: "-- Select a bin --"}}
	for _, b := range bins {
		binOpts = append(binOpts, option{value: b.BinID, label: b.BinID})
	}
	if f.existing != nil && !hasOption(binOpts, current.BinID) {
		binOpts = append(binOpts, option{value: current.BinID, label: current.BinID})
	}

	f.fields = []*field{
		selectField("Bin", binOpts, current.BinID),
		selectField("Request Type", plainOptions(models.MaintenanceRequestTypes), current.RequestType),
		textField("Description", current.Description, "What is wrong with the bin?"),
		selectField("Priority", plainOptions(models.MaintenancePriorities), current.Priority),
	}
	if f.existing != nil {
		f.fields = append(f.fields, selectField("Status", plainOptions(models.MaintenanceStatuses), current.Status))
	}
	f.focusFirst()
	return f
}

func hasOption(opts []option, v string) bool {
	for _, o := range opts {
		if o.value == v {
			return true
		}
	}
	return false
}

func (f *maintenanceForm) View() string {
	label := "Submit Request"
	if f.existing != nil {
		label = "Update Request"
	}
	return f.chrome(f.renderFields(), label)
}

func (f *maintenanceForm) Submit() screens.Task {
	body := models.MaintenanceRequestBody{
		BinID:       f.fields[maintBin].value(),
		RequestType: f.fields[maintType].value(),
		Description: f.fields[maintDescription].value(),
		Priority:    f.fields[maintPriority].value(),
	}
	if body.BinID == "" {
		return f.invalid("Please select a bin.")
	}
	if body.Description == "" {
		return f.invalid("Description is required.")
	}

	if f.existing == nil {
		return f.save(func(ctx context.Context) error {
			return f.api.AddMaintenance(ctx, body)
		}, "Failed to save request details")
	}

	id, before := f.existing.ID, f.existing.Status
	status := f.fields[maintStatus].value()
	return f.save(func(ctx context.Context) error {
		if err := f.api.UpdateMaintenance(ctx, id, body); err != nil {
			return err
		}
		if status != before {
			if err := f.api.UpdateMaintenanceStatus(ctx, id, status); err != nil {
				log.Printf("⚠️ [FORMS] status update for %s failed: %v", id, err)
			}
		}
		return nil
	}, "Failed to save request details")
}
