// Package forms implements the typed modal forms. A form validates its input
// before any request is made; a successful save hands control back to the
// shell through CommitModalSave.
package forms

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"smartwaste-dashboard/internal/api"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/screens"
	"smartwaste-dashboard/internal/shell"
)

// API is every mutation the forms perform.
type API interface {
	AddBin(ctx context.Context, binID string) error
	UpdateBinLocation(ctx context.Context, binID string, lat, lng float64) error
	AddTruck(ctx context.Context, req models.TruckRequest) error
	UpdateTruck(ctx context.Context, id string, req models.TruckRequest) error
	AssignCollector(ctx context.Context, truckID, collectorID string) error
	AddRoute(ctx context.Context, req models.RouteRequest) error
	UpdateRoute(ctx context.Context, id string, req models.RouteRequest) error
	AssignRoute(ctx context.Context, routeID, collectorID string) error
	Register(ctx context.Context, req models.RegisterRequest) error
	CreateCollector(ctx context.Context, req models.CollectorCreateRequest) error
	UpdateUser(ctx context.Context, id, name string) error
	AddMaintenance(ctx context.Context, body models.MaintenanceRequestBody) error
	UpdateMaintenance(ctx context.Context, id string, body models.MaintenanceRequestBody) error
	UpdateMaintenanceStatus(ctx context.Context, id, status string) error
	UpdateProfile(ctx context.Context, name string) (models.User, error)
}

// Committer is the shell's save hook.
type Committer interface {
	CommitModalSave()
}

// Form is the content of the modal slot.
type Form interface {
	Kind() shell.Form
	Update(msg tea.KeyMsg) tea.Cmd
	View() string
	// Submit validates and returns the save task. It returns nil when
	// validation failed, a save is already running, or the form has
	// nothing to save.
	Submit() screens.Task
	Err() string
	Busy() bool
}

// New builds the form the shell resolves for m in section.
func New(section shell.Section, m shell.Modal, a API, c Committer) Form {
	switch kind := shell.Resolve(section, m); kind {
	case shell.FormBin:
		return newBinForm(m, a, c)
	case shell.FormTruck:
		return newTruckForm(m, a, c)
	case shell.FormTruckAssign:
		return newTruckAssignForm(m.(shell.Assign), a, c)
	case shell.FormTrackTruck:
		return newTrackTruckForm(m.(shell.Track))
	case shell.FormRoute:
		return newRouteForm(m, a, c)
	case shell.FormRouteAssign:
		return newRouteAssignForm(m.(shell.Assign), a, c)
	case shell.FormUserCreate:
		return newUserCreateForm(m.(shell.Add), a, c)
	case shell.FormUserEdit:
		return newUserEditForm(m.(shell.Edit), a, c)
	case shell.FormMaintenance:
		return newMaintenanceForm(m, a, c)
	case shell.FormProfile:
		return newProfileForm(m.(shell.EditProfile), a, c)
	case shell.FormDeleteConfirm:
		return nil
	}
	return newFallbackForm(section, m, c)
}

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	buttonStyle  = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder())
	disabledText = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var (
	nextField = key.NewBinding(key.WithKeys("tab", "down"))
	prevField = key.NewBinding(key.WithKeys("shift+tab", "up"))
	nextOpt   = key.NewBinding(key.WithKeys("right"))
	prevOpt   = key.NewBinding(key.WithKeys("left"))
)

type option struct {
	value string
	label string
}

// field is either a text input or, when options is set, a select.
type field struct {
	label   string
	input   textinput.Model
	options []option
	choice  int
}

func textField(label, value, placeholder string) *field {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.SetValue(value)
	return &field{label: label, input: in}
}

func passwordField(label string) *field {
	f := textField(label, "", "")
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

// selectField starts on the option whose value is current, else the first.
func selectField(label string, opts []option, current string) *field {
	f := &field{label: label, options: opts}
	for i, o := range opts {
		if o.value == current {
			f.choice = i
		}
	}
	return f
}

func plainOptions(vals []string) []option {
	out := make([]option, len(vals))
	for i, v := range vals {
		out[i] = option{value: v, label: v}
	}
	return out
}

func (f *field) isSelect() bool { return f.options != nil }

func (f *field) value() string {
	if f.isSelect() {
		if f.choice < 0 || f.choice >= len(f.options) {
			return ""
		}
		return f.options[f.choice].value
	}
	return strings.TrimSpace(f.input.Value())
}

func (f *field) view(focused bool) string {
	label := labelStyle.Render(f.label)
	if focused {
		label = focusStyle.Render("› " + f.label)
	}
	if !f.isSelect() {
		return label + "\n  " + f.input.View()
	}
	if len(f.options) == 0 {
		return label + "\n  " + disabledText.Render("(none available)")
	}
	return fmt.Sprintf("%s\n  ‹ %s ›", label, f.options[f.choice].label)
}

// base carries the field list, focus, and save state shared by the forms.
type base struct {
	kind   shell.Form
	fields []*field
	focus  int
	err    string
	busy   bool
	commit Committer
}

func (b *base) Kind() shell.Form { return b.kind }
func (b *base) Err() string      { return b.err }
func (b *base) Busy() bool       { return b.busy }

// focusFirst puts the cursor in the first field.
func (b *base) focusFirst() {
	b.focus = 0
	b.refocus()
}

func (b *base) refocus() {
	for i, f := range b.fields {
		if f.isSelect() {
			continue
		}
		if i == b.focus {
			f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
}

func (b *base) Update(msg tea.KeyMsg) tea.Cmd {
	if b.busy || len(b.fields) == 0 {
		return nil
	}
	switch {
	case key.Matches(msg, nextField):
		b.focus = (b.focus + 1) % len(b.fields)
		b.refocus()
		return nil
	case key.Matches(msg, prevField):
		b.focus = (b.focus - 1 + len(b.fields)) % len(b.fields)
		b.refocus()
		return nil
	}

	f := b.fields[b.focus]
	if f.isSelect() {
		if n := len(f.options); n > 0 {
			switch {
			case key.Matches(msg, nextOpt):
				f.choice = (f.choice + 1) % n
			case key.Matches(msg, prevOpt):
				f.choice = (f.choice - 1 + n) % n
			}
		}
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (b *base) renderFields() string {
	parts := make([]string, 0, len(b.fields))
	for i, f := range b.fields {
		parts = append(parts, f.view(i == b.focus))
	}
	return strings.Join(parts, "\n\n")
}

// chrome adds the inline error and the form's own buttons under body.
func (b *base) chrome(body, submitLabel string) string {
	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString("\n\n")
	if b.err != "" {
		sb.WriteString(errorStyle.Render(b.err))
		sb.WriteString("\n")
	}
	if b.busy {
		submitLabel = "Saving..."
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		buttonStyle.Render("Cancel (esc)"), " ", buttonStyle.Render(submitLabel+" (enter)")))
	return sb.String()
}

// invalid records a validation failure and returns no task.
func (b *base) invalid(msg string) screens.Task {
	b.err = msg
	return nil
}

// save marks the form busy and returns the task running op. On success the
// shell closes the modal and refreshes; on failure the message stays in the
// form.
func (b *base) save(op func(context.Context) error, fallback string) screens.Task {
	if b.busy {
		return nil
	}
	b.err = ""
	b.busy = true
	return func(ctx context.Context) screens.Update {
		err := op(ctx)
		return func() {
			b.busy = false
			if err != nil {
				log.Printf("❌ [FORMS] %s: %v", fallback, err)
				b.err = api.Message(err, fallback)
				return
			}
			b.commit.CommitModalSave()
		}
	}
}

// fallbackForm stands in for kind/section pairs with no configured form.
// The shell owns its Cancel/Save buttons.
type fallbackForm struct {
	commit Committer
	lines  []string
}

func newFallbackForm(section shell.Section, m shell.Modal, c Committer) *fallbackForm {
	entity := strings.ToLower(shell.EntityLabel(section, ""))
	lines := []string{fmt.Sprintf("Form fields for '%s' on a %s would go here.", m.Kind(), entity)}
	if target := targetOf(m); target != nil {
		lines = append(lines, "Item ID: "+target.EntityID())
	}
	return &fallbackForm{commit: c, lines: lines}
}

func targetOf(m shell.Modal) models.Entity {
	switch m := m.(type) {
	case shell.Edit:
		return m.Target
	case shell.Complete:
		return m.Target
	case shell.Track:
		return m.Truck
	}
	return nil
}

func (f *fallbackForm) Kind() shell.Form          { return shell.FormFallback }
func (f *fallbackForm) Update(tea.KeyMsg) tea.Cmd { return nil }
func (f *fallbackForm) Err() string               { return "" }
func (f *fallbackForm) Busy() bool                { return false }

func (f *fallbackForm) View() string {
	return strings.Join(f.lines, "\n")
}

// Submit is the Save button: close and refresh without a request.
func (f *fallbackForm) Submit() screens.Task {
	return func(context.Context) screens.Update {
		return f.commit.CommitModalSave
	}
}
