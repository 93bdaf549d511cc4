// Package shell is the console's navigation, modal and notification state
// machine. All mutation goes through the named operations; the zero-or-one
// open modal is the only thing deciding which form is shown.
package shell

import (
	"context"
	"fmt"
	"log"
	"slices"

	"smartwaste-dashboard/internal/models"
)

// DefaultNarrowWidth is the terminal width, in columns, below which the
// sidebar collapses.
const DefaultNarrowWidth = 100

// Exporter writes the rows of a section/tab somewhere and reports where.
type Exporter interface {
	Export(section Section, tab TabID) (string, error)
}

type Option func(*Shell)

func WithNarrowWidth(cols int) Option {
	return func(s *Shell) {
		if cols > 0 {
			s.narrowWidth = cols
		}
	}
}

func WithExporter(e Exporter) Option {
	return func(s *Shell) { s.exporter = e }
}

// SetExporter replaces the exporter after construction, for exporters that
// read from screens built on top of the shell.
func (s *Shell) SetExporter(e Exporter) { s.exporter = e }

func WithNotifications(n []models.Notification) Option {
	return func(s *Shell) { s.notifications = slices.Clone(n) }
}

type Shell struct {
	section          Section
	tab              TabID
	narrowWidth      int
	narrow           bool
	sidebarCollapsed bool

	modal     Modal
	modalGen  uint64
	deleting  bool
	deleteErr string

	refresh       uint64
	notifications []models.Notification
	seeded        bool
	flash         string
	exporter      Exporter
}

// Dispatcher is the part of the shell that screens are given.
type Dispatcher interface {
	RequestAction(Action)
}

func New(opts ...Option) *Shell {
	s := &Shell{
		section:     SectionDashboard,
		tab:         SectionDashboard.FirstTab(),
		narrowWidth: DefaultNarrowWidth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Shell) Section() Section       { return s.section }
func (s *Shell) Tab() TabID             { return s.tab }
func (s *Shell) SidebarCollapsed() bool { return s.sidebarCollapsed }
func (s *Shell) Narrow() bool           { return s.narrow }

// Epoch is the refresh counter. Screens key their fetches on it.
func (s *Shell) Epoch() uint64 { return s.refresh }

// Modal returns the open modal, or nil.
func (s *Shell) Modal() Modal { return s.modal }

func (s *Shell) IsOpen() bool { return s.modal != nil }

// ModalGeneration changes every time the modal slot is opened or closed.
func (s *Shell) ModalGeneration() uint64 { return s.modalGen }

// Deleting reports whether a delete confirmation is in flight.
func (s *Shell) Deleting() bool { return s.deleting }

// DeleteError is the last failed delete, shown inside the open modal.
func (s *Shell) DeleteError() string { return s.deleteErr }

// Flash is the latest one-line status message.
func (s *Shell) Flash() string { return s.flash }

func (s *Shell) SetFlash(msg string) { s.flash = msg }

// Form is the resolved form for the open modal.
func (s *Shell) Form() Form {
	if s.modal == nil {
		return FormFallback
	}
	return Resolve(s.section, s.modal)
}

// Title is the heading of the open modal.
func (s *Shell) Title() string { return Title(s.section, s.modal) }

// Footer lists the shell-owned buttons of the open modal.
func (s *Shell) Footer() []Button {
	if s.modal == nil {
		return nil
	}
	return Footer(s.section, s.modal, s.deleting)
}

// ChangeSection moves to section and its first tab. An open modal stays
// open.
func (s *Shell) ChangeSection(section Section) {
	if _, ok := lookup(section); !ok {
		log.Printf("⚠️ [SHELL] ignoring unknown section %q", section)
		return
	}
	s.section = section
	s.tab = section.FirstTab()
	if s.narrow {
		s.sidebarCollapsed = true
	}
}

// ChangeTab selects a tab of the current section.
func (s *Shell) ChangeTab(tab TabID) {
	if !s.section.HasTab(tab) {
		log.Printf("⚠️ [SHELL] tab %q is not part of %s", tab, s.section)
		return
	}
	s.tab = tab
}

// SetViewportWidth re-derives the narrow flag; the sidebar follows it
// until toggled.
func (s *Shell) SetViewportWidth(cols int) {
	s.narrow = cols < s.narrowWidth
	s.sidebarCollapsed = s.narrow
}

func (s *Shell) ToggleSidebar() {
	s.sidebarCollapsed = !s.sidebarCollapsed
}

// RequestAction is how screens ask for a modal or a shell side effect.
func (s *Shell) RequestAction(a Action) {
	switch a := a.(type) {
	case Refresh:
		s.refresh++
	case Export:
		s.export()
	case DismissNotification:
		s.dismiss(a.ID)
	case ClearNotifications:
		s.notifications = nil
	case Modal:
		s.open(a)
	default:
		log.Printf("⚠️ [SHELL] unknown action %#v ignored", a)
	}
}

// Dispatch is RequestAction for callers holding a kind name. Unknown kinds
// are logged and ignored; a recognized kind missing its payload closes the
// modal with a warning.
func (s *Shell) Dispatch(kind string, p Payload) {
	a, known, err := parseAction(kind, p)
	if !known {
		log.Printf("⚠️ [SHELL] unknown action kind %q ignored", kind)
		return
	}
	if err != nil {
		log.Printf("⚠️ [SHELL] %v; closing modal", err)
		s.CloseModal()
		return
	}
	s.RequestAction(a)
}

func (s *Shell) open(m Modal) {
	s.modal = m
	s.modalGen++
	s.deleting = false
	s.deleteErr = ""
}

// CloseModal empties the modal slot and clears any in-flight delete.
func (s *Shell) CloseModal() {
	s.modal = nil
	s.modalGen++
	s.deleting = false
	s.deleteErr = ""
}

// CommitModalSave is the success path of every form: close, then refresh.
func (s *Shell) CommitModalSave() {
	s.CloseModal()
	s.RequestAction(Refresh{})
}

// PendingDelete is a delete confirmation handed out by BeginDelete.
type PendingDelete struct {
	gen     uint64
	Command DeleteCommand
}

// BeginDelete marks the delete modal busy and returns the command to run.
// ok is false when there is nothing to run: no delete modal, one already
// in flight, or a modal without a command (which is closed with a warning).
func (s *Shell) BeginDelete() (PendingDelete, bool) {
	d, isDelete := s.modal.(Delete)
	if !isDelete || s.deleting {
		return PendingDelete{}, false
	}
	if d.Command == nil || d.Command.Confirm == nil {
		log.Printf("⚠️ [SHELL] delete modal has no delete command; closing")
		s.CloseModal()
		return PendingDelete{}, false
	}
	s.deleting = true
	s.deleteErr = ""
	return PendingDelete{gen: s.modalGen, Command: *d.Command}, true
}

// FinishDelete applies the outcome of a pending delete. On failure the
// modal stays open with the error; on success the modal closes and the
// refresh counter moves once. If the modal was closed or replaced while the
// call ran, only the refresh (on success) is applied.
func (s *Shell) FinishDelete(p PendingDelete, err error) {
	if p.gen != s.modalGen {
		if err != nil {
			log.Printf("❌ [SHELL] delete of %s failed after its modal closed: %v", p.Command.TargetID, err)
			return
		}
		s.RequestAction(Refresh{})
		return
	}
	s.deleting = false
	if err != nil {
		log.Printf("❌ [SHELL] delete of %s failed: %v", p.Command.TargetID, err)
		s.deleteErr = err.Error()
		return
	}
	s.CommitModalSave()
}

// ConfirmDelete runs the delete protocol synchronously.
func (s *Shell) ConfirmDelete(ctx context.Context) error {
	p, ok := s.BeginDelete()
	if !ok {
		return nil
	}
	err := p.Command.Confirm(ctx)
	s.FinishDelete(p, err)
	return err
}

func (s *Shell) export() {
	ack := fmt.Sprintf("Exporting data from %s - %s", s.section, s.tab)
	s.flash = ack
	if s.exporter == nil {
		return
	}
	path, err := s.exporter.Export(s.section, s.tab)
	if err != nil {
		log.Printf("❌ [SHELL] export failed: %v", err)
		s.flash = ack + " (failed: " + err.Error() + ")"
		return
	}
	if path != "" {
		s.flash = ack + " → " + path
	}
}
