package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/shell"
)

func (m *Model) View() string {
	if m.expired {
		return m.styles.err.Render("Session expired. Sign in again with `dashboard login`.") + "\n"
	}

	header := m.headerView()
	footer := m.footerView()

	var body string
	switch {
	case m.shell.IsOpen():
		body = m.modalView()
	case m.showNotes:
		body = m.notificationsView()
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), m.mainView())
	}

	if m.width > 0 && m.height > 0 && m.shell.IsOpen() {
		avail := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
		body = lipgloss.Place(m.width, max(avail, lipgloss.Height(body)), lipgloss.Center, lipgloss.Center, body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) headerView() string {
	title := "SmartWaste Admin · " + m.shell.Section().Label()
	var status []string
	if n := m.shell.UnreadCount(); n > 0 {
		status = append(status, fmt.Sprintf("🔔 %d", n))
	}
	if m.feedState != "" {
		status = append(status, "● "+m.feedState)
	}
	if m.inFlight > 0 {
		status = append(status, m.spin.View())
	}
	line := title
	if len(status) > 0 {
		line += "   " + strings.Join(status, "  ")
	}
	style := m.styles.header
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(line)
}

func (m *Model) sidebarView() string {
	var lines []string
	for i, section := range shell.Sections() {
		label := fmt.Sprintf("%d %s", i+1, section.Label())
		if m.shell.SidebarCollapsed() {
			label = fmt.Sprintf("%d", i+1)
		}
		if section == m.shell.Section() {
			lines = append(lines, m.styles.navActive.Render(label))
		} else {
			lines = append(lines, m.styles.navItem.Render(label))
		}
	}
	return m.styles.sidebar.Render(strings.Join(lines, "\n"))
}

func (m *Model) tabsView() string {
	var parts []string
	for _, tab := range m.shell.Section().Tabs() {
		if tab.ID == m.shell.Tab() {
			parts = append(parts, m.styles.tabActive.Render(tab.Label))
		} else {
			parts = append(parts, m.styles.tab.Render(tab.Label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) mainView() string {
	var sb strings.Builder
	sb.WriteString(m.tabsView())
	sb.WriteString("\n\n")

	if m.shell.Section() == shell.SectionDashboard {
		sb.WriteString(m.fillMeterView())
		sb.WriteString("\n\n")
	}

	switch {
	case m.loadErr != "":
		sb.WriteString(m.styles.err.Render("Error: " + m.loadErr))
	case m.loading && len(m.ids) == 0:
		sb.WriteString(m.spin.View() + " Loading...")
	case len(m.table.Rows()) == 0:
		sb.WriteString(m.styles.faint.Render("No records found."))
	default:
		sb.WriteString(m.table.View())
	}

	if m.shell.Section() == shell.SectionBinManagement && m.reg.Bins.ActionErr != "" {
		sb.WriteString("\n" + m.styles.err.Render(m.reg.Bins.ActionErr))
	}
	if m.shell.Section() == shell.SectionRouteManagement && m.shell.Tab() == shell.TabRouteMap {
		sb.WriteString("\n\n" + m.routeSummaryView())
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(sb.String())
}

// fillMeterView shows the share of bins at or above the full threshold.
func (m *Model) fillMeterView() string {
	total := len(m.reg.Dashboard.Bins.Items)
	if total == 0 {
		return m.styles.faint.Render("No bin readings yet")
	}
	full := m.reg.Dashboard.FullBins()
	return fmt.Sprintf("Nearly full (≥%d%%): %d/%d  %s",
		models.FullLevelThreshold, full, total, m.meter.ViewAs(float64(full)/float64(total)))
}

func (m *Model) routeSummaryView() string {
	switch {
	case m.planner == nil:
		return m.styles.faint.Render("Directions unavailable")
	case m.route == nil:
		return m.spin.View() + " Computing route..."
	}
	s := *m.route
	if len(s.Path) == 0 {
		return m.styles.faint.Render("Select a route with at least two located stops")
	}
	line := fmt.Sprintf("Distance: %s", s.DistanceText())
	if s.StraightLine {
		line += "  (straight line)"
	} else {
		line += "  Duration: " + s.DurationText()
	}
	if m.routeErr != "" {
		line += "\n" + m.styles.warn.Render("Directions failed: "+m.routeErr)
	}
	return line
}

func (m *Model) notificationsView() string {
	notes := m.shell.Notifications()
	var sb strings.Builder
	sb.WriteString(m.styles.modalTitle.Render(fmt.Sprintf("Notifications (%d unread)", m.shell.UnreadCount())))
	sb.WriteString("\n\n")
	if len(notes) == 0 {
		sb.WriteString(m.styles.faint.Render("You're all caught up."))
	}
	for i, n := range notes {
		line := n.Title
		if n.Message != "" {
			line += " - " + n.Message
		}
		if !n.IsRead {
			line = "• " + line
		} else {
			line = "  " + line
		}
		if i == m.noteCursor {
			line = m.styles.navActive.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n" + m.styles.faint.Render("d dismiss · c clear all · n close"))
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func (m *Model) modalView() string {
	var sb strings.Builder
	sb.WriteString(m.styles.modalTitle.Render(m.shell.Title()))
	sb.WriteString("\n\n")

	if d, ok := m.shell.Modal().(shell.Delete); ok {
		sb.WriteString(strings.Join(shell.DeleteBody(m.shell.Section(), d), "\n"))
		if msg := m.shell.DeleteError(); msg != "" {
			sb.WriteString("\n\n" + m.styles.err.Render(msg))
		}
	} else if m.form != nil {
		sb.WriteString(m.form.View())
	}

	if buttons := m.shell.Footer(); len(buttons) > 0 {
		rendered := make([]string, 0, len(buttons))
		for _, b := range buttons {
			label := b.Label + " (" + buttonKey(b.Role) + ")"
			if b.Disabled {
				rendered = append(rendered, m.styles.buttonOff.Render(label))
			} else {
				rendered = append(rendered, m.styles.button.Render(label))
			}
		}
		sb.WriteString("\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return m.styles.modal.Render(sb.String())
}

func buttonKey(role shell.ButtonRole) string {
	if role == shell.ButtonCancel {
		return "esc"
	}
	return "enter"
}

func (m *Model) footerView() string {
	var lines []string
	if flash := m.shell.Flash(); flash != "" {
		lines = append(lines, m.styles.ok.Render(flash))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}
