package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the console palette. Colors are ANSI 256 codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Accent     lipgloss.Color
	ErrorText  lipgloss.Color
	WarnText   lipgloss.Color
	OKText     lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	HeaderBackground lipgloss.Color
	BorderColor      lipgloss.Color
}

var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	Accent:             lipgloss.Color("42"),
	ErrorText:          lipgloss.Color("196"),
	WarnText:           lipgloss.Color("214"),
	OKText:             lipgloss.Color("35"),
	SelectedBackground: lipgloss.Color("22"),
	SelectedForeground: lipgloss.Color("231"),
	HeaderForeground:   lipgloss.Color("231"),
	HeaderBackground:   lipgloss.Color("28"),
	BorderColor:        lipgloss.Color("240"),
}

// styles are derived once per theme.
type styles struct {
	header     lipgloss.Style
	sidebar    lipgloss.Style
	navItem    lipgloss.Style
	navActive  lipgloss.Style
	tab        lipgloss.Style
	tabActive  lipgloss.Style
	faint      lipgloss.Style
	err        lipgloss.Style
	warn       lipgloss.Style
	ok         lipgloss.Style
	modal      lipgloss.Style
	modalTitle lipgloss.Style
	button     lipgloss.Style
	buttonOff  lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		header: lipgloss.NewStyle().
			Foreground(t.HeaderForeground).
			Background(t.HeaderBackground).
			Bold(true).
			Padding(0, 1),
		sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(t.BorderColor).
			Padding(0, 1),
		navItem:   lipgloss.NewStyle().Foreground(t.NormalText),
		navActive: lipgloss.NewStyle().Foreground(t.SelectedForeground).Background(t.SelectedBackground).Bold(true),
		tab:       lipgloss.NewStyle().Foreground(t.FaintText).Padding(0, 1),
		tabActive: lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true).Padding(0, 1),
		faint:     lipgloss.NewStyle().Foreground(t.FaintText),
		err:       lipgloss.NewStyle().Foreground(t.ErrorText),
		warn:      lipgloss.NewStyle().Foreground(t.WarnText),
		ok:        lipgloss.NewStyle().Foreground(t.OKText),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Padding(1, 2),
		modalTitle: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		button:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		buttonOff:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Foreground(t.FaintText),
	}
}
