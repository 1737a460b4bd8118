package tui

import (
	"fmt"
	"strings"
	"time"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/unowned-ai/medtrack/pkg/calendar"
	"github.com/unowned-ai/medtrack/pkg/config"
	"github.com/unowned-ai/medtrack/pkg/controller"
	"github.com/unowned-ai/medtrack/pkg/datekey"
	"github.com/unowned-ai/medtrack/pkg/daylist"
	"github.com/unowned-ai/medtrack/pkg/locale"
	"github.com/unowned-ai/medtrack/pkg/reminders"
)

type mode int

const (
	modeBrowse mode = iota
	modeConfirmDelete
	modeAddMedication
	modeAddEvent
)

type model struct {
	ctl   *controller.Controller
	state *sharedState
	loc   *locale.Locale
	cal   config.Calendar
	now   func() time.Time

	width  int // Current terminal width (for layout)
	height int // Current terminal height

	dbFilename string
	quitting   bool

	mode        mode
	entryCursor int // Index of selected day list entry
	confirmIdx  int // 0 = "Yes" selected, 1 = "No"

	formStep  int // 0 = editing name, 1 = editing time
	formError string
	nameInput textinput.Model
	timeInput textinput.Model

	// Smooth scrolling of the date strip toward scrollTarget.
	scrollTarget int
	animating    bool

	// Animation state
	marqueeOffset int
	marqueeTimer  int
}

// Initialize TUI model
func initModel(store *reminders.Store, loc *locale.Locale, cal config.Calendar, dbFilename string, log zerolog.Logger) model {
	st := &sharedState{}
	cal = terminalCalendar(cal)
	ctl := newController(store, loc, cal, st, log)
	ctl.Refresh()

	name := textinput.New()
	name.CharLimit = 256

	clock := textinput.New()
	clock.Placeholder = "HH:MM"
	clock.CharLimit = 5

	return model{
		ctl:        ctl,
		state:      st,
		loc:        loc,
		cal:        cal,
		now:        time.Now,
		dbFilename: dbFilename,
		confirmIdx: 1,
		nameInput:  name,
		timeInput:  clock,
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickDuration, func(t time.Time) tea.Msg {
		return t
	})
}

func (m model) Init() tea.Cmd {
	return tick()
}

// Processes events like window resize, ticks and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		strip := m.ctl.Strip()
		first := strip.Viewport() == 0
		strip.SetViewport(max(msg.Width-4, cellColumns))
		if first {
			strip.ScrollTo(strip.CenterOn(strip.SelectedOffset()))
		}
		return m, nil

	case time.Time:
		m.rollDay()
		m.stepScroll()
		// Update marquee animation every x ticks (adjust for speed)
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, tick()

	case tea.KeyMsg:
		switch m.mode {
		case modeAddMedication, modeAddEvent:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.state.notice = ""

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		// Exit alt screen before quitting so the goodbye message displays
		return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

	case "left", "h":
		m.shiftDay(-1)
	case "right", "l":
		m.shiftDay(1)
	case "T":
		m.selectDay(m.now())

	case "H":
		m.scrollBy(-7 * cellColumns)
	case "L":
		m.scrollBy(7 * cellColumns)

	case "up", "k":
		if m.entryCursor > 0 {
			m.entryCursor--
		}
	case "down", "j":
		if m.entryCursor < len(m.entries())-1 {
			m.entryCursor++
		}

	case "enter", "t":
		m.takeCurrent()

	case "d":
		if _, ok := m.currentEntry(); ok {
			m.confirmIdx = 1
			m.mode = modeConfirmDelete
		}

	case "m":
		m.openForm(modeAddMedication, "")
	case "e":
		// The event time starts at the current time, as the user usually
		// records something that just happened.
		m.openForm(modeAddEvent, datekey.FormatClock(m.now()))
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.confirmIdx = 0
	case "down", "j":
		m.confirmIdx = 1
	case "enter":
		m.mode = modeBrowse
		m.deleteCurrent(m.confirmIdx == 0)
	case "esc":
		// Cancel deletion on Escape
		m.mode = modeBrowse
		m.deleteCurrent(false)
	}
	return m, nil
}

func (m *model) openForm(md mode, clock string) {
	m.mode = md
	m.formStep = 0
	m.formError = ""
	m.nameInput.Reset()
	m.timeInput.Reset()
	m.timeInput.SetValue(clock)
	m.nameInput.Placeholder = "Name"
	m.timeInput.Blur()
	m.nameInput.Focus()
}

func (m *model) closeForm() {
	m.mode = modeBrowse
	m.formStep = 0
	m.formError = ""
	m.nameInput.Blur()
	m.timeInput.Blur()
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeForm()
		return m, nil

	case tea.KeyTab, tea.KeyShiftTab:
		m.toggleFormStep()
		return m, nil

	case tea.KeyEnter:
		if m.formStep == 0 {
			// Press Enter on name field -> move to time field
			m.toggleFormStep()
			return m, nil
		}
		intent := controller.AddMedication
		if m.mode == modeAddEvent {
			intent = controller.AddEvent
		}
		m.state.notice = ""
		err := m.dispatch(controller.Request{Intent: intent, Name: m.nameInput.Value(), Time: m.timeInput.Value()})
		if err != nil && reminders.IsValidation(err) {
			// Keep the form open so the input can be fixed.
			m.formError = m.state.notice
			m.state.notice = ""
			return m, nil
		}
		m.closeForm()
		return m, nil
	}

	// Route character input to the focused text field
	var cmd tea.Cmd
	if m.formStep == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.timeInput, cmd = m.timeInput.Update(msg)
	}
	return m, cmd
}

func (m *model) toggleFormStep() {
	if m.formStep == 0 {
		m.formStep = 1
		m.nameInput.Blur()
		m.timeInput.Focus()
		return
	}
	m.formStep = 0
	m.timeInput.Blur()
	m.nameInput.Focus()
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Medtrack closed. Everything is saved.\n"
	}
	// Nothing to lay out until the first WindowSizeMsg.
	if m.width <= 0 {
		return "Loading...\n"
	}

	titleBar := titleStyle.Width(m.width).Render("Medtrack - medications and events")

	strip := m.renderStrip()

	bordersAndPaddingWidth := 4
	leftWidth := (m.width * 2) / 3
	rightWidth := m.width - leftWidth

	innerLeft := max(leftWidth-bordersAndPaddingWidth, 0)
	innerRight := max(rightWidth-bordersAndPaddingWidth, 1)
	m.nameInput.Width = innerRight
	m.timeInput.Width = innerRight

	panelHeight := max(m.height-9, 3)

	leftPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(leftWidth).Height(panelHeight).
		Render(m.renderDay(innerLeft))

	rightPanel := lipgloss.NewStyle().Padding(0, 2).
		Width(rightWidth).Height(panelHeight).
		Render(m.renderSide(innerRight))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	footerText := "←/→ day • H/L scroll • T today • ↑/↓ select • t take • d delete • m medication • e event • q quit"
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n\n" + strip + "\n\n" + columns + "\n" + footerBar
}

// renderStrip draws the items of the date strip that fit in the viewport.
func (m model) renderStrip() string {
	strip := m.ctl.Strip()
	first, last := strip.Visible()
	items := strip.Items()

	var b strings.Builder
	b.WriteString("  ")
	if last > first {
		b.WriteString(strings.Repeat(" ", strip.ItemX(first)-strip.Scroll()))
	}
	for _, it := range items[first:last] {
		if it.Kind == calendar.KindDivider {
			b.WriteString(dividerStyle.Render(fmt.Sprintf("│%-10.10s ", it.Label)))
			continue
		}
		cell := fmt.Sprintf("%-3.3s %2d", it.Weekday, it.Number)
		switch {
		case it.Selected:
			cell = selectedStyle.Render(cell)
		case it.Today:
			cell = todayStyle.Render(cell)
		default:
			cell = inactiveStyle.Render(cell)
		}
		b.WriteString(cell + " ")
	}
	return b.String()
}

func (m model) renderDay(width int) string {
	var b strings.Builder
	day := m.state.frame.Day
	selected := m.state.frame.Selected

	header := fmt.Sprintf("  %s %d %s %d", m.loc.WeekdayShort(selected.Weekday()),
		selected.Day(), m.loc.MonthName(selected.Month()), selected.Year())
	b.WriteString(subtitleStyle.Width(width).Render(header))
	b.WriteString("\n\n")

	if day.IsEmpty() {
		b.WriteString("  " + day.Empty + "\n")
		return b.String()
	}

	for i, e := range day.Entries {
		focused := i == m.entryCursor
		pointer := generateLinePointer(focused, 2)

		label := ""
		switch e.Action {
		case daylist.ActionTake:
			label = takeStyle.Render("[" + e.Label + "]")
		case daylist.ActionTakenLabel:
			label = takenStyle.Render(e.Label)
		case daylist.ActionNotTakenLabel:
			label = notTakenStyle.Render(e.Label)
		}

		nameWidth := max(width-len(pointer)-6-lipgloss.Width(label)-2, 0)
		name := truncate(e.Name, nameWidth)
		if focused {
			name = m.marqueeText(e.Name, nameWidth)
		}
		name = fmt.Sprintf("%-*s", nameWidth, name)

		itemStyle := inactiveStyle
		if e.Kind == daylist.KindEvent {
			itemStyle = eventStyle
		}
		if focused {
			itemStyle = selectedStyle
		}
		b.WriteString(pointer + itemStyle.Render(e.Time+" "+name) + " " + label + "\n")
	}
	return b.String()
}

func (m model) renderSide(width int) string {
	var b strings.Builder

	switch m.mode {
	case modeAddMedication, modeAddEvent:
		title := "New medication"
		if m.mode == modeAddEvent {
			title = "New event on " + datekey.Format(m.state.frame.Selected)
		}
		b.WriteString(subtitleStyle.Width(width).Render(title))
		b.WriteString("\n\n")
		b.WriteString("Name: " + m.nameInput.View() + "\n")
		b.WriteString("Time: " + m.timeInput.View() + "\n\n")
		b.WriteString("(enter to continue, tab to switch, esc to cancel)")
		if m.formError != "" {
			b.WriteString("\n\n" + textRedStyle.Render(m.formError) + "\n")
		}

	case modeConfirmDelete:
		e, _ := m.currentEntry()
		b.WriteString(subtitleStyle.Width(width).Render(m.loc.Labels.Delete))
		b.WriteString("\n\n")
		b.WriteString(m.loc.Labels.ConfirmDelete + "\n")
		b.WriteString(textRedStyle.Render(e.Name) + "\n\n")
		yesOpt, noOpt := "Yes", "No"
		if m.confirmIdx == 0 {
			yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
			noOpt = inactiveStyle.Render("  " + noOpt)
		} else {
			yesOpt = inactiveStyle.Render("  " + yesOpt)
			noOpt = selectedStyle.Render(" >" + noOpt)
		}
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", yesOpt, noOpt))
		b.WriteString("(enter to confirm, esc to cancel, up/down to switch)")

	default:
		b.WriteString(subtitleStyle.Width(width).Render("Info"))
		b.WriteString("\n\n")
		databaseStatus := 0
		if m.dbFilename != "" {
			databaseStatus = 1
		}
		w := m.ctl.Strip().Window()
		b.WriteString(fmt.Sprintf("Database file: %s\nMedications: %d\nCalendar: %+d..%+d days\n",
			TextStatusColorize(m.dbFilename, databaseStatus),
			len(m.ctl.Store().Medications()), w.Min, w.Max))
	}

	if m.state.notice != "" {
		b.WriteString("\n\n" + TextStatusColorize(m.state.notice, 2))
	}
	return b.String()
}

// ShowTUI creates and starts the Bubble Tea TUI on store.
func ShowTUI(store *reminders.Store, loc *locale.Locale, cal config.Calendar, dbFilename string, log zerolog.Logger) error {
	p := tea.NewProgram(initModel(store, loc, cal, dbFilename, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
