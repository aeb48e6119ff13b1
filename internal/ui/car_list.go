package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"carmanager/internal/car"
)

// carItem implements list.Item for a car card.
type carItem struct {
	car.Record
}

func (c carItem) FilterValue() string { return c.License + " " + c.Brand + " " + c.Series }
func (c carItem) Title() string       { return c.Brand }
func (c carItem) Description() string {
	return fmt.Sprintf("License: %s · Series: %s · Remark: %s", c.License, c.Series, c.RemarkOrPlaceholder())
}

// CarListView shows one card per car in the order the backend returned them.
type CarListView struct {
	list    list.Model
	Cars    []car.Record
	spinner spinner.Model
	loading bool // a fetch is in flight
	loaded  bool // at least one fetch succeeded
}

var _ View = (*CarListView)(nil)

// NewCarListView creates an empty list. Cars arrive via SetCars.
func NewCarListView() *CarListView {
	l := list.New(nil, newCardDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))

	return &CarListView{list: l, spinner: s}
}

// SetCars replaces the displayed records. The cursor stays put when possible.
func (v *CarListView) SetCars(cars []car.Record, loaded bool) {
	v.Cars = cars
	v.loaded = loaded
	items := make([]list.Item, len(cars))
	for i, c := range cars {
		items[i] = carItem{Record: c}
	}
	idx := v.list.Index()
	v.list.SetItems(items)
	if idx >= len(items) && len(items) > 0 {
		idx = len(items) - 1
	}
	if idx >= 0 && idx < len(items) {
		v.list.Select(idx)
	}
}

// Selected returns the record under the cursor.
func (v *CarListView) Selected() (car.Record, bool) {
	i := v.list.Index()
	if i < 0 || i >= len(v.Cars) {
		return car.Record{}, false
	}
	return v.Cars[i], true
}

// Index returns the cursor position.
func (v *CarListView) Index() int {
	return v.list.Index()
}

// SetLoading sets the loading state and returns a command to start the spinner.
func (v *CarListView) SetLoading(loading bool) tea.Cmd {
	wasLoading := v.loading
	v.loading = loading
	if loading && !wasLoading {
		return v.spinner.Tick
	}
	return nil
}

// Loading reports whether a fetch is in flight.
func (v *CarListView) Loading() bool {
	return v.loading
}

// Init implements View.
func (v *CarListView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (v *CarListView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.list.SetSize(msg.Width, msg.Height-4) // header and footer
		return v, nil
	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	// j/k/g/G and paging are handled by list.Model; a/e/d never get here.
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// View implements View.
func (v *CarListView) View() string {
	if v.list.Width() == 0 {
		v.list.SetWidth(80)
	}
	if v.list.Height() == 0 {
		v.list.SetHeight(20)
	}

	var b strings.Builder
	title := Styles.Title.Render(fmt.Sprintf("Cars (%d)", len(v.Cars)))
	if v.loading {
		title += " " + v.spinner.View()
	}
	b.WriteString(title + "\n\n")

	switch {
	case len(v.Cars) > 0:
		b.WriteString(v.list.View())
	case !v.loaded && v.loading:
		b.WriteString(Styles.Empty.Render("Loading cars…"))
	case !v.loaded:
		b.WriteString(Styles.Empty.Render("Cars not loaded yet. Press r to retry."))
	default:
		b.WriteString(Styles.Empty.Render("No cars yet. Press a to add one."))
	}
	return b.String()
}
