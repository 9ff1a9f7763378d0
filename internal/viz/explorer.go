package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mswell/internal/hydraulics"
)

type view int

const (
	viewEmulsion view = iota
	viewFriction
)

var paramKeys = []string{"critical", "width", "max_ratio", "mu_water", "mu_oil", "diameter", "roughness"}

// Explorer is a Bubble Tea model that redraws the emulsion viscosity and
// friction factor curves while their parameters are tuned.
type Explorer struct {
	params        map[string]float64
	initialParams map[string]float64
	selected      int
	view          view
	showHelp      bool
	plot          string
	err           error
}

// NewExplorer starts from the given device and the default fluids and pipe.
func NewExplorer(icd hydraulics.SICD) Explorer {
	params := map[string]float64{
		"critical":  icd.CriticalWaterCut,
		"width":     icd.WidthTransition,
		"max_ratio": icd.MaxViscRatio,
		"mu_water":  1e-3,
		"mu_oil":    4e-3,
		"diameter":  0.1,
		"roughness": 1e-5,
	}
	initial := make(map[string]float64, len(params))
	for k, v := range params {
		initial[k] = v
	}
	e := Explorer{params: params, initialParams: initial}
	e.redraw()
	return e
}

// Param returns the current value of a tunable parameter.
func (e Explorer) Param(key string) float64 { return e.params[key] }

// Selected returns the key of the parameter the arrows adjust.
func (e Explorer) Selected() string { return paramKeys[e.selected] }

// Err returns the error of the last redraw.
func (e Explorer) Err() error { return e.err }

func (e Explorer) sicd() hydraulics.SICD {
	icd := hydraulics.DefaultSICD()
	icd.CriticalWaterCut = e.params["critical"]
	icd.WidthTransition = e.params["width"]
	icd.MaxViscRatio = e.params["max_ratio"]
	return icd
}

func (e *Explorer) redraw() {
	var (
		out string
		err error
	)
	switch e.view {
	case viewFriction:
		out, err = FrictionPlot(e.params["diameter"], e.params["roughness"])
	default:
		out, err = EmulsionPlot(e.sicd(), e.params["mu_water"], e.params["mu_oil"])
	}
	e.plot, e.err = out, err
}

func (e Explorer) Init() tea.Cmd { return nil }

// Update handles key presses.
func (e Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return e, tea.Quit
	case "tab":
		e.selected = (e.selected + 1) % len(paramKeys)
	case "up", "k":
		e.adjust(1.05)
	case "down", "j":
		e.adjust(0.95)
	case "v":
		e.view = (e.view + 1) % 2
	case "r":
		e.reset()
	case "t":
		NextTheme()
	case "?":
		e.showHelp = !e.showHelp
	default:
		return e, nil
	}
	e.redraw()
	return e, nil
}

func (e *Explorer) adjust(factor float64) {
	key := paramKeys[e.selected]
	v := e.params[key] * factor
	switch key {
	case "critical":
		v = min(v, 1)
	case "max_ratio":
		v = max(v, 1)
	}
	e.params[key] = v
}

func (e *Explorer) reset() {
	for k, v := range e.initialParams {
		e.params[k] = v
	}
}

// View renders the chart next to the parameter panel.
func (e Explorer) View() string {
	title := "EMULSION VISCOSITY"
	if e.view == viewFriction {
		title = "FRICTION FACTOR"
	}

	var chart string
	if e.err != nil {
		chart = errorStyle().Render(e.err.Error())
	} else {
		chart = graphStyle().Render(e.plot)
	}

	var s strings.Builder
	s.WriteString(headerStyle().Render("PARAMETERS") + "\n")
	for i, k := range paramKeys {
		line := fmt.Sprintf("%-10s %.4g", k, e.params[k])
		if i == e.selected {
			s.WriteString(activeStyle().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + valueStyle().Render(line) + "\n")
		}
	}
	s.WriteString(helpStyle().Render("TAB:Param ↑↓:Tune V:View\nR:Reset T:Theme ?:Help Q:Quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, headerStyle().Render(title), chart),
		panelStyle().Render(s.String()))

	if e.showHelp {
		help := panelStyle().Render(strings.Join([]string{
			"Tab      - Cycle parameters",
			"Up/K     - Increase parameter (+5%)",
			"Down/J   - Decrease parameter (-5%)",
			"V        - Toggle emulsion / friction",
			"R        - Reset parameters",
			"T        - Cycle themes",
			"Q        - Quit",
		}, "\n"))
		return help + "\n" + main
	}
	return main
}
