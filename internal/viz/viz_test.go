package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mswell/internal/hydraulics"
	"github.com/san-kum/mswell/internal/msw"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	return m
}

func TestEmulsionCurve(t *testing.T) {
	icd := hydraulics.DefaultSICD()
	data, err := EmulsionCurve(icd, 1e-3, 4e-3, 11)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 11 {
		t.Fatalf("expected 11 points, got %d", len(data))
	}
	// pure oil and pure water
	if math.Abs(data[0]-4) > 1e-12 {
		t.Errorf("expected 4 cP at zero water, got %g", data[0])
	}
	if math.Abs(data[10]-1) > 1e-12 {
		t.Errorf("expected 1 cP at full water, got %g", data[10])
	}
	for i, v := range data {
		if v <= 0 {
			t.Errorf("point %d: non-positive viscosity %g", i, v)
		}
	}

	icd.WidthTransition = 0
	if _, err := EmulsionCurve(icd, 1e-3, 4e-3, 5); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestFrictionCurve(t *testing.T) {
	data, err := FrictionCurve(0.1, 1e-5, 500, 1e6, 20)
	if err != nil {
		t.Fatal(err)
	}
	if want := 16.0 / 500; data[0] < want*0.999 || data[0] > want*1.001 {
		t.Errorf("expected laminar %g, got %g", want, data[0])
	}
	if data[19] >= data[0] {
		t.Error("friction factor should drop with Reynolds number")
	}
}

func TestExplorerKeys(t *testing.T) {
	var m tea.Model = NewExplorer(hydraulics.DefaultSICD())
	e := m.(Explorer)
	if e.Selected() != "critical" {
		t.Fatalf("expected critical selected, got %s", e.Selected())
	}

	e = press(m, "tab", "up").(Explorer)
	if e.Selected() != "width" {
		t.Errorf("expected width selected, got %s", e.Selected())
	}
	if got := e.Param("width"); got < 0.0525-1e-12 || got > 0.0525+1e-12 {
		t.Errorf("expected width 0.0525, got %g", got)
	}

	e = press(e, "r").(Explorer)
	if e.Param("width") != 0.05 {
		t.Errorf("expected reset width, got %g", e.Param("width"))
	}
}

func TestExplorerClamps(t *testing.T) {
	var m tea.Model = NewExplorer(hydraulics.DefaultSICD())
	for i := 0; i < 40; i++ {
		m = press(m, "up")
	}
	if got := m.(Explorer).Param("critical"); got != 1 {
		t.Errorf("expected critical clamped to 1, got %g", got)
	}

	m = press(m, "tab", "tab")
	for i := 0; i < 60; i++ {
		m = press(m, "j")
	}
	if got := m.(Explorer).Param("max_ratio"); got != 1 {
		t.Errorf("expected max ratio clamped to 1, got %g", got)
	}
}

func TestExplorerView(t *testing.T) {
	m := NewExplorer(hydraulics.DefaultSICD())
	if m.Err() != nil {
		t.Fatal(m.Err())
	}
	if v := m.View(); !strings.Contains(v, "EMULSION VISCOSITY") {
		t.Error("expected emulsion view")
	}

	m = press(m, "v").(Explorer)
	if v := m.View(); !strings.Contains(v, "FRICTION FACTOR") {
		t.Error("expected friction view")
	}

	m = press(m, "?").(Explorer)
	if v := m.View(); !strings.Contains(v, "Cycle parameters") {
		t.Error("expected help overlay")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestSummary(t *testing.T) {
	r := &msw.Result{
		Well:       "producer",
		Iterations: 3,
		Segments:   []string{"seg-00", "seg-01"},
		Pressures:  []float64{5e6, 6e6},
		Rates:      []float64{2, 1},
		Drops:      []float64{1e6, 1e6},
	}
	if s := Summary([]*msw.Result{r}); !strings.Contains(s, "producer") {
		t.Error("expected well name in summary")
	}
	if s := Segments(r); !strings.Contains(s, "seg-01") {
		t.Error("expected segment name")
	}
	if s := ProfilePlot(r); !strings.Contains(s, "pressure") {
		t.Error("expected caption")
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme(ThemeCrude.Name)
	NextTheme()
	if CurrentTheme.Name != ThemeBrine.Name {
		t.Errorf("expected brine, got %s", CurrentTheme.Name)
	}
	if GetTheme("missing").Name != ThemeCrude.Name {
		t.Error("expected default theme")
	}
}
