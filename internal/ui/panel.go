package ui

import (
	"image"
	"strconv"

	"procplanet/internal/core"
)

// Source is what the HUD reads values from.
type Source interface {
	Parameters() core.ParameterSnapshot
}

const (
	panelPad   = 10
	titleLine  = 16
	knobsTop   = panelPad + titleLine + 10
	knobRow    = 30
	knobButton = 20
	knobGap    = 4
	infoLine   = 15
)

// knob is one adjustable material scalar and its hit boxes in panel
// coordinates.
type knob struct {
	ctrl  core.ParameterControl
	value float64
	live  bool

	top         int
	minus, plus image.Rectangle
}

func (k knob) step() float64 {
	if k.ctrl.Step <= 0 {
		return 0.05
	}
	return k.ctrl.Step
}

// target is the clamped value one step in dir, and whether it differs from
// the current one.
func (k knob) target(dir int) (float64, bool) {
	v := k.ctrl.Clamp(k.value + float64(dir)*k.step())
	d := v - k.value
	return v, k.live && (d > 1e-9 || d < -1e-9)
}

func (k knob) label() string {
	if !k.live {
		return "--"
	}
	prec := 2
	if k.step() < 0.05 {
		prec = 3
	}
	return strconv.FormatFloat(k.value, 'f', prec, 64)
}

// Panel is the window-independent part of the HUD: the knobs for the
// source's float controls, their layout and the latest snapshot.
type Panel struct {
	src      Source
	setter   core.FloatParameterSetter
	knobs    []knob
	snapshot core.ParameterSnapshot
}

// NewPanel lays out a knob for every float control src provides, right
// aligned in a panel of the given width.
func NewPanel(src Source, width int) *Panel {
	p := &Panel{src: src}
	if s, ok := src.(core.FloatParameterSetter); ok {
		p.setter = s
	}
	prov, ok := src.(core.ParameterControlsProvider)
	if !ok {
		return p
	}
	for _, c := range prov.ParameterControls() {
		if c.Type != core.ParamTypeFloat {
			continue
		}
		top := knobsTop + len(p.knobs)*knobRow
		y := top + (knobRow-knobButton)/2
		plus := image.Rect(width-panelPad-knobButton, y, width-panelPad, y+knobButton)
		minus := plus.Sub(image.Pt(knobButton+knobGap, 0))
		p.knobs = append(p.knobs, knob{ctrl: c, top: top, minus: minus, plus: plus})
	}
	return p
}

// Refresh reads a new snapshot and the knob values from it.
func (p *Panel) Refresh() {
	if p.src == nil {
		return
	}
	p.snapshot = p.src.Parameters()
	for i := range p.knobs {
		k := &p.knobs[i]
		k.live = false
		if param, ok := p.snapshot.Lookup(k.ctrl.Key); ok {
			if v, err := strconv.ParseFloat(param.Value, 64); err == nil {
				k.value, k.live = v, true
			}
		}
	}
}

// Snapshot returns the parameters read by the last Refresh.
func (p *Panel) Snapshot() core.ParameterSnapshot { return p.snapshot }

// Click handles a press at panel coordinates (x, y). It reports whether a
// knob changed.
func (p *Panel) Click(x, y int) bool {
	pt := image.Pt(x, y)
	for i, k := range p.knobs {
		switch {
		case pt.In(k.minus):
			return p.nudge(i, -1)
		case pt.In(k.plus):
			return p.nudge(i, 1)
		}
	}
	return false
}

// Nudge steps the knob for key by one step in dir.
func (p *Panel) Nudge(key string, dir int) bool {
	for i, k := range p.knobs {
		if k.ctrl.Key == key {
			return p.nudge(i, dir)
		}
	}
	return false
}

func (p *Panel) nudge(i, dir int) bool {
	k := &p.knobs[i]
	v, ok := k.target(dir)
	if !ok || p.setter == nil || !p.setter.SetFloatParameter(k.ctrl.Key, v) {
		return false
	}
	k.value = v
	return true
}

// infoTop is the baseline of the first snapshot line below the knobs.
func (p *Panel) infoTop() int {
	return knobsTop + len(p.knobs)*knobRow + infoLine
}
