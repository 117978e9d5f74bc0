package pipeline

import "procplanet/internal/core"

// Parameters describes the published pass and the material state.
func (p *Pipeline) Parameters() core.ParameterSnapshot {
	var snap core.ParameterSnapshot
	if p.current != nil {
		snap = p.current.Settings.Parameters()
	}
	status := core.ParameterGroup{
		Name: "Pass",
		Params: []core.Parameter{
			core.StringParam("state", "State", p.state.String()),
		},
	}
	if p.current != nil {
		status.Params = append(status.Params, core.IntParam("resolution", "Resolution", int(p.current.Resolution)))
	}
	if p.err != nil {
		status.Params = append(status.Params, core.StringParam("error", "Error", p.err.Error()))
	}
	material := core.ParameterGroup{
		Name: "Material",
		Params: []core.Parameter{
			core.StringParam("display", "Display", string(p.material.Display)),
			core.FloatParam("roughness", "Roughness", p.material.Roughness),
			core.FloatParam("metalness", "Metalness", p.material.Metalness),
			core.FloatParam("normal_scale", "Normal scale", p.normalScale),
		},
	}
	snap.Groups = append(snap.Groups, status, material)
	return snap
}

// ParameterControls exposes the adjustable material scalars.
func (p *Pipeline) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "roughness", Label: "Roughness", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1},
		{Key: "metalness", Label: "Metalness", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1},
		{Key: "normal_scale", Label: "Normal scale", Type: core.ParamTypeFloat, Step: 0.125, Min: 0, Max: 4},
	}
}

// SetFloatParameter updates a material scalar. Values are clamped to the
// control bounds.
func (p *Pipeline) SetFloatParameter(key string, value float64) bool {
	for _, c := range p.ParameterControls() {
		if c.Key != key {
			continue
		}
		v := c.Clamp(value)
		switch key {
		case "roughness":
			p.material.Roughness = v
		case "metalness":
			p.material.Metalness = v
		case "normal_scale":
			p.normalScale = v
		}
		return true
	}
	return false
}
