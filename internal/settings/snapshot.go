package settings

import (
	"strconv"

	"procplanet/internal/core"
)

// Parameters returns the settings as a grouped snapshot for display.
func (s GeneratorSettings) Parameters() core.ParameterSnapshot {
	archetype := s.Archetype
	if archetype == "" {
		archetype = "none"
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Planet",
			Params: []core.Parameter{
				core.StringParam("seed", "Seed", s.Seed),
				core.StringParam("hash", "Hash", strconv.FormatUint(s.Hash, 16)),
				core.StringParam("archetype", "Archetype", archetype),
				core.FloatParam("water_level", "Water level", s.WaterLevel),
				core.FloatParam("ice_cutoff", "Ice cutoff", s.IceCutoff),
			},
		},
		fieldGroup("Height", "height", s.Height),
		fieldGroup("Moisture", "moisture", s.Moisture),
		{
			Name: "Temperature",
			Params: []core.Parameter{
				core.FloatParam("temperature.pole1_factor", "Pole 1 factor", s.Temperature.Pole1Factor),
				core.FloatParam("temperature.pole2_factor", "Pole 2 factor", s.Temperature.Pole2Factor),
				core.FloatParam("temperature.height_factor", "Height factor", s.Temperature.HeightFactor),
				core.FloatParam("temperature.iciness", "Iciness", s.Temperature.Iciness),
			},
		},
	}}
}

func fieldGroup(name, prefix string, p FieldParams) core.ParameterGroup {
	return core.ParameterGroup{
		Name: name,
		Params: []core.Parameter{
			core.Int64Param(prefix+".seed", "Seed", p.Seed),
			core.FloatParam(prefix+".res1", "Res 1", p.Res1),
			core.FloatParam(prefix+".res2", "Res 2", p.Res2),
			core.FloatParam(prefix+".res_mix", "Res mix", p.ResMix),
			core.FloatParam(prefix+".mix_scale", "Mix scale", p.MixScale),
			core.BoolParam(prefix+".ridged", "Ridged", p.Ridged),
		},
	}
}
