package settings

// FieldOverride replaces selected FieldParams values. Nil fields keep the
// derived value.
type FieldOverride struct {
	Res1     *float64 `yaml:"res1,omitempty" json:"res1,omitempty"`
	Res2     *float64 `yaml:"res2,omitempty" json:"res2,omitempty"`
	ResMix   *float64 `yaml:"res_mix,omitempty" json:"res_mix,omitempty"`
	MixScale *float64 `yaml:"mix_scale,omitempty" json:"mix_scale,omitempty"`
	Ridged   *bool    `yaml:"ridged,omitempty" json:"ridged,omitempty"`
}

// TemperatureOverride replaces selected TemperatureParams values.
type TemperatureOverride struct {
	Pole1Factor  *float64 `yaml:"pole1_factor,omitempty" json:"pole1_factor,omitempty"`
	Pole2Factor  *float64 `yaml:"pole2_factor,omitempty" json:"pole2_factor,omitempty"`
	HeightFactor *float64 `yaml:"height_factor,omitempty" json:"height_factor,omitempty"`
	Iciness      *float64 `yaml:"iciness,omitempty" json:"iciness,omitempty"`
}

// Overrides is a sparse patch over GeneratorSettings, used by archetype
// entries and by user configuration.
type Overrides struct {
	Height      FieldOverride       `yaml:"height,omitempty" json:"height,omitempty"`
	Moisture    FieldOverride       `yaml:"moisture,omitempty" json:"moisture,omitempty"`
	Temperature TemperatureOverride `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	WaterLevel  *float64            `yaml:"water_level,omitempty" json:"water_level,omitempty"`
	IceCutoff   *float64            `yaml:"ice_cutoff,omitempty" json:"ice_cutoff,omitempty"`
}

// Empty reports whether o changes nothing.
func (o Overrides) Empty() bool {
	return o.Height == (FieldOverride{}) &&
		o.Moisture == (FieldOverride{}) &&
		o.Temperature == (TemperatureOverride{}) &&
		o.WaterLevel == nil && o.IceCutoff == nil
}

// Merge returns o with every value set in next taking precedence.
func (o Overrides) Merge(next Overrides) Overrides {
	o.Height = o.Height.merge(next.Height)
	o.Moisture = o.Moisture.merge(next.Moisture)
	t, n := &o.Temperature, next.Temperature
	setF(&t.Pole1Factor, n.Pole1Factor)
	setF(&t.Pole2Factor, n.Pole2Factor)
	setF(&t.HeightFactor, n.HeightFactor)
	setF(&t.Iciness, n.Iciness)
	setF(&o.WaterLevel, next.WaterLevel)
	setF(&o.IceCutoff, next.IceCutoff)
	return o
}

// With returns a copy of s with o applied. s itself is left untouched.
func (s GeneratorSettings) With(o Overrides) GeneratorSettings {
	s.Height = o.Height.apply(s.Height)
	s.Moisture = o.Moisture.apply(s.Moisture)
	t := o.Temperature
	applyF(&s.Temperature.Pole1Factor, t.Pole1Factor)
	applyF(&s.Temperature.Pole2Factor, t.Pole2Factor)
	applyF(&s.Temperature.HeightFactor, t.HeightFactor)
	applyF(&s.Temperature.Iciness, t.Iciness)
	applyF(&s.WaterLevel, o.WaterLevel)
	applyF(&s.IceCutoff, o.IceCutoff)
	return s
}

func (f FieldOverride) apply(p FieldParams) FieldParams {
	applyF(&p.Res1, f.Res1)
	applyF(&p.Res2, f.Res2)
	applyF(&p.ResMix, f.ResMix)
	applyF(&p.MixScale, f.MixScale)
	if f.Ridged != nil {
		p.Ridged = *f.Ridged
	}
	return p
}

func (f FieldOverride) merge(n FieldOverride) FieldOverride {
	setF(&f.Res1, n.Res1)
	setF(&f.Res2, n.Res2)
	setF(&f.ResMix, n.ResMix)
	setF(&f.MixScale, n.MixScale)
	if n.Ridged != nil {
		f.Ridged = n.Ridged
	}
	return f
}

func applyF(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setF(dst **float64, v *float64) {
	if v != nil {
		*dst = v
	}
}

// Float returns a pointer to v, for building overrides in code.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for building overrides in code.
func Bool(v bool) *bool { return &v }
