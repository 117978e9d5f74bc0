package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Set returns o with the value named by key replaced. Keys use the snapshot
// naming, e.g. "height.res1", "moisture.ridged", "temperature.iciness",
// "water_level" or "ice_cutoff".
func (o Overrides) Set(key, value string) (Overrides, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	group, name, nested := strings.Cut(key, ".")
	if !nested {
		var err error
		switch key {
		case "water_level":
			err = parseFloat(key, value, &o.WaterLevel)
		case "ice_cutoff":
			err = parseFloat(key, value, &o.IceCutoff)
		default:
			err = fmt.Errorf("%w: unknown override %q", ErrInvalidSettings, key)
		}
		return o, err
	}

	switch group {
	case "height":
		err := o.Height.set(key, name, value)
		return o, err
	case "moisture":
		err := o.Moisture.set(key, name, value)
		return o, err
	case "temperature":
		t := &o.Temperature
		fields := map[string]**float64{
			"pole1_factor":  &t.Pole1Factor,
			"pole2_factor":  &t.Pole2Factor,
			"height_factor": &t.HeightFactor,
			"iciness":       &t.Iciness,
		}
		if dst, ok := fields[name]; ok {
			err := parseFloat(key, value, dst)
			return o, err
		}
	}
	return o, fmt.Errorf("%w: unknown override %q", ErrInvalidSettings, key)
}

func (f *FieldOverride) set(key, name, value string) error {
	switch name {
	case "res1":
		return parseFloat(key, value, &f.Res1)
	case "res2":
		return parseFloat(key, value, &f.Res2)
	case "res_mix":
		return parseFloat(key, value, &f.ResMix)
	case "mix_scale":
		return parseFloat(key, value, &f.MixScale)
	case "ridged":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSettings, key, err)
		}
		f.Ridged = &b
		return nil
	}
	return fmt.Errorf("%w: unknown override %q", ErrInvalidSettings, key)
}

func parseFloat(key, value string, dst **float64) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSettings, key, err)
	}
	*dst = &v
	return nil
}
