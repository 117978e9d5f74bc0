package pipeline

// State is a step of the generation state machine.
type State uint8

const (
	Idle State = iota
	SettingsDerived
	FieldsGenerated
	TexturesComposited
	DerivedMapsGenerated
	Ready
	Failed
)

var stateNames = [...]string{
	Idle:                 "idle",
	SettingsDerived:      "settings-derived",
	FieldsGenerated:      "fields-generated",
	TexturesComposited:   "textures-composited",
	DerivedMapsGenerated: "derived-maps-generated",
	Ready:                "ready",
	Failed:               "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}
