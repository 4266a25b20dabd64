package models

// AqiCategory is the severity band of an Air Quality Index value.
type AqiCategory int

const (
	AqiGood AqiCategory = iota
	AqiModerate
	AqiUnhealthySensitive
	AqiUnhealthy
	AqiVeryUnhealthy
	AqiHazardous
)

// upper bounds (inclusive) of every band except Hazardous, ascending.
var aqiThresholds = [...]float64{50, 100, 150, 200, 300}

var aqiLabels = [...]string{
	AqiGood:               "Good",
	AqiModerate:           "Moderate",
	AqiUnhealthySensitive: "Unhealthy for Sensitive Groups",
	AqiUnhealthy:          "Unhealthy",
	AqiVeryUnhealthy:      "Very Unhealthy",
	AqiHazardous:          "Hazardous",
}

var aqiImplications = [...]string{
	AqiGood:               "safe for all activities",
	AqiModerate:           "acceptable quality",
	AqiUnhealthySensitive: "children, elderly, those with respiratory conditions should limit prolonged outdoor activity",
	AqiUnhealthy:          "everyone may experience health effects; sensitive groups may experience more serious effects",
	AqiVeryUnhealthy:      "health alert; everyone may experience more serious health effects",
	AqiHazardous:          "emergency conditions; entire population is likely to be affected",
}

// CategorizeAQI maps any AQI value to its band. Values at a threshold belong
// to the lower band; NaN compares false everywhere and lands in Good.
func CategorizeAQI(aqi float64) AqiCategory {
	for i, limit := range aqiThresholds {
		if !(aqi > limit) {
			return AqiCategory(i)
		}
	}
	return AqiHazardous
}

// Label is the short band name, e.g. "Moderate".
func (c AqiCategory) Label() string {
	if c < AqiGood || c > AqiHazardous {
		return "Unknown"
	}
	return aqiLabels[c]
}

// Implication describes what the band means for people working in the field.
func (c AqiCategory) Implication() string {
	if c < AqiGood || c > AqiHazardous {
		return ""
	}
	return aqiImplications[c]
}

// Describe renders "Label (implication)".
func (c AqiCategory) Describe() string {
	return c.Label() + " (" + c.Implication() + ")"
}

func (c AqiCategory) String() string {
	return c.Label()
}
