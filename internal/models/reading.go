package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Reading is a sensor value that never fails to decode. Numbers and numeric
// strings keep their value; null, garbage, NaN and infinities become 0.
type Reading float64

// UnmarshalJSON implements json.Unmarshaler.
func (r *Reading) UnmarshalJSON(data []byte) error {
	*r = Reading(ParseReading(data))
	return nil
}

// ParseReading decodes one raw JSON value into a finite float64, or 0.
func ParseReading(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0
		}
	} else {
		text = string(raw)
	}
	return ParseReadingString(text)
}

// ParseReadingString parses a textual field value, coercing failures to 0.
func ParseReadingString(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseWholeReading is ParseReading truncated toward zero, for channels that
// report whole units.
func ParseWholeReading(raw json.RawMessage) float64 {
	return math.Trunc(ParseReading(raw))
}
