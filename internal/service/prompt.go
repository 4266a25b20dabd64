package service

import (
	"fmt"
	"strconv"
	"strings"

	"Sator.eden/internal/models"
)

const assistantIntro = "You are Eden, an AI agricultural assistant."

const aqiScale = `  * AQI Scale Reference:
    0-50: Good
    51-100: Moderate
    101-150: Unhealthy for Sensitive Groups
    151-200: Unhealthy
    201-300: Very Unhealthy
    301-600: Hazardous`

// BuildPrompt composes the text sent to the language model. Without a
// snapshot the question gets a generic framing; with one, every reading is
// listed with its unit and the AQI band. The output depends on the inputs
// only.
func BuildPrompt(message string, data *models.SensorSnapshot) string {
	var sb strings.Builder
	sb.WriteString(assistantIntro)

	if data == nil {
		sb.WriteString(" Help the user with their agricultural questions.\n\n")
		sb.WriteString("User's question: ")
		sb.WriteString(message)
		return sb.String()
	}

	aqi := float64(data.AirQuality)
	sb.WriteString(" You have access to the following real-time data from the field:\n\n")
	sb.WriteString("Current Readings:\n")
	fmt.Fprintf(&sb, "- Temperature: %s°C\n", formatReading(data.Temperature))
	fmt.Fprintf(&sb, "- Humidity: %s%%\n", formatReading(data.Humidity))
	fmt.Fprintf(&sb, "- Light Intensity: %s%%\n", formatReading(data.LightIntensity))
	fmt.Fprintf(&sb, "- Air Quality Index (AQI): %s (0-600 scale) - %s\n",
		formatReading(data.AirQuality), models.CategorizeAQI(aqi).Describe())
	sb.WriteString(aqiScale)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "- Soil Nitrogen (N): %s mg/kg\n", formatReading(data.Nitrogen))
	fmt.Fprintf(&sb, "- Soil Phosphorus (P): %s mg/kg\n", formatReading(data.Phosphorus))
	fmt.Fprintf(&sb, "- Soil Potassium (K): %s mg/kg\n", formatReading(data.Potassium))
	fmt.Fprintf(&sb, "- Soil Moisture: %s%%\n", formatReading(data.SoilMoisture))
	fmt.Fprintf(&sb, "- Last Updated: %s\n\n", data.LastUpdated)

	sb.WriteString("Use this data to provide insightful, practical advice about agriculture, soil health, and crop management.\n")
	sb.WriteString("When discussing air quality, reference the AQI category and its implications for field work and plant health.\n")
	sb.WriteString("Answer questions about the current conditions and provide recommendations based on the readings.\n\n")
	sb.WriteString("User's question: ")
	sb.WriteString(message)
	return sb.String()
}

// formatReading prints the shortest decimal form, so 25 stays "25" and 25.5
// stays "25.5".
func formatReading(r models.Reading) string {
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}
