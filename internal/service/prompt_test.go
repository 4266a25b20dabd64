package service

import (
	"strings"
	"testing"

	"Sator.eden/internal/models"
)

func TestBuildPromptWithoutSnapshot(t *testing.T) {
	got := BuildPrompt("When should I water?", nil)
	want := "You are Eden, an AI agricultural assistant. Help the user with their agricultural questions.\n\nUser's question: When should I water?"
	if got != want {
		t.Fatalf("prompt = %q, want %q", got, want)
	}
}

func TestBuildPromptWithSnapshot(t *testing.T) {
	data := &models.SensorSnapshot{
		Temperature:    25.5,
		Humidity:       60,
		LightIntensity: 80,
		AirQuality:     120,
		Nitrogen:       40,
		Phosphorus:     30,
		Potassium:      200,
		SoilMoisture:   35,
		LastUpdated:    "3/1/2025, 10:00:00 AM",
	}
	got := BuildPrompt("How are my crops?", data)

	for _, fragment := range []string{
		"You are Eden",
		"- Temperature: 25.5°C",
		"- Humidity: 60%",
		"- Light Intensity: 80%",
		"- Air Quality Index (AQI): 120 (0-600 scale) - Unhealthy for Sensitive Groups (children, elderly",
		"101-150: Unhealthy for Sensitive Groups",
		"- Soil Nitrogen (N): 40 mg/kg",
		"- Soil Phosphorus (P): 30 mg/kg",
		"- Soil Potassium (K): 200 mg/kg",
		"- Soil Moisture: 35%",
		"- Last Updated: 3/1/2025, 10:00:00 AM",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
	if !strings.HasSuffix(got, "User's question: How are my crops?") {
		t.Errorf("prompt should end with the question, got %q", got[len(got)-60:])
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	data := &models.SensorSnapshot{Temperature: 21, AirQuality: 301, LastUpdated: "now"}
	first := BuildPrompt("q", data)
	for i := 0; i < 5; i++ {
		if got := BuildPrompt("q", data); got != first {
			t.Fatalf("BuildPrompt changed between calls")
		}
	}
	if !strings.Contains(first, "Hazardous (emergency conditions") {
		t.Errorf("AQI 301 should be described as Hazardous")
	}
}

func TestBuildPromptZeroSnapshot(t *testing.T) {
	got := BuildPrompt("q", &models.SensorSnapshot{})
	if !strings.Contains(got, "- Air Quality Index (AQI): 0 (0-600 scale) - Good (safe for all activities)") {
		t.Errorf("zero snapshot should render AQI 0 as Good, got:\n%s", got)
	}
}
