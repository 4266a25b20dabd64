package models

// SensorSnapshot is the optional field context a dashboard attaches to a chat
// question. Zero means "not reported".
type SensorSnapshot struct {
	Temperature    Reading `json:"temperature"`
	Humidity       Reading `json:"humidity"`
	LightIntensity Reading `json:"lightIntensity"`
	AirQuality     Reading `json:"airQuality"`
	Nitrogen       Reading `json:"nitrogen"`
	Phosphorus     Reading `json:"phosphorus"`
	Potassium      Reading `json:"potassium"`
	SoilMoisture   Reading `json:"soilMoisture"`
	LastUpdated    string  `json:"lastUpdated"`
}

// TopReading is one entry of the atmospheric channel.
type TopReading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	LightPct    float64 `json:"lightPct"`
	AirQuality  float64 `json:"airQuality"`
	Timestamp   string  `json:"timestamp"`
}

// BottomReading is one entry of the soil channel.
type BottomReading struct {
	Nitrogen     float64 `json:"nitrogen"`
	Phosphorus   float64 `json:"phosphorus"`
	Potassium    float64 `json:"potassium"`
	SoilMoisture float64 `json:"soilMoisture"`
	Timestamp    string  `json:"timestamp"`
}

// ChannelResponse is the body of GET /api/thingspeak/{top,bottom}.
// History keeps the vendor's order.
type ChannelResponse[T any] struct {
	Current T   `json:"current"`
	History []T `json:"history"`
}
