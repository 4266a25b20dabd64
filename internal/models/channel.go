package models

// Channel identifies one ThingSpeak feed and how its four fields are read.
type Channel struct {
	Name    string // "top" or "bottom"
	ID      string
	ReadKey string
	// WholeUnits truncates every field toward zero.
	WholeUnits bool
	// FieldNames label field1..field4, used when archiving.
	FieldNames [4]string
}

// Configured reports whether both the channel id and read key are set.
func (c Channel) Configured() bool {
	return c.ID != "" && c.ReadKey != ""
}

// FeedEntry is one normalized ThingSpeak entry.
type FeedEntry struct {
	Timestamp string
	Values    [4]float64
}

// ChannelFeed is the latest entry plus the recent entries of one channel, in
// the order the vendor returned them.
type ChannelFeed struct {
	Current FeedEntry
	History []FeedEntry
}

var (
	TopFieldNames    = [4]string{"temperature", "humidity", "lightPct", "airQuality"}
	BottomFieldNames = [4]string{"nitrogen", "phosphorus", "potassium", "soilMoisture"}
)
