package insights

// Level is one of the five fixed mood categories.
type Level struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

// DefaultLevels lists the mood levels from most positive to most negative.
var DefaultLevels = []Level{
	{Value: 5, Label: "Very Happy", Emoji: "😄", Color: "#4caf50"},
	{Value: 4, Label: "Happy", Emoji: "😊", Color: "#8bc34a"},
	{Value: 3, Label: "Neutral", Emoji: "😐", Color: "#ffc107"},
	{Value: 2, Label: "Sad", Emoji: "😔", Color: "#ff9800"},
	{Value: 1, Label: "Very Sad", Emoji: "😢", Color: "#f44336"},
}

// LevelFor returns the default level with the given value.
func LevelFor(value int) (Level, bool) {
	for _, l := range DefaultLevels {
		if l.Value == value {
			return l, true
		}
	}
	return Level{}, false
}
