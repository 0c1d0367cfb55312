package research

// Defaults are the pre-filled inputs of both user-facing modes.
type Defaults struct {
	Field       string
	Topic       string
	Count       int
	Depth       int
	QueryPrompt string
}

func DefaultInputs() Defaults {
	return Defaults{
		Field:       "Using Sustainable methods to provide maintenance in solar farms",
		Topic:       "HOW CAN WE USE DRONES IN SYSTEMS?",
		Count:       4,
		Depth:       3,
		QueryPrompt: "Explain the impact of artificial intelligence on renewable energy systems.",
	}
}
