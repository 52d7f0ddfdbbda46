package prompt

// Category groups reflection prompts shown by the daily prompt widget.
type Category struct {
	Name    string   `json:"name"`
	Prompts []string `json:"prompts"`
}

// Seed provides the default reflection prompts.
func Seed() []Category {
	return []Category{
		{
			Name: "Self-Reflection",
			Prompts: []string{
				"What made you feel most alive today?",
				"What is one thing you're grateful for right now?",
				"How have you grown in the past month?",
				"What is a challenge you're proud of overcoming?",
				"What would make today great?",
			},
		},
		{
			Name: "Emotional Awareness",
			Prompts: []string{
				"How are you feeling right now, and why?",
				"What triggered strong emotions today?",
				"When did you feel most at peace today?",
				"What worried you today, and was it in your control?",
				"How did you practice self-care today?",
			},
		},
		{
			Name: "Growth & Learning",
			Prompts: []string{
				"What did you learn about yourself today?",
				"What would you do differently if you could restart today?",
				"What new skill would you like to develop?",
				"What habit would you like to build or break?",
				"What is one small step you can take toward your goals?",
			},
		},
		{
			Name: "Relationships",
			Prompts: []string{
				"Who made a positive impact on your day?",
				"How did you show kindness to others today?",
				"What boundaries do you need to set or maintain?",
				"Who would you like to reconnect with?",
				"How can you better support your loved ones?",
			},
		},
	}
}
