package mood

// Category is the outer ring of the emotion wheel.
type Category struct {
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Emotions []Emotion `json:"emotions"`
}

// Emotion is the middle ring of the emotion wheel.
type Emotion struct {
	Name        string   `json:"name"`
	SubEmotions []string `json:"subEmotions"`
}

// EmotionWheel is the full taxonomy a mood entry must be chosen from.
type EmotionWheel []Category

// Wheel returns a fresh copy of the emotion wheel.
func Wheel() EmotionWheel {
	return EmotionWheel{
		{
			Name:  "Joy",
			Color: "#22c55e",
			Emotions: []Emotion{
				{Name: "Peaceful", SubEmotions: []string{"Calm", "Content", "Relaxed"}},
				{Name: "Powerful", SubEmotions: []string{"Confident", "Free", "Energetic"}},
				{Name: "Happy", SubEmotions: []string{"Playful", "Excited", "Optimistic"}},
			},
		},
		{
			Name:  "Sadness",
			Color: "#64748b",
			Emotions: []Emotion{
				{Name: "Vulnerable", SubEmotions: []string{"Lonely", "Insecure", "Fragile"}},
				{Name: "Despair", SubEmotions: []string{"Grief", "Helpless", "Hopeless"}},
				{Name: "Disconnected", SubEmotions: []string{"Bored", "Apathetic", "Distant"}},
			},
		},
		{
			Name:  "Fear",
			Color: "#eab308",
			Emotions: []Emotion{
				{Name: "Scared", SubEmotions: []string{"Helpless", "Frightened", "Overwhelmed"}},
				{Name: "Anxious", SubEmotions: []string{"Worried", "Nervous", "Stressed"}},
				{Name: "Insecure", SubEmotions: []string{"Inadequate", "Inferior", "Worthless"}},
			},
		},
		{
			Name:  "Anger",
			Color: "#ef4444",
			Emotions: []Emotion{
				{Name: "Rage", SubEmotions: []string{"Hateful", "Hostile", "Aggressive"}},
				{Name: "Frustrated", SubEmotions: []string{"Annoyed", "Irritated", "Agitated"}},
				{Name: "Distant", SubEmotions: []string{"Withdrawn", "Critical", "Skeptical"}},
			},
		},
		{
			Name:  "Love",
			Color: "#ec4899",
			Emotions: []Emotion{
				{Name: "Affectionate", SubEmotions: []string{"Caring", "Compassionate", "Tender"}},
				{Name: "Connected", SubEmotions: []string{"Accepted", "Valued", "Trusted"}},
				{Name: "Romantic", SubEmotions: []string{"Passionate", "Intimate", "Desired"}},
			},
		},
		{
			Name:  "Surprise",
			Color: "#8b5cf6",
			Emotions: []Emotion{
				{Name: "Amazed", SubEmotions: []string{"Astonished", "Awe", "Wonder"}},
				{Name: "Confused", SubEmotions: []string{"Perplexed", "Disillusioned", "Stunned"}},
				{Name: "Excited", SubEmotions: []string{"Eager", "Energetic", "Animated"}},
			},
		},
	}
}

// Contains reports whether category/emotion/subEmotion is a path on the wheel.
// Sub-emotions repeat across branches ("Helpless"), so the whole path is matched.
func (w EmotionWheel) Contains(category, emotion, subEmotion string) bool {
	for _, c := range w {
		if c.Name != category {
			continue
		}
		for _, e := range c.Emotions {
			if e.Name != emotion {
				continue
			}
			for _, s := range e.SubEmotions {
				if s == subEmotion {
					return true
				}
			}
		}
	}
	return false
}
