package mood

import (
	"strings"
	"unicode"
)

// Suggestion 是根据日记文本推断出的情绪轮位置。
type Suggestion struct {
	Category string `json:"category"`
	Emotion  string `json:"emotion"`
	Score    int    `json:"score"`
}

type bucket struct {
	category string
	emotion  string
	keywords []string
}

// Buckets follow wheel order; ties go to the earlier bucket.
var keywordBuckets = []bucket{
	{"Joy", "Peaceful", []string{"calm", "content", "relaxed", "peaceful", "at ease", "平静", "放松", "安心"}},
	{"Joy", "Powerful", []string{"confident", "proud", "strong", "free", "energetic", "自信", "有力量"}},
	{"Joy", "Happy", []string{"happy", "glad", "excited", "optimistic", "great day", "开心", "高兴", "快乐"}},
	{"Sadness", "Vulnerable", []string{"lonely", "alone", "insecure", "fragile", "孤单", "寂寞"}},
	{"Sadness", "Despair", []string{"hopeless", "helpless", "grief", "depressed", "sad", "cry", "难过", "伤心", "绝望"}},
	{"Sadness", "Disconnected", []string{"bored", "numb", "apathetic", "empty", "distant", "无聊", "麻木"}},
	{"Fear", "Scared", []string{"scared", "afraid", "frightened", "terrified", "overwhelmed", "害怕"}},
	{"Fear", "Anxious", []string{"anxious", "worried", "nervous", "stressed", "panic", "焦虑", "担心", "紧张"}},
	{"Fear", "Insecure", []string{"worthless", "inadequate", "not good enough", "inferior", "自卑"}},
	{"Anger", "Rage", []string{"furious", "rage", "hate", "hostile", "愤怒", "气死"}},
	{"Anger", "Frustrated", []string{"frustrated", "annoyed", "irritated", "angry", "mad", "生气", "烦"}},
	{"Anger", "Distant", []string{"withdrawn", "skeptical", "critical", "冷漠"}},
	{"Love", "Affectionate", []string{"caring", "compassion", "tender", "grateful", "thankful", "感恩", "温柔"}},
	{"Love", "Connected", []string{"accepted", "valued", "trusted", "supported", "connected", "被理解", "支持"}},
	{"Love", "Romantic", []string{"romantic", "passionate", "in love", "date", "喜欢你"}},
	{"Surprise", "Amazed", []string{"amazed", "astonished", "awe", "wonder", "wow", "惊讶"}},
	{"Surprise", "Confused", []string{"confused", "perplexed", "stunned", "lost", "困惑"}},
	{"Surprise", "Excited", []string{"eager", "can't wait", "thrilled", "期待", "激动"}},
}

const keywordWeight = 3

// Suggest 根据关键词命中次数推荐一个情绪轮位置，没有命中时返回空结果。
// 英文关键词按整词匹配，中文关键词按子串匹配。
func Suggest(text string) Suggestion {
	normalized := strings.TrimSpace(strings.ToLower(text))
	if normalized == "" {
		return Suggestion{}
	}
	words := " " + strings.Join(tokenize(normalized), " ") + " "

	best := Suggestion{}
	for _, b := range keywordBuckets {
		score := 0
		for _, word := range b.keywords {
			if matches(normalized, words, word) {
				score += keywordWeight
			}
		}
		if score > best.Score {
			best = Suggestion{Category: b.category, Emotion: b.emotion, Score: score}
		}
	}
	return best
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func matches(normalized, words, keyword string) bool {
	if isASCII(keyword) {
		return strings.Contains(words, " "+keyword+" ")
	}
	return strings.Contains(normalized, keyword)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
