package mood

import "strings"

// Label 表示聊天消息的情绪倾向。
type Label string

const (
	Neutral Label = "neutral"
	Happy   Label = "happy"
	Sad     Label = "sad"
	Angry   Label = "angry"
	Excited Label = "excited"
	Flirty  Label = "flirty"
	Comfort Label = "comfort"
	Serious Label = "serious"
)

// Decision 给出情绪识别结果以及得分。
type Decision struct {
	Label Label
	Score int
}

var keywordBuckets = map[Label][]string{
	Happy: {
		"haha", "lol", "great", "thanks", "thank you", "love", "glad", "nice", "funny", "fun", "happy", "yay",
	},
	Sad: {
		"sad", "lonely", "alone", "cry", "miss", "broke down", "rust", "upset", "hurt", "tired", "acted up",
	},
	Angry: {
		"angry", "mad", "furious", "annoyed", "hate", "ugh", "stupid", "worst", "fed up",
	},
	Excited: {
		"wow", "amazing", "awesome", "can't wait", "cannot wait", "incredible", "hype", "mighty", "flutter",
	},
	Flirty: {
		"cute", "handsome", "pretty", "date", "kiss", "sweetheart", "gorgeous", "ride", "😉", "😍", "purr",
	},
	Comfort: {
		"don't worry", "it's okay", "calm down", "take it easy", "relax", "here for you", "slow", "good things take time",
	},
	Serious: {
		"important", "seriously", "must", "need to", "question", "focus", "oil", "maintenance",
	},
}

var punctuationBoost = map[Label]int{
	Happy:   1,
	Excited: 2,
}

// Classify 根据关键词与标点为文本打分，返回得分最高的情绪。
func Classify(text string) Decision {
	normalized := strings.TrimSpace(strings.ToLower(text))
	if normalized == "" {
		return Decision{Label: Neutral}
	}

	scores := make(map[Label]int)
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				scores[label] += 3
			}
		}
	}

	exclamations := strings.Count(text, "!")
	if exclamations > 0 {
		scores[Excited] += exclamations * punctuationBoost[Excited]
		if exclamations == 1 {
			scores[Happy] += punctuationBoost[Happy]
		}
	}

	best := Decision{Label: Neutral}
	for _, label := range order {
		if s := scores[label]; s > best.Score {
			best = Decision{Label: label, Score: s}
		}
	}
	return best
}

// order 固定遍历顺序，保证同分时结果稳定。
var order = []Label{Serious, Comfort, Flirty, Sad, Angry, Excited, Happy}

// Complement 给出回应某种用户情绪时最合适的回复情绪。
func Complement(user Label) Label {
	switch user {
	case Sad:
		return Comfort
	case Angry:
		return Comfort
	case Excited:
		return Excited
	case Happy:
		return Happy
	case Flirty:
		return Flirty
	case Serious:
		return Serious
	default:
		return Neutral
	}
}
