package emotion

import (
	"math"
	"strings"
	"unicode"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/sentiment"
)

// Mood 是根据情感得分选出的 GIF 搜索主题。
type Mood string

const (
	Happy      Mood = "happy"
	Comforting Mood = "comforting"
)

// MoodThreshold 是两侧情绪判定的严格阈值，|score| 必须大于该值。
const MoodThreshold = 0.1

// ClassifyMood maps a sentiment score onto a GIF mood.
// Scores within [-MoodThreshold, MoodThreshold] carry no mood.
func ClassifyMood(score float64) (Mood, bool) {
	switch {
	case score > MoodThreshold:
		return Happy, true
	case score < -MoodThreshold:
		return Comforting, true
	default:
		return "", false
	}
}

type polarity int

const (
	positive polarity = 1
	negative polarity = -1
)

var keywordBuckets = map[polarity][]string{
	positive: {
		"开心", "高兴", "喜悦", "快乐", "太好了", "太棒了", "真棒", "哈哈", "喜欢", "满意", "好耶", "期待", "感谢", "谢谢",
		"happy", "glad", "great", "awesome", "amazing", "love", "thanks", "thank you", "wonderful", "excited",
		"excellent", "fantastic", "nice", "good", "fun", "lol", "yay", "enjoy", "cool",
	},
	negative: {
		"难过", "伤心", "失落", "沮丧", "悲伤", "痛苦", "寂寞", "孤单", "失望", "生气", "愤怒", "烦", "累", "害怕", "焦虑",
		"sad", "unhappy", "upset", "depressed", "lonely", "angry", "furious", "annoyed", "hate", "terrible",
		"awful", "bad", "tired", "afraid", "scared", "anxious", "worried", "stressed", "hurt", "cry",
	},
}

var negations = []string{"not", "no", "never", "don't", "didn't", "isn't", "wasn't", "不", "没", "别"}

// exclamationBoost 每个感叹号增加的强度。
const exclamationBoost = 0.25

// Analyze 基于关键词对文本做离线情感打分，返回与 Cloud Natural Language 同形的结果。
func Analyze(text string) sentiment.Result {
	normalized := strings.TrimSpace(strings.ToLower(text))
	if normalized == "" {
		return sentiment.Result{}
	}

	var pos, neg float64
	for pol, keywords := range keywordBuckets {
		for _, word := range keywords {
			plain, flipped := countTerm(normalized, word)
			if pol == positive {
				pos += float64(plain)
				neg += float64(flipped)
			} else {
				neg += float64(plain)
				pos += float64(flipped)
			}
		}
	}

	total := pos + neg
	if total == 0 {
		return sentiment.Result{}
	}

	magnitude := total + exclamationBoost*float64(strings.Count(text, "!")+strings.Count(text, "！"))
	score := (pos - neg) / (total + 1)

	return sentiment.Result{
		Score:     round(clamp(score, -1, 1)),
		Magnitude: round(magnitude),
	}
}

// countTerm counts occurrences of term, split into plain hits and hits directly preceded
// by a negation. Latin terms must sit on word boundaries so that "bad" does not match
// "badge"; CJK terms match as substrings.
func countTerm(text, term string) (plain, flipped int) {
	latin := isLatin(term)
	for offset := 0; ; {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return plain, flipped
		}
		start := offset + idx
		end := start + len(term)
		offset = end
		if latin && (!boundary(text, start-1) || !boundary(text, end)) {
			continue
		}
		if negatedAt(text, start) {
			flipped++
		} else {
			plain++
		}
	}
}

// negatedAt reports whether the text before position start ends with a negation word.
func negatedAt(text string, start int) bool {
	prefix := strings.TrimSpace(text[:start])
	if prefix == "" {
		return false
	}
	for _, neg := range negations {
		if !strings.HasSuffix(prefix, neg) {
			continue
		}
		if isLatin(neg) && !boundary(prefix, len(prefix)-len(neg)-1) {
			continue
		}
		return true
	}
	return false
}

func isLatin(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func boundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := rune(text[i])
	return !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '\''
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
