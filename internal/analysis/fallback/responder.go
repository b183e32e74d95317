package fallback

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-fajen/ai-resume-chat/internal/model/profile"
)

// Topic 表示脚本回答所属的话题。
type Topic string

const (
	TopicAIProject       Topic = "ai_project"
	TopicTechnicalDepth  Topic = "technical_depth"
	TopicFailure         Topic = "failure"
	TopicLeadershipReady Topic = "leadership_ready"
	TopicDefault         Topic = "default"
)

type keywordGroup struct {
	topic    Topic
	keywords []string
}

// groups 按顺序检查，先命中者优先
var groups = []keywordGroup{
	{topic: TopicAIProject, keywords: []string{"chatbot", "ai", "technical approach"}},
	{topic: TopicTechnicalDepth, keywords: []string{"technical enough", "engineer", "technical depth"}},
	{topic: TopicFailure, keywords: []string{"failure", "mistake", "learned"}},
	{topic: TopicLeadershipReady, keywords: []string{"lead", "documentation lead", "difference"}},
}

// Match 返回问题命中的第一个话题，未命中时返回 TopicDefault。
func Match(question string) Topic {
	normalized := strings.ToLower(question)
	for _, group := range groups {
		for _, word := range group.keywords {
			if containsKeyword(normalized, word) {
				return group.topic
			}
		}
	}
	return TopicDefault
}

// shortKeyword 以内长度的关键词必须整词匹配，避免 "ai" 命中 "failure"。
const shortKeyword = 2

// containsKeyword 判断 word 是否在 text 中以词边界开头出现。
// 较长的关键词后面可以跟其它字母（"engineer" 能命中 "engineers"）。
func containsKeyword(text, word string) bool {
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if boundaryBefore(text, start) && (len(word) > shortKeyword || boundaryAfter(text, end)) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Responder 为问题挑选脚本回答，不持有可变状态。
type Responder struct {
	answers map[Topic]string
}

// New 基于档案中的脚本回答创建 Responder
func New(answers profile.Answers) *Responder {
	return &Responder{
		answers: map[Topic]string{
			TopicAIProject:       answers.AIProject,
			TopicTechnicalDepth:  answers.TechnicalDepth,
			TopicFailure:         answers.Failure,
			TopicLeadershipReady: answers.LeadershipReady,
			TopicDefault:         answers.Default,
		},
	}
}

// Respond 总是返回且只返回一条脚本回答
func (r *Responder) Respond(question string) string {
	return r.answers[Match(question)]
}
