package domain

import (
	"math"
	"net/url"
	"sort"
	"strings"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Exact title match bonus
	ScoreExactTitleBonus = 200.0

	// Usage weight (usage counter contributes to final score)
	ScoreUsageWeight = 0.1
)

// LinkCandidate is a link matched by a jump query.
type LinkCandidate struct {
	CategoryID   string
	Link         Link
	LexicalScore float64
	UsageScore   float64
	TotalScore   float64
}

// ScoreLink scores a link against a query using its title and its hostname's
// first label, keeping the better of the two.
func ScoreLink(queryStr string, link Link) float64 {
	queryStr = strings.ToLower(strings.TrimSpace(queryStr))
	if queryStr == "" {
		return 0.0
	}

	score := scoreText(queryStr, strings.ToLower(link.Title))
	if host := hostLabel(link.URL); host != "" {
		if s := scoreText(queryStr, host); s > score {
			score = s
		}
	}
	return score
}

func scoreText(queryStr, text string) float64 {
	if text == "" {
		return 0.0
	}

	// Exact match (highest score)
	if queryStr == text {
		return ScoreExactMatch + ScoreExactTitleBonus
	}

	if strings.HasPrefix(text, queryStr) {
		return ScorePrefixMatch
	}

	// Earlier substring matches get higher score
	if index := strings.Index(text, queryStr); index >= 0 {
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(text)))
		return ScoreSubstringMatch + substringBonus
	}

	// Every query word appears somewhere
	queryWords := strings.Fields(queryStr)
	if len(queryWords) > 1 {
		allMatch := true
		for _, word := range queryWords {
			if !strings.Contains(text, word) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return ScoreFuzzyMatch
		}
	}

	similarity := calculateSimilarity(queryStr, text)
	if similarity > 0.5 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculateSimilarity is the ratio of query characters present in s2.
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}

	matches, total := 0, 0
	for _, c := range s1 {
		total++
		if strings.ContainsRune(s2, c) {
			matches++
		}
	}

	return float64(matches) / float64(total)
}

// hostLabel returns the most significant hostname label, skipping "www".
// Example: "https://www.github.com/x" -> "github"
func hostLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.ToLower(u.Hostname()), ".")
	if len(parts) > 1 && parts[0] == "www" {
		parts = parts[1:]
	}
	return parts[0]
}

// RankLinks ranks every link of doc against queryStr. usage maps link URLs to
// the number of times they were jumped to; it may be nil.
func RankLinks(queryStr string, doc Document, usage map[string]int64) []LinkCandidate {
	var candidates []LinkCandidate

	for _, c := range doc.Categories {
		for _, l := range c.Items {
			lexicalScore := ScoreLink(queryStr, l)
			if lexicalScore == 0.0 {
				continue
			}

			// Logarithmic so heavy usage never dominates the lexical match
			usageScore := 0.0
			if n := usage[l.URL]; n > 0 {
				usageScore = math.Log10(float64(n)+1) * ScoreUsageWeight * 100
			}

			candidates = append(candidates, LinkCandidate{
				CategoryID:   c.ID,
				Link:         l,
				LexicalScore: lexicalScore,
				UsageScore:   usageScore,
				TotalScore:   lexicalScore + usageScore,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalScore > candidates[j].TotalScore
	})

	return candidates
}

// FindBestLink returns the best match for queryStr.
func FindBestLink(queryStr string, doc Document, usage map[string]int64) (Link, bool) {
	candidates := RankLinks(queryStr, doc, usage)
	if len(candidates) == 0 {
		return Link{}, false
	}
	return candidates[0].Link, true
}
