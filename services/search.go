package services

import (
	"sort"
	"strings"
	"unicode"

	"market/models"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

const wordSimilarityThreshold = 0.75

// Hàm chuẩn hóa chuỗi
func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ToLower(unidecode.Unidecode(input))
	return input
}

// Tạo đối tượng closestmatch cho danh sách từ khóa
func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

// Tính độ tương đồng giữa hai chuỗi
func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := float64(len([]rune(a)))
	if l := float64(len([]rune(b))); l > maxLen {
		maxLen = l
	}

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/maxLen
}

// Slugify builds an ASCII url slug, "Gội đầu dưỡng sinh" → "goi-dau-duong-sinh".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range normalizeInput(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// calculateScore tính điểm phù hợp của service với câu truy vấn
func calculateScore(query string, svc models.Service, cmCategory *closestmatch.ClosestMatch) int {
	q := normalizeInput(query)
	if q == "" {
		return 0
	}
	name := normalizeInput(svc.Name)
	score := 0

	if strings.Contains(name, q) {
		score += 50
	}

	nameWords := words(name)
	for _, qw := range words(q) {
		if len(qw) < 2 {
			continue
		}
		for _, nw := range nameWords {
			if calculateSimilarity(qw, nw) >= wordSimilarityThreshold {
				score += 20
				break
			}
		}
	}

	if strings.Contains(normalizeInput(svc.Description), q) {
		score += 10
	}

	if cmCategory != nil && svc.Category != "" {
		if best := cmCategory.Closest(q); best != "" && best == normalizeInput(svc.Category) {
			score += 15
		}
	}
	return score
}

// rankServices keeps the services matching query, best score first.
func rankServices(query string, list []models.Service) []models.Service {
	seen := map[string]bool{}
	var categories []string
	for _, s := range list {
		c := normalizeInput(s.Category)
		if c != "" && !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	var cm *closestmatch.ClosestMatch
	if len(categories) > 0 {
		cm = createMatcher(categories)
	}

	type scored struct {
		svc   models.Service
		score int
	}
	var matches []scored
	for _, s := range list {
		if score := calculateScore(query, s, cm); score > 0 {
			matches = append(matches, scored{svc: s, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]models.Service, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.svc)
	}
	return out
}
