package feed

import (
	"strings"

	"golang.org/x/text/cases"

	"newsfeed/internal/domain/entity"
)

// Filter returns the articles whose title contains term, ignoring case.
// Order is preserved and an empty term keeps every article.
// The result never aliases the input slice.
func Filter(articles []entity.Article, term string) []entity.Article {
	// cases.Caser は状態を持つため呼び出しごとに生成する
	caser := cases.Fold()
	needle := caser.String(term)

	out := make([]entity.Article, 0, len(articles))
	for _, a := range articles {
		if strings.Contains(caser.String(a.Title), needle) {
			out = append(out, a)
		}
	}
	return out
}
