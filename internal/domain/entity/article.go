// Package entity defines the core domain entities and validation logic for the application.
// It contains the headline Article as delivered by the upstream API, together with
// validation rules and domain-specific errors.
package entity

// Article represents one news item returned by the headlines API.
// Nullable upstream fields are kept as pointers so that "absent" and "empty" stay distinguishable.
type Article struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
}

// ImageURL returns the article image, or placeholder when the API supplied none.
func (a Article) ImageURL(placeholder string) string {
	if a.URLToImage == nil || *a.URLToImage == "" {
		return placeholder
	}
	return *a.URLToImage
}

// DescriptionText returns the description, or an empty string when it is null.
func (a Article) DescriptionText() string {
	if a.Description == nil {
		return ""
	}
	return *a.Description
}
