package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MaxTitleLength       = 200
	MaxAuthorLength      = 120
	MaxDescriptionLength = 2000
	MaxTags              = 10
	MaxTagLength         = 32
)

// CreateBookRequest - POST /books
type CreateBookRequest struct {
	Title       string   `json:"title" binding:"required"`
	URL         string   `json:"url" binding:"required"`
	Author      string   `json:"author" binding:"required"`
	Description *string  `json:"description"`
	CoverURL    *string  `json:"cover_url"`
	Tags        []string `json:"tags"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, MaxTitleLength),
		),
		validation.Field(&r.URL,
			validation.Required.Error("url is required"),
			is.RequestURL.Error("url must be an absolute http(s) URL"),
		),
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			validation.RuneLength(1, MaxAuthorLength),
		),
		validation.Field(&r.Description, validation.RuneLength(0, MaxDescriptionLength)),
		validation.Field(&r.CoverURL, is.RequestURL.Error("cover_url must be an absolute http(s) URL")),
		validation.Field(&r.Tags,
			validation.Length(0, MaxTags).Error("at most 10 tags"),
			validation.Each(validation.Required, validation.RuneLength(1, MaxTagLength)),
		),
	)
}

// Normalize trims fields and lowercases, dedupes and drops empty tags
func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.URL = strings.TrimSpace(r.URL)
	r.Author = strings.TrimSpace(r.Author)
	r.Description = trimOptional(r.Description)
	r.CoverURL = trimOptional(r.CoverURL)

	seen := make(map[string]struct{}, len(r.Tags))
	tags := make([]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	r.Tags = tags
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ListBooksRequest - GET /books
type ListBooksRequest struct {
	Page   int
	Limit  int
	Tag    string
	Search string
}

func (r *ListBooksRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
	r.Tag = strings.ToLower(strings.TrimSpace(r.Tag))
	r.Search = strings.TrimSpace(r.Search)
}

// PreviewRequest - POST /books/preview
type PreviewRequest struct {
	URL string `json:"url" binding:"required"`
}

func (r PreviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, is.RequestURL),
	)
}
