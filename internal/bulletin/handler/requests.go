package handler

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"patentdesk/internal/bulletin"
	dErrors "patentdesk/pkg/domain-errors"
)

const maxSearchTermLength = 200

// SearchRequest is parsed from GET /admin/bulletin/marks query parameters.
type SearchRequest struct {
	Query string
	Issue string

	parsedIssue bulletin.IssueNumber
}

func searchRequestFrom(values url.Values) *SearchRequest {
	return &SearchRequest{
		Query: values.Get("q"),
		Issue: values.Get("issue"),
	}
}

func (r *SearchRequest) Normalize() {
	r.Query = strings.TrimSpace(r.Query)
	r.Issue = strings.TrimSpace(r.Issue)
}

// Validate allows an empty query; the aggregator answers it with no marks.
func (r *SearchRequest) Validate() error {
	if utf8.RuneCountInString(r.Query) > maxSearchTermLength {
		return dErrors.New(dErrors.CodeValidation, "q must be at most 200 characters")
	}
	if r.Issue == "" {
		return nil
	}
	issue, err := bulletin.ParseIssueNumber(r.Issue)
	if err != nil {
		return err
	}
	r.parsedIssue = issue
	return nil
}

func (r *SearchRequest) Options() bulletin.SearchOptions {
	return bulletin.SearchOptions{Issue: r.parsedIssue}
}
