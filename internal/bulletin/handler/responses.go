package handler

import "patentdesk/internal/bulletin"

type IssuesResponse struct {
	Issues []string `json:"issues"`
	Count  int      `json:"count"`
}

type SearchResponse struct {
	Marks     []bulletin.MarkRecord `json:"marks"`
	Count     int                   `json:"count"`
	Truncated bool                  `json:"truncated"`
	Partial   bool                  `json:"partial"`
}

type WatchMatchResponse struct {
	FirmID    string                `json:"firm_id"`
	FirmTitle string                `json:"firm_title"`
	Marks     []bulletin.MarkRecord `json:"marks"`
}

type WatchResponse struct {
	Issue   string               `json:"issue"`
	Matches []WatchMatchResponse `json:"matches"`
	Partial bool                 `json:"partial"`
}

func fromSearchResult(res bulletin.SearchResult) *SearchResponse {
	marks := res.Marks
	if marks == nil {
		marks = []bulletin.MarkRecord{}
	}
	return &SearchResponse{
		Marks:     marks,
		Count:     len(marks),
		Truncated: res.Truncated,
		Partial:   res.Partial,
	}
}

func fromWatchReport(r *bulletin.WatchReport) *WatchResponse {
	matches := make([]WatchMatchResponse, 0, len(r.Matches))
	for _, m := range r.Matches {
		matches = append(matches, WatchMatchResponse{
			FirmID:    m.Firm.ID,
			FirmTitle: m.Firm.Title,
			Marks:     m.Marks,
		})
	}
	return &WatchResponse{
		Issue:   r.Issue.String(),
		Matches: matches,
		Partial: r.Partial,
	}
}
