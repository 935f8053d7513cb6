package service

import "github.com/fathima-sithara/aichat-service/internal/domain"

type Pagination struct {
	CurrentPage   int  `json:"current_page"`
	TotalPages    int  `json:"total_pages"`
	TotalMessages int  `json:"total_messages"`
	HasMore       bool `json:"has_more"`
	HasPrevious   bool `json:"has_previous"`
}

// PageHistory pages a chat history newest-first: page 1 holds the most
// recent messages, higher pages reach further back. Each returned page is
// in chronological order so the UI can prepend it when scrolling up.
func PageHistory(history []domain.Message, page, pageSize int) ([]domain.Message, Pagination, error) {
	if page < 1 || pageSize < 1 {
		return nil, Pagination{}, domain.ErrInvalidPage
	}

	total := len(history)
	totalPages := (total + pageSize - 1) / pageSize

	end := total - (page-1)*pageSize
	start := end - pageSize
	if start < 0 {
		start = 0
	}

	out := []domain.Message{}
	if end > 0 {
		out = append(out, history[start:end]...)
	}

	p := Pagination{
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalMessages: total,
		HasMore:       page < totalPages,
		HasPrevious:   page > 1,
	}
	return out, p, nil
}
