package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidTitle = errors.New("title must be 1-100 characters")
	ErrInvalidPage  = errors.New("page and page_size must be >= 1")
	ErrInvalidRole  = errors.New("role must be user or model")
	ErrEmptyMessage = errors.New("message text required")
)
