package dto

import (
	"chamaai_backend/internal/listing"
	"chamaai_backend/internal/models"
)

// Pagination - метаданные страницы (страницы нумеруются с 1)
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

type FAQResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Topic    string `json:"topic,omitempty"`
}

func NewFAQResponse(q *models.FAQQuestion) FAQResponse {
	return FAQResponse{
		ID:       q.ID,
		Question: q.Question,
		Answer:   q.Answer,
		Topic:    q.Topic,
	}
}

// ======================
// Forms (подсказки в реальном времени)
// ======================

type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

type PhoneFormatRequest struct {
	Phone string `json:"phone"`
}

type PhoneFormatResponse struct {
	Formatted string `json:"formatted"`
	Valid     bool   `json:"valid"`
}

// ListResponse - ответ списка в форме {data, is_loading, error} плюс страница
type ListResponse[T any] struct {
	Data       []T              `json:"data"`
	IsLoading  bool             `json:"is_loading"`
	Error      *listing.Failure `json:"error"`
	Pagination *Pagination      `json:"pagination,omitempty"`
}

func NewListResponse[T any](res listing.Result[T], page *Pagination) *ListResponse[T] {
	return &ListResponse[T]{
		Data:       res.Data,
		IsLoading:  res.IsLoading,
		Error:      res.Error,
		Pagination: page,
	}
}
