package summary

import "github.com/fdg312/fitbot/internal/domain"

// SummaryRequest - запрос для POST /v1/summary
type SummaryRequest struct {
	Date string `json:"date"`
}

type SummaryResponse struct {
	Date     string          `json:"date"`
	Language domain.Language `json:"language"`
	Text     string          `json:"text"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
