package media

import (
	"fmt"
)

type UploadResult struct {
	URL string `json:"url"`
}

type APIError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Errors []APIError `json:"errors"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("media storage api error: %v", e.Errors)
}
