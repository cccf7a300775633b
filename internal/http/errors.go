package http

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the JSON envelope for every non-2xx response,
// matching the teacher's handlers_jobs.go shape.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Code       string `json:"code"`
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func errJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{Success: false, Code: code, Error: message})
}

func rateLimitedJSON(c *fiber.Ctx, retryAfterSeconds int) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
		Success:    false,
		Code:       "RateLimited",
		Error:      "rate limit exceeded",
		RetryAfter: retryAfterSeconds,
	})
}
