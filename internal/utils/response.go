package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the fixed response shape every endpoint returns, success or
// failure. Data is always present, possibly as an empty object.
type Envelope struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Timestamp  string      `json:"timestamp"`
}

func envelopeTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}

// Success writes a success envelope.
func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	if data == nil {
		data = fiber.Map{}
	}
	return c.Status(status).JSON(Envelope{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
		Timestamp:  envelopeTimestamp(),
	})
}

// Error writes an error envelope. errs carries field-level detail when a
// validation failure has any.
func Error(c *fiber.Ctx, status int, message string, errs interface{}) error {
	if errs == nil {
		errs = fiber.Map{}
	}
	return c.Status(status).JSON(Envelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Data:       errs,
		Timestamp:  envelopeTimestamp(),
	})
}

// ErrorHandler converts any error that escapes a handler into the standard
// envelope so clients never see a raw unstructured error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return Error(c, code, message, nil)
}
