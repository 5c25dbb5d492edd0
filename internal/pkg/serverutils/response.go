package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// APIResponse is the common JSON envelope for all endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) APIResponse {
	return APIResponse{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ErrorHandlerMiddleware converts unhandled panics and fiber errors
// into the standard envelope so clients never see a bare 500 page.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				_ = c.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
			}
		}()

		err := c.Next()
		if err == nil {
			return nil
		}

		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
