package response

import "github.com/gofiber/fiber/v2"

type Meta struct {
	Page      int `json:"page"`
	Limit     int `json:"limit"`
	Total     int `json:"total"`
	TotalPage int `json:"total_page"`
}

// NewMeta builds list metadata; TotalPage is derived from total and limit.
func NewMeta(page, limit, total int) *Meta {
	m := &Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		m.TotalPage = (total + limit - 1) / limit
	}
	return m
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

func SuccessResponse(message string, data any, meta *Meta) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

func ErrorResponse(message string, err string) Response {
	return Response{
		Success: false,
		Message: message,
		Error:   err,
	}
}

// WriteSuccess writes a success response to the fiber context
func WriteSuccess(c *fiber.Ctx, code int, message string, data any) error {
	return c.Status(code).JSON(SuccessResponse(message, data, nil))
}

// WriteSuccessWithMeta is WriteSuccess for paged lists.
func WriteSuccessWithMeta(c *fiber.Ctx, code int, message string, data any, meta *Meta) error {
	return c.Status(code).JSON(SuccessResponse(message, data, meta))
}

// WriteError writes an error response to the fiber context
func WriteError(c *fiber.Ctx, code int, message string, err string) error {
	return c.Status(code).JSON(ErrorResponse(message, err))
}

// WriteHealth reports dependency checks: 200 when every check passed, 503
// otherwise. checks maps a dependency name to its error ("" when healthy).
func WriteHealth(c *fiber.Ctx, checks map[string]string) error {
	status := make(map[string]string, len(checks))
	healthy := true
	for name, errMsg := range checks {
		if errMsg != "" {
			healthy = false
			status[name] = errMsg
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(Response{
			Success: false,
			Message: "API is unhealthy",
			Data:    status,
		})
	}
	return WriteSuccess(c, fiber.StatusOK, "API is healthy", status)
}
