package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestNewMeta(t *testing.T) {
	tests := []struct {
		page, limit, total, want int
	}{
		{1, 10, 0, 0},
		{1, 10, 10, 1},
		{2, 10, 11, 2},
		{1, 0, 5, 0},
	}
	for _, tt := range tests {
		if got := NewMeta(tt.page, tt.limit, tt.total).TotalPage; got != tt.want {
			t.Errorf("NewMeta(%d, %d, %d).TotalPage = %d, want %d", tt.page, tt.limit, tt.total, got, tt.want)
		}
	}
}

func TestWriteHealth(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return WriteHealth(c, map[string]string{"redis": ""})
	})
	app.Get("/down", func(c *fiber.Ctx) error {
		return WriteHealth(c, map[string]string{"redis": "", "postgres": "connection refused"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("ok: status = %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/down", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("down: status = %d", resp.StatusCode)
	}
	var body Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	status := body.Data.(map[string]any)
	if body.Success || status["postgres"] != "connection refused" || status["redis"] != "ok" {
		t.Errorf("body = %+v", body)
	}
}
