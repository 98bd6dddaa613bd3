package pagination

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestParseAndPaginate(t *testing.T) {
	app := fiber.New()
	app.Get("/orders", func(c *fiber.Ctx) error {
		params := ParsePaginationParams(c)
		if err := ValidatePaginationParams(params); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		return c.JSON(fiber.Map{
			"filters": params.Filters,
			"offset":  params.Offset(),
			"page":    NewPaginatedResponse(c, []int{}, 25, params),
		})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/orders?page=2&page_size=10&paid=true&buyer=all&q=&status=null", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Filters map[string]string `json:"filters"`
		Offset  int               `json:"offset"`
		Page    PaginatedResponse `json:"page"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}

	if len(out.Filters) != 1 || out.Filters["paid"] != "true" {
		t.Errorf("filters = %v", out.Filters)
	}
	if out.Offset != 10 {
		t.Errorf("offset = %d", out.Offset)
	}
	meta := out.Page.Pagination
	if meta.TotalPages != 3 || meta.NextPage == nil || meta.PrevPage == nil {
		t.Errorf("meta = %+v", meta)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/orders?page_size=500", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("oversized page status = %d", resp.StatusCode)
	}
}
