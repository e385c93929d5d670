package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestRawIDs_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  rawIDs
	}{
		{name: "string", input: `"1, 2,3"`, want: "1, 2,3"},
		{name: "number", input: `7`, want: "7"},
		{name: "null", input: `null`, want: ""},
		{name: "numeric array", input: `[1, 2, 3]`, want: "1,2,3"},
		{name: "mixed array", input: `[1, "2", "x"]`, want: "1,2,x"},
		{name: "empty array", input: `[]`, want: ""},
		{name: "None string", input: `"None"`, want: "None"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				IDs rawIDs `json:"ids"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"ids":`+tt.input+`}`), &got))
			assert.Equal(t, tt.want, got.IDs)
		})
	}

	var bad struct {
		IDs rawIDs `json:"ids"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"ids":[1,}`), &bad))
}

func TestParseID(t *testing.T) {
	s := &Server{}
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/items/5", http.StatusOK},
		{"/items/0", http.StatusBadRequest},
		{"/items/-3", http.StatusBadRequest},
		{"/items/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestFormBool(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"value": formBool(c, "auto_related")})
	})

	tests := []struct {
		name   string
		values url.Values
		want   string
	}{
		{name: "checked", values: url.Values{"auto_related": {"on"}}, want: `{"value":true}`},
		{name: "empty value still checked", values: url.Values{"auto_related": {""}}, want: `{"value":true}`},
		{name: "explicit false", values: url.Values{"auto_related": {"false"}}, want: `{"value":false}`},
		{name: "absent", values: url.Values{"other": {"1"}}, want: `{"value":false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(formRequest(http.MethodPost, "/", tt.values, ""))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body json.RawMessage
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.JSONEq(t, tt.want, string(body))
		})
	}
}
