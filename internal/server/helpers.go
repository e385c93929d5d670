package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"vc7day/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive int.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (int, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return id, nil
}

// isJSONRequest reports whether the body should be decoded as JSON rather
// than as form fields.
func isJSONRequest(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}

// bindBody decodes a JSON body into dst. On failure it writes a 400 and
// returns errResponseWritten.
func bindBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// formInt reads an integer form field. Missing or malformed values read as 0
// and are rejected by input validation.
func formInt(c *fiber.Ctx, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.FormValue(key)))
	if err != nil {
		return 0
	}
	return v
}

// formBool mirrors HTML checkbox semantics: a present field is true unless it
// spells out a false value.
func formBool(c *fiber.Ctx, key string) bool {
	if c.Request().PostArgs().Has(key) {
		return !isFalse(c.FormValue(key))
	}
	if form, err := c.MultipartForm(); err == nil {
		if vals, ok := form.Value[key]; ok && len(vals) > 0 {
			return !isFalse(vals[0])
		}
	}
	return false
}

func isFalse(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "off", "no":
		return true
	}
	return false
}

// rawIDs accepts the id-list and playlist fields in any shape API clients
// send them: a comma-separated string, a number, an array or null. The
// value is kept as the comma-separated text the admin forms submit, so
// both paths share one parser.
type rawIDs string

func (r *rawIDs) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = rawIDs(s)
	case len(data) > 0 && data[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				parts = append(parts, s)
				continue
			}
			parts = append(parts, string(bytes.TrimSpace(item)))
		}
		*r = rawIDs(strings.Join(parts, ","))
	default:
		*r = rawIDs(data)
	}
	return nil
}
