package server

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Error is the error description.
	Error string `json:"error"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// RayID returns the request id assigned by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// SendError writes an ErrorResponse with the given status.
func SendError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{
		Error: msg,
		RayID: RayID(c),
	})
}

// MethodNotAllowed writes the 405 response used by every endpoint.
func MethodNotAllowed(c *fiber.Ctx) error {
	return SendError(c, fiber.StatusMethodNotAllowed, "Method not allowed")
}

// Body is a loosely typed JSON request body.
type Body map[string]any

// DecodeBody parses a JSON object body. An empty body yields an empty Body.
// Numbers are kept as json.Number so long ids survive intact.
func DecodeBody(c *fiber.Ctx) (Body, error) {
	raw := bytes.TrimSpace(c.Body())
	if len(raw) == 0 {
		return Body{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var body Body
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		body = Body{}
	}
	return body, nil
}

// Value returns the first of keys holding a non-empty value.
func (b Body) Value(keys ...string) any {
	for _, k := range keys {
		switch v := b[k].(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			return v
		default:
			return v
		}
	}
	return nil
}

// String returns the first of keys holding a string or number, as a string.
func (b Body) String(keys ...string) string {
	for _, k := range keys {
		switch v := b[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// QueryValues returns every value of the first query key present, as a
// string for one value or a []string for repeated keys.
func QueryValues(c *fiber.Ctx, keys ...string) any {
	args := c.Context().QueryArgs()
	for _, k := range keys {
		raw := args.PeekMulti(k)
		if len(raw) == 0 {
			continue
		}
		if len(raw) == 1 {
			if len(raw[0]) == 0 {
				continue
			}
			return string(raw[0])
		}
		vals := make([]string, 0, len(raw))
		for _, v := range raw {
			vals = append(vals, string(v))
		}
		return vals
	}
	return nil
}
