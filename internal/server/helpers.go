package server

import (
	"errors"
	"strings"
	"unicode"

	"inkspace/internal/middleware"
	"inkspace/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// caller resolves the authenticated user through the identity store. It
// returns nil for anonymous requests. A token whose subject no longer
// exists is treated as unauthorized.
func (s *Server) caller(c *fiber.Ctx) (*models.User, error) {
	id, ok := middleware.CallerID(c)
	if !ok {
		return nil, nil
	}
	user, err := s.store.Users().GetByID(c.UserContext(), id)
	if models.IsCode(err, models.CodeNotFound) {
		return nil, models.NewUnauthorizedError("Unknown user")
	}
	return user, err
}

// requireCaller is caller for routes that need an identity.
func (s *Server) requireCaller(c *fiber.Ctx) (*models.User, error) {
	user, err := s.caller(c)
	if err == nil && user == nil {
		err = models.NewUnauthorizedError("Authentication required")
	}
	return user, err
}

// respond writes err as a JSON error with the status implied by its code.
func respond(c *fiber.Ctx, err error) error {
	if models.StatusFor(err) >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			"path", c.Path(), "error", err.Error())
	}
	return models.RespondWithAppError(c, err)
}

// bindJSON parses the request body into v, writing a 400 on failure.
func bindJSON(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}
