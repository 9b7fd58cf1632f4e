package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// errUnauthenticated signals that no usable principal was found in the
// request context.
var errUnauthenticated = errors.New("unauthenticated")

// currentUser extracts the authenticated user's ID and role from the
// context values set by the JWT middleware.  The "sub" claim round-trips
// through JSON, so it arrives as a float64.
func currentUser(c echo.Context) (uint64, string, error) {
	var uid uint64
	switch v := c.Get("user_id").(type) {
	case float64:
		uid = uint64(v)
	case uint64:
		uid = v
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, "", errUnauthenticated
		}
		uid = n
	default:
		return 0, "", errUnauthenticated
	}
	if uid == 0 {
		return 0, "", errUnauthenticated
	}
	role, _ := c.Get("role").(string)
	return uid, role, nil
}

// isAdmin reports whether the role carries admin privileges.
func isAdmin(role string) bool { return role == model.RoleAdmin }

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// pageParams reads limit/offset query parameters with sane bounds.
func pageParams(c echo.Context) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
