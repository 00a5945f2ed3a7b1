package handler // handler defines the HTTP layer over the services and repositories

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/service"
)

// getUserID extracts the user_id stored by the JWT middleware and converts it
// to uint64.  JWT numeric claims decode as float64, so several source types
// are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isStaff reports whether the request carries a staff or admin role claim.
func isStaff(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == string(model.UserTypeStaff) || role == string(model.UserTypeAdmin)
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// writeError translates a service or repository error into the JSON error
// response.  Unrecognized errors become a 500 with a generic message so
// internals never leak to clients.
func writeError(c echo.Context, err error) error {
	var ve *model.ValidationError
	var seatNF *repository.SeatNotFoundError
	var seatUn *repository.SeatUnavailableError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
	case errors.As(err, &seatNF):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": seatNF.Error(), "seat_ids": seatNF.SeatIDs})
	case errors.As(err, &seatUn):
		return c.JSON(http.StatusConflict, echo.Map{"error": seatUn.Error(), "seat_ids": seatUn.SeatIDs})
	case errors.Is(err, model.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status value"})
	case errors.Is(err, service.ErrNoSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids required"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrMovieNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	case errors.Is(err, repository.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrPaymentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
	case errors.Is(err, repository.ErrReviewNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	case errors.Is(err, repository.ErrScreenNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
