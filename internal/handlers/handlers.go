package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/MohdAnasQureshi/groceryshop/internal/auth"
	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/internal/otp"
	"github.com/MohdAnasQureshi/groceryshop/internal/services"
	xhttp "github.com/MohdAnasQureshi/groceryshop/pkg/http"
)

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps service and validation sentinels onto HTTP status
// codes. Anything unrecognized is an internal failure and keeps its detail
// out of the response body.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case isBadRequest(err):
		writeError(ctx, 400, err.Error())
	case isUnauthorized(err):
		writeError(ctx, 401, err.Error())
	case isNotFound(err):
		writeError(ctx, 404, err.Error())
	default:
		writeError(ctx, 500, "internal error")
	}
}

var badRequestErrs = []error{
	model.ErrInvalidAmount,
	model.ErrInvalidTransactionType,
	model.ErrMissingCustomerID,
	model.ErrMissingCustomerName,
	model.ErrMissingEmail,
	model.ErrInvalidEmail,
	model.ErrMissingPassword,
	model.ErrMissingOTP,
	model.ErrEmptyStockList,
	services.ErrCustomerExists,
	services.ErrEmailTaken,
	services.ErrInvalidOTP,
	services.ErrPasswordMismatch,
	otp.ErrOTPExpired,
	otp.ErrOTPMismatch,
}

func isBadRequest(err error) bool {
	for _, e := range badRequestErrs {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func isUnauthorized(err error) bool {
	return errors.Is(err, services.ErrUnauthorized) ||
		errors.Is(err, services.ErrInvalidCredentials) ||
		errors.Is(err, auth.ErrInvalidToken)
}

func isNotFound(err error) bool {
	return errors.Is(err, services.ErrCustomerNotFound) ||
		errors.Is(err, services.ErrTransactionNotFound) ||
		errors.Is(err, services.ErrStockOrderNotFound) ||
		errors.Is(err, services.ErrShopOwnerNotFound)
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	v, _ := ctx.UserValue(name).(string)
	return strconv.ParseInt(v, 10, 64)
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// callerID reads the shop owner id verified by the auth middleware. A miss
// means the route was registered without the middleware.
func callerID(ctx *xhttp.RequestCtx) (int64, bool) {
	id, ok := auth.ShopOwnerID(ctx)
	if !ok {
		writeError(ctx, 401, "not authenticated")
	}
	return id, ok
}
