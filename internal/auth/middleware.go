package auth

import (
	"strings"

	xhttp "github.com/MohdAnasQureshi/groceryshop/pkg/http"
)

const shopOwnerIDKey = "shop_owner_id"

// Middleware verifies the bearer access token and stashes the shop owner id
// on the request context. Handlers behind it can trust ShopOwnerID.
func Middleware(tm *TokenManager) func(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			header := string(ctx.Request.Header.Peek("Authorization"))
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeUnauthorized(ctx, "missing bearer token")
				return
			}

			id, err := tm.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeUnauthorized(ctx, "invalid or expired token")
				return
			}

			ctx.SetUserValue(shopOwnerIDKey, id)
			next(ctx)
		}
	}
}

// ShopOwnerID reads the verified caller identity set by Middleware.
func ShopOwnerID(ctx *xhttp.RequestCtx) (int64, bool) {
	id, ok := ctx.UserValue(shopOwnerIDKey).(int64)
	return id, ok
}

func writeUnauthorized(ctx *xhttp.RequestCtx, msg string) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(401)
	ctx.Response.SetBodyString(`{"error":"` + msg + `"}`)
}
