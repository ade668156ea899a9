package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"os"
	"strings"
)

var tokenList = strings.Split(os.Getenv("TOKEN_LIST"), ",")

type bearerTokenKey struct{}

// BearerToken - middleware to extract the bearer token from the request
func BearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string

		bearer := r.Header.Get("Authorization")

		if len(bearer) > 7 && strings.ToUpper(bearer[0:6]) == "BEARER" {
			token = bearer[7:]
		}
		ctx := context.WithValue(r.Context(), bearerTokenKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isSimpleTokenValid(list []string, token string) bool {
	if token == "" {
		return false
	}
	for _, validToken := range list {
		// NOTE token length information is leaked even with subtle.ConstantTimeCompare
		if subtle.ConstantTimeCompare([]byte(validToken), []byte(token)) == 1 {
			return true
		}
	}
	return false
}

func isSimpleTokenInContext(ctx context.Context) bool {
	token, ok := ctx.Value(bearerTokenKey{}).(string)
	if !ok || !isSimpleTokenValid(tokenList, token) {
		return false
	}
	return true
}

// SimpleTokenAuthorizedOnly - middleware requiring a valid token from the list
func SimpleTokenAuthorizedOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isSimpleTokenInContext(r.Context()) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
