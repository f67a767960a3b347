package security

import (
	"net/http"
	"time"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// SetSessionCookies writes both session tokens as HttpOnly cookies.
func SetSessionCookies(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration, secure bool) {
	setCookie(w, AccessCookieName, access, int(accessTTL.Seconds()), secure)
	setCookie(w, RefreshCookieName, refresh, int(refreshTTL.Seconds()), secure)
}

func ClearSessionCookies(w http.ResponseWriter, secure bool) {
	setCookie(w, AccessCookieName, "", -1, secure)
	setCookie(w, RefreshCookieName, "", -1, secure)
}

func ReadAccessToken(r *http.Request) string {
	return readCookie(r, AccessCookieName)
}

func ReadRefreshToken(r *http.Request) string {
	return readCookie(r, RefreshCookieName)
}

func setCookie(w http.ResponseWriter, name, value string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure, // prod=true, dev=false
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func readCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
