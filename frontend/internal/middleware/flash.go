package middleware

import (
	"encoding/base64"
	"net/http"
)

const (
	FlashError   = "flash_error"
	FlashSuccess = "flash_success"
	EmailPrefill = "email_prefill"
)

// SetFlash stores a one-shot message for the next page render. Values are
// base64 encoded so any text survives the cookie.
func SetFlash(w http.ResponseWriter, name, message string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    base64.StdEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads a flash message and clears its cookie.
func PopFlash(w http.ResponseWriter, r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	decoded, err := base64.StdEncoding.DecodeString(c.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}
