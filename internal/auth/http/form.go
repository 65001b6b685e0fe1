package http

import (
	"net/http"

	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
)

// requireForm returns the named form values, or writes a 400 naming the
// first missing one and reports false.
func requireForm(w http.ResponseWriter, r *http.Request, fields ...string) (map[string]string, bool) {
	if err := r.ParseForm(); err != nil {
		authsdk.ErrFieldRequired(fields[0]).WriteError(w)
		return nil, false
	}

	values := make(map[string]string, len(fields))
	for _, f := range fields {
		v := r.PostForm.Get(f)
		if v == "" {
			authsdk.ErrFieldRequired(f).WriteError(w)
			return nil, false
		}
		values[f] = v
	}
	return values, true
}

func sessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     authsdk.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearedSessionCookie(secure bool) *http.Cookie {
	c := sessionCookie("", secure)
	c.MaxAge = -1
	return c
}
