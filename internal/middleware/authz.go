package middleware

import (
	"net/http"

	"go-blog-app/internal/session"

	"github.com/casbin/casbin/v2"
)

// Authorizer creates the route-level authorization middleware. It resolves
// the viewer from the session, attaches it to the request context, and asks
// Casbin whether the viewer's role may reach the requested route at all.
// Ownership of individual posts and comments is not decided here.
func Authorizer(e *casbin.Enforcer, sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := sm.GetString(r.Context(), "user_subject")
			username := sm.GetString(r.Context(), "user_username")

			userInfo := &UserInfo{
				Subject:       subject,
				Username:      username,
				Authenticated: subject != "",
			}
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			enforceAs := subject
			if enforceAs == "" {
				enforceAs = "anonymous"
			}

			allowed, err := e.Enforce(enforceAs, r.URL.Path, r.Method)
			if err != nil {
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}
			if !allowed {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
