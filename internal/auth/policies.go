package auth

import (
	"fmt"
	"go-blog-app/internal/logger"

	"github.com/casbin/casbin/v2"
)

// SeedDefaultPolicies ensures the application has a baseline set of route
// authorization rules. Each policy is checked before being added, so the
// operation is idempotent and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	// Anonymous viewers can read everything public; members additionally
	// reach the create/edit/delete flows. Which rows a member may actually
	// mutate is decided by the ownership predicates in the service layer.
	policies := [][]string{
		{"anonymous", "/", "GET"},
		{"anonymous", "/posts/*", "GET"},
		{"anonymous", "/category/*", "GET"},
		{"anonymous", "/profile/*", "GET"},
		{"anonymous", "/about", "GET"},
		{"anonymous", "/rules", "GET"},
		{"anonymous", "/auth/*", "GET"},
		{"anonymous", "/robots.txt", "GET"},
		{"anonymous", "/sitemap.xml", "GET"},
		{"anonymous", "/static/*", "GET"},

		{"member", "/posts/*", "POST"},
		{"member", "/comments/*", "GET"},
		{"member", "/comments/*", "POST"},
		{"member", "/profile/*", "POST"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Members inherit everything anonymous viewers may do.
	if has, _ := e.HasRoleForUser("member", "anonymous"); !has {
		if _, err := e.AddRoleForUser("member", "anonymous"); err != nil {
			log.Error(err, "Failed to add role 'member' -> 'anonymous'")
		}
	}
	log.Info("Policy seeding complete.")
}

// GrantMember assigns the member role to an identity subject, idempotently.
// Called from the login callback once a user has authenticated.
func GrantMember(e casbin.IEnforcer, subject string) error {
	if has, _ := e.HasRoleForUser(subject, "member"); has {
		return nil
	}
	_, err := e.AddRoleForUser(subject, "member")
	return err
}
