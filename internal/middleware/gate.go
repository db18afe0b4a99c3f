package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Access is the credential level an operation requires. The zero value is
// AccessAuthenticated so anything missing from a Policy fails closed.
type Access int

const (
	AccessAuthenticated Access = iota
	AccessAnyone
)

func (a Access) String() string {
	if a == AccessAnyone {
		return "anyone"
	}
	return "authenticated"
}

// Resources named in the access policy
const (
	ResourceUser        = "user"
	ResourceUserMe      = "user-me"
	ResourceShop        = "shop"
	ResourceProduct     = "product"
	ResourceCart        = "cart"
	ResourceReview      = "review"
	ResourceTransaction = "transaction"
	ResourceMedia       = "media"
)

// Policy maps resource -> HTTP method -> required access
type Policy map[string]map[string]Access

// DefaultPolicy: catalog reads are public, every write and all cart,
// purchase and profile operations need a caller.
var DefaultPolicy = Policy{
	ResourceUser: {
		http.MethodPost: AccessAnyone,
	},
	ResourceShop: {
		http.MethodGet: AccessAnyone,
	},
	ResourceProduct: {
		http.MethodGet: AccessAnyone,
	},
	ResourceReview: {
		http.MethodGet: AccessAnyone,
	},
}

// Required returns the access level for (resource, method)
func (p Policy) Required(resource, method string) Access {
	if methods, ok := p[resource]; ok {
		return methods[method]
	}
	return AccessAuthenticated
}

// Gate enforces the policy for resource before any handler runs
func (m *AuthMiddleware) Gate(resource string) gin.HandlerFunc {
	authenticate := m.Authenticate()
	optional := m.OptionalAuthenticate()

	return func(c *gin.Context) {
		if m.policy.Required(resource, c.Request.Method) == AccessAnyone {
			optional(c)
			return
		}
		authenticate(c)
	}
}
