package http

import (
	"net/http"

	"github.com/awantoch/familyassign/constants"
)

// CORSPolicy computes the CORS headers attached to every response.
type CORSPolicy struct {
	origins  []string
	wildcard bool
}

// NewCORSPolicy builds a policy from an allow-list. An empty list or one
// containing "*" allows any origin.
func NewCORSPolicy(origins []string) CORSPolicy {
	p := CORSPolicy{}
	for _, o := range origins {
		if o == constants.CORSWildcard {
			p.wildcard = true
			continue
		}
		p.origins = append(p.origins, o)
	}
	if len(p.origins) == 0 {
		p.wildcard = true
	}
	return p
}

// AllowOrigin returns the Access-Control-Allow-Origin value for a request
// origin: "*" for wildcard policies, the origin itself when listed, and
// otherwise the first configured origin so browsers reject the response.
func (p CORSPolicy) AllowOrigin(origin string) string {
	if p.wildcard {
		return constants.CORSWildcard
	}
	for _, o := range p.origins {
		if o == origin {
			return origin
		}
	}
	return p.origins[0]
}

func (p CORSPolicy) Apply(h http.Header, r *http.Request) {
	h.Set(constants.HeaderAllowOrigin, p.AllowOrigin(r.Header.Get(constants.HeaderOrigin)))
	h.Set(constants.HeaderAllowHeaders, constants.CORSAllowHeaders)
	h.Set(constants.HeaderAllowMethods, constants.CORSAllowMethods)
	h.Set(constants.HeaderAllowCredentials, "true")
	if !p.wildcard {
		h.Add(constants.HeaderVary, constants.HeaderOrigin)
	}
}
