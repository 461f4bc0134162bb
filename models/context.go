package models

// RequestContext carries the caller identity for a single request. Nothing
// populates it with enforced data yet; it is threaded through every resolver
// so that tenant scoping can later be added at the lookup layer without
// changing call signatures.
type RequestContext struct {
	Subject          string
	OrganizationSlug string
}

// Authenticated reports whether the request carried a parseable token.
func (rc RequestContext) Authenticated() bool {
	return rc.Subject != ""
}
