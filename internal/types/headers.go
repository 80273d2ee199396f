package types

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	// HeaderOrganization selects the caller's active organization for the request.
	// When absent, the user's sole membership is used.
	HeaderOrganization = "X-Organization-ID"
)
