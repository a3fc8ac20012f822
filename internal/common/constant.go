package common

// AuthorizationHeaderName is the HTTP header and gRPC metadata key that carries
// the bearer token.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token inside the authorization value.
const BearerPrefix = "Bearer "
