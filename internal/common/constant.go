// Package common contains shared constants and sentinel errors used across
// the profiles server components.
package common

// AuthorizationHeaderName is the gRPC metadata key carrying the bearer token
// on authenticated requests.
const AuthorizationHeaderName = "authorization"

// AuthorizationScheme prefixes the token key in the authorization header,
// e.g. "Token 9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b".
const AuthorizationScheme = "Token"

// MaxStatusTextLength bounds the status text of a feed item, in characters.
const MaxStatusTextLength = 255
