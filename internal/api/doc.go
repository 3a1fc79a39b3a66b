// Package api exposes the catalog and authentication services over HTTP.
// Handlers translate service errors into status codes through HandleAPIError.
// The shared and middleware subpackages hold the response helpers and the chi
// middleware chain.
package api
