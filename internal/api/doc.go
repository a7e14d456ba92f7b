// Package api handles incoming HTTP requests, request validation, and
// response formatting. It acts as an adapter between external clients and
// the auth and listing services, translating HTTP concerns to business
// operations and service errors back to status codes.
package api
