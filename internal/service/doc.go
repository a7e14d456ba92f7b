// Package service provides application-level services for managing listings.
// Authentication lives in the auth subpackage.
package service
