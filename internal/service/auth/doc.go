// Package auth implements registration, password verification and the
// opaque session tokens that authenticate every mutating request.
package auth
