// Package views holds the embedded landing-page templates served after
// Stripe redirects the browser back to this service.
package views

import "embed"

//go:embed *.html
var FS embed.FS
