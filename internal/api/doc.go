// Package api exposes the card service over HTTP/JSON. Handlers decode and
// validate requests, call service.CardService, and translate service errors
// into status codes with sanitized messages. Full errors are only logged,
// after redaction.
package api
