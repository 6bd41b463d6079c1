// Package httpapi exposes the clip library over JSON HTTP.
//
// Routes are registered on a gorilla/mux router. Errors returned by the
// library carry services markers and are mapped to status codes with
// services.HTTPStatus; the response body is always {"error": "..."}.
package httpapi
