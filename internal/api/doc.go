// Package api handles incoming HTTP requests for generations and
// flashcards. Handlers decode and validate requests, call the services and
// map their errors to status codes without leaking internal details.
package api
