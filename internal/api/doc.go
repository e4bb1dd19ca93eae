// Package api implements the HTTP interface of the tasks service.
//
// Handlers decode and validate request bodies, call the task service, and
// translate results and errors into JSON responses. Error mapping lives in
// MapErrorToStatusCode and GetSafeErrorMessage so that internal error text
// never reaches clients.
package api
