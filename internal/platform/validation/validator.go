// Package validation checks the loaded configuration before the server
// starts taking requests.
package validation

// Validator reports constraint violations on a struct as a map of field
// name to message. A nil map means the struct is valid.
type Validator interface {
	ValidateStruct(s any) map[string]string
}
