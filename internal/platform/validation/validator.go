package validation

// Validator checks a decoded request payload against its struct tags.
// A nil result means the payload is valid; otherwise the map carries one
// message per failing field, keyed by the field's json name.
type Validator interface {
	ValidateStruct(s any) map[string]string
}
