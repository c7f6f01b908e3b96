// Package routepath stores canonical HTTP paths for the contacts web surface.
package routepath

import "strconv"

const (
	Root          = "/"
	Add           = "/add"
	Health        = "/up"
	EditPrefix    = "/edit/"
	DeletePrefix  = "/delete/"
	EditPattern   = EditPrefix + "{id}"
	DeletePattern = DeletePrefix + "{id}"
)

// Edit returns the edit route for one contact.
func Edit(id int64) string {
	return EditPrefix + strconv.FormatInt(id, 10)
}

// Delete returns the delete route for one contact.
func Delete(id int64) string {
	return DeletePrefix + strconv.FormatInt(id, 10)
}

// ParseID parses a positive base-10 contact id from a route segment.
func ParseID(raw string) (int64, bool) {
	if raw == "" || raw[0] == '+' || raw[0] == '-' {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
