package utils

import "github.com/mcnijman/go-emailaddress"

// IsValidEmail reports whether the address parses as a valid email
func IsValidEmail(address string) bool {
	_, err := emailaddress.Parse(address)
	return err == nil
}
