package validators

import "regexp"

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmailShapeValid checks the local@domain.tld shape only; no DNS lookup is
// made so the booking path never depends on the network.
func IsEmailShapeValid(email string) bool {
	return emailShape.MatchString(email)
}
