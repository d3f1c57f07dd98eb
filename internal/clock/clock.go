// Package clock abstracts the current time so components can take a fake
// clock in tests.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}
