package pictures

import "time"

// Picture is an owned metadata record for a stored asset. StorageKey points
// at the binary object in the external store and is unique per owner.
type Picture struct {
	ID         string
	UserID     string
	Name       string
	Link       string
	StorageKey string
	CreatedAt  time.Time
}
