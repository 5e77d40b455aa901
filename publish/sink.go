// Package publish persists converted packages.
package publish

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/fdpharvest/profile"
)

// Sink stores a package and returns the id it was stored under.
type Sink interface {
	Publish(ctx context.Context, guid string, pkg profile.Package) (string, error)
}

// PackageName derives a stable package name from a record guid, so
// re-harvesting a record updates the package instead of duplicating it.
func PackageName(guid string) string {
	return "fdp-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(guid)).String()
}

// Message is the envelope written by the directory and JetStream sinks.
type Message struct {
	ID          string          `json:"id"`
	GUID        string          `json:"guid"`
	Package     profile.Package `json:"package"`
	HarvestedAt time.Time       `json:"harvested_at"`
}

func newMessage(guid string, pkg profile.Package) Message {
	return Message{
		ID:          PackageName(guid),
		GUID:        guid,
		Package:     pkg,
		HarvestedAt: time.Now().UTC(),
	}
}
