package security

import (
	"github.com/oklog/ulid/v2"
)

// GenerateULID returns a new ULID string. Every content entity (pages, news,
// members, files) and every style-bearing node identity derives its id from
// one of these; ULIDs sort by creation time, which keeps insert order cheap
// to recover.
func GenerateULID() string {
	return ulid.Make().String()
}
