package types

// Status is a type for the lifecycle status of a resource in the database.
// It is used to determine if a row should be included in queries. Deletions
// are soft: rows move to StatusDeleted and stop matching default filters.
type Status string

const (
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
	StatusArchived  Status = "archived"
)

func (s Status) String() string {
	return string(s)
}
