package domain

import (
	"errors"
	"time"
)

// DataSource represents a producer of hierarchical data, such as a
// network scanner or a filesystem walker. Unique by Name.
type DataSource struct {
	ID          int64
	Name        string
	SourceType  string
	Description string
	// ConnectionInfo is an opaque JSON blob describing how the source
	// was reached. The core never inspects it.
	ConnectionInfo []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the fields required before an upsert.
func (s *DataSource) Validate() error {
	if s.Name == "" {
		return errors.New("data source name is required")
	}
	if s.SourceType == "" {
		return errors.New("data source type is required")
	}
	return nil
}
