package model

import "time"

// Theatre is a venue containing one or more screens.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – venue name.
//	City      – city used for browsing/filtering.
//	Address   – street address.
//	IsActive  – whether the theatre is listed publicly.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Theatre struct {
	ID        uint64    // theatres.id
	Name      string    // theatres.name
	City      string    // theatres.city
	Address   string    // theatres.address
	IsActive  bool      // theatres.is_active
	CreatedAt time.Time // theatres.created_at
	UpdatedAt time.Time // theatres.updated_at
}
