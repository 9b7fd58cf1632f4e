// Package repository contains data access logic separated from HTTP
// handlers.  Sentinel errors defined here let handlers distinguish
// failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrMovieNotFound is returned when a movie cannot be found.
var ErrMovieNotFound = errors.New("movie not found")

// ErrTheatreNotFound is returned when a theatre cannot be found.
var ErrTheatreNotFound = errors.New("theatre not found")

// ErrScreenNotFound is returned when a screen cannot be found.
var ErrScreenNotFound = errors.New("screen not found")

// ErrShowNotFound is returned when a show cannot be found.
var ErrShowNotFound = errors.New("show not found")

// ErrEmailExists is returned when registering an email that is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a delete or update cannot proceed due to
// dependent records, such as deleting a show that has active bookings.
// Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
