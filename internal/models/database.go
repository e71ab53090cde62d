package models

import "encoding/json"

// Database is the single document that backs the whole application. It is
// loaded wholesale, replaced wholesale on every mutation and persisted
// wholesale; nested collections are never patched in place.
type Database struct {
	Users                 []User                 `json:"users"`
	Requests              []MembershipRequest    `json:"requests"`
	CertificationRequests []CertificationRequest `json:"certificationRequests"`
	Events                []CertifiedEvent       `json:"events"`
	Results               []EventResult          `json:"results"`
	Settings              Settings               `json:"settings"`
}

// Clone returns a deep copy of the document via a JSON round-trip. The
// document is plain data, so the round-trip is lossless.
func (db *Database) Clone() *Database {
	raw, err := json.Marshal(db)
	if err != nil {
		// The document contains only marshalable types; this cannot happen
		// for a well-formed value.
		panic("models: clone marshal: " + err.Error())
	}
	var out Database
	if err := json.Unmarshal(raw, &out); err != nil {
		panic("models: clone unmarshal: " + err.Error())
	}
	return &out
}

// UserByID returns the user with the given identity token, or nil.
func (db *Database) UserByID(id string) *User {
	for i := range db.Users {
		if db.Users[i].ID == id {
			return &db.Users[i]
		}
	}
	return nil
}

// EventByID returns the event with the given identity token, or nil.
func (db *Database) EventByID(id string) *CertifiedEvent {
	for i := range db.Events {
		if db.Events[i].ID == id {
			return &db.Events[i]
		}
	}
	return nil
}

// Snapshot is a retained, immutable copy of the full document.
type Snapshot struct {
	ID        string    `json:"id"`
	CreatedAt string    `json:"createdAt"`
	Label     string    `json:"label,omitempty"`
	Data      *Database `json:"data"`
}
