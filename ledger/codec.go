package ledger

import (
	"context"
	"encoding/json"
)

// PutJSON marshals v and stores it at key. Every record this module
// persists is a plain Go struct, so JSON is sufficient; a host backing
// Store with a real database is free to swap the wire format without
// this package's callers noticing.
func PutJSON(ctx context.Context, s Store, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, b)
}

// GetJSON loads the value at key into v, reporting whether the key was
// present. A missing key leaves v untouched.
func GetJSON(ctx context.Context, s Store, key string, v interface{}) (bool, error) {
	b, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return ok, err
	}
	return true, json.Unmarshal(b, v)
}

// Versioned is implemented by any record that carries an optimistic-
// concurrency version stamp. GetVersion reports the version the caller
// last read (zero for a record not yet persisted); SetVersion is called
// by PutJSONVersioned after a successful write to advance it.
type Versioned interface {
	GetVersion() uint64
	SetVersion(uint64)
}

type versionProbe struct {
	Version uint64
}

// PutJSONVersioned is PutJSON with a compare-and-set check: if key
// already holds a record, its stored version must equal v.GetVersion()
// or the write is rejected with VersionConflictError, signalling a
// concurrent writer touched the same composite key since the caller
// read it. On success v is advanced to the new stored version (1 for a
// fresh key) before being marshaled, so the caller's in-memory copy
// stays consistent with what was just persisted.
func PutJSONVersioned(ctx context.Context, s Store, key string, v Versioned) error {
	existing, ok, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if ok {
		var probe versionProbe
		if err := json.Unmarshal(existing, &probe); err != nil {
			return err
		}
		if probe.Version != v.GetVersion() {
			return VersionConflictError{Key: key, Expected: v.GetVersion(), Actual: probe.Version}
		}
		v.SetVersion(probe.Version + 1)
	} else {
		v.SetVersion(1)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, b)
}
