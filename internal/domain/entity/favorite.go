package entity

import (
	"fmt"
	"strconv"
	"time"
)

// TargetKind is the closed set of things a favorite can point at.
type TargetKind string

const (
	// TargetPost marks a favorite on a post.
	TargetPost TargetKind = "post"
	// TargetUser marks a favorite on another user (the actor follows that user).
	TargetUser TargetKind = "user"
)

// IsValid reports whether k is one of the known target kinds.
func (k TargetKind) IsValid() bool {
	switch k {
	case TargetPost, TargetUser:
		return true
	}
	return false
}

// ParseTargetKind converts a stored or user supplied string into a TargetKind.
func ParseTargetKind(s string) (TargetKind, error) {
	k := TargetKind(s)
	if !k.IsValid() {
		return "", &ValidationError{Field: "target_kind", Message: fmt.Sprintf("invalid target kind %q", s)}
	}
	return k, nil
}

// Target identifies the favorited entity: the kind selects the table, ID the row.
type Target struct {
	Kind TargetKind
	ID   int64
}

// PostTarget returns the target for post id.
func PostTarget(id int64) Target { return Target{Kind: TargetPost, ID: id} }

// UserTarget returns the target for user id.
func UserTarget(id int64) Target { return Target{Kind: TargetUser, ID: id} }

// Validate checks the kind and id of the target.
func (t Target) Validate() error {
	if !t.Kind.IsValid() {
		return &ValidationError{Field: "target_kind", Message: fmt.Sprintf("invalid target kind %q", string(t.Kind))}
	}
	if t.ID <= 0 {
		return &ValidationError{Field: string(t.Kind), Message: "id must be positive"}
	}
	return nil
}

func (t Target) String() string {
	return string(t.Kind) + ":" + strconv.FormatInt(t.ID, 10)
}

// LegacyMirrorVersion controls the post_id mirror column kept for consumers that
// predate polymorphic favorites.
//
//   - 1: post favorites also write post_id (current).
//   - 0: stop writing post_id. Switch only after every reader uses
//     (target_kind, target_id); the column is dropped in the release after that.
const LegacyMirrorVersion = 1

// ErrSelfReference is returned when a user tries to favorite themself.
var ErrSelfReference = &ValidationError{Field: "user", Message: "cannot favorite yourself"}

// Favorite is an actor -> target association owned by the actor.
type Favorite struct {
	ID      int64
	ActorID int64
	Target  Target
	// LegacyPostID mirrors Target.ID for post favorites. Derived, never authoritative.
	LegacyPostID *int64
	CreatedAt    time.Time
}

// NewFavorite builds a favorite that satisfies every domain invariant, deriving
// the legacy mirror from the target.
func NewFavorite(actorID int64, target Target, now time.Time) (*Favorite, error) {
	f := &Favorite{
		ActorID:      actorID,
		Target:       target,
		LegacyPostID: legacyPostID(target),
		CreatedAt:    now,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the actor, the target, the self-reference ban and the legacy mirror.
func (f *Favorite) Validate() error {
	if f.ActorID <= 0 {
		return &ValidationError{Field: "actor_id", Message: "must be positive"}
	}
	if err := f.Target.Validate(); err != nil {
		return err
	}
	if f.Target.Kind == TargetUser && f.Target.ID == f.ActorID {
		return ErrSelfReference
	}
	want := legacyPostID(f.Target)
	switch {
	case want == nil && f.LegacyPostID != nil:
		return &ValidationError{Field: "post_id", Message: "must be empty for non-post favorites"}
	case want != nil && (f.LegacyPostID == nil || *f.LegacyPostID != *want):
		return &ValidationError{Field: "post_id", Message: "must mirror target_id for post favorites"}
	}
	return nil
}

func legacyPostID(t Target) *int64 {
	if LegacyMirrorVersion == 0 || t.Kind != TargetPost {
		return nil
	}
	id := t.ID
	return &id
}
