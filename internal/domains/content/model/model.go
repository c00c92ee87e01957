package model

import (
	"strings"
	"time"
)

// ============ ENTITIES ============

// Kind distinguishes the two content types the site publishes.
type Kind string

const (
	KindArticle Kind = "article"
	KindEvent   Kind = "event"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindArticle, KindEvent:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// Status is the publication status. Drafts are retrievable through admin
// paths but excluded from public listings.
type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPublished, StatusDraft:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Promotional surfaces and the fixed set of page scopes they apply to.
const (
	SurfaceTrending = "trending"
	SurfaceFeatured = "featured"

	ScopeHome     = "home"
	ScopeEdmonton = "edmonton"
	ScopeCalgary  = "calgary"
)

// Scopes returns the fixed scope set in display order.
func Scopes() []string {
	return []string{ScopeHome, ScopeEdmonton, ScopeCalgary}
}

// PlacementKey builds the "<surface>:<scope>" key used in PlacementFlags.
func PlacementKey(surface, scope string) string {
	return surface + ":" + scope
}

// LocalIDPrefix marks records whose id was minted locally because the source
// store was unreachable at creation time. Such records are durable in the
// snapshot but not yet reconciled with the source.
const LocalIDPrefix = "local-"

// ContentRecord is the unit of cached content, identical in shape across
// every tier. The id is assigned once (by the source store when reachable)
// and never reassigned by a tier.
type ContentRecord struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	Title    string `json:"title"`
	Body     *string `json:"body,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
	Category string `json:"category,omitempty"`

	LocationTags []string `json:"location_tags,omitempty"`
	FreeformTags []string `json:"freeform_tags,omitempty"`

	Status Status `json:"status"`

	// PlacementFlags maps "<surface>:<scope>" to whether the record is
	// surfaced in that promotional slot.
	PlacementFlags map[string]bool `json:"placement_flags,omitempty"`

	// ImageRef is either an external URL or an embedded data URI.
	ImageRef string `json:"image_ref,omitempty"`

	// EffectiveDate drives chronological ordering: an event's scheduled
	// date for events, CreatedAt otherwise.
	EffectiveDate time.Time `json:"effective_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsLocal reports whether the record carries a locally-minted id, i.e. it
// has not been reconciled with the source store.
func (r *ContentRecord) IsLocal() bool {
	return strings.HasPrefix(r.ID, LocalIDPrefix)
}

// IsPlaced reports whether the record is flagged for a promotional slot.
func (r *ContentRecord) IsPlaced(surface, scope string) bool {
	return r.PlacementFlags[PlacementKey(surface, scope)]
}

// CityScopes returns the city scopes this record belongs to, derived from
// its location tags and placement flags. Used to decide which public pages
// need revalidation after a mutation.
func (r *ContentRecord) CityScopes() []string {
	seen := map[string]bool{}
	var scopes []string

	add := func(scope string) {
		if !seen[scope] {
			seen[scope] = true
			scopes = append(scopes, scope)
		}
	}

	for _, tag := range r.LocationTags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == ScopeEdmonton || tag == ScopeCalgary {
			add(tag)
		}
	}

	for key, on := range r.PlacementFlags {
		if !on {
			continue
		}
		if _, scope, found := strings.Cut(key, ":"); found {
			if scope == ScopeEdmonton || scope == ScopeCalgary {
				add(scope)
			}
		}
	}

	return scopes
}
