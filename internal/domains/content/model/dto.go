package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ============ DTOs ============

// Sort options for listings.
const (
	SortNewest        = "newest"
	SortOldest        = "oldest"
	SortTitle         = "title"
	SortEffectiveDate = "effective_date"
)

// StatusFilterAll opts admin listings into drafts alongside published
// records. The zero value of ListContentRequest.Status excludes drafts.
const StatusFilterAll = "all"

// ListContentRequest - query parameters for listings. Filtering always runs
// in-process against whichever tier supplied the list.
type ListContentRequest struct {
	Kind          string `form:"kind"`
	Category      string `form:"category"`
	Location      string `form:"location"` // substring match over location tags
	Status        string `form:"status"`   // published (default), draft, all
	Search        string `form:"search"`   // free-text match over title/excerpt
	PlacementFlag string `form:"placement"` // "<surface>:<scope>"
	Sort          string `form:"sort"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}

// Normalize clamps pagination to page >= 1 and 1 <= page_size <= 100 and
// defaults the sort, so callers never reject a request over bounds.
func (req *ListContentRequest) Normalize() {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}
	if req.Sort == "" {
		req.Sort = SortNewest
	}
}

func (req ListContentRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Kind, validation.In(string(KindArticle), string(KindEvent))),
		validation.Field(&req.Status, validation.In(string(StatusPublished), string(StatusDraft), StatusFilterAll)),
		validation.Field(&req.Sort, validation.In(SortNewest, SortOldest, SortTitle, SortEffectiveDate)),
	)
}

// ListContentResponse - one page of records plus pagination metadata.
type ListContentResponse struct {
	Items       []ContentRecord `json:"items"`
	Total       int             `json:"total"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	TotalPages  int             `json:"total_pages"`
	HasNextPage bool            `json:"has_next_page"`
	HasPrevPage bool            `json:"has_prev_page"`
}

// NewListContentResponse computes the pagination envelope for one page.
func NewListContentResponse(items []ContentRecord, total, page, pageSize int) ListContentResponse {
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return ListContentResponse{
		Items:       items,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}
}

// CreateContentRequest - payload for creating a record.
type CreateContentRequest struct {
	Kind           string          `json:"kind"`
	Title          string          `json:"title"`
	Body           *string         `json:"body,omitempty"`
	Excerpt        string          `json:"excerpt,omitempty"`
	Category       string          `json:"category,omitempty"`
	LocationTags   []string        `json:"location_tags,omitempty"`
	FreeformTags   []string        `json:"freeform_tags,omitempty"`
	Status         string          `json:"status"`
	PlacementFlags map[string]bool `json:"placement_flags,omitempty"`
	ImageRef       string          `json:"image_ref,omitempty"`
	EffectiveDate  *time.Time      `json:"effective_date,omitempty"`
}

func (req CreateContentRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Kind, validation.Required, validation.In(string(KindArticle), string(KindEvent))),
		validation.Field(&req.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.Status, validation.In(string(StatusPublished), string(StatusDraft))),
		validation.Field(&req.Excerpt, validation.Length(0, 2000)),
	)
	if err != nil {
		return err
	}

	// Events always carry a scheduled date distinct from their creation
	// time; articles derive their effective date from created_at.
	if req.Kind == string(KindEvent) && req.EffectiveDate == nil {
		return validation.Errors{
			"effective_date": validation.NewError("validation_required", "events require an effective date"),
		}
	}

	return nil
}

// ToRecord builds the entity to write. Timestamps and the effective date for
// articles are stamped by the tier that accepts the write.
func (req CreateContentRequest) ToRecord(now time.Time) ContentRecord {
	status := Status(req.Status)
	if status == "" {
		status = StatusPublished
	}

	record := ContentRecord{
		Kind:           Kind(req.Kind),
		Title:          req.Title,
		Body:           req.Body,
		Excerpt:        req.Excerpt,
		Category:       req.Category,
		LocationTags:   req.LocationTags,
		FreeformTags:   req.FreeformTags,
		Status:         status,
		PlacementFlags: req.PlacementFlags,
		ImageRef:       req.ImageRef,
		CreatedAt:      now,
		UpdatedAt:      now,
		EffectiveDate:  now,
	}

	if req.EffectiveDate != nil {
		record.EffectiveDate = *req.EffectiveDate
	}

	return record
}

// UpdateContentRequest - payload for updating a record. Every field is
// optional; nil fields retain their prior values, then the patched record
// replaces the stored one wholesale.
type UpdateContentRequest struct {
	Title          *string         `json:"title,omitempty"`
	Body           *string         `json:"body,omitempty"`
	Excerpt        *string         `json:"excerpt,omitempty"`
	Category       *string         `json:"category,omitempty"`
	LocationTags   []string        `json:"location_tags,omitempty"`
	FreeformTags   []string        `json:"freeform_tags,omitempty"`
	Status         *string         `json:"status,omitempty"`
	PlacementFlags map[string]bool `json:"placement_flags,omitempty"`
	ImageRef       *string         `json:"image_ref,omitempty"`
	EffectiveDate  *time.Time      `json:"effective_date,omitempty"`
}

func (req UpdateContentRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&req.Status, validation.In(string(StatusPublished), string(StatusDraft))),
	)
}

// Apply patches an existing record with the non-nil fields of the request.
func (req UpdateContentRequest) Apply(existing ContentRecord, now time.Time) ContentRecord {
	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Body != nil {
		existing.Body = req.Body
	}
	if req.Excerpt != nil {
		existing.Excerpt = *req.Excerpt
	}
	if req.Category != nil {
		existing.Category = *req.Category
	}
	if req.LocationTags != nil {
		existing.LocationTags = req.LocationTags
	}
	if req.FreeformTags != nil {
		existing.FreeformTags = req.FreeformTags
	}
	if req.Status != nil {
		existing.Status = Status(*req.Status)
	}
	if req.PlacementFlags != nil {
		existing.PlacementFlags = req.PlacementFlags
	}
	if req.ImageRef != nil {
		existing.ImageRef = *req.ImageRef
	}
	if req.EffectiveDate != nil {
		existing.EffectiveDate = *req.EffectiveDate
	}

	existing.UpdatedAt = now
	return existing
}

// WriteResult - outcome of a create/update. Reconciled is false when the
// source store was unreachable and the mutation is durable only in the
// snapshot.
type WriteResult struct {
	Record     ContentRecord `json:"record"`
	Reconciled bool          `json:"reconciled"`
}

// DeleteResult - outcome of a delete. Reconciled is false when the source
// delete failed and the record was only removed locally.
type DeleteResult struct {
	Deleted    bool `json:"deleted"`
	Reconciled bool `json:"reconciled"`
}

// ResyncResult - outcome of a full reconciliation pull.
type ResyncResult struct {
	Count int `json:"count"`
}
