package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateContentRequestValidate(t *testing.T) {
	when := time.Date(2024, 8, 1, 19, 0, 0, 0, time.UTC)

	valid := []CreateContentRequest{
		{Kind: string(KindArticle), Title: "A Title"},
		{Kind: string(KindArticle), Title: "Draft", Status: string(StatusDraft)},
		{Kind: string(KindEvent), Title: "Dated Event", EffectiveDate: &when},
	}
	for _, req := range valid {
		assert.NoError(t, req.Validate(), "title %q", req.Title)
	}

	invalid := []CreateContentRequest{
		{},
		{Kind: string(KindArticle)},
		{Title: "Kindless"},
		{Kind: "podcast", Title: "Wrong Kind"},
		{Kind: string(KindEvent), Title: "Undated Event"},
		{Kind: string(KindArticle), Title: "Bad Status", Status: "archived"},
	}
	for _, req := range invalid {
		assert.Error(t, req.Validate(), "title %q", req.Title)
	}
}

func TestToRecordDefaults(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	record := CreateContentRequest{Kind: string(KindArticle), Title: "T"}.ToRecord(now)
	assert.Equal(t, StatusPublished, record.Status, "status defaults to published")
	assert.Equal(t, now, record.EffectiveDate, "articles take their creation time")
	assert.Equal(t, now, record.CreatedAt)
	assert.Equal(t, now, record.UpdatedAt)

	when := now.Add(72 * time.Hour)
	event := CreateContentRequest{
		Kind: string(KindEvent), Title: "E", EffectiveDate: &when,
	}.ToRecord(now)
	assert.Equal(t, when, event.EffectiveDate, "events keep their scheduled date")
}

func TestUpdateApplyPatchesOnlyProvidedFields(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	existing := ContentRecord{
		ID: "a", Kind: KindArticle, Title: "Old", Excerpt: "kept",
		Category: "food", Status: StatusPublished,
		CreatedAt: created, UpdatedAt: created, EffectiveDate: created,
	}

	title := "New"
	status := string(StatusDraft)
	patched := UpdateContentRequest{Title: &title, Status: &status}.Apply(existing, updated)

	assert.Equal(t, "New", patched.Title)
	assert.Equal(t, StatusDraft, patched.Status)
	assert.Equal(t, "kept", patched.Excerpt)
	assert.Equal(t, "food", patched.Category)
	assert.Equal(t, created, patched.CreatedAt)
	assert.Equal(t, updated, patched.UpdatedAt)
}

func TestUpdateValidate(t *testing.T) {
	empty := ""
	bad := "archived"
	assert.Error(t, UpdateContentRequest{Title: &empty}.Validate())
	assert.Error(t, UpdateContentRequest{Status: &bad}.Validate())
	assert.NoError(t, UpdateContentRequest{}.Validate(), "an empty patch is valid")
}

func TestListRequestNormalize(t *testing.T) {
	req := ListContentRequest{Page: 0, PageSize: 0}
	req.Normalize()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.PageSize)
	assert.Equal(t, SortNewest, req.Sort)

	req = ListContentRequest{Page: -2, PageSize: 999}
	req.Normalize()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 100, req.PageSize)
}

func TestNewListContentResponse(t *testing.T) {
	items := make([]ContentRecord, 10)

	resp := NewListContentResponse(items, 25, 2, 10)
	assert.Equal(t, 25, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNextPage)
	assert.True(t, resp.HasPrevPage)

	last := NewListContentResponse(items[:5], 25, 3, 10)
	assert.False(t, last.HasNextPage)
	assert.True(t, last.HasPrevPage)

	empty := NewListContentResponse(nil, 0, 1, 20)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPrevPage)
}

func TestIsLocal(t *testing.T) {
	local := ContentRecord{ID: LocalIDPrefix + "1718000000000-abcd1234"}
	remote := ContentRecord{ID: "4f9c2f6e"}
	assert.True(t, local.IsLocal())
	assert.False(t, remote.IsLocal())
}
