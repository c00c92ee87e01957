package service

import (
	"sort"
	"strings"

	"content-backend/internal/domains/content/model"
)

// Listing filters always run in-process against whichever tier supplied the
// list; they are never pushed down to the source connector on this path.

func applyFilter(records []model.ContentRecord, req model.ListContentRequest) []model.ContentRecord {
	filtered := make([]model.ContentRecord, 0, len(records))
	for _, record := range records {
		if matches(record, req) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func matches(record model.ContentRecord, req model.ListContentRequest) bool {
	switch req.Status {
	case model.StatusFilterAll:
		// drafts included
	case string(model.StatusDraft):
		if record.Status != model.StatusDraft {
			return false
		}
	default:
		if record.Status != model.StatusPublished {
			return false
		}
	}

	if req.Kind != "" && record.Kind != model.Kind(req.Kind) {
		return false
	}

	if req.Category != "" && !strings.EqualFold(record.Category, req.Category) {
		return false
	}

	if req.Location != "" && !hasLocation(record.LocationTags, req.Location) {
		return false
	}

	if req.Search != "" && !matchesSearch(record, req.Search) {
		return false
	}

	if req.PlacementFlag != "" && !record.PlacementFlags[req.PlacementFlag] {
		return false
	}

	return true
}

func hasLocation(tags []string, location string) bool {
	needle := strings.ToLower(location)
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func matchesSearch(record model.ContentRecord, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(record.Title), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(record.Excerpt), needle)
}

func sortRecords(records []model.ContentRecord, sortKey string) {
	switch sortKey {
	case model.SortOldest:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		})
	case model.SortTitle:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Title) < strings.ToLower(records[j].Title)
		})
	case model.SortEffectiveDate:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].EffectiveDate.After(records[j].EffectiveDate)
		})
	default: // newest
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		})
	}
}

// paginate slices one page out of the filtered list. page and pageSize are
// already normalized by the request.
func paginate(records []model.ContentRecord, page, pageSize int) []model.ContentRecord {
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []model.ContentRecord{}
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
