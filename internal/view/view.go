// Package view turns the unified entry collection into display-ready
// results: filtered, sorted newest first, grouped by calendar day and paged.
// Every function here is pure; inputs are never modified.
package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"dompet/internal/model"
)

type TypeFilter string

const (
	TypeAll      TypeFilter = "all"
	TypeIncome   TypeFilter = "income"
	TypeOutcome  TypeFilter = "outcome"
	TypeTransfer TypeFilter = "transfer"
)

type DatePreset string

const (
	DateAll       DatePreset = "all"
	DateToday     DatePreset = "today"
	DateYesterday DatePreset = "yesterday"
	DateLast7     DatePreset = "last7"
	DateThisMonth DatePreset = "thisMonth"
	DateCustom    DatePreset = "custom"
)

// DayLayout is the key format of DateGroup.Date.
const DayLayout = "2006-01-02"

// Filter selects entries. Zero values mean "unrestricted". Now and Location
// anchor the relative date presets so results do not depend on the clock.
type Filter struct {
	Query    string
	Type     TypeFilter
	WalletID string
	Date     DatePreset
	Custom   time.Time
	Now      time.Time
	Location *time.Location
}

func ParseTypeFilter(s string) (TypeFilter, error) {
	switch t := TypeFilter(s); t {
	case "":
		return TypeAll, nil
	case TypeAll, TypeIncome, TypeOutcome, TypeTransfer:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown type filter %q", model.ErrValidation, s)
}

func ParseDatePreset(s string) (DatePreset, error) {
	switch d := DatePreset(s); d {
	case "":
		return DateAll, nil
	case DateAll, DateToday, DateYesterday, DateLast7, DateThisMonth, DateCustom:
		return d, nil
	}
	return "", fmt.Errorf("%w: unknown date filter %q", model.ErrValidation, s)
}

func (f Filter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

// Apply returns the entries matching f, newest first (ties broken by id).
func Apply(entries []model.Entry, f Filter) []model.Entry {
	loc := f.location()
	query := strings.ToLower(strings.TrimSpace(f.Query))
	match := datePredicate(f, loc)

	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Type != "" && f.Type != TypeAll && string(e.Kind) != string(f.Type) {
			continue
		}
		if f.WalletID != "" && !e.Involves(f.WalletID) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Description()), query) {
			continue
		}
		if !match(e.CreatedAt().In(loc)) {
			continue
		}
		out = append(out, e)
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst sorts in place by createdAt descending.
func SortNewestFirst(entries []model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].CreatedAt(), entries[j].CreatedAt()
		if !a.Equal(b) {
			return a.After(b)
		}
		return entries[i].ID() < entries[j].ID()
	})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func datePredicate(f Filter, loc *time.Location) func(time.Time) bool {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := startOfDay(now.In(loc))
	within := func(from, to time.Time) func(time.Time) bool {
		return func(t time.Time) bool { return !t.Before(from) && t.Before(to) }
	}

	switch f.Date {
	case DateToday:
		return within(today, today.AddDate(0, 0, 1))
	case DateYesterday:
		return within(today.AddDate(0, 0, -1), today)
	case DateLast7:
		return within(today.AddDate(0, 0, -6), today.AddDate(0, 0, 1))
	case DateThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		return within(first, first.AddDate(0, 1, 0))
	case DateCustom:
		if f.Custom.IsZero() {
			return func(time.Time) bool { return true }
		}
		y, m, d := f.Custom.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return within(day, day.AddDate(0, 0, 1))
	}
	return func(time.Time) bool { return true }
}

// DateGroup is the set of entries created on one calendar day.
type DateGroup struct {
	Date    string        `json:"date"`
	Entries []model.Entry `json:"entries"`
}

// GroupByDate buckets entries by the day of their createdAt in loc. Groups
// come out newest day first and keep the entry order of each day sorted
// newest first.
func GroupByDate(entries []model.Entry, loc *time.Location) []DateGroup {
	if loc == nil {
		loc = time.UTC
	}
	sorted := make([]model.Entry, len(entries))
	copy(sorted, entries)
	SortNewestFirst(sorted)

	var groups []DateGroup
	index := make(map[string]int)
	for _, e := range sorted {
		key := e.CreatedAt().In(loc).Format(DayLayout)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup{Date: key})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

// FilterAndGroup is Apply followed by GroupByDate.
func FilterAndGroup(entries []model.Entry, f Filter) []DateGroup {
	return GroupByDate(Apply(entries, f), f.location())
}

// Page is one 1-indexed page of items.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices items into fixed-size pages. Pages below 1 are clamped to
// 1; a page past the end is returned empty with the correct totals.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = 10
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}

	// page-1 dibandingkan dulu supaya (page-1)*size tidak overflow
	start := total
	if page-1 < totalPages {
		start = (page - 1) * size
	}
	end := total
	if size < total-start {
		end = start + size
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Totals sums amounts per kind.
type Totals struct {
	Income   int64 `json:"income"`
	Outcome  int64 `json:"outcome"`
	Transfer int64 `json:"transfer"`
}

func Sum(entries []model.Entry) Totals {
	var t Totals
	for _, e := range entries {
		switch e.Kind {
		case model.KindIncome:
			t.Income += e.Amount()
		case model.KindOutcome:
			t.Outcome += e.Amount()
		case model.KindTransfer:
			t.Transfer += e.Amount()
		}
	}
	return t
}
