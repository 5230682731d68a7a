package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"trellis/internal/models"
	"trellis/internal/observability"
	"trellis/internal/repository"
	"trellis/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// NoBedBucket is the bed filter value matching entries without a bed.
const NoBedBucket = "No bed assigned"

// NewBedSelector is the sentinel bed selector meaning "create the bed
// named in NewBedName as part of this save".
const NewBedSelector = "new"

const dateLayout = "2006-01-02"

// EntryInput is the submitted form for creating or updating an entry.
type EntryInput struct {
	Date  string   `json:"date"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Type  string   `json:"type"`
	Tags  []string `json:"tags"`

	// BedSelector is "", a bed ID, or NewBedSelector. NewBedName is only
	// read when the selector is NewBedSelector.
	BedSelector string `json:"bed"`
	NewBedName  string `json:"new_bed_name"`
}

// EntryView is the read model returned to clients: dates flattened to
// YYYY-MM-DD and the bed resolved to its display name.
type EntryView struct {
	ID        uint     `json:"id"`
	Date      string   `json:"date"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Type      string   `json:"type"`
	Completed bool     `json:"completed"`
	BedID     *uint    `json:"bed_id"`
	Bed       *string  `json:"bed"`
	Tags      []string `json:"tags"`
}

// Filter values for List. TypeFilter selects a slice of the journal;
// TagQuery is a case-insensitive substring match; Bed is an exact bed
// name or NoBedBucket.
type ListFilter struct {
	Type     string `json:"type"`
	TagQuery string `json:"tag"`
	Bed      string `json:"bed"`
}

const (
	FilterAll   = "all"
	FilterNotes = "notes"
	FilterNext7 = "next7"
)

// EntryService handles journal entry business logic.
type EntryService interface {
	List(ctx context.Context, ownerID uint, filter ListFilter) ([]EntryView, error)
	Get(ctx context.Context, id, ownerID uint) (*EntryView, error)
	Create(ctx context.Context, ownerID uint, input EntryInput) (*EntryView, error)
	Update(ctx context.Context, id, ownerID uint, input EntryInput) (*EntryView, error)
	ToggleCompletion(ctx context.Context, id, ownerID uint) (bool, error)
	Delete(ctx context.Context, id, ownerID uint) error
}

type entryService struct {
	entries repository.EntryRepository
	beds    repository.BedRepository
	tags    repository.TagRepository

	// now is injectable so the next7 window is testable.
	now func() time.Time
}

// NewEntryService creates a new entry service
func NewEntryService(entries repository.EntryRepository, beds repository.BedRepository, tags repository.TagRepository) EntryService {
	return &entryService{
		entries: entries,
		beds:    beds,
		tags:    tags,
		now:     time.Now,
	}
}

func (s *entryService) List(ctx context.Context, ownerID uint, filter ListFilter) ([]EntryView, error) {
	span, ctx := observability.NewSpan(ctx, "entry.list")
	defer span.End()

	entries, err := s.entries.ListByOwner(ctx, ownerID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	beds, err := s.beds.List(ctx, ownerID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	bedNames := make(map[uint]string, len(beds))
	for _, b := range beds {
		bedNames[b.ID] = b.Name
	}

	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		if !s.matches(e, filter, bedNames) {
			continue
		}
		views = append(views, toView(e, bedNames))
	}

	span.AddAttributes(attribute.Int("entries.count", len(views)))
	return views, nil
}

// matches applies the three independent filters. An entry must pass all
// of them.
func (s *entryService) matches(e *models.Entry, filter ListFilter, bedNames map[uint]string) bool {
	switch filter.Type {
	case "", FilterAll:
	case FilterNotes:
		if e.EntryType != models.EntryTypeNote {
			return false
		}
	case FilterNext7:
		// Incomplete to-dos dated today through seven days out
		if e.EntryType != models.EntryTypeTodo || e.Completed {
			return false
		}
		today := s.now().Truncate(24 * time.Hour)
		day := e.EntryDate.Truncate(24 * time.Hour)
		if day.Before(today) || day.After(today.AddDate(0, 0, 7)) {
			return false
		}
	default:
		return false
	}

	if q := strings.TrimSpace(filter.TagQuery); q != "" {
		q = strings.ToLower(q)
		found := false
		for _, tag := range e.TagNames {
			if strings.Contains(strings.ToLower(tag), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if filter.Bed != "" {
		if filter.Bed == NoBedBucket {
			return e.BedID == nil
		}
		if e.BedID == nil {
			return false
		}
		return bedNames[*e.BedID] == filter.Bed
	}

	return true
}

func (s *entryService) Get(ctx context.Context, id, ownerID uint) (*EntryView, error) {
	entry, err := s.entries.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	view := toView(entry, s.bedNameIndex(ctx, ownerID))
	return &view, nil
}

func (s *entryService) Create(ctx context.Context, ownerID uint, input EntryInput) (*EntryView, error) {
	span, ctx := observability.NewSpan(ctx, "entry.create")
	defer span.End()

	entry, tagIDs, err := s.prepare(ctx, ownerID, input)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := s.entries.Create(ctx, entry, tagIDs); err != nil {
		span.SetError(err)
		return nil, err
	}

	return s.Get(ctx, entry.ID, ownerID)
}

func (s *entryService) Update(ctx context.Context, id, ownerID uint, input EntryInput) (*EntryView, error) {
	span, ctx := observability.NewSpan(ctx, "entry.update")
	defer span.End()

	entry, tagIDs, err := s.prepare(ctx, ownerID, input)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	entry.ID = id

	if err := s.entries.Update(ctx, entry, tagIDs); err != nil {
		span.SetError(err)
		return nil, err
	}

	return s.Get(ctx, id, ownerID)
}

// prepare validates the input and resolves the bed selector and tag names
// to IDs.
func (s *entryService) prepare(ctx context.Context, ownerID uint, input EntryInput) (*models.Entry, []uint, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, nil, models.NewValidationError("title is required")
	}

	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		return nil, nil, models.NewValidationError("date must be in YYYY-MM-DD format")
	}

	entryType := input.Type
	if entryType == "" {
		entryType = models.EntryTypeNote
	}
	if entryType != models.EntryTypeNote && entryType != models.EntryTypeTodo {
		return nil, nil, models.NewValidationError("type must be note or todo")
	}

	bedID, err := s.resolveBed(ctx, ownerID, input)
	if err != nil {
		return nil, nil, err
	}

	tagIDs, err := s.resolveTags(ctx, ownerID, input.Tags)
	if err != nil {
		return nil, nil, err
	}

	return &models.Entry{
		UserID:    ownerID,
		BedID:     bedID,
		EntryDate: date,
		Title:     title,
		Body:      input.Body,
		EntryType: entryType,
	}, tagIDs, nil
}

func (s *entryService) resolveBed(ctx context.Context, ownerID uint, input EntryInput) (*uint, error) {
	switch input.BedSelector {
	case "":
		return nil, nil
	case NewBedSelector:
		name := validation.NormalizeBedName(input.NewBedName)
		if name == "" {
			return nil, models.NewValidationError("new bed name cannot be empty")
		}
		id, err := s.beds.GetOrCreate(ctx, name, ownerID)
		if err != nil {
			return nil, err
		}
		return &id, nil
	default:
		parsed, err := strconv.ParseUint(input.BedSelector, 10, 32)
		if err != nil {
			return nil, models.NewValidationError("bed must be empty, an ID, or \"new\"")
		}
		id := uint(parsed)
		// Ownership check: referencing another user's bed is a not-found,
		// not a silent cross-link.
		if _, err := s.beds.GetByID(ctx, id, ownerID); err != nil {
			return nil, models.NewNotFoundError("bed", id)
		}
		return &id, nil
	}
}

// resolveTags trims names, silently drops empties, and de-duplicates the
// resulting IDs so the join insert never violates its primary key.
func (s *entryService) resolveTags(ctx context.Context, ownerID uint, names []string) ([]uint, error) {
	seen := make(map[uint]struct{}, len(names))
	ids := make([]uint, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		id, err := s.tags.GetOrCreate(ctx, name, ownerID)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *entryService) ToggleCompletion(ctx context.Context, id, ownerID uint) (bool, error) {
	return s.entries.ToggleCompletion(ctx, id, ownerID)
}

func (s *entryService) Delete(ctx context.Context, id, ownerID uint) error {
	return s.entries.Delete(ctx, id, ownerID)
}

func (s *entryService) bedNameIndex(ctx context.Context, ownerID uint) map[uint]string {
	beds, err := s.beds.List(ctx, ownerID)
	if err != nil {
		return nil
	}
	names := make(map[uint]string, len(beds))
	for _, b := range beds {
		names[b.ID] = b.Name
	}
	return names
}

func toView(e *models.Entry, bedNames map[uint]string) EntryView {
	view := EntryView{
		ID:        e.ID,
		Date:      e.EntryDate.Format(dateLayout),
		Title:     e.Title,
		Body:      e.Body,
		Type:      e.EntryType,
		Completed: e.Completed,
		BedID:     e.BedID,
		Tags:      e.TagNames,
	}
	if view.Tags == nil {
		view.Tags = []string{}
	}
	if e.BedID != nil {
		if name, ok := bedNames[*e.BedID]; ok {
			view.Bed = &name
		}
	}
	return view
}
