package guides

import (
	"strings"

	"github.com/google/uuid"
)

// ImageSource identifies the bytes behind a draft entry: either a durable
// URL (previously uploaded) or a pending local blob with an ephemeral
// preview locator. Exactly one of the two forms is populated.
type ImageSource struct {
	URL         string
	Data        []byte
	Preview     string
	Name        string
	ContentType string
}

// Pending reports whether the source is a local blob awaiting upload.
func (s ImageSource) Pending() bool {
	return s.URL == "" && len(s.Data) > 0
}

// Empty reports whether the source holds neither a reference nor a blob.
func (s ImageSource) Empty() bool {
	return s.URL == "" && len(s.Data) == 0
}

// PartDraft is a part image entry under edit.
type PartDraft struct {
	Source      ImageSource
	Description string
}

// StepDraft is a step entry under edit. ClientID is a session-scoped
// identity used for in-place edit and deletion; ordering is defined by
// array position, never by ClientID.
type StepDraft struct {
	ClientID    int64
	Source      ImageSource
	Description string
}

// Draft is the in-memory mutable counterpart of a Guide. It is owned by a
// single editing session and is not safe for concurrent use.
//
// Validation failures never return errors: operations that cannot apply
// (full photo collection, out-of-range index, incomplete step) are silent
// no-ops, matching the soft-validation policy of the editing surface.
type Draft struct {
	ID            uuid.UUID
	ProductCode   string
	ProductPhotos []ImageSource
	PartImages    []PartDraft
	Steps         []StepDraft

	staged       ImageSource
	stagedText   string
	editingID    int64
	nextClientID int64
}

// NewDraft creates an empty draft for a new guide.
func NewDraft() *Draft {
	return &Draft{nextClientID: 1}
}

// NewDraftFromGuide loads a persisted guide into an editable draft,
// assigning fresh client identities to its steps.
func NewDraftFromGuide(g *Guide) *Draft {
	d := &Draft{
		ID:          g.ID,
		ProductCode: g.ProductCode,
	}

	for _, url := range g.ProductPhotos {
		d.ProductPhotos = append(d.ProductPhotos, ImageSource{URL: url})
	}
	for _, part := range g.PartImages {
		d.PartImages = append(d.PartImages, PartDraft{
			Source:      ImageSource{URL: part.URL},
			Description: part.Description,
		})
	}
	for _, step := range g.Steps {
		d.nextClientID++
		d.Steps = append(d.Steps, StepDraft{
			ClientID:    d.nextClientID,
			Source:      ImageSource{URL: step.Image},
			Description: step.Description,
		})
	}
	d.nextClientID++

	return d
}

// SetProductCode overwrites the product code. No validation happens here;
// canonicalization is applied at save time.
func (d *Draft) SetProductCode(code string) {
	d.ProductCode = code
}

// AddProductPhotos admits at most MaxProductPhotos minus the current count
// of the given files, in input order, silently dropping the remainder.
func (d *Draft) AddProductPhotos(files []ImageSource) {
	room := MaxProductPhotos - len(d.ProductPhotos)
	if room <= 0 {
		return
	}
	if len(files) > room {
		files = files[:room]
	}
	d.ProductPhotos = append(d.ProductPhotos, files...)
}

// DeleteProductPhoto removes the entry at index. Out-of-range indexes are
// a no-op. Only local state changes; deletion of a durable object is the
// caller's responsibility.
func (d *Draft) DeleteProductPhoto(index int) {
	if index < 0 || index >= len(d.ProductPhotos) {
		return
	}
	d.ProductPhotos = append(d.ProductPhotos[:index], d.ProductPhotos[index+1:]...)
}

// AddPartImages appends all given files as part entries with empty
// descriptions. There is no cap on part images.
func (d *Draft) AddPartImages(files []ImageSource) {
	for _, file := range files {
		d.PartImages = append(d.PartImages, PartDraft{Source: file})
	}
}

// SetPartDescription overwrites the description at index. Out-of-range
// indexes are a no-op; text content is not validated.
func (d *Draft) SetPartDescription(index int, text string) {
	if index < 0 || index >= len(d.PartImages) {
		return
	}
	d.PartImages[index].Description = text
}

// DeletePartImage removes the entry at index. Out-of-range indexes are a no-op.
func (d *Draft) DeletePartImage(index int) {
	if index < 0 || index >= len(d.PartImages) {
		return
	}
	d.PartImages = append(d.PartImages[:index], d.PartImages[index+1:]...)
}

// SelectStepCandidate stages an image for step creation or editing.
// Any description already staged is preserved.
func (d *Draft) SelectStepCandidate(source ImageSource) {
	d.staged = source
}

// SetStepDescription sets the description of the staged step candidate.
func (d *Draft) SetStepDescription(text string) {
	d.stagedText = text
}

// StagedCandidate returns the currently staged image and description.
func (d *Draft) StagedCandidate() (ImageSource, string) {
	return d.staged, d.stagedText
}

// SaveStep commits the staged candidate. It requires both an image and a
// non-empty description, otherwise nothing happens. In edit mode the step
// with the matching client identity is replaced in place, preserving its
// array position; in create mode a new step is appended with a fresh
// client identity. A successful commit clears the staging area and any
// edit marker.
func (d *Draft) SaveStep() {
	if d.staged.Empty() || strings.TrimSpace(d.stagedText) == "" {
		return
	}

	if d.editingID != 0 {
		for i := range d.Steps {
			if d.Steps[i].ClientID == d.editingID {
				d.Steps[i].Source = d.staged
				d.Steps[i].Description = d.stagedText
				break
			}
		}
	} else {
		d.Steps = append(d.Steps, StepDraft{
			ClientID:    d.nextClientID,
			Source:      d.staged,
			Description: d.stagedText,
		})
		d.nextClientID++
	}

	d.clearStaging()
}

// StartEditingStep loads the matching step into the staging area and
// marks its client identity as being edited. No-op if no step has that
// identity.
func (d *Draft) StartEditingStep(clientID int64) {
	for _, step := range d.Steps {
		if step.ClientID == clientID {
			d.staged = step.Source
			d.stagedText = step.Description
			d.editingID = clientID
			return
		}
	}
}

// CancelEditing discards the staged candidate and returns to create mode.
func (d *Draft) CancelEditing() {
	d.clearStaging()
}

// EditingStep returns the client identity being edited, if any.
func (d *Draft) EditingStep() (int64, bool) {
	return d.editingID, d.editingID != 0
}

// DeleteStep removes the step with the given client identity. No-op if
// absent; other steps keep their identities.
func (d *Draft) DeleteStep(clientID int64) {
	for i, step := range d.Steps {
		if step.ClientID == clientID {
			d.Steps = append(d.Steps[:i], d.Steps[i+1:]...)
			return
		}
	}
}

// PendingCount returns the number of entries still holding local blobs.
func (d *Draft) PendingCount() int {
	count := 0
	for _, photo := range d.ProductPhotos {
		if photo.Pending() {
			count++
		}
	}
	for _, part := range d.PartImages {
		if part.Source.Pending() {
			count++
		}
	}
	for _, step := range d.Steps {
		if step.Source.Pending() {
			count++
		}
	}
	return count
}

// Resolved reports whether every entry holds a durable reference.
// Only resolved drafts are safe to persist or export.
func (d *Draft) Resolved() bool {
	return d.PendingCount() == 0
}

// ToGuide converts the draft into a persistable Guide. It fails with
// ErrPendingUploads while any entry holds a local blob and with
// ErrProductCodeRequired if the product code is blank. The product code
// is canonicalized to uppercase.
func (d *Draft) ToGuide() (*Guide, error) {
	if strings.TrimSpace(d.ProductCode) == "" {
		return nil, ErrProductCodeRequired
	}
	if !d.Resolved() {
		return nil, ErrPendingUploads
	}

	g := &Guide{
		ID:            d.ID,
		ProductCode:   NormalizeProductCode(d.ProductCode),
		ProductPhotos: []string{},
		PartImages:    []PartImage{},
		Steps:         []Step{},
	}

	for _, photo := range d.ProductPhotos {
		g.ProductPhotos = append(g.ProductPhotos, photo.URL)
	}
	for _, part := range d.PartImages {
		g.PartImages = append(g.PartImages, PartImage{
			URL:         part.Source.URL,
			Description: part.Description,
		})
	}
	for _, step := range d.Steps {
		g.Steps = append(g.Steps, Step{
			Image:       step.Source.URL,
			Description: step.Description,
		})
	}

	return g, nil
}

func (d *Draft) clearStaging() {
	d.staged = ImageSource{}
	d.stagedText = ""
	d.editingID = 0
}
