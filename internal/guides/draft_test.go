package guides

import (
	"testing"

	"github.com/google/uuid"
)

func localBlob(name string) ImageSource {
	return ImageSource{Data: []byte("bytes-" + name), Name: name, ContentType: "image/png"}
}

func durableRef(url string) ImageSource {
	return ImageSource{URL: url}
}

func TestDraft_AddProductPhotos(t *testing.T) {
	tests := []struct {
		name     string
		existing int
		adding   int
		want     int
	}{
		{"empty accepts all", 0, 2, 2},
		{"fills to cap", 0, 3, 3},
		{"drops overflow silently", 0, 5, 3},
		{"partial room", 2, 3, 3},
		{"full collection ignores input", 3, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft()
			for i := 0; i < tt.existing; i++ {
				d.AddProductPhotos([]ImageSource{localBlob("seed")})
			}

			var files []ImageSource
			for i := 0; i < tt.adding; i++ {
				files = append(files, localBlob("add"))
			}
			d.AddProductPhotos(files)

			if len(d.ProductPhotos) != tt.want {
				t.Errorf("expected %d product photos, got %d", tt.want, len(d.ProductPhotos))
			}
		})
	}
}

func TestDraft_AddProductPhotos_KeepsInputOrder(t *testing.T) {
	d := NewDraft()
	d.AddProductPhotos([]ImageSource{localBlob("a")})
	d.AddProductPhotos([]ImageSource{localBlob("b"), localBlob("c"), localBlob("d")})

	want := []string{"a", "b", "c"}
	for i, name := range want {
		if d.ProductPhotos[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, d.ProductPhotos[i].Name)
		}
	}
}

func TestDraft_DeleteProductPhoto(t *testing.T) {
	d := NewDraft()
	d.AddProductPhotos([]ImageSource{localBlob("a"), localBlob("b")})

	d.DeleteProductPhoto(5)
	if len(d.ProductPhotos) != 2 {
		t.Error("out-of-range delete should be a no-op")
	}

	d.DeleteProductPhoto(0)
	if len(d.ProductPhotos) != 1 || d.ProductPhotos[0].Name != "b" {
		t.Errorf("expected only %q to remain", "b")
	}
}

func TestDraft_SetPartDescription(t *testing.T) {
	d := NewDraft()
	d.AddPartImages([]ImageSource{localBlob("frame")})

	d.SetPartDescription(3, "ignored")
	d.SetPartDescription(0, "Gövde")

	if d.PartImages[0].Description != "Gövde" {
		t.Errorf("expected description to be set, got %q", d.PartImages[0].Description)
	}
}

func TestDraft_SaveStep(t *testing.T) {
	tests := []struct {
		name        string
		image       ImageSource
		description string
		wantSteps   int
	}{
		{"image and description commits", localBlob("s1"), "attach the frame", 1},
		{"missing image is a no-op", ImageSource{}, "attach the frame", 0},
		{"missing description is a no-op", localBlob("s1"), "", 0},
		{"whitespace description is a no-op", localBlob("s1"), "   \t", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft()
			d.SelectStepCandidate(tt.image)
			d.SetStepDescription(tt.description)
			d.SaveStep()

			if len(d.Steps) != tt.wantSteps {
				t.Errorf("expected %d steps, got %d", tt.wantSteps, len(d.Steps))
			}
		})
	}
}

func TestDraft_SaveStep_ClearsStaging(t *testing.T) {
	d := NewDraft()
	d.SelectStepCandidate(localBlob("s1"))
	d.SetStepDescription("first")
	d.SaveStep()

	staged, text := d.StagedCandidate()
	if !staged.Empty() || text != "" {
		t.Error("expected staging area to be cleared after commit")
	}

	// The cleared staging area must not commit again.
	d.SaveStep()
	if len(d.Steps) != 1 {
		t.Errorf("expected 1 step, got %d", len(d.Steps))
	}
}

func TestDraft_SaveStep_AssignsDistinctClientIDs(t *testing.T) {
	d := NewDraft()
	for i, desc := range []string{"first", "second", "third"} {
		d.SelectStepCandidate(localBlob("s"))
		d.SetStepDescription(desc)
		d.SaveStep()

		if i > 0 && d.Steps[i].ClientID == d.Steps[i-1].ClientID {
			t.Fatal("expected distinct client identities")
		}
	}
}

func TestDraft_SelectStepCandidate_PreservesDescription(t *testing.T) {
	d := NewDraft()
	d.SelectStepCandidate(localBlob("first"))
	d.SetStepDescription("keep me")
	d.SelectStepCandidate(localBlob("second"))

	staged, text := d.StagedCandidate()
	if staged.Name != "second" {
		t.Errorf("expected staged image to be replaced, got %q", staged.Name)
	}
	if text != "keep me" {
		t.Errorf("expected staged description to survive, got %q", text)
	}
}

func TestDraft_EditStep(t *testing.T) {
	d := NewDraft()
	for _, desc := range []string{"first", "second", "third"} {
		d.SelectStepCandidate(localBlob(desc))
		d.SetStepDescription(desc)
		d.SaveStep()
	}

	target := d.Steps[1].ClientID
	d.StartEditingStep(target)

	if id, ok := d.EditingStep(); !ok || id != target {
		t.Fatal("expected draft to be in edit mode for the selected step")
	}

	staged, text := d.StagedCandidate()
	if staged.Name != "second" || text != "second" {
		t.Error("expected the step under edit to be loaded into staging")
	}

	d.SelectStepCandidate(localBlob("replacement"))
	d.SetStepDescription("updated")
	d.SaveStep()

	if len(d.Steps) != 3 {
		t.Fatalf("edit must replace in place, got %d steps", len(d.Steps))
	}
	if d.Steps[1].Description != "updated" || d.Steps[1].Source.Name != "replacement" {
		t.Error("expected the edited step to hold new content at its original position")
	}
	if d.Steps[1].ClientID != target {
		t.Error("expected the edited step to keep its client identity")
	}
	if _, ok := d.EditingStep(); ok {
		t.Error("expected edit mode to end after commit")
	}
}

func TestDraft_CancelEditing(t *testing.T) {
	d := NewDraft()
	d.SelectStepCandidate(localBlob("s1"))
	d.SetStepDescription("first")
	d.SaveStep()

	d.StartEditingStep(d.Steps[0].ClientID)
	d.SetStepDescription("discarded")
	d.CancelEditing()

	if _, ok := d.EditingStep(); ok {
		t.Error("expected edit mode to end on cancel")
	}
	if d.Steps[0].Description != "first" {
		t.Error("expected the original step to be untouched")
	}

	// A subsequent commit appends instead of replacing.
	d.SelectStepCandidate(localBlob("s2"))
	d.SetStepDescription("second")
	d.SaveStep()
	if len(d.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(d.Steps))
	}
}

func TestDraft_DeleteStep(t *testing.T) {
	d := NewDraft()
	for _, desc := range []string{"first", "second", "third"} {
		d.SelectStepCandidate(localBlob(desc))
		d.SetStepDescription(desc)
		d.SaveStep()
	}

	d.DeleteStep(999)
	if len(d.Steps) != 3 {
		t.Error("deleting an absent identity should be a no-op")
	}

	second := d.Steps[1]
	d.DeleteStep(d.Steps[0].ClientID)

	if len(d.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(d.Steps))
	}
	if d.Steps[0].ClientID != second.ClientID {
		t.Error("remaining steps must keep their identities")
	}
}

func TestDraft_ToGuide(t *testing.T) {
	t.Run("requires product code", func(t *testing.T) {
		d := NewDraft()
		if _, err := d.ToGuide(); err != ErrProductCodeRequired {
			t.Errorf("expected ErrProductCodeRequired, got %v", err)
		}
	})

	t.Run("refuses pending blobs", func(t *testing.T) {
		d := NewDraft()
		d.SetProductCode("ab12")
		d.AddProductPhotos([]ImageSource{localBlob("pending")})

		if _, err := d.ToGuide(); err != ErrPendingUploads {
			t.Errorf("expected ErrPendingUploads, got %v", err)
		}
	})

	t.Run("normalizes product code", func(t *testing.T) {
		d := NewDraft()
		d.SetProductCode("  ab12 ")

		g, err := d.ToGuide()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.ProductCode != "AB12" {
			t.Errorf("expected %q, got %q", "AB12", g.ProductCode)
		}
	})

	t.Run("initializes empty collections", func(t *testing.T) {
		d := NewDraft()
		d.SetProductCode("ab12")

		g, err := d.ToGuide()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.ProductPhotos == nil || g.PartImages == nil || g.Steps == nil {
			t.Error("expected empty, non-nil collections")
		}
	})

	t.Run("carries resolved references", func(t *testing.T) {
		d := NewDraft()
		d.SetProductCode("ab12")
		d.AddProductPhotos([]ImageSource{durableRef("http://s/p1")})
		d.AddPartImages([]ImageSource{durableRef("http://s/f1")})
		d.SetPartDescription(0, "Gövde")
		d.SelectStepCandidate(durableRef("http://s/s1"))
		d.SetStepDescription("attach")
		d.SaveStep()

		g, err := d.ToGuide()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.ProductPhotos[0] != "http://s/p1" {
			t.Errorf("unexpected product photo %q", g.ProductPhotos[0])
		}
		if g.PartImages[0].URL != "http://s/f1" || g.PartImages[0].Description != "Gövde" {
			t.Errorf("unexpected part image %+v", g.PartImages[0])
		}
		if g.Steps[0].Image != "http://s/s1" || g.Steps[0].Description != "attach" {
			t.Errorf("unexpected step %+v", g.Steps[0])
		}
	})
}

func TestNewDraftFromGuide(t *testing.T) {
	g := &Guide{
		ID:            uuid.New(),
		ProductCode:   "AB12",
		ProductPhotos: []string{"http://s/p1"},
		PartImages:    []PartImage{{URL: "http://s/f1", Description: "Gövde"}},
		Steps: []Step{
			{Image: "http://s/s1", Description: "first"},
			{Image: "http://s/s2", Description: "second"},
		},
	}

	d := NewDraftFromGuide(g)

	if d.ID != g.ID || d.ProductCode != "AB12" {
		t.Error("expected identity and product code to carry over")
	}
	if d.PendingCount() != 0 {
		t.Error("a loaded draft must be fully resolved")
	}
	if d.Steps[0].ClientID == 0 || d.Steps[0].ClientID == d.Steps[1].ClientID {
		t.Error("expected fresh, distinct client identities")
	}

	// New steps must not collide with assigned identities.
	d.SelectStepCandidate(durableRef("http://s/s3"))
	d.SetStepDescription("third")
	d.SaveStep()
	if d.Steps[2].ClientID == d.Steps[0].ClientID || d.Steps[2].ClientID == d.Steps[1].ClientID {
		t.Error("expected a fresh identity for the appended step")
	}
}
