package guides

import "testing"

func TestUpdateCommand_Validate(t *testing.T) {
	valid := UpdateCommand{
		ProductCode:   "AB12",
		ProductPhotos: []string{"http://s/p1"},
		PartImages:    []PartImage{{URL: "http://s/f1"}},
		Steps:         []Step{{Image: "http://s/s1", Description: "attach"}},
	}

	tests := []struct {
		name    string
		mutate  func(c *UpdateCommand)
		wantErr error
	}{
		{"valid", func(c *UpdateCommand) {}, nil},
		{"blank product code", func(c *UpdateCommand) { c.ProductCode = "  " }, ErrProductCodeRequired},
		{
			"too many product photos",
			func(c *UpdateCommand) { c.ProductPhotos = []string{"a", "b", "c", "d"} },
			ErrTooManyProductPhotos,
		},
		{
			"empty product photo reference",
			func(c *UpdateCommand) { c.ProductPhotos = []string{""} },
			ErrMissingReference,
		},
		{
			"empty part reference",
			func(c *UpdateCommand) { c.PartImages = []PartImage{{Description: "Gövde"}} },
			ErrMissingReference,
		},
		{
			"empty step reference",
			func(c *UpdateCommand) { c.Steps = []Step{{Description: "attach"}} },
			ErrMissingReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid
			tt.mutate(&cmd)

			if err := cmd.Validate(); err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNormalizeProductCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ab12", "AB12"},
		{"  ab12  ", "AB12"},
		{"AB12", "AB12"},
		{"Ab-12c", "AB-12C"},
	}

	for _, tt := range tests {
		if got := NormalizeProductCode(tt.input); got != tt.want {
			t.Errorf("NormalizeProductCode(%q) = %q, expected %q", tt.input, got, tt.want)
		}
	}
}
