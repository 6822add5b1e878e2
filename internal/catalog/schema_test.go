package catalog

import (
	"strings"
	"testing"
)

func TestValidateImportDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "valid minimal",
			doc:  `{"title": "Specialist Diploma in Construction Management", "description": "Covers project delivery."}`,
		},
		{
			name: "valid with volatile fee",
			doc: `{"title": "Specialist Diploma in Construction Management",
				"description": "Covers project delivery.",
				"volatile": {"fee": {"amount": 3745.00, "currency": "SGD"}}}`,
		},
		{
			name:    "missing title",
			doc:     `{"description": "Covers project delivery."}`,
			wantErr: "title",
		},
		{
			name:    "title too short",
			doc:     `{"title": "ab", "description": "Covers project delivery."}`,
			wantErr: "title",
		},
		{
			name:    "negative fee",
			doc:     `{"title": "A Valid Title", "description": "x", "volatile": {"fee": {"amount": -5}}}`,
			wantErr: "amount",
		},
		{
			name:    "unknown field",
			doc:     `{"title": "A Valid Title", "description": "x", "price": 100}`,
			wantErr: "price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImportDocument([]byte(tt.doc))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestImportBrochureMissingFile(t *testing.T) {
	if _, err := ImportBrochure("/does/not/exist.pdf"); err == nil {
		t.Error("expected error for missing brochure")
	}
}
