package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []Entry
		wantErr     bool
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "one text per line",
			fileContent: `God morgen
Hvordan har du det?`,
			want: []Entry{
				{Line: 1, Text: "God morgen"},
				{Line: 2, Text: "Hvordan har du det?"},
			},
		},
		{
			name: "comments and blank lines",
			fileContent: `# greetings
Bonjour

  # indented comment
Guten Tag  `,
			want: []Entry{
				{Line: 2, Text: "Bonjour"},
				{Line: 5, Text: "Guten Tag"},
			},
		},
		{
			name:        "escaped newlines",
			fileContent: `first paragraph\n\nsecond paragraph`,
			want: []Entry{
				{Line: 1, Text: "first paragraph\n\nsecond paragraph"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "ябълка\r\nкотка\r\n",
			want: []Entry{
				{Line: 1, Text: "ябълка"},
				{Line: 2, Text: "котка"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tmpFile := filepath.Join(tmpDir, "batch.txt")
			if err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := ReadBatchFile(tmpFile)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadBatchFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_NotFound(t *testing.T) {
	_, err := ReadBatchFile("/non/existent/file.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestReadBatch_Reader(t *testing.T) {
	got, err := ReadBatch(strings.NewReader("a\n#b\nc"))
	if err != nil {
		t.Fatalf("ReadBatch() error = %v", err)
	}
	if len(got) != 2 || got[0].Text != "a" || got[1].Text != "c" || got[1].Line != 3 {
		t.Errorf("ReadBatch() = %#v", got)
	}
}
