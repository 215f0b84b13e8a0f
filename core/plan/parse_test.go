package plan

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantTitle string
		wantErr   bool
	}{
		{
			name:      "bare JSON object",
			response:  `{"title": "Plain"}`,
			wantTitle: "Plain",
		},
		{
			name:      "json code fence",
			response:  "Here you go:\n```json\n{\"title\": \"Fenced\"}\n```\nEnjoy!",
			wantTitle: "Fenced",
		},
		{
			name:      "anonymous code fence",
			response:  "```\n{\"title\": \"Anon\"}\n```",
			wantTitle: "Anon",
		},
		{
			name:      "object embedded in narrative",
			response:  `Sure! The plan is {"title": "Embedded", "sections": []} as requested.`,
			wantTitle: "Embedded",
		},
		{
			name:      "repairable JSON",
			response:  `{title: 'Repaired', summary: 'single quotes'}`,
			wantTitle: "Repaired",
		},
		{
			name:     "no JSON at all",
			response: "I cannot help with that.",
			wantErr:  true,
		},
		{
			name:     "empty response",
			response: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.response)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if title, _ := got["title"].(string); title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
		})
	}
}
