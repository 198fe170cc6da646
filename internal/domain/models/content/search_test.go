package content

import (
	"math"
	"testing"
)

// ============================================================================
// UNIT TESTS - Domain Model Validation
// ============================================================================

func TestSearchOptions_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		input    *SearchOptions
		expected *SearchOptions
	}{
		{
			name:     "applies all defaults",
			input:    &SearchOptions{Query: "test"},
			expected: &SearchOptions{Query: "test", Page: 0, Size: DefaultSearchSize},
		},
		{
			name:     "preserves custom values",
			input:    &SearchOptions{Query: "test", Page: 3, Size: 50},
			expected: &SearchOptions{Query: "test", Page: 3, Size: 50},
		},
		{
			name:     "trims query",
			input:    &SearchOptions{Query: "  postgres  ", Size: 10},
			expected: &SearchOptions{Query: "postgres", Size: 10},
		},
		{
			name:     "corrects negative page",
			input:    &SearchOptions{Query: "test", Page: -2, Size: 10},
			expected: &SearchOptions{Query: "test", Page: 0, Size: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.ApplyDefaults()
			if *tt.input != *tt.expected {
				t.Errorf("ApplyDefaults() = %+v, want %+v", *tt.input, *tt.expected)
			}
		})
	}
}

func TestSearchOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    SearchOptions
		wantErr bool
	}{
		{name: "valid", opts: SearchOptions{Query: "x", Size: 20}},
		{name: "max size", opts: SearchOptions{Query: "x", Size: MaxSearchSize}},
		{name: "size too large", opts: SearchOptions{Query: "x", Size: MaxSearchSize + 1}, wantErr: true},
		{name: "negative size", opts: SearchOptions{Query: "x", Size: -1}, wantErr: true},
		{name: "negative page", opts: SearchOptions{Query: "x", Page: -1, Size: 20}, wantErr: true},
		{name: "last addressable page", opts: SearchOptions{Query: "x", Page: math.MaxInt32 / 20, Size: 20}},
		{name: "offset overflows", opts: SearchOptions{Query: "x", Page: math.MaxInt64 / 10, Size: 20}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSearchResults_HasMore(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		size    int
		results int
		total   int
		want    bool
	}{
		{name: "first page of many", page: 0, size: 2, results: 2, total: 5, want: true},
		{name: "last full page", page: 1, size: 2, results: 2, total: 4, want: false},
		{name: "partial last page", page: 2, size: 2, results: 1, total: 5, want: false},
		{name: "empty", page: 0, size: 20, results: 0, total: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &SearchOptions{Page: tt.page, Size: tt.size}
			res := NewSearchResults(make([]SearchResult, tt.results), tt.total, opts)
			if res.HasMore != tt.want {
				t.Errorf("HasMore = %v, want %v", res.HasMore, tt.want)
			}
		})
	}
}

func TestEmptySearchResultsIsNotNil(t *testing.T) {
	res := EmptySearchResults(&SearchOptions{Size: 20})
	if res.Results == nil {
		t.Fatal("Results must be an empty slice so it encodes as []")
	}
}
