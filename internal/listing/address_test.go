package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "zillow home details slug",
			url:  "https://www.zillow.com/homedetails/123-Main-St-Columbus-OH-43215/12345678_zpid/",
			want: "123 Main St Columbus OH 43215",
		},
		{
			name: "zillow search slug with rb suffix",
			url:  "https://www.zillow.com/homes/456-Oak-Ave-Austin-TX-78701_rb/",
			want: "456 Oak Ave Austin TX 78701",
		},
		{
			name: "trailing listing id stripped",
			url:  "https://example.com/listing/789-Pine-Rd-Denver-CO-9876543210",
			want: "789 Pine Rd Denver CO",
		},
		{
			name: "no digits in path",
			url:  "https://www.zillow.com/homes/for_sale/",
			want: "",
		},
		{
			name: "empty path",
			url:  "https://www.zillow.com",
			want: "",
		},
		{
			name: "too short after cleanup",
			url:  "https://example.com/a1b2/",
			want: "",
		},
		{
			name: "unparseable url",
			url:  "http://%zz",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAddress(tt.url))
		})
	}
}

func TestExtractAddress_PicksLongestSegment(t *testing.T) {
	// The zpid segment also contains digits; the longer address slug wins.
	got := ExtractAddress("https://www.zillow.com/homedetails/1000-Very-Long-Street-Name-Portland-OR-97201/55555555_zpid/")
	assert.Equal(t, "1000 Very Long Street Name Portland OR 97201", got)
}
