package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_UnmarshalVariants(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"string", `"42"`, "42"},
		{"integer", `42`, "42"},
		{"decimal", `3.50`, "3.50"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f.String())
		})
	}
}

func TestProduct_UnmarshalMixedIDTypes(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id": 7, "name": "Tomatoes", "price": "3.50", "seller": "abc"}`), &p))
	assert.Equal(t, "7", p.ID.String())
	assert.Equal(t, "3.50", p.Price.String())
	assert.Equal(t, "abc", p.Seller.String())
}

func TestBestImageURL(t *testing.T) {
	p := Product{Image: "raw.jpg"}
	assert.Equal(t, "raw.jpg", p.BestImageURL())

	p.ImageURL = "https://cdn.example.org/raw.jpg"
	assert.Equal(t, "https://cdn.example.org/raw.jpg", p.BestImageURL())
}

func TestValidPrice(t *testing.T) {
	valid := []string{"0", "3.50", "12", "0.99", "100.1"}
	for _, s := range valid {
		assert.True(t, ValidPrice(s), s)
	}

	invalid := []string{"", "-1", "-0.50", "3.505", "abc", "1e3", "3,50", " 3.50"}
	for _, s := range invalid {
		assert.False(t, ValidPrice(s), s)
	}
}
