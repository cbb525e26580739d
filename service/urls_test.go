package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsoluteURL(t *testing.T) {
	urls := NewFileURLGenerator(NewTestConfig())

	tests := []struct {
		name    string
		base    string
		uri     string
		want    string
		wantErr error
	}{
		{"public", testBaseURL, "public://media/cat.jpg", "https://example.com/sites/default/files/media/cat.jpg", nil},
		{"public with trailing slash base", testBaseURL + "/", "public://cat.jpg", "https://example.com/sites/default/files/cat.jpg", nil},
		{"private", testBaseURL, "private://docs/scan.png", "https://example.com/system/files/docs/scan.png", nil},
		{"segments are escaped", testBaseURL, "public://my photos/a b#1.jpg", "https://example.com/sites/default/files/my%20photos/a%20b%231.jpg", nil},
		{"remote left alone", testBaseURL, "https://cdn.example.net/x.jpg", "https://cdn.example.net/x.jpg", nil},
		{"data uri left alone", testBaseURL, "data:image/png;base64,iVBORw0KGgo=", "data:image/png;base64,iVBORw0KGgo=", nil},
		{"protocol-relative left alone", testBaseURL, "//cdn.example.org/a.jpg", "//cdn.example.org/a.jpg", nil},
		{"scheme-less path", testBaseURL, "/core/misc/logo.png", "https://example.com/core/misc/logo.png", nil},
		{"unknown scheme", testBaseURL, "s3://bucket/key.jpg", "", ErrUnsupportedScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := urls.AbsoluteURL(tt.base, tt.uri)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
