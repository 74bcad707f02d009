package cookies_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrape-checker/internal/cookies"
	"scrape-checker/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestNormalize_SameSiteMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input *string
		want  models.SameSite
	}{
		{"no_restriction", ptr("no_restriction"), models.SameSiteNone},
		{"lax", ptr("lax"), models.SameSiteLax},
		{"strict", ptr("strict"), models.SameSiteStrict},
		{"absent", nil, models.SameSiteStrict},
		{"unspecified", ptr("unspecified"), models.SameSiteStrict},
		{"case sensitive", ptr("Lax"), models.SameSiteStrict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := cookies.Normalize([]cookies.Record{{SameSite: tt.input}})
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].SameSite)
		})
	}
}

func TestNormalize_EmptyRecordDefaults(t *testing.T) {
	t.Parallel()

	got := cookies.Normalize([]cookies.Record{{}})
	require.Len(t, got, 1)
	assert.Equal(t, models.CanonicalCookie{SameSite: models.SameSiteStrict}, got[0])
	assert.Nil(t, got[0].Expires)
}

func TestParse_FullRecord(t *testing.T) {
	t.Parallel()

	data := []byte(`[{
		"name": "auth_token",
		"value": "abc",
		"domain": ".x.com",
		"path": "/",
		"expirationDate": 1767225600.5,
		"httpOnly": true,
		"secure": true,
		"sameSite": "no_restriction"
	}]`)

	got, err := cookies.Parse(data)
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "auth_token", c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, ".x.com", c.Domain)
	assert.Equal(t, "/", c.Path)
	require.NotNil(t, c.Expires)
	assert.InDelta(t, 1767225600.5, *c.Expires, 0)
	assert.True(t, c.HTTPOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, models.SameSiteNone, c.SameSite)
}

func TestParse_WrongTypedFieldsAreAbsent(t *testing.T) {
	t.Parallel()

	got, err := cookies.Parse([]byte(`[{"name": 5, "httpOnly": "yes", "expirationDate": "soon", "sameSite": "lax"}, 7]`))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Empty(t, got[0].Name)
	assert.False(t, got[0].HTTPOnly)
	assert.Nil(t, got[0].Expires)
	assert.Equal(t, models.SameSiteLax, got[0].SameSite)
	assert.Equal(t, models.SameSiteStrict, got[1].SameSite)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		"not json":  `{{`,
		"object":    `{"name": "a"}`,
		"null":      `null`,
		"scalar":    `42`,
		"truncated": `[{"name": "a"}`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := cookies.Parse([]byte(input))
			var malformed *models.MalformedCookieError
			require.True(t, errors.As(err, &malformed), "got %v", err)
		})
	}
}

func TestParse_EmptyArray(t *testing.T) {
	t.Parallel()

	got, err := cookies.Parse([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "cookies.json")
	require.NoError(t, os.WriteFile(good, []byte(`[{"name":"a","value":"1","sameSite":"lax"}]`), 0o600))

	got, err := cookies.Load(good)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.SameSiteLax, got[0].SameSite)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"cookies": []}`), 0o600))

	_, err = cookies.Load(bad)
	var malformed *models.MalformedCookieError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, bad, malformed.Path)

	_, err = cookies.Load(filepath.Join(dir, "missing.json"))
	require.ErrorAs(t, err, &malformed)
}
