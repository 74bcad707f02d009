// Package cookies turns browser-extension cookie exports into the canonical
// cookie records document providers accept.
package cookies

import (
	"encoding/json"
	"errors"
	"os"

	"scrape-checker/internal/models"
)

// Record is one loosely-typed cookie from an exported JSON file. Every field is
// optional; a field with the wrong JSON type is treated as absent.
type Record struct {
	Name           *string
	Value          *string
	Domain         *string
	Path           *string
	ExpirationDate *float64
	HTTPOnly       *bool
	Secure         *bool
	SameSite       *string
}

// UnmarshalJSON decodes leniently and never fails on individual fields.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		*r = Record{}
		return nil
	}
	*r = Record{
		Name:           stringField(raw, "name"),
		Value:          stringField(raw, "value"),
		Domain:         stringField(raw, "domain"),
		Path:           stringField(raw, "path"),
		ExpirationDate: numberField(raw, "expirationDate"),
		HTTPOnly:       boolField(raw, "httpOnly"),
		Secure:         boolField(raw, "secure"),
		SameSite:       stringField(raw, "sameSite"),
	}
	return nil
}

func stringField(raw map[string]any, key string) *string {
	if s, ok := raw[key].(string); ok {
		return &s
	}
	return nil
}

func numberField(raw map[string]any, key string) *float64 {
	if f, ok := raw[key].(float64); ok {
		return &f
	}
	return nil
}

func boolField(raw map[string]any, key string) *bool {
	if b, ok := raw[key].(bool); ok {
		return &b
	}
	return nil
}

// SameSite maps an exported same-site value onto the canonical policy.
// "no_restriction" is None, "lax" is Lax, anything else is Strict.
func SameSite(v *string) models.SameSite {
	if v == nil {
		return models.SameSiteStrict
	}
	switch *v {
	case "no_restriction":
		return models.SameSiteNone
	case "lax":
		return models.SameSiteLax
	}
	return models.SameSiteStrict
}

// Normalize converts records into canonical cookies. It is total: missing
// fields become zero values and expiration stays absent when not given.
func Normalize(records []Record) []models.CanonicalCookie {
	out := make([]models.CanonicalCookie, 0, len(records))
	for _, r := range records {
		c := models.CanonicalCookie{
			Name:     deref(r.Name),
			Value:    deref(r.Value),
			Domain:   deref(r.Domain),
			Path:     deref(r.Path),
			HTTPOnly: r.HTTPOnly != nil && *r.HTTPOnly,
			Secure:   r.Secure != nil && *r.Secure,
			SameSite: SameSite(r.SameSite),
		}
		if r.ExpirationDate != nil {
			exp := *r.ExpirationDate
			c.Expires = &exp
		}
		out = append(out, c)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Parse decodes a cookie export. Input that is not a JSON array is a
// *models.MalformedCookieError.
func Parse(data []byte) ([]models.CanonicalCookie, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &models.MalformedCookieError{Err: err}
	}
	if records == nil {
		return nil, &models.MalformedCookieError{Err: errors.New("expected a JSON array, got null")}
	}
	return Normalize(records), nil
}

// Load reads and parses a cookie file.
func Load(path string) ([]models.CanonicalCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.MalformedCookieError{Path: path, Err: err}
	}
	cookies, err := Parse(data)
	if err != nil {
		var malformed *models.MalformedCookieError
		if errors.As(err, &malformed) {
			malformed.Path = path
		}
		return nil, err
	}
	return cookies, nil
}
