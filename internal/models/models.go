package models

import (
	"fmt"
	"math"
	"time"
)

// HitResult is the number of elements in a document matching one selector
type HitResult struct {
	Selector string `json:"selector" yaml:"selector"`
	Count    int    `json:"count" yaml:"count"`
}

// Ranking is an ordered list of hit results, highest count first
type Ranking []HitResult

// Top returns at most n leading entries of the ranking
func (r Ranking) Top(n int) Ranking {
	if n < 0 {
		n = 0
	}
	if n > len(r) {
		n = len(r)
	}
	return r[:n]
}

// TitleCandidate is a text value proposed as a possible title or headline
type TitleCandidate struct {
	SourceSelector string `json:"sourceSelector" yaml:"sourceSelector"`
	Text           string `json:"text" yaml:"text"`
}

// SelectorCandidates groups the candidates sampled from one ranked selector
type SelectorCandidates struct {
	Selector   string           `json:"selector" yaml:"selector"`
	Count      int              `json:"count" yaml:"count"`
	Candidates []TitleCandidate `json:"candidates" yaml:"candidates"`
}

// Texts returns the candidate strings in sampling order
func (s SelectorCandidates) Texts() []string {
	texts := make([]string, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		texts = append(texts, c.Text)
	}
	return texts
}

// TrendEntry is one parsed trend record. Any field may be absent.
type TrendEntry struct {
	Category  *string `json:"category,omitempty" yaml:"category,omitempty"`
	TrendName *string `json:"trendName,omitempty" yaml:"trendName,omitempty"`
	PostCount *string `json:"postCount,omitempty" yaml:"postCount,omitempty"`
}

// SameSite is the canonical same-site policy understood by document providers
type SameSite string

const (
	SameSiteNone   SameSite = "None"
	SameSiteLax    SameSite = "Lax"
	SameSiteStrict SameSite = "Strict"
)

// CanonicalCookie is a cookie in the shape document providers accept
type CanonicalCookie struct {
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Domain   string   `json:"domain"`
	Path     string   `json:"path"`
	Expires  *float64 `json:"expires,omitempty"`
	HTTPOnly bool     `json:"httpOnly"`
	Secure   bool     `json:"secure"`
	SameSite SameSite `json:"sameSite"`
}

// ExpiresAt converts Expires, in fractional epoch seconds, to a time with
// millisecond precision. Session cookies report false.
func (c CanonicalCookie) ExpiresAt() (time.Time, bool) {
	if c.Expires == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(math.Round(*c.Expires * 1000))), true
}

// WaitCondition selects the page lifecycle event navigation waits for
type WaitCondition string

const (
	WaitLoad             WaitCondition = "load"
	WaitDOMContentLoaded WaitCondition = "domcontentloaded"
	WaitNetworkIdle      WaitCondition = "networkidle"
)

// ParseWaitCondition validates a --wait-until value
func ParseWaitCondition(s string) (WaitCondition, error) {
	switch w := WaitCondition(s); w {
	case WaitLoad, WaitDOMContentLoaded, WaitNetworkIdle:
		return w, nil
	case "":
		return WaitDOMContentLoaded, nil
	}
	return "", &InvalidArgumentError{Flag: "wait-until", Value: s, Reason: "must be load, domcontentloaded or networkidle"}
}

// PageSummary holds the page-level facts reported alongside a ranking
type PageSummary struct {
	Title            string `json:"title" yaml:"title"`
	MetaDescription  string `json:"metaDescription,omitempty" yaml:"metaDescription,omitempty"`
	ReadabilityTitle string `json:"readabilityTitle,omitempty" yaml:"readabilityTitle,omitempty"`
	LinkCount        int    `json:"linkCount" yaml:"linkCount"`
	Blocked          bool   `json:"blocked" yaml:"blocked"`
}

// Report mode values
const (
	ModeRank   = "rank"
	ModeTrends = "trends"
	ModeRaw    = "raw"
)

// Report is the full result of one check, handed to the presentation layer
type Report struct {
	URL           string               `json:"url" yaml:"url"`
	Mode          string               `json:"mode" yaml:"mode"`
	Engine        string               `json:"engine" yaml:"engine"`
	CookiesLoaded int                  `json:"cookiesLoaded" yaml:"cookiesLoaded"`
	Summary       *PageSummary         `json:"summary,omitempty" yaml:"summary,omitempty"`
	Top           int                  `json:"top,omitempty" yaml:"top,omitempty"`
	Ranking       Ranking              `json:"ranking,omitempty" yaml:"ranking,omitempty"`
	Candidates    []SelectorCandidates `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Trends        []TrendEntry         `json:"trends,omitempty" yaml:"trends,omitempty"`
	Raw           string               `json:"raw,omitempty" yaml:"raw,omitempty"`
	Metadata      Metadata             `json:"metadata" yaml:"metadata"`
}

// Metadata contains request metadata
type Metadata struct {
	ScrapedAt  time.Time `json:"scrapedAt" yaml:"scrapedAt"`
	DurationMs int64     `json:"durationMs" yaml:"durationMs"`
}

// CommandResult is the outcome of one command invocation
type CommandResult struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
	Data    any    `json:"data,omitempty" yaml:"data,omitempty"`
}

// Succeeded builds a successful result carrying data
func Succeeded(data any, format string, args ...any) CommandResult {
	return CommandResult{Success: true, Message: fmt.Sprintf(format, args...), Data: data}
}

// Failed builds a failure result from an error
func Failed(err error) CommandResult {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	return CommandResult{Success: false, Message: msg}
}

// Exit codes for the CLI
const (
	ExitSuccess            = 0
	ExitFailure            = 1
	ExitConfigurationError = 2
	ExitInvalidArgument    = 3
)
