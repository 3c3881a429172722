package main

import (
	"strings"

	"github.com/fwojciec/urlvault"
)

// Run executes the import command. Progress and failures are reported by the
// importer's notifier, so a failure is returned as already reported.
func (c *ImportCmd) Run(deps *Dependencies) error {
	if _, err := deps.Importer.Import(deps.Ctx, c.URL); err != nil {
		return &ReportedError{Err: err}
	}
	return nil
}

// Apply overrides s with the flags that were set.
func (c *ImportCmd) Apply(s *urlvault.Settings) {
	if v := strings.TrimSpace(c.Folder); v != "" {
		s.OutputFolder = v
	}
	if v := strings.TrimSpace(c.Tags); v != "" {
		s.DefaultTags = v
	}
	if v := strings.TrimSpace(c.Provider); v != "" {
		s.SetProvider(v)
	}
	if v := strings.TrimSpace(c.Model); v != "" {
		s.Model = v
	}
	if v := strings.TrimSpace(c.Extractor); v != "" {
		s.Extractor = v
	}
	if v := strings.TrimSpace(c.RawFormat); v != "" {
		s.RawFormat = v
	}
	if c.MaxChars != 0 {
		s.MaxChars = c.MaxChars
	}
	if c.MaxRetries >= 0 {
		s.MaxRetries = c.MaxRetries
	}
	if c.Raw {
		s.IncludeRaw = true
	}
	if c.NoRaw {
		s.IncludeRaw = false
	}
	s.Render = s.Render || c.Render
	s.IncludeLinks = s.IncludeLinks || c.Links
	s.IncludeImages = s.IncludeImages || c.Images
	s.OpenAfterCreate = s.OpenAfterCreate || c.Open
	s.VerboseLogging = s.VerboseLogging || c.Verbose
}
