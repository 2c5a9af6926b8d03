package model

import "strings"

// Settings holds the user-editable integration settings and tag shortcuts.
type Settings struct {
	SheetURL      string   `json:"sheetUrl" yaml:"sheet_url"`
	SheetAPIKey   string   `json:"sheetApiKey" yaml:"sheet_api_key"`
	SummaryAPIKey string   `json:"summaryApiKey" yaml:"summary_api_key"`
	CommonTags    []string `json:"commonTags" yaml:"common_tags"`
}

func DefaultSettings() Settings {
	return Settings{
		CommonTags: []string{"work", "project", "learning", "health", "personal"},
	}
}

func (s Settings) SyncConfigured() bool {
	return strings.TrimSpace(s.SheetURL) != "" && strings.TrimSpace(s.SheetAPIKey) != ""
}

func (s Settings) AddCommonTag(tag string) Settings {
	tag = strings.TrimSpace(tag)
	if tag == "" || contains(s.CommonTags, tag) {
		return s
	}
	s.CommonTags = append(append([]string(nil), s.CommonTags...), tag)
	return s
}

func (s Settings) RemoveCommonTag(tag string) Settings {
	out := make([]string, 0, len(s.CommonTags))
	for _, t := range s.CommonTags {
		if t != tag {
			out = append(out, t)
		}
	}
	s.CommonTags = out
	return s
}
