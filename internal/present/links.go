package present

import (
	"fmt"
	"net/url"

	"github.com/wonny/rsystem/pkg/config"
)

// Links are the outbound research pages of one stock
type Links struct {
	Detail  string `json:"detail"`
	Finance string `json:"finance"`
	News    string `json:"news"`
}

// LinksFor fills the link templates with code
func LinksFor(cfg config.LinkConfig, code string) Links {
	escaped := url.QueryEscape(code)
	return Links{
		Detail:  fill(cfg.Detail, escaped),
		Finance: fill(cfg.Finance, escaped),
		News:    fill(cfg.News, escaped),
	}
}

func fill(tmpl, code string) string {
	if tmpl == "" {
		return ""
	}
	return fmt.Sprintf(tmpl, code)
}
