package ingest

import "github.com/sfbay/sfimc-sub000/pkg/domain"

// DefaultSources used when the store has no sources with a feed URL, or listing them fails
var DefaultSources = []domain.FeedSource{
	{ID: "1", Name: "El Tecolote", Slug: "el-tecolote", URL: "https://eltecolote.org/feed/"},
	{ID: "2", Name: "Mission Local", Slug: "mission-local", URL: "https://missionlocal.org/feed/"},
	{ID: "3", Name: "The Bay View", Slug: "the-bay-view", URL: "https://sfbayview.com/feed/"},
	{ID: "4", Name: "SF Public Press", Slug: "sf-public-press", URL: "https://sfpublicpress.org/feed/"},
	{ID: "5", Name: "Bay Area Reporter", Slug: "bay-area-reporter", URL: "https://ebar.com/feed/"},
	{ID: "6", Name: "Nichi Bei", Slug: "nichi-bei", URL: "https://nichibei.org/feed/"},
}
