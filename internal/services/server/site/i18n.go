package site

import (
	"net/http"

	"golang.org/x/text/language"
)

// Copy holds the translated chrome strings for the public pages.
type Copy struct {
	Lang         string
	NavProjects  string
	NavGallery   string
	NavLog       string
	HomeIntro    string
	ProjectsHead string
	GalleryHead  string
	LogHead      string
	PublishedOn  string
	Empty        string
}

var locales = []language.Tag{
	language.English,
	language.French,
}

var matcher = language.NewMatcher(locales)

var copies = map[language.Tag]Copy{
	language.English: {
		Lang:         "en",
		NavProjects:  "Projects",
		NavGallery:   "Gallery",
		NavLog:       "Studio Log",
		HomeIntro:    "Selected work from the studio.",
		ProjectsHead: "Projects",
		GalleryHead:  "Gallery",
		LogHead:      "Studio Log",
		PublishedOn:  "Published",
		Empty:        "Nothing here yet.",
	},
	language.French: {
		Lang:         "fr",
		NavProjects:  "Projets",
		NavGallery:   "Galerie",
		NavLog:       "Journal d'atelier",
		HomeIntro:    "Travaux choisis de l'atelier.",
		ProjectsHead: "Projets",
		GalleryHead:  "Galerie",
		LogHead:      "Journal d'atelier",
		PublishedOn:  "Publié",
		Empty:        "Rien à montrer pour l'instant.",
	},
}

// copyFor negotiates the page language from the Accept-Language header.
func copyFor(r *http.Request) Copy {
	accept := ""
	if r != nil {
		accept = r.Header.Get("Accept-Language")
	}
	_, index := language.MatchStrings(matcher, accept)
	return copies[locales[index]]
}
