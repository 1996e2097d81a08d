package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"go-blog-app/internal/data"
	"go-blog-app/internal/service"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	posts service.PostRepository
}

// NewSeoHandler creates a new SeoHandler.
func NewSeoHandler(posts service.PostRepository) *SeoHandler {
	return &SeoHandler{posts: posts}
}

// robotsHandler serves a static robots.txt file.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "")
	// In a real deployment the domain would come from config.
	fmt.Fprintln(w, "Sitemap: http://localhost:8080/sitemap.xml")
}

const (
	sitemapDateFormat = "2006-01-02"
	sitemapBaseURL    = "http://localhost:8080/posts/"
	sitemapLimit      = 1000
)

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates a sitemap of the publicly visible posts. Drafts,
// scheduled posts and posts in hidden categories never appear here.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListPosts(r.Context(), data.PostFilter{VisibleOnly: true, Now: time.Now()}, 0, sitemapLimit)
	if err != nil {
		http.Error(w, "Failed to retrieve posts for sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, len(posts)),
	}
	for i, post := range posts {
		sitemap.URLs[i] = sitemapURL{
			Loc:     fmt.Sprintf("%s%d", sitemapBaseURL, post.ID),
			LastMod: post.PubDate.Format(sitemapDateFormat),
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}
