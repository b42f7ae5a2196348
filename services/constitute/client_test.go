package constitute

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func newFakeConstitute(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/constitutions":
			if r.URL.Query().Get("country") == "XX" {
				_ = json.NewEncoder(w).Encode([]Constitution{})
				return
			}
			_ = json.NewEncoder(w).Encode([]Constitution{{ID: "Ecuador_2021", Country: "Ecuador"}})
		case "/textsearch":
			if r.URL.Query().Get("query") == "" {
				http.Error(w, "missing query", http.StatusBadRequest)
				return
			}
			var out []Section
			for i := 0; i < 7; i++ {
				out = append(out, Section{
					ConstitutionID: "Ecuador_2021",
					SectionID:      "s" + string(rune('0'+i)),
					SectionName:    "Art. " + string(rune('0'+i)),
					SectionText:    "texto",
				})
			}
			out[1].SectionText = ""
			_ = json.NewEncoder(w).Encode(out)
		case "/constopicsearch":
			if r.URL.Query().Get("topic") == "familia" {
				_ = json.NewEncoder(w).Encode([]Section{{SectionName: "Art. 67"}})
				return
			}
			_ = json.NewEncoder(w).Encode([]Section{})
		case "/html":
			_, _ = w.Write([]byte("<html>" + r.URL.Query().Get("cons_id") + "</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestRelevantArticlesLimitsAndFormats(t *testing.T) {
	var hits int32
	srv := newFakeConstitute(t, &hits)
	defer srv.Close()

	c := NewClient(srv.URL, NewMemoryCache())
	articles, err := c.RelevantArticles(context.Background(), "divorcio", "EC", "es", 5)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	// five results, one without text is dropped
	if len(articles) != 4 {
		t.Fatalf("articles = %d, want 4", len(articles))
	}
	if articles[0] != "Artículo: Art. 0\ntexto" {
		t.Errorf("first article = %q", articles[0])
	}
}

func TestRelevantArticlesUsesCache(t *testing.T) {
	var hits int32
	srv := newFakeConstitute(t, &hits)
	defer srv.Close()

	c := NewClient(srv.URL, NewMemoryCache())
	ctx := context.Background()
	if _, err := c.RelevantArticles(ctx, "trabajo", "EC", "es", 5); err != nil {
		t.Fatal(err)
	}
	first := atomic.LoadInt32(&hits)
	if _, err := c.RelevantArticles(ctx, "trabajo", "EC", "es", 5); err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt32(&hits) != first {
		t.Errorf("second lookup hit the API: %d -> %d", first, hits)
	}
}

func TestRelevantArticlesUnknownCountry(t *testing.T) {
	var hits int32
	srv := newFakeConstitute(t, &hits)
	defer srv.Close()

	articles, err := NewClient(srv.URL, nil).RelevantArticles(context.Background(), "q", "XX", "es", 5)
	if err != nil || len(articles) != 0 {
		t.Errorf("articles = %v err = %v", articles, err)
	}
}

func TestCountryTopics(t *testing.T) {
	var hits int32
	srv := newFakeConstitute(t, &hits)
	defer srv.Close()

	topics, err := NewClient(srv.URL, nil).CountryTopics(context.Background(), "EC", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 1 || topics[0] != "familia" {
		t.Errorf("topics = %v", topics)
	}
}

func TestConstitutionHTMLAndErrors(t *testing.T) {
	var hits int32
	srv := newFakeConstitute(t, &hits)
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	html, err := c.ConstitutionHTML(context.Background(), "Ecuador_2021")
	if err != nil || !strings.Contains(html, "Ecuador_2021") {
		t.Errorf("html = %q err = %v", html, err)
	}
	if _, err := c.TextSearch(context.Background(), "", "", "", ""); err == nil {
		t.Error("expected an error for a failing endpoint")
	}
}

func TestSectionURL(t *testing.T) {
	if got := SectionURL(Section{}); got != "#" {
		t.Errorf("empty section url = %q", got)
	}
	got := SectionURL(Section{ConstitutionID: "Ecuador_2021", SectionID: "s67"})
	if got != "https://www.constituteproject.org/constitution/Ecuador_2021#s67" {
		t.Errorf("url = %q", got)
	}
}
