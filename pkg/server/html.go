package server

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/japaniel/vocabreader/pkg/session"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.View.Title}}</title>
<style>
body { font-family: serif; display: flex; gap: 2em; margin: 2em; }
main { flex: 3; line-height: 1.8; }
aside { flex: 1; font-size: 0.9em; }
.w { border-bottom: 1px dotted #888; cursor: pointer; }
.w.saved { background: #fde68a; }
</style>
</head>
<body>
<main>
<p class="status">{{.View.Status}}</p>
<p>{{range .View.Instructions}}{{if .IsAnnotated}}<span class="w{{if .Saved}} saved{{end}}" data-key="{{.Key}}" title="{{.English}}">{{.Text}}</span>{{else}}{{.Text}}{{end}} {{end}}</p>
<nav>
{{if .View.HasPrevious}}<a href="?user={{.User}}&amp;page={{.Prev}}">&larr; prev</a>{{end}}
{{if .View.HasNext}}<a href="?user={{.User}}&amp;page={{.Next}}">next &rarr;</a>{{end}}
</nav>
</main>
<aside>
<h3>Saved words ({{len .View.Saved}})</h3>
<ul>{{range .View.Saved}}<li><b>{{.Word}}</b>: {{.DefinitionEnglish}}</li>{{end}}</ul>
<p><a href="/api/saved.csv?user={{.User}}">CSV</a></p>
</aside>
<script>
document.querySelectorAll(".w").forEach(function (el) {
  el.addEventListener("click", function () {
    var want = !el.classList.contains("saved");
    fetch("/api/click", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({user: {{.User}}, key: el.dataset.key, saved: want})
    }).then(function () { location.reload(); });
  });
});
</script>
</body>
</html>
`))

type pageData struct {
	User string
	View session.PageView
	Prev int
	Next int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		user = "default"
	}
	sess, err := s.open(r, user)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view := sess.View()
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
		view = sess.Goto(n)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{User: user, View: view, Prev: view.Page - 1, Next: view.Page + 1}
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logf("Warning: render page: %v", err)
	}
}
