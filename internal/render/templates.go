package render

import "html/template"

var (
	indexTmpl = template.Must(template.New("index").Parse(indexTemplate))
	eventTmpl = template.Must(template.New("event").Parse(eventTemplate))
)

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
nav b { color: #8b0000; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<nav>
{{- range .Nav}}
{{- if .Current}} <b>{{.Label}}</b>{{else}} <a href="{{.File}}">{{.Label}}</a>{{end}}
{{- end}}
</nav>
<table>
<tr><th>Event</th><th>Start</th><th>Stop</th><th>Lost (ks)</th><th>Mode</th><th>Hardness</th><th>Links</th></tr>
{{- range .Panels}}
<tr>
<td><a href="{{.Page}}">{{.Name}}</a></td>
<td>{{.Start}}</td>
<td>{{.Stop}}</td>
<td>{{.TLost}}</td>
<td>{{.Mode}}</td>
<td>{{.Hardness}}</td>
<td>
<a href="{{.Plot}}">Plot</a>
<a href="{{.Note}}">Note</a>
<a href="{{.Page}}">Plots</a>
{{- range .Extracts}}
<a href="{{.Href}}">{{.Label}}</a>
{{- end}}
</td>
</tr>
{{- end}}
</table>
</body>
</html>
`

const eventTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Science Run Interruption: {{.Name}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
pre { background: #f4f4f4; padding: 1em; overflow-x: auto; }
</style>
</head>
<body>
<h1>Science Run Interruption: {{.Name}}</h1>
<p>
Interruption start: {{.Start}}<br>
Interruption stop: {{.Stop}}<br>
Science time lost: {{.TLost}} ks<br>
Shutdown mode: {{.Mode}}
</p>
<p><img src="{{.Plot}}" alt="radiation environment plot" style="max-width:100%"></p>
<p><a href="{{.Note}}">Operator note</a></p>
{{- if .NoteIn}}
<pre>{{.NoteIn}}</pre>
{{- end}}
{{- if .ACISPlots}}
<h2>ACIS</h2>
{{- range .ACISPlots}}
<img src="{{.}}" style="width: 45%; padding-bottom: 30px;">
{{- end}}
{{- end}}
{{- range .Sections}}
<h2>{{.Label}}</h2>
<p><a href="{{.Extract}}">Data extract</a></p>
{{- if .Stats}}
<pre>{{.Stats}}</pre>
{{- end}}
{{- end}}
</body>
</html>
`
