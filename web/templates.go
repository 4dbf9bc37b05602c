// Package web holds the HTML views of the event logger.
package web

import "html/template"

// Templates parses the page templates. Event fields are user-supplied and
// rendered through html/template so they are escaped, never verbatim.
func Templates() *template.Template {
	return template.Must(template.New("pages").Parse(pages))
}

const pages = `
{{define "layout_head"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; line-height: 1.6; }
        .container { max-width: 600px; margin: 0 auto; }
    </style>
</head>
<body>
<div class="container">
{{end}}

{{define "layout_foot"}}</div>
</body>
</html>
{{end}}

{{define "home"}}{{template "layout_head" .}}
{{if .User}}
    <h1>Hello, {{.User.Login}}!</h1>
    <p><img src="{{.User.AvatarURL}}" width="100" height="100" alt="avatar"/></p>
    <p><a href="/logout">Logout</a></p>
    <p><a href="/events">View Logged Events</a></p>
    <p><a href="/new-event">Log a New Event</a></p>
{{else}}
    <h1>Welcome! Please log in with GitHub</h1>
    <p><a href="/auth/github">Login with GitHub</a></p>
    <p><a href="/events">View Logged Events (public)</a></p>
{{end}}
{{template "layout_foot" .}}{{end}}

{{define "events"}}{{template "layout_head" .}}
    <h1>Logged Events</h1>
{{if .Events}}
    {{range .Events}}
    <div>
        <strong>Timestamp:</strong> {{.Timestamp.Format "2006-01-02T15:04:05.000Z07:00"}}<br/>
        <strong>Event:</strong> {{.Type}}<br/>
        <strong>User:</strong> {{.Author}}<br/>
        <strong>IP:</strong> {{.IP}}<br/>
        <strong>Details:</strong> {{.Details}}<br/>
        <hr/>
    </div>
    {{end}}
{{else}}
    <p>No events logged yet.</p>
{{end}}
    <p><a href="/">Go Home</a></p>
{{template "layout_foot" .}}{{end}}

{{define "new_event"}}{{template "layout_head" .}}
    <h1>Create a New Event</h1>
    <form action="/events" method="POST">
        <label>Event Type: <input name="type" value="repo_push"/></label><br/>
        <label>Details: <input name="details" value="Pushed changes to main branch"/></label><br/>
        <button type="submit">Log Event</button>
    </form>
    <p><a href="/">Go Home</a></p>
{{template "layout_foot" .}}{{end}}
`
