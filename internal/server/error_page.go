package server

import "html/template"

type errorData struct {
	Message string
}

// errorTemplate is the page shown for a failed render. This server only
// ever runs in development, so the error detail is always shown.
var errorTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Render Error</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 0 20px; }
        h1 { color: #e74c3c; }
        pre { background: #f8f9fa; padding: 15px; border-radius: 5px; overflow-x: auto; white-space: pre-wrap; }
    </style>
</head>
<body>
    <h1>Render Error</h1>
    <pre>{{.Message}}</pre>
</body>
</html>`))
