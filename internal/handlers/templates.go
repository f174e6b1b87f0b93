package handlers

import (
	"html/template"
)

// AdminTemplates holds the settings page.
var AdminTemplates = template.Must(template.New(AdminTemplateName).Parse(`<!DOCTYPE html>
<html>
<head><title>S3 Uploads</title></head>
<body>
<h1>S3 Uploads</h1>

<form id="s3-settings" method="post" action="/api/admin/plugins/s3-uploads/s3settings">
	<input type="hidden" name="_csrf" value="{{.CSRF}}">
	<label>Bucket <input type="text" name="bucket" value="{{.Bucket}}"></label>
	<label>Host <input type="text" name="host" value="{{.Host}}"></label>
	<label>Path <input type="text" name="path" value="{{.Path}}"></label>
	<label>Region <input type="text" name="region" value="{{.Region}}"></label>
	<button type="submit">Save</button>
</form>

<form id="s3-credentials" method="post" action="/api/admin/plugins/s3-uploads/credentials">
	<input type="hidden" name="_csrf" value="{{.CSRF}}">
	<label>Access Key ID <input type="text" name="accessKeyId" value="{{.AccessKeyID}}"></label>
	<label>Secret Access Key <input type="password" name="secretAccessKey" value="{{.SecretAccessKey}}"></label>
	<button type="submit">Save</button>
</form>
</body>
</html>
`))
