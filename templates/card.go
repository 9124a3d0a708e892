package templates

// Card template - standalone profile header built from kind-0 metadata.

func GetCardTemplate() string {
	return cardContent
}

var cardContent = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{if .Banner}}
<img class="profile-banner" src="{{.Banner}}" alt="" loading="lazy">
{{end}}
<div class="profile-header">
  {{if .Picture}}<img class="profile-avatar" src="{{.Picture}}" alt="{{.Title}}'s avatar" loading="lazy">{{end}}
  <div class="profile-info">
    <div class="profile-name-row">
      <div class="profile-name">{{.Title}}</div>
      {{if and .Name (ne .Name .Title)}}<div class="profile-username">@{{.Name}}</div>{{end}}
    </div>
    {{if .Nip05}}
    <div class="profile-nip05">{{.Nip05}}</div>
    {{end}}
    {{if .About}}
    <div class="profile-about">{{.About}}</div>
    {{end}}
    {{if .Website}}
    <div class="profile-website"><a href="{{.Website}}" target="_blank" rel="noopener">{{.Website}}</a></div>
    {{end}}
  </div>
</div>
{{if .Lud16}}
<div class="profile-lightning">
  <a href="{{.LightningURI}}">{{.Lud16}}</a>
  {{if .QRCodeDataURL}}<img class="lightning-qr" src="{{.QRCodeDataURL}}" alt="Lightning address QR code">{{end}}
  {{if .LNURL}}<code class="lnurl">{{.LNURL}}</code>{{end}}
</div>
{{end}}
</body>
</html>
`
