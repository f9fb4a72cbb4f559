package social

import "html/template"

var documentTemplate = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
<link rel="canonical" href="{{.CanonicalURL}}">
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:type" content="{{.OgType}}">
<meta property="og:url" content="{{.CanonicalURL}}">
<meta property="og:site_name" content="{{.SiteName}}">
<meta property="og:image" content="{{.ImageURL}}">
<meta property="og:image:secure_url" content="{{.ImageURL}}">
<meta property="og:image:width" content="{{.ImageWidth}}">
<meta property="og:image:height" content="{{.ImageHeight}}">
<meta property="og:image:type" content="{{.ImageType}}">
<meta property="og:image:alt" content="{{.ImageAlt}}">
{{- if .PublishedTime}}
<meta property="article:published_time" content="{{.PublishedTime}}">
<meta property="article:modified_time" content="{{.ModifiedTime}}">
<meta property="article:section" content="{{.Section}}">
{{- end}}
<meta name="twitter:card" content="summary_large_image">
{{- if .TwitterSite}}
<meta name="twitter:site" content="{{.TwitterSite}}">
{{- end}}
<meta name="twitter:title" content="{{.Title}}">
<meta name="twitter:description" content="{{.Description}}">
<meta name="twitter:image" content="{{.ImageURL}}">
<meta name="twitter:image:alt" content="{{.ImageAlt}}">
<meta http-equiv="refresh" content="0; url={{.CanonicalURL}}">
<script type="application/ld+json">{{.JSONLD}}</script>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>
<p><a href="{{.CanonicalURL}}">{{.SiteName}}</a></p>
</body>
</html>
`))

// StaticFallback is served only if the site document itself fails to render
const StaticFallback = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Newsroom</title>
<meta property="og:title" content="Newsroom">
<meta property="og:type" content="website">
<meta property="og:image" content="https://res.cloudinary.com/newsroom/image/upload/w_1200,h_630,c_fill,f_jpg/brand/og-fallback.jpg">
<meta name="twitter:card" content="summary_large_image">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"NewsArticle","headline":"Newsroom"}</script>
</head>
<body></body>
</html>
`
