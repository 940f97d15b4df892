package web

const pageTpl = `<!doctype html>
<html lang="en">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>Drive Videos</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:1600px;margin:0 auto;padding:1rem;background:#f8fafc;color:#1e293b}
header{display:flex;flex-wrap:wrap;justify-content:space-between;align-items:center;gap:12px;margin-bottom:1rem}
form{display:inline}
button{cursor:pointer;border:1px solid #cbd5e1;background:#fff;border-radius:8px;padding:6px 10px;font-weight:600}
button.primary{background:#2563eb;color:#fff;border-color:#2563eb}
button:disabled{background:#94a3b8;color:#fff;border-color:#94a3b8;cursor:default}
button.copied{background:#f0fdf4;border-color:#bbf7d0;color:#16a34a}
.toolbar{display:flex;flex-wrap:wrap;justify-content:space-between;align-items:center;gap:12px;background:#fff;border:1px solid #e2e8f0;border-radius:16px;padding:10px 14px;margin-bottom:1rem}
.error{background:#fef2f2;border:1px solid #fecaca;color:#b91c1c;border-radius:8px;padding:8px 12px;margin-bottom:1rem}
.muted{color:#64748b;font-size:12px;text-transform:uppercase;letter-spacing:.05em}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(260px,1fr));gap:16px}
.list{display:flex;flex-direction:column;gap:8px}
.card{background:#fff;border:2px solid transparent;border-radius:16px;padding:10px}
.card.selected{border-color:#3b82f6;background:#eff6ff}
.list .card{display:flex;align-items:center;gap:12px}
.thumb{width:100%;aspect-ratio:16/9;object-fit:cover;border-radius:10px;background:#e2e8f0}
.list .thumb{width:128px;flex:0 0 auto}
.name{font-weight:700;font-size:14px;margin:8px 0 4px}
.meta{display:flex;justify-content:space-between;gap:12px;font-size:11px;font-weight:700;color:#94a3b8}
.actions{display:flex;gap:6px;margin-top:8px}
.list .info{flex:1;min-width:0}
.overlay{position:fixed;inset:0;background:rgba(15,23,42,.8);display:flex;align-items:center;justify-content:center;padding:24px}
.player{position:relative;width:100%;max-width:960px;background:#000;border-radius:24px;overflow:hidden}
.player iframe{width:100%;aspect-ratio:16/9;border:0;display:block}
.player form{position:absolute;top:12px;right:12px}
</style>
<header>
  <h1>Drive Videos</h1>
  <form method="post" action="/search">
    <input type="text" name="q" value="{{.Query}}" placeholder="Search videos..." />
    <button type="submit">Search</button>
  </form>
  <div>
    {{if .SelectedCount}}
    <form method="post" action="/download-selected">
      <button class="primary" type="submit" {{if .BulkDownloading}}disabled{{end}}>{{if .BulkDownloading}}Downloading...{{else}}Download ({{.SelectedCount}}){{end}}</button>
    </form>
    {{end}}
    <form method="post" action="/refresh"><button type="submit">{{if .Loading}}Loading...{{else}}Refresh{{end}}</button></form>
  </div>
</header>

{{if .Error}}<div class="error">{{.Error}}</div>{{end}}

<div class="toolbar">
  <div>
    <form method="post" action="/select-all"><button type="submit">{{if .AllSelected}}&#9745;{{else}}&#9744;{{end}} Select all</button></form>
    <span class="muted">{{if .Loading}}Loading...{{else}}{{len .Items}} results{{end}}</span>
  </div>
  <div>
    <form method="post" action="/view"><input type="hidden" name="mode" value="grid" /><button type="submit" {{if eq .Mode "grid"}}class="primary"{{end}}>Grid</button></form>
    <form method="post" action="/view"><input type="hidden" name="mode" value="list" /><button type="submit" {{if eq .Mode "list"}}class="primary"{{end}}>List</button></form>
    <form method="post" action="/sort">
      <select name="order">
        <option value="asc" {{if eq .Order "asc"}}selected{{end}}>Ascending</option>
        <option value="desc" {{if eq .Order "desc"}}selected{{end}}>Descending</option>
      </select>
      <button type="submit">Sort</button>
    </form>
  </div>
</div>

{{if .Items}}
<main class="{{if eq .Mode "list"}}list{{else}}grid{{end}}">
  {{range .Items}}
  <div class="card{{if .Selected}} selected{{end}}">
    <form method="post" action="/preview/{{.ID}}"><button type="submit" style="padding:0;border:0;width:100%"><img class="thumb" src="{{.ThumbnailURL}}" referrerpolicy="no-referrer" alt="" /></button></form>
    <div class="info">
      <div class="name">{{.Name}}</div>
      <div class="meta"><span>{{.SizeLabel}}</span><span>{{.DateLabel}}</span></div>
      <div class="actions">
        <form method="post" action="/select/{{.ID}}"><button type="submit">{{if .Selected}}&#9745;{{else}}&#9744;{{end}}</button></form>
        {{if .DownloadLink}}
        <form method="post" action="/download/{{.ID}}"><button class="primary" type="submit" {{if .Downloading}}disabled{{end}}>{{if .Downloading}}Loading...{{else}}Download{{end}}</button></form>
        {{end}}
        <form method="post" action="/link/{{.ID}}" data-copy="{{.ViewerURL}}"><button type="submit" {{if .Copied}}class="copied"{{end}}>{{if .Copied}}Copied{{else}}Copy link{{end}}</button></form>
      </div>
    </div>
  </div>
  {{end}}
</main>
{{else if .Loaded}}
<p class="muted">No videos found</p>
{{end}}

{{if .Preview}}
<div class="overlay">
  <div class="player">
    <form method="post" action="/preview/close"><button type="submit">Close</button></form>
    <iframe src="{{.PreviewURL}}" allow="autoplay; fullscreen" allowfullscreen title="{{.Preview.Name}}"></iframe>
  </div>
</div>
{{end}}
<script>
document.querySelectorAll('form[data-copy]').forEach(function(f){
  f.addEventListener('submit', function(){
    if (navigator.clipboard) navigator.clipboard.writeText(f.getAttribute('data-copy'));
  });
});
</script>
</html>
`
