package server

import "net/http"

// indexHTML is the upload shell. The table itself is rendered from
// the JSON endpoints by the scriptless form fallback or any client.
const indexHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>finview</title></head>
<body>
<h1>finview</h1>
<form action="/api/statements" method="post" enctype="multipart/form-data">
  <p><input type="file" name="file" accept=".pdf,.csv"></p>
  <p><label>Format <select name="format">
    <option value="">auto-detect</option>
    <option value="boa-credit">Bank of America credit card</option>
    <option value="boa-checking">Bank of America checking</option>
    <option value="chase-credit">Chase credit card</option>
    <option value="transactions">Transactions CSV</option>
    <option value="chase-checking">Chase checking CSV</option>
  </select></label></p>
  <p><button type="submit">Upload</button></p>
</form>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}
