package gateway

import (
	"crypto/sha256"
	"encoding/base64"
	"regexp"
	"strings"
)

// Matches bare inline script blocks. Deliberately does not handle
// attributes or self-closing forms; the bootstrap templates only ever emit
// bare <script> tags and the hash output must stay byte-stable.
var inlineScriptRe = regexp.MustCompile(`(?is)<script>(.+?)</script>`)

// extractInlineScriptHashes returns one base64 SHA-256 digest per inline
// <script> block of html, in document order. Line endings are normalized
// to LF first so hashes are identical across platforms.
//
// This is a lexical scan, not an HTML parse: script-looking text inside
// comments or strings will produce a hash too. That is acceptable for the
// templates we render and keeps the output stable.
func extractInlineScriptHashes(html string) []string {
	var hashes []string
	for _, m := range inlineScriptRe.FindAllStringSubmatch(html, -1) {
		content := strings.ReplaceAll(m[1], "\r\n", "\n")
		sum := sha256.Sum256([]byte(content))
		hashes = append(hashes, base64.StdEncoding.EncodeToString(sum[:]))
	}
	return hashes
}

// contentSecurityPolicy renders the fixed-order policy; the script-src
// directive is completed per render with the inline script hashes.
func contentSecurityPolicy(scriptHashes []string) string {
	tokens := make([]string, 0, len(scriptHashes))
	for _, h := range scriptHashes {
		tokens = append(tokens, "'sha256-"+h+"'")
	}
	scriptSrc := "'self' 'unsafe-eval' blob:"
	if len(tokens) > 0 {
		scriptSrc += " " + strings.Join(tokens, " ")
	}

	directives := []string{
		"default-src 'self'",
		"img-src 'self' https: data: blob:",
		"media-src 'self'",
		"script-src " + scriptSrc,
		"child-src 'self'",
		"frame-src 'self' data:",
		"worker-src 'self' data: blob:",
		"style-src 'self' 'unsafe-inline'",
		"connect-src 'self' ws: wss: https:",
		"font-src 'self' blob:",
		"manifest-src 'self'",
	}
	return strings.Join(directives, "; ") + ";"
}
