package coverage

import (
	"fmt"
	"strings"
)

// The generated markup is a contract with themes and user styles: the
// iframe id ("coviframe"), the resize-on-load behavior and the
// reload-on-click behavior must stay stable.

const styleBlock = `
<style>
article h1, article > a, .md-sidebar--secondary {
    display: none !important;
}
</style>
`

const iframeFormat = `
<iframe
    id="coviframe"
    src="%s"
    frameborder="0"
    scrolling="no"
    onload="resizeIframe();"
    width="100%%">
</iframe>
`

const scriptBlock = `
<script>
var coviframe = document.getElementById("coviframe");

function resizeIframe() {
    coviframe.style.height = coviframe.contentWindow.document.documentElement.offsetHeight + 'px';
}

coviframe.contentWindow.document.body.onclick = function() {
    coviframe.contentWindow.location.reload();
}
</script>
`

// CovindexURL returns the in-site relative URL of the renamed report root,
// as embedded into the iframe src attribute. With directory-style URLs the
// generated page renders next to the report files; otherwise it renders as
// a sibling of the report directory.
func CovindexURL(pagePath string, directoryURLs bool) string {
	if directoryURLs {
		return "covindex.html"
	}
	return pagePath + "/covindex.html"
}

// BuildPage builds the coverage page Markdown.
//
// Without user content the page is the hiding style block (unless hiding is
// explicitly disabled) followed by the iframe and script. With user content,
// the iframe block replaces the placeholder token when present, and is
// appended after a blank line otherwise; the style block is only included
// when hiding is explicitly enabled. Occurrences of the token beyond the
// first are replaced too, but multiple placeholders are unsupported usage.
func BuildPage(covindex, userContent, placeholder string, hideTitle *bool) string {
	iframe := fmt.Sprintf(iframeFormat, covindex)
	block := iframe + scriptBlock

	if userContent == "" {
		if hideTitle == nil || *hideTitle {
			return styleBlock + block
		}
		return block
	}

	if hideTitle != nil && *hideTitle {
		block = styleBlock + block
	}
	if strings.Contains(userContent, placeholder) {
		return strings.ReplaceAll(userContent, placeholder, block)
	}
	return userContent + "\n\n" + block
}
