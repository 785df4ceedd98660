package markdown

import "strings"

// DocumentTitle strips a trailing .md from a file name.
func DocumentTitle(name string) string {
	return strings.TrimSuffix(name, ".md")
}

// InitialContent is the content written when a document is created.
func InitialContent(name string) string {
	return "# " + DocumentTitle(name)
}

// Template is substituted when a document exists but has no content.
func Template(name string) string {
	return "# " + DocumentTitle(name) + "\n## Welcome\nStart editing here!"
}
