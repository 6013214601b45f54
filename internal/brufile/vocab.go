package brufile

import "strings"

var HTTPMethods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

var MetaTypes = []string{"http", "graphql"}

var RequiredMetaFields = []string{"name", "type"}

const (
	MetaBlock    = "meta"
	HeadersBlock = "headers"

	BodyPrefix   = "body:"
	AuthPrefix   = "auth:"
	ScriptPrefix = "script:"

	JSONBodyBlock = "body:json"
)

var KnownBlocks = []string{
	"get", "post", "put", "patch", "delete", "head", "options",
	"meta",
	"headers",
	"params:query",
	"params:path",
	"body:json",
	"body:xml",
	"body:text",
	"body:form-urlencoded",
	"body:multipart-form",
	"auth:basic",
	"auth:bearer",
	"auth:digest",
	"script:pre-request",
	"script:post-response",
	"tests",
	"assert",
	"vars",
	"docs",
}

// RepeatableBlocks may occur any number of times in one document.
var RepeatableBlocks = []string{"headers", "assert", "tests"}

func IsHTTPMethod(name string) bool {
	for _, m := range HTTPMethods {
		if m == name {
			return true
		}
	}
	return false
}

// IsUniqueBlock reports whether name may appear at most once: the meta block
// and every HTTP method block.
func IsUniqueBlock(name string) bool {
	return name == MetaBlock || IsHTTPMethod(name)
}

func IsBodyBlock(name string) bool   { return strings.HasPrefix(name, BodyPrefix) }
func IsAuthBlock(name string) bool   { return strings.HasPrefix(name, AuthPrefix) }
func IsScriptBlock(name string) bool { return strings.HasPrefix(name, ScriptPrefix) }
