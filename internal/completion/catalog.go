package completion

// Blocks is offered at the document root.
var Blocks = []Item{
	{
		Label:            "meta",
		Kind:             KindKeyword,
		Detail:           "Request metadata",
		Documentation:    "Defines metadata for the API request including name, type, and sequence.\n\n```bru\nmeta {\n  name: Get Users\n  type: http\n  seq: 1\n}\n```",
		InsertText:       "meta {\n  name: ${1:Request Name}\n  type: ${2|http,graphql|}\n  seq: ${3:1}\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "get",
		Kind:             KindMethod,
		Detail:           "HTTP GET request",
		Documentation:    "Defines a GET request.\n\n```bru\nget {\n  url: https://api.example.com/users\n  body: none\n  auth: none\n}\n```",
		InsertText:       "get {\n  url: ${1:https://api.example.com}\n  body: none\n  auth: none\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "post",
		Kind:             KindMethod,
		Detail:           "HTTP POST request",
		Documentation:    "Defines a POST request.\n\n```bru\npost {\n  url: https://api.example.com/users\n  body: json\n  auth: none\n}\n```",
		InsertText:       "post {\n  url: ${1:https://api.example.com}\n  body: ${2|json,xml,form-urlencoded,multipart-form|}\n  auth: none\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "put",
		Kind:             KindMethod,
		Detail:           "HTTP PUT request",
		Documentation:    "Defines a PUT request for updating resources.",
		InsertText:       "put {\n  url: ${1:https://api.example.com}\n  body: ${2|json,xml,form-urlencoded|}\n  auth: none\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "patch",
		Kind:             KindMethod,
		Detail:           "HTTP PATCH request",
		Documentation:    "Defines a PATCH request for partial updates.",
		InsertText:       "patch {\n  url: ${1:https://api.example.com}\n  body: ${2|json,xml|}\n  auth: none\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "delete",
		Kind:             KindMethod,
		Detail:           "HTTP DELETE request",
		Documentation:    "Defines a DELETE request.",
		InsertText:       "delete {\n  url: ${1:https://api.example.com}\n  body: none\n  auth: none\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "headers",
		Kind:             KindProperty,
		Detail:           "Request headers",
		Documentation:    "Defines HTTP headers for the request.\n\n```bru\nheaders {\n  Content-Type: application/json\n  Authorization: Bearer {{token}}\n}\n```",
		InsertText:       "headers {\n  ${1:Content-Type}: ${2:application/json}\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "params:query",
		Kind:             KindProperty,
		Detail:           "Query parameters",
		Documentation:    "Defines URL query parameters.\n\n```bru\nparams:query {\n  page: 1\n  limit: 10\n}\n```",
		InsertText:       "params:query {\n  ${1:key}: ${2:value}\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "params:path",
		Kind:             KindProperty,
		Detail:           "Path parameters",
		Documentation:    "Defines path parameters for the URL.",
		InsertText:       "params:path {\n  ${1:key}: ${2:value}\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "body:json",
		Kind:             KindProperty,
		Detail:           "JSON request body",
		Documentation:    "Defines a JSON request body.\n\n```bru\nbody:json {\n  \"name\": \"John Doe\",\n  \"email\": \"john@example.com\"\n}\n```",
		InsertText:       "body:json {\n  ${1}\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "body:xml",
		Kind:             KindProperty,
		Detail:           "XML request body",
		Documentation:    "Defines an XML request body.",
		InsertText:       "body:xml {\n  ${1}\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "body:text",
		Kind:             KindProperty,
		Detail:           "Plain text request body",
		Documentation:    "Defines a plain text request body.",
		InsertText:       "body:text {\n  ${1}\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "auth:basic",
		Kind:             KindProperty,
		Detail:           "Basic authentication",
		Documentation:    "HTTP Basic authentication.\n\n```bru\nauth:basic {\n  username: user\n  password: pass\n}\n```",
		InsertText:       "auth:basic {\n  username: ${1:username}\n  password: ${2:password}\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "auth:bearer",
		Kind:             KindProperty,
		Detail:           "Bearer token authentication",
		Documentation:    "Bearer token authentication.\n\n```bru\nauth:bearer {\n  token: {{accessToken}}\n}\n```",
		InsertText:       "auth:bearer {\n  token: ${1:{{token}}}\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "script:pre-request",
		Kind:             KindFunction,
		Detail:           "Pre-request script",
		Documentation:    "JavaScript code executed before the request.\n\n```bru\nscript:pre-request {\n  bru.setVar(\"timestamp\", Date.now());\n}\n```",
		InsertText:       "script:pre-request {\n  \n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "script:post-response",
		Kind:             KindFunction,
		Detail:           "Post-response script",
		Documentation:    "JavaScript code executed after receiving response.\n\n```bru\nscript:post-response {\n  if (res.status === 200) {\n    bru.setEnvVar(\"userId\", res.body.id);\n  }\n}\n```",
		InsertText:       "script:post-response {\n  \n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "tests",
		Kind:             KindFunction,
		Detail:           "Test assertions",
		Documentation:    "Defines test assertions for the response.\n\n```bru\ntests {\n  test(\"Status is 200\", function() {\n    expect(res.status).to.equal(200);\n  });\n}\n```",
		InsertText:       "tests {\n  test(\"${1:Test name}\", function() {\n    expect(${2:res.status}).to.equal(${3:200});\n  });\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "assert",
		Kind:             KindFunction,
		Detail:           "Response assertions",
		Documentation:    "Assertions for validating responses.",
		InsertText:       "assert {\n  ${1}\n}",
		InsertTextFormat: Snippet,
	},
	{
		Label:            "vars",
		Kind:             KindVariable,
		Detail:           "Request variables",
		Documentation:    "Define local variables for this request.\n\n```bru\nvars {\n  baseUrl: https://api.example.com\n  apiKey: secret123\n}\n```",
		InsertText:       "vars {\n  ${1:key}: ${2:value}\n}",
		InsertTextFormat: Snippet,
	},
}

var Headers = []Item{
	{Label: "Content-Type", Kind: KindProperty, Detail: "Media type of the resource", InsertText: "Content-Type: ${1|application/json,application/xml,text/html,text/plain,multipart/form-data|}", InsertTextFormat: Snippet},
	{Label: "Authorization", Kind: KindProperty, Detail: "Authentication credentials", InsertText: "Authorization: ${1|Bearer,Basic|} ${2:token}", InsertTextFormat: Snippet},
	{Label: "Accept", Kind: KindProperty, Detail: "Media types acceptable for the response", InsertText: "Accept: ${1:application/json}", InsertTextFormat: Snippet},
	{Label: "User-Agent", Kind: KindProperty, Detail: "User agent string", InsertText: "User-Agent: ${1:MyApp/1.0}", InsertTextFormat: Snippet},
	{Label: "Cache-Control", Kind: KindProperty, Detail: "Caching directives", InsertText: "Cache-Control: ${1|no-cache,no-store,max-age=3600|}", InsertTextFormat: Snippet},
	{Label: "Cookie", Kind: KindProperty, Detail: "HTTP cookies", InsertText: "Cookie: ${1:name}=${2:value}", InsertTextFormat: Snippet},
	{Label: "X-API-Key", Kind: KindProperty, Detail: "API key authentication", InsertText: "X-API-Key: ${1:your-api-key}", InsertTextFormat: Snippet},
}

var BruMethods = []Item{
	{
		Label:            "setVar",
		Kind:             KindMethod,
		Detail:           "bru.setVar(name, value)",
		Documentation:    "Sets a request-scoped variable.\n\n```javascript\nbru.setVar(\"userId\", 123);\n```",
		InsertText:       `setVar("${1:name}", ${2:value})`,
		InsertTextFormat: Snippet,
	},
	{
		Label:            "getVar",
		Kind:             KindMethod,
		Detail:           "bru.getVar(name)",
		Documentation:    "Gets a request-scoped variable.\n\n```javascript\nconst userId = bru.getVar(\"userId\");\n```",
		InsertText:       `getVar("${1:name}")`,
		InsertTextFormat: Snippet,
	},
	{
		Label:            "setEnvVar",
		Kind:             KindMethod,
		Detail:           "bru.setEnvVar(name, value)",
		Documentation:    "Sets an environment variable.\n\n```javascript\nbru.setEnvVar(\"token\", response.token);\n```",
		InsertText:       `setEnvVar("${1:name}", ${2:value})`,
		InsertTextFormat: Snippet,
	},
	{
		Label:            "getEnvVar",
		Kind:             KindMethod,
		Detail:           "bru.getEnvVar(name)",
		Documentation:    "Gets an environment variable.\n\n```javascript\nconst token = bru.getEnvVar(\"token\");\n```",
		InsertText:       `getEnvVar("${1:name}")`,
		InsertTextFormat: Snippet,
	},
	{
		Label:            "setNextRequest",
		Kind:             KindMethod,
		Detail:           "bru.setNextRequest(name)",
		Documentation:    "Sets the next request to run.\n\n```javascript\nbru.setNextRequest(\"Login\");\n```",
		InsertText:       `setNextRequest("${1:requestName}")`,
		InsertTextFormat: Snippet,
	},
	{
		Label:            "sleep",
		Kind:             KindMethod,
		Detail:           "bru.sleep(ms)",
		Documentation:    "Pauses execution for specified milliseconds.\n\n```javascript\nbru.sleep(1000); // wait 1 second\n```",
		InsertText:       `sleep(${1:1000})`,
		InsertTextFormat: Snippet,
	},
}

var ReqProperties = []Item{
	{Label: "url", Kind: KindProperty, Detail: "req.url: string", Documentation: "The request URL.\n\n```javascript\nconsole.log(req.url);\n```"},
	{Label: "method", Kind: KindProperty, Detail: "req.method: string", Documentation: "HTTP method (GET, POST, etc).\n\n```javascript\nif (req.method === \"POST\") {\n  // ...\n}\n```"},
	{Label: "headers", Kind: KindProperty, Detail: "req.headers: object", Documentation: "Request headers object.\n\n```javascript\nreq.headers[\"Authorization\"] = \"Bearer \" + token;\n```"},
	{Label: "body", Kind: KindProperty, Detail: "req.body: any", Documentation: "Request body.\n\n```javascript\nreq.body.userId = 123;\n```"},
}

var ReqMethods = []Item{
	{Label: "setUrl", Kind: KindMethod, Detail: "req.setUrl(url): void", Documentation: "Sets the request URL.\n\n```javascript\nreq.setUrl(\"https://api.example.com/users\");\n```"},
	{Label: "setMethod", Kind: KindMethod, Detail: "req.setMethod(method): void", Documentation: "Sets the HTTP method.\n\n```javascript\nreq.setMethod(\"POST\");\n```"},
	{Label: "setHeader", Kind: KindMethod, Detail: "req.setHeader(name, value): void", Documentation: "Sets a request header.\n\n```javascript\nreq.setHeader(\"Content-Type\", \"application/json\");\n```"},
	{Label: "setBody", Kind: KindMethod, Detail: "req.setBody(body): void", Documentation: "Sets the request body.\n\n```javascript\nreq.setBody({ name: \"John\" });\n```"},
}

var ResProperties = []Item{
	{Label: "status", Kind: KindProperty, Detail: "res.status: number", Documentation: "HTTP status code of the response.\n\n```javascript\nif (res.status === 200) {\n  // success\n}\n```"},
	{Label: "statusText", Kind: KindProperty, Detail: "res.statusText: string", Documentation: "HTTP status text.\n\n```javascript\nconsole.log(res.statusText); // \"OK\"\n```"},
	{Label: "headers", Kind: KindProperty, Detail: "res.headers: object", Documentation: "Response headers object.\n\n```javascript\nconst contentType = res.headers[\"content-type\"];\n```"},
	{Label: "body", Kind: KindProperty, Detail: "res.body: any", Documentation: "Parsed response body (JSON, XML, etc).\n\n```javascript\nconst userId = res.body.data.id;\n```"},
	{Label: "responseTime", Kind: KindProperty, Detail: "res.responseTime: number", Documentation: "Response time in milliseconds.\n\n```javascript\nconsole.log(`Took ${res.responseTime}ms`);\n```"},
	{Label: "size", Kind: KindProperty, Detail: "res.size: number", Documentation: "Response size in bytes.\n\n```javascript\nconsole.log(`Size: ${res.size} bytes`);\n```"},
}

var ResMethods = []Item{
	{Label: "getStatus", Kind: KindMethod, Detail: "res.getStatus(): number", Documentation: "Gets the HTTP status code.\n\n```javascript\nconst status = res.getStatus();\n```"},
	{Label: "getHeader", Kind: KindMethod, Detail: "res.getHeader(name): string", Documentation: "Gets a specific response header.\n\n```javascript\nconst token = res.getHeader(\"authorization\");\n```"},
	{Label: "getBody", Kind: KindMethod, Detail: "res.getBody(): any", Documentation: "Gets the parsed response body.\n\n```javascript\nconst data = res.getBody();\n```"},
}

// ScriptGlobals are the identifiers bound inside script blocks.
var ScriptGlobals = []Item{
	{Label: "bru", Kind: KindModule, Detail: "Bruno API object"},
	{Label: "res", Kind: KindModule, Detail: "Response object (post-response only)"},
	{Label: "req", Kind: KindModule, Detail: "Request object"},
	{Label: "console", Kind: KindModule, Detail: "Console object"},
}

const (
	ReceiverBru = "bru"
	ReceiverReq = "req"
	ReceiverRes = "res"
)

var (
	reqMembers = concat(ReqProperties, ReqMethods)
	resMembers = concat(ResProperties, ResMethods)

	// members maps each receiver to its member catalog, properties first.
	members = map[string][]Item{
		ReceiverBru: BruMethods,
		ReceiverReq: reqMembers,
		ReceiverRes: resMembers,
	}

	none = []Item{}
)

// Members returns the member catalog for a script receiver.
func Members(receiver string) ([]Item, bool) {
	items, ok := members[receiver]
	return items, ok
}

func IsReceiver(word string) bool {
	_, ok := members[word]
	return ok
}

func concat(parts ...[]Item) []Item {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]Item, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
