package diagnostics

import (
	"reflect"
	"testing"

	"github.com/MakeNowJust/heredoc"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
)

func codes(ds []brufile.Diagnostic) []brufile.Code {
	out := make([]brufile.Code, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

func withCode(ds []brufile.Diagnostic, code brufile.Code) []brufile.Diagnostic {
	var out []brufile.Diagnostic
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func validate(t *testing.T, opts Options, text string) []brufile.Diagnostic {
	t.Helper()
	return NewValidator(opts).Validate(brufile.NewDocument("file:///req.bru", text))
}

func TestValidateWellFormedRequest(t *testing.T) {
	text := "meta {\n  name: Get Users\n  type: http\n  seq: 1\n}\nget {\n  url: https://api.example.com\n}"
	if got := Validate("file:///req.bru", text); len(got) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", got)
	}
}

func TestValidateDuplicateMethodAcrossNames(t *testing.T) {
	got := validate(t, Options{Disabled: []brufile.Code{brufile.CodeMissingMeta}}, "get {\n}\npost {\n}")
	if len(got) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", got)
	}
	d := got[0]
	if d.Code != brufile.CodeDuplicateHTTPMethod {
		t.Fatalf("unexpected code %q", d.Code)
	}
	if d.Range.Start.Line != 2 || d.Range.Start.Character != 0 || d.Range.End.Character != 4 {
		t.Fatalf("unexpected range %+v", d.Range)
	}
	if d.Severity != brufile.SeverityError || d.Source != brufile.DiagnosticSource {
		t.Fatalf("unexpected severity/source %v %q", d.Severity, d.Source)
	}
	want := "Multiple HTTP method blocks found. Only one HTTP method (get) is allowed per request. First occurrence at line 1."
	if d.Message != want {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if len(d.Related) != 1 || d.Related[0].Location.Range.Start.Line != 0 {
		t.Fatalf("expected related first occurrence, got %+v", d.Related)
	}
}

func TestValidateInvalidHeaderLine(t *testing.T) {
	opts := Options{Disabled: []brufile.Code{brufile.CodeMissingMeta, brufile.CodeMissingHTTPMethod}}
	got := validate(t, opts, "headers {\n  BadLine\n}")
	if len(got) != 1 || got[0].Code != brufile.CodeInvalidHeader {
		t.Fatalf("expected one invalid-header, got %+v", got)
	}
	if got[0].Range.Start.Line != 1 || got[0].Range.Start.Character != 0 || got[0].Range.End.Character != 9 {
		t.Fatalf("expected whole line range, got %+v", got[0].Range)
	}
}

func TestValidateEmptyVariable(t *testing.T) {
	opts := Options{Disabled: []brufile.Code{brufile.CodeMissingMeta}}
	got := validate(t, opts, "get {\n  url: {{}}\n}")
	if len(got) != 1 || got[0].Code != brufile.CodeEmptyVariable {
		t.Fatalf("expected one empty-variable, got %+v", got)
	}
	r := got[0].Range
	if r.Start.Line != 1 || r.Start.Character != 7 || r.End.Character != 11 {
		t.Fatalf("expected the four brace characters, got %+v", r)
	}
}

func TestValidateMissingMethodOnceAtLineZero(t *testing.T) {
	docs := []string{
		"",
		"meta {\n  name: x\n  type: http\n}",
		"headers {\n  a: b\n}\nvars {\n}\n",
		"\n\n\nbody:json {\n  1\n}",
	}
	for _, text := range docs {
		got := withCode(Validate("file:///x.bru", text), brufile.CodeMissingHTTPMethod)
		if len(got) != 1 {
			t.Fatalf("%q: expected one missing-http-method, got %d", text, len(got))
		}
		if got[0].Range.Start.Line != 0 || got[0].Range.End.Line != 0 {
			t.Fatalf("%q: expected line 0 anchor, got %+v", text, got[0].Range)
		}
	}
}

func TestValidateEveryLaterMethodFlagged(t *testing.T) {
	text := heredoc.Doc(`
		put {
		}
		get {
		}
		delete {
		}
		options {
		}
	`)
	got := withCode(Validate("file:///x.bru", text), brufile.CodeDuplicateHTTPMethod)
	var lines []int
	for _, d := range got {
		lines = append(lines, d.Range.Start.Line)
	}
	if !reflect.DeepEqual(lines, []int{2, 4, 6}) {
		t.Fatalf("unexpected flagged lines %v", lines)
	}
}

func TestValidateMetaAcceptedFields(t *testing.T) {
	for _, name := range []string{"x", "Create User", "a b c"} {
		text := "meta {\n  name: " + name + "\n  type: http\n}\npost {\n}"
		got := Validate("file:///x.bru", text)
		if n := len(withCode(got, brufile.CodeMissingMetaField)) + len(withCode(got, brufile.CodeInvalidMetaType)); n != 0 {
			t.Fatalf("%q: unexpected meta diagnostics %+v", name, got)
		}
	}
}

func TestValidateMetaFieldErrors(t *testing.T) {
	text := heredoc.Doc(`
		meta {
		  type: rest
		  seq: -1
		}
		get {
		}
	`)
	got := Validate("file:///x.bru", text)
	want := []brufile.Code{
		brufile.CodeInvalidMetaType,
		brufile.CodeInvalidSeq,
		brufile.CodeMissingMetaField,
	}
	if !reflect.DeepEqual(codes(got), want) {
		t.Fatalf("unexpected codes %v", codes(got))
	}
	if got[0].Message != "Invalid meta type: 'rest'. Must be 'http' or 'graphql'" {
		t.Fatalf("unexpected message %q", got[0].Message)
	}
	if r := got[0].Range; r.Start.Line != 1 || r.Start.Character != 8 || r.End.Character != 12 {
		t.Fatalf("unexpected type range %+v", r)
	}
	if got[2].Message != "Missing required field in meta block: 'name'" {
		t.Fatalf("unexpected message %q", got[2].Message)
	}
	if r := got[2].Range; r.Start.Line != 0 || r.End.Character != 4 {
		t.Fatalf("expected meta name anchor, got %+v", r)
	}
}

func TestValidateSeqValues(t *testing.T) {
	cases := map[string]bool{
		"0":                    true,
		"12":                   true,
		"-1":                   false,
		"abc":                  false,
		"1.5":                  false,
		"1abc":                 false,
		"99999999999999999999": false,
	}
	for seq, ok := range cases {
		text := "meta {\n  name: x\n  type: http\n  seq: " + seq + "\n}\nget {\n}"
		got := withCode(Validate("file:///x.bru", text), brufile.CodeInvalidSeq)
		if ok && len(got) != 0 {
			t.Fatalf("seq %q: unexpected %+v", seq, got)
		}
		if !ok && len(got) != 1 {
			t.Fatalf("seq %q: expected one invalid-seq, got %+v", seq, got)
		}
	}
}

func TestValidateMetaClosedImplicitly(t *testing.T) {
	text := "meta {\n  name: x\nget {\n  url: https://x.io\n}"
	got := withCode(Validate("file:///x.bru", text), brufile.CodeMissingMetaField)
	if len(got) != 1 || got[0].Message != "Missing required field in meta block: 'type'" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestValidateMetaOpenAtEOF(t *testing.T) {
	got := withCode(Validate("file:///x.bru", "get {\n}\nmeta {\n  type: http"), brufile.CodeMissingMetaField)
	if len(got) != 1 || got[0].Range.Start.Line != 2 {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestValidateUnknownBlock(t *testing.T) {
	got := withCode(Validate("file:///x.bru", "get {\n}\n  foo:bar {\n}"), brufile.CodeUnknownBlock)
	if len(got) != 1 {
		t.Fatalf("expected one unknown-block, got %+v", got)
	}
	if got[0].Message != "Unknown block type: 'foo:bar'" {
		t.Fatalf("unexpected message %q", got[0].Message)
	}
	if r := got[0].Range; r.Start.Line != 2 || r.Start.Character != 2 || r.End.Character != 9 {
		t.Fatalf("unexpected range %+v", r)
	}
}

func TestValidateExtraBlocksAndMetaTypes(t *testing.T) {
	opts := Options{ExtraBlocks: []string{"settings"}, MetaTypes: []string{"http", "graphql", "grpc"}}
	text := "meta {\n  name: x\n  type: grpc\n}\nsettings {\n}\npost {\n}"
	if got := validate(t, opts, text); len(got) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", got)
	}
	got := Validate("file:///x.bru", text)
	if !reflect.DeepEqual(codes(got), []brufile.Code{brufile.CodeInvalidMetaType, brufile.CodeUnknownBlock}) {
		t.Fatalf("unexpected codes %v", codes(got))
	}
}

func TestValidateURLValues(t *testing.T) {
	cases := map[string]bool{
		"https://api.example.com/users": true,
		"{{baseUrl}}":                   true,
		"{{host}}/users":                false,
		"localhost:3000/users":          true,
		"/users":                        false,
		"api.example.com":               false,
	}
	for value, ok := range cases {
		got := withCode(Validate("file:///x.bru", "get {\n  url: "+value+"\n}"), brufile.CodeInvalidURL)
		if ok && len(got) != 0 {
			t.Fatalf("%q: unexpected %+v", value, got)
		}
		if !ok {
			if len(got) != 1 || got[0].Severity != brufile.SeverityWarning {
				t.Fatalf("%q: expected one warning, got %+v", value, got)
			}
			if got[0].Range.Start.Character != 7 {
				t.Fatalf("%q: unexpected range %+v", value, got[0].Range)
			}
		}
	}
}

func TestValidateHeaderLines(t *testing.T) {
	text := heredoc.Doc(`
		get {
		}
		headers {
		  Content-Type: application/json
		  ~X-Disabled
		  Broken
		}
	`)
	got := withCode(Validate("file:///x.bru", text), brufile.CodeInvalidHeader)
	if len(got) != 1 || got[0].Range.Start.Line != 5 {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestValidateJSONBodyHeuristic(t *testing.T) {
	text := heredoc.Doc(`
		post {
		}
		body:json {
		  "name": "x",
		  [1, 2
		  true
		  not json
		}
	`)
	got := withCode(Validate("file:///x.bru", text), brufile.CodeInvalidJSON)
	if len(got) != 1 || got[0].Range.Start.Line != 6 {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestValidateVariables(t *testing.T) {
	got := CheckVariables(3, `x: {{ ok_1 }} {{bad-name}} {{  }}`)
	if !reflect.DeepEqual(codes(got), []brufile.Code{brufile.CodeInvalidVariable, brufile.CodeEmptyVariable}) {
		t.Fatalf("unexpected codes %v", codes(got))
	}
	if got[0].Message != "Invalid variable name: 'bad-name'. Use alphanumeric and underscores only" {
		t.Fatalf("unexpected message %q", got[0].Message)
	}
	if r := got[0].Range; r.Start.Line != 3 || r.Start.Character != 14 || r.End.Character != 26 {
		t.Fatalf("unexpected range %+v", r)
	}
}

func TestValidateVariableColumnsAreUTF16(t *testing.T) {
	got := CheckVariables(0, "é😀 {{}}")
	if len(got) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", got)
	}
	if r := got[0].Range; r.Start.Character != 4 || r.End.Character != 8 {
		t.Fatalf("unexpected range %+v", r)
	}
}

func TestValidateDisabledCodes(t *testing.T) {
	opts := Options{Disabled: []brufile.Code{brufile.CodeMissingHTTPMethod, brufile.CodeMissingMeta}}
	if got := validate(t, opts, ""); len(got) != 0 {
		t.Fatalf("expected suppression, got %+v", got)
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	text := heredoc.Doc(`
		meta {
		  type: nope
		}
		get {
		  url: nope
		}
		post {
		}
		body:json {
		}
		body:xml {
		}
		script:pre-request {
		}
		script:pre-request {
		}
		headers {
		  x {{}}
		}
	`)
	v := NewValidator(Options{})
	first := v.Validate(brufile.NewDocument("file:///x.bru", text))
	second := v.Validate(brufile.NewDocument("file:///x.bru", text))
	if len(first) == 0 || !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical non-empty output:\n%+v\n%+v", first, second)
	}
}
