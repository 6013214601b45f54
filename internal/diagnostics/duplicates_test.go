package diagnostics

import (
	"reflect"
	"testing"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
)

func TestScanStructureSingleMethodDuplicate(t *testing.T) {
	got := ScanStructure([]string{"get {", "}", "post {", "}"}, "file:///x.bru")
	if len(got) != 1 || got[0].Code != brufile.CodeDuplicateHTTPMethod || got[0].Range.Start.Line != 2 {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestScanStructureSameMethodTwice(t *testing.T) {
	got := ScanStructure([]string{"get {", "}", "get {", "}"}, "file:///x.bru")
	want := []brufile.Code{brufile.CodeDuplicateHTTPMethod, brufile.CodeDuplicateBlock}
	if !reflect.DeepEqual(codes(got), want) {
		t.Fatalf("unexpected codes %v", codes(got))
	}
	if got[1].Message != "Duplicate 'get' block. This block can only appear once. First occurrence at line 1." {
		t.Fatalf("unexpected message %q", got[1].Message)
	}
}

func TestScanStructureDuplicateMeta(t *testing.T) {
	got := ScanStructure([]string{"meta {", "}", "", "  meta {", "}"}, "file:///a.bru")
	if len(got) != 1 || got[0].Code != brufile.CodeDuplicateBlock {
		t.Fatalf("unexpected %+v", got)
	}
	if r := got[0].Range; r.Start.Line != 3 || r.Start.Character != 2 || r.End.Character != 6 {
		t.Fatalf("unexpected range %+v", r)
	}
	rel := got[0].Related
	if len(rel) != 1 || rel[0].Location.URI != "file:///a.bru" || rel[0].Message != "First occurrence here" {
		t.Fatalf("unexpected related %+v", rel)
	}
	if rel[0].Location.Range != brufile.LineRange(0, 0, 4) {
		t.Fatalf("unexpected related range %+v", rel[0].Location.Range)
	}
}

func TestScanStructureBodyAndAuth(t *testing.T) {
	lines := []string{
		"body:json {", "}",
		"auth:basic {", "}",
		"body:text {", "}",
		"auth:bearer {", "}",
		"body:xml {", "}",
	}
	got := ScanStructure(lines, "file:///x.bru")
	want := []brufile.Code{brufile.CodeDuplicateBody, brufile.CodeDuplicateBody, brufile.CodeDuplicateAuth}
	if !reflect.DeepEqual(codes(got), want) {
		t.Fatalf("unexpected codes %v", codes(got))
	}
	if got[0].Range.Start.Line != 4 || got[1].Range.Start.Line != 8 || got[2].Range.Start.Line != 6 {
		t.Fatalf("unexpected lines %+v", got)
	}
}

func TestScanStructureScriptPhasesAreIndependent(t *testing.T) {
	lines := []string{
		"script:pre-request {", "}",
		"script:post-response {", "}",
		"script:pre-request {", "}",
	}
	got := ScanStructure(lines, "file:///x.bru")
	if len(got) != 1 || got[0].Code != brufile.CodeDuplicateScript || got[0].Range.Start.Line != 4 {
		t.Fatalf("unexpected %+v", got)
	}
	want := "Duplicate 'script:pre-request' block. Each script type can only appear once. First occurrence at line 1."
	if got[0].Message != want {
		t.Fatalf("unexpected message %q", got[0].Message)
	}
}

func TestScanStructureRepeatableBlocks(t *testing.T) {
	lines := []string{"headers {", "}", "headers {", "}", "tests {", "}", "tests {", "}", "assert {", "}", "assert {", "}"}
	if got := ScanStructure(lines, "file:///x.bru"); len(got) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", got)
	}
}
