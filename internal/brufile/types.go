package brufile

type Severity int

const (
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// DiagnosticSource tags every diagnostic so editors can filter them.
const DiagnosticSource = "bruno-lsp"

type Code string

const (
	CodeMissingHTTPMethod   Code = "missing-http-method"
	CodeMissingMeta         Code = "missing-meta"
	CodeUnknownBlock        Code = "unknown-block"
	CodeInvalidMetaType     Code = "invalid-meta-type"
	CodeInvalidSeq          Code = "invalid-seq"
	CodeMissingMetaField    Code = "missing-meta-field"
	CodeInvalidURL          Code = "invalid-url"
	CodeInvalidHeader       Code = "invalid-header"
	CodeInvalidJSON         Code = "invalid-json"
	CodeEmptyVariable       Code = "empty-variable"
	CodeInvalidVariable     Code = "invalid-variable"
	CodeDuplicateHTTPMethod Code = "duplicate-http-method"
	CodeDuplicateBlock      Code = "duplicate-block"
	CodeDuplicateBody       Code = "duplicate-body"
	CodeDuplicateAuth       Code = "duplicate-auth"
	CodeDuplicateScript     Code = "duplicate-script"
)

var AllCodes = []Code{
	CodeMissingHTTPMethod,
	CodeMissingMeta,
	CodeUnknownBlock,
	CodeInvalidMetaType,
	CodeInvalidSeq,
	CodeMissingMetaField,
	CodeInvalidURL,
	CodeInvalidHeader,
	CodeInvalidJSON,
	CodeEmptyVariable,
	CodeInvalidVariable,
	CodeDuplicateHTTPMethod,
	CodeDuplicateBlock,
	CodeDuplicateBody,
	CodeDuplicateAuth,
	CodeDuplicateScript,
}

func ParseCode(raw string) (Code, bool) {
	for _, code := range AllCodes {
		if string(code) == raw {
			return code, true
		}
	}
	return "", false
}

// Position is zero based. Character counts UTF-16 code units, as editors do.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func LineRange(line, startChar, endChar int) Range {
	return Range{
		Start: Position{Line: line, Character: startChar},
		End:   Position{Line: line, Character: endChar},
	}
}

type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

type RelatedInfo struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

type Diagnostic struct {
	Severity Severity      `json:"severity"`
	Range    Range         `json:"range"`
	Message  string        `json:"message"`
	Source   string        `json:"source"`
	Code     Code          `json:"code"`
	Related  []RelatedInfo `json:"relatedInformation,omitempty"`
}

// Block is one brace delimited region. EndLine is -1 while the block has no
// closing line. StartChar and EndChar anchor the name token in UTF-16 units.
type Block struct {
	Name      string
	Line      int
	EndLine   int
	StartChar int
	EndChar   int
}

func (b Block) NameRange() Range {
	return LineRange(b.Line, b.StartChar, b.EndChar)
}

func (b Block) Terminated() bool {
	return b.EndLine >= 0
}
